package reconstruct

import (
	"github.com/lanl/tardigrade-overlap-coupling-sub002/config"
	"github.com/lanl/tardigrade-overlap-coupling-sub002/errs"
)

// constructor builds a reconstruction engine from a validated
// configuration. New reconstruction algorithms register one of these
// at init() instead of extending a polymorphic base type (design note:
// factory over polymorphic base).
type constructor func(config.Config) (*Engine, *errs.Error)

var registry = map[config.ReconstructionType]constructor{}

func register(kind config.ReconstructionType, c constructor) {
	registry[kind] = c
}

func init() {
	register(config.DualContouring, New)
}

// NewFromConfig dispatches to the constructor registered for
// cfg.Type, the tagged-variant alternative to an inheritance-based
// reconstructor hierarchy.
func NewFromConfig(cfg config.Config) (*Engine, *errs.Error) {
	if verr := cfg.Validate(); verr != nil {
		return nil, verr
	}
	ctor, ok := registry[cfg.Type]
	if !ok {
		return nil, errs.New("reconstruct.NewFromConfig", errs.KindConfig, "no reconstructor registered for type: "+string(cfg.Type))
	}
	return ctor(cfg)
}
