// Package config parses and exports the reconstruction engine's YAML
// configuration. The input-file processor that reads the surrounding
// macroscale_definition/microscale_definition blocks is out of scope;
// this package only owns the keys the engine itself consumes.
package config

import (
	"gopkg.in/yaml.v3"

	"github.com/lanl/tardigrade-overlap-coupling-sub002/errs"
	v3vec "github.com/lanl/tardigrade-overlap-coupling-sub002/vec/v3"
)

// ElementType enumerates the background-grid cell types the
// reconstruction engine understands. Only Hex8 is implemented.
type ElementType string

// Hex8 is the only supported grid element type.
const Hex8 ElementType = "Hex8"

// ReconstructionType enumerates the reconstruction algorithms the
// factory knows how to build. Only DualContouring is implemented.
type ReconstructionType string

// DualContouring selects the dual-contouring reconstruction engine.
const DualContouring ReconstructionType = "dual_contouring"

// BoundingPlane clips the reconstruction to the half-space behind a
// plane defined by a point on the plane and an outward normal.
type BoundingPlane struct {
	Point  v3vec.Vec `yaml:"point"`
	Normal v3vec.Vec `yaml:"normal"`
}

// Config holds the reconstruction engine's YAML-recognized options.
// The optional local-element hull is not part of it; it is attached
// to an engine with Engine.SetLocalElement.
type Config struct {
	Type                       ReconstructionType `yaml:"type"`
	ElementType                ElementType        `yaml:"element_type"`
	IsosurfaceCutoff           float64            `yaml:"isosurface_cutoff"`
	DomainDiscretization       [3]int             `yaml:"domain_discretization"`
	ExteriorRelativeDelta      float64            `yaml:"exterior_relative_delta"`
	AbsoluteTolerance          float64            `yaml:"absolute_tolerance"`
	MinApproximationCount      int                `yaml:"min_approximation_count"`
	UseMaterialPointsForNormals bool              `yaml:"use_material_points_for_normals"`
	BoundingPlanes             []BoundingPlane    `yaml:"bounding_planes,omitempty"`
}

// Default returns a Config populated with the documented defaults.
func Default() Config {
	return Config{
		Type:                  DualContouring,
		ElementType:           Hex8,
		IsosurfaceCutoff:      0.5,
		DomainDiscretization:  [3]int{10, 10, 10},
		ExteriorRelativeDelta: 1e-3,
		AbsoluteTolerance:     1e-9,
		MinApproximationCount: 5,
	}
}

// Parse reads a YAML document into a Config, starting from Default()
// so unset keys keep their documented defaults, then validates it.
func Parse(data []byte) (Config, *errs.Error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errs.Wrap("config.Parse", errs.KindConfig, "malformed YAML configuration",
			errs.New("yaml", errs.KindConfig, err.Error()))
	}
	if verr := cfg.Validate(); verr != nil {
		return Config{}, verr
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot act on: an
// unknown type, an element type other than Hex8, a non-positive
// entry in domain_discretization (which would otherwise silently
// produce a degenerate grid), a non-positive isosurface_cutoff, or a
// non-positive min_approximation_count.
func (c Config) Validate() *errs.Error {
	if c.Type != DualContouring {
		return errs.New("config.Validate", errs.KindConfig, "unknown reconstruction type: "+string(c.Type))
	}
	if c.ElementType != Hex8 {
		return errs.New("config.Validate", errs.KindUnsupported, "unsupported element type: "+string(c.ElementType))
	}
	for _, n := range c.DomainDiscretization {
		if n <= 0 {
			return errs.New("config.Validate", errs.KindConfig, "domain_discretization must be strictly positive on every axis")
		}
	}
	if c.IsosurfaceCutoff <= 0 {
		return errs.New("config.Validate", errs.KindConfig, "isosurface_cutoff must be positive")
	}
	if c.MinApproximationCount <= 0 {
		return errs.New("config.Validate", errs.KindConfig, "min_approximation_count must be positive")
	}
	return nil
}

// Export reflects the active settings back to a YAML document, the
// engine's exportConfiguration() operation.
func (c Config) Export() ([]byte, *errs.Error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, errs.Wrap("config.Export", errs.KindConfig, "failed to marshal configuration",
			errs.New("yaml", errs.KindConfig, err.Error()))
	}
	return out, nil
}
