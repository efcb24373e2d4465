package reconstruct

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lanl/tardigrade-overlap-coupling-sub002/config"
)

func TestNewFromConfigDispatchesToDualContouring(t *testing.T) {
	e, err := NewFromConfig(config.Default())
	assert.Nil(t, err)
	assert.NotNil(t, e)
}

func TestNewFromConfigRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.DomainDiscretization = [3]int{0, 10, 10}
	_, err := NewFromConfig(cfg)
	assert.NotNil(t, err)
}

func TestNewFromConfigRejectsUnregisteredType(t *testing.T) {
	cfg := config.Default()
	cfg.Type = "unregistered"
	_, err := NewFromConfig(cfg)
	assert.NotNil(t, err)
}
