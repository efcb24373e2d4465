package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.Nil(t, cfg.Validate())
}

func TestParseAppliesDefaultsToUnsetKeys(t *testing.T) {
	cfg, err := Parse([]byte("isosurface_cutoff: 0.75\n"))
	assert.Nil(t, err)
	assert.InDelta(t, 0.75, cfg.IsosurfaceCutoff, 1e-12)
	assert.Equal(t, Default().DomainDiscretization, cfg.DomainDiscretization)
	assert.Equal(t, DualContouring, cfg.Type)
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("isosurface_cutoff: [this is not a float\n"))
	assert.NotNil(t, err)
}

func TestValidateRejectsUnknownType(t *testing.T) {
	cfg := Default()
	cfg.Type = "marching_cubes"
	assert.NotNil(t, cfg.Validate())
}

func TestValidateRejectsNonHex8Element(t *testing.T) {
	cfg := Default()
	cfg.ElementType = "Tet4"
	assert.NotNil(t, cfg.Validate())
}

func TestValidateRejectsZeroDiscretization(t *testing.T) {
	cfg := Default()
	cfg.DomainDiscretization = [3]int{10, 0, 10}
	assert.NotNil(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveCutoff(t *testing.T) {
	cfg := Default()
	cfg.IsosurfaceCutoff = 0
	assert.NotNil(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveMinApproximationCount(t *testing.T) {
	cfg := Default()
	cfg.MinApproximationCount = 0
	assert.NotNil(t, cfg.Validate())
}

func TestExportRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.IsosurfaceCutoff = 0.42

	data, err := cfg.Export()
	assert.Nil(t, err)

	parsed, perr := Parse(data)
	assert.Nil(t, perr)
	assert.InDelta(t, 0.42, parsed.IsosurfaceCutoff, 1e-12)
	assert.Equal(t, cfg.DomainDiscretization, parsed.DomainDiscretization)
}
