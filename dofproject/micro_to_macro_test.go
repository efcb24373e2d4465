package dofproject

import (
	"testing"

	"github.com/stretchr/testify/assert"

	v3 "github.com/lanl/tardigrade-overlap-coupling-sub002/vec/v3"
)

func samplePoints() []DomainMicroPoint {
	return []DomainMicroPoint{
		{Shape: [8]float64{1, 0, 0, 0, 0, 0, 0, 0}, Weight: 1, Xi: v3.Vec{X: 0.1, Y: 0.2, Z: 0.3}, U: v3.Vec{X: 0.01}},
		{Shape: [8]float64{0, 1, 0, 0, 0, 0, 0, 0}, Weight: 0.5, Xi: v3.Vec{X: -0.2, Y: 0.1, Z: 0.05}, U: v3.Vec{Y: 0.02}},
		{Shape: [8]float64{0.5, 0.5, 0, 0, 0, 0, 0, 0}, Weight: 1, Xi: v3.Vec{X: 0.3, Y: -0.1, Z: 0.2}, U: v3.Vec{Z: 0.03}},
	}
}

// TestMassVariantsAgreeWhenMassEqualsVolumeTimesDensity pins down that
// the two mass-accumulator entry points must agree whenever
// mass = volume*density.
func TestMassVariantsAgreeWhenMassEqualsVolumeTimesDensity(t *testing.T) {
	points := samplePoints()
	volume := []float64{2.0, 1.5, 0.5}
	density := []float64{1.1, 0.9, 2.0}
	mass := make([]float64, len(points))
	for i := range points {
		mass[i] = volume[i] * density[i]
	}

	flags := Flags{Mass: true, Inertia: true, Constant: true, Displacement: true, DisplacementPosition: true}

	var accMass, accVD MacroMassAccumulator
	err1 := AddDomainMicroContributionToMacroMassFromMass(points, mass, flags, &accMass)
	err2 := AddDomainMicroContributionToMacroMassFromVolumeDensity(points, volume, density, flags, &accVD)
	assert.Nil(t, err1)
	assert.Nil(t, err2)
	assert.Equal(t, accMass, accVD)
}

func TestAccumulateMicroToMacroRespectsFlags(t *testing.T) {
	var acc MacroMassAccumulator
	AccumulateMicroToMacro(MicroPointContribution{
		Shape: [8]float64{1}, Weight: 1, Mass: 2, Xi: v3.Vec{X: 1},
	}, Flags{Mass: true}, &acc)
	assert.InDelta(t, 2.0, acc.Mass[0], 1e-12)
	assert.Equal(t, [9]float64{}, acc.Inertia[0])
}

func TestDomainMomentOfInertiaAndCenterOfMass(t *testing.T) {
	positions := []v3.Vec{{X: -1}, {X: 1}}
	weights := []float64{1, 1}
	mass := []float64{1, 1}

	cm, err := CenterOfMass(positions, weights, mass)
	assert.Nil(t, err)
	assert.InDelta(t, 0.0, cm.X, 1e-12)

	xi := DomainXi(positions, cm)
	inertia, ierr := DomainMomentOfInertia(xi, weights, mass)
	assert.Nil(t, ierr)
	// I_xx = sum(w*m*xi_x^2) = 1 + 1 = 2.
	assert.InDelta(t, 2.0, inertia[0], 1e-12)
}

func TestCenterOfMassZeroMassIsError(t *testing.T) {
	_, err := CenterOfMass([]v3.Vec{{}}, []float64{0}, []float64{1})
	assert.NotNil(t, err)
}
