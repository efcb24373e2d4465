package dofproject

import (
	"testing"

	"github.com/stretchr/testify/assert"

	v3 "github.com/lanl/tardigrade-overlap-coupling-sub002/vec/v3"
)

func uniformNodalDOF(u v3.Vec, phi [9]float64) [8]MacroDOF {
	var out [8]MacroDOF
	for i := range out {
		out[i] = MacroDOF{U: u, Phi: phi}
	}
	return out
}

// equalShapeAtCOM returns 8 values summing to 1, standing in for a
// domain whose local center of mass maps to a known point; since the
// nodal DOF is uniform across the cell here, the actual shape values
// only need to sum to one for the interpolated (u, phi) to equal the
// uniform value exactly.
func equalShapeAtCOM() [8]float64 {
	return [8]float64{0.2, 0.1, 0.05, 0.05, 0.3, 0.1, 0.1, 0.1}
}

func TestMacroToMicroDisplacementMatchesAnalyticFormula(t *testing.T) {
	u := v3.Vec{X: 0.4802733, Y: 0.63413557, Z: 0.47580155}
	phi := [9]float64{
		0.24395441, 0.46860497, 0.43078742,
		0.61868352, 0.46794329, 0.66017423,
		0.58630018, 0.55379286, 0.50449636,
	}
	nodal := uniformNodalDOF(u, phi)
	shape := equalShapeAtCOM()

	indices := []int{53, 28, 63, 97, 93, 90, 8, 5, 0, 62}
	xi := []v3.Vec{
		{X: 0.1, Y: 0.2, Z: 0.3},
		{X: -0.1, Y: 0.4, Z: 0.2},
		{X: 0.3, Y: -0.2, Z: 0.1},
		{X: 0.05, Y: 0.05, Z: 0.05},
		{X: -0.3, Y: -0.1, Z: 0.2},
		{X: 0.2, Y: 0.3, Z: -0.4},
		{X: 0.15, Y: -0.25, Z: 0.35},
		{X: -0.2, Y: 0.2, Z: -0.2},
		{X: 0.4, Y: 0.1, Z: -0.1},
		{X: -0.15, Y: -0.15, Z: 0.3},
	}
	weights := []float64{1, 0.5, 1, 1, 0.25, 1, 0.75, 1, 1, 0.6}

	buf := make([]float64, 300)
	err := MacroToMicroDisplacement(MacroToMicroInputs{
		MicroIndices: indices,
		Xi:           xi,
		Weights:      weights,
		NodalDOF:     nodal,
		ShapeAtCOM:   shape,
	}, buf)
	assert.Nil(t, err)

	dof := InterpolateDOF(shape, nodal)
	for i, idx := range indices {
		q := dof.U.Add(dof.ApplyPhi(xi[i])).MulScalar(weights[i])
		assert.InDelta(t, q.X, buf[3*idx+0], 1e-9)
		assert.InDelta(t, q.Y, buf[3*idx+1], 1e-9)
		assert.InDelta(t, q.Z, buf[3*idx+2], 1e-9)
	}
}

func TestMacroToMicroDisplacementAccumulatesAcrossDomains(t *testing.T) {
	u1 := v3.Vec{X: 1}
	u2 := v3.Vec{X: 2}
	shape := equalShapeAtCOM()
	buf := make([]float64, 3)

	err1 := MacroToMicroDisplacement(MacroToMicroInputs{
		MicroIndices: []int{0}, Xi: []v3.Vec{{}}, Weights: []float64{0.5},
		NodalDOF: uniformNodalDOF(u1, [9]float64{}), ShapeAtCOM: shape,
	}, buf)
	err2 := MacroToMicroDisplacement(MacroToMicroInputs{
		MicroIndices: []int{0}, Xi: []v3.Vec{{}}, Weights: []float64{0.5},
		NodalDOF: uniformNodalDOF(u2, [9]float64{}), ShapeAtCOM: shape,
	}, buf)
	assert.Nil(t, err1)
	assert.Nil(t, err2)
	assert.InDelta(t, 1.5, buf[0], 1e-12) // 0.5*1 + 0.5*2
}

func TestMacroToMicroDisplacementShapeMismatch(t *testing.T) {
	buf := make([]float64, 30)
	err := MacroToMicroDisplacement(MacroToMicroInputs{
		MicroIndices: []int{0, 1}, Xi: []v3.Vec{{}}, Weights: []float64{1, 1},
	}, buf)
	assert.NotNil(t, err)
}

func TestMacroToMicroDisplacementLocalIndexMap(t *testing.T) {
	buf := make([]float64, 6)
	err := MacroToMicroDisplacement(MacroToMicroInputs{
		MicroIndices: []int{100}, Xi: []v3.Vec{{}}, Weights: []float64{1},
		NodalDOF:   uniformNodalDOF(v3.Vec{X: 1}, [9]float64{}),
		ShapeAtCOM: equalShapeAtCOM(),
		LocalIndex: LocalIndexMap{100: 1},
	}, buf)
	assert.Nil(t, err)
	assert.InDelta(t, 1.0, buf[3], 1e-12)
	assert.InDelta(t, 0.0, buf[0], 1e-12)
}

func TestMacroToMicroDisplacementSkipsUnmappedIndex(t *testing.T) {
	buf := make([]float64, 3)
	err := MacroToMicroDisplacement(MacroToMicroInputs{
		MicroIndices: []int{5}, Xi: []v3.Vec{{}}, Weights: []float64{1},
		NodalDOF:   uniformNodalDOF(v3.Vec{X: 1}, [9]float64{}),
		ShapeAtCOM: equalShapeAtCOM(),
		LocalIndex: LocalIndexMap{1: 0}, // 5 is not in the map
	}, buf)
	assert.Nil(t, err)
	assert.InDelta(t, 0.0, buf[0], 1e-12)
}
