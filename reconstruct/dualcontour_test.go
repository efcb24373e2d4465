package reconstruct

import (
	"testing"

	"github.com/stretchr/testify/assert"

	v3 "github.com/lanl/tardigrade-overlap-coupling-sub002/vec/v3"
)

func residual(points []qefPoint, v v3.Vec) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Normal.Dot(v.Sub(p.Position))
	}
	return out
}

func TestQEFJacobianMatchesFiniteDifference(t *testing.T) {
	points := []qefPoint{
		{Normal: v3.Vec{X: 1}, Position: v3.Vec{X: 0.5}},
		{Normal: v3.Vec{Y: 1}, Position: v3.Vec{Y: 0.3}},
		{Normal: v3.Vec{X: 0.6, Y: 0.8}, Position: v3.Vec{X: 0.2, Y: 0.1}},
	}
	v0 := v3.Vec{X: 0.4, Y: 0.2, Z: 0.1}
	analytic := qefResidualJacobian(points)

	const h = 1e-6
	for comp := 0; comp < 3; comp++ {
		plus := v0
		minus := v0
		switch comp {
		case 0:
			plus.X += h
			minus.X -= h
		case 1:
			plus.Y += h
			minus.Y -= h
		case 2:
			plus.Z += h
			minus.Z -= h
		}
		rPlus := residual(points, plus)
		rMinus := residual(points, minus)
		for row := range points {
			fd := (rPlus[row] - rMinus[row]) / (2 * h)
			assert.InDelta(t, analytic[row][comp], fd, 1e-6)
		}
	}
}

func TestSolveQEFPlacesVertexAtIntersection(t *testing.T) {
	box := v3.Box{Min: v3.Vec{X: -1, Y: -1, Z: -1}, Max: v3.Vec{X: 1, Y: 1, Z: 1}}
	points := []qefPoint{
		{Normal: v3.Vec{X: 1}, Position: v3.Vec{X: 0.3}},
		{Normal: v3.Vec{Y: 1}, Position: v3.Vec{Y: 0.4}},
		{Normal: v3.Vec{Z: 1}, Position: v3.Vec{Z: -0.2}},
	}
	v, err := solveQEF(points, box, 1e-12, 1e-12)
	assert.Nil(t, err)
	assert.InDelta(t, 0.3, v.X, 1e-9)
	assert.InDelta(t, 0.4, v.Y, 1e-9)
	assert.InDelta(t, -0.2, v.Z, 1e-9)
}

func TestSolveQEFClampsToBox(t *testing.T) {
	box := v3.Box{Min: v3.Vec{X: -1, Y: -1, Z: -1}, Max: v3.Vec{X: 1, Y: 1, Z: 1}}
	points := []qefPoint{
		{Normal: v3.Vec{X: 1}, Position: v3.Vec{X: 5}},
		{Normal: v3.Vec{Y: 1}, Position: v3.Vec{Y: 0}},
		{Normal: v3.Vec{Z: 1}, Position: v3.Vec{Z: 0}},
	}
	v, err := solveQEF(points, box, 1e-12, 1e-12)
	assert.Nil(t, err)
	assert.LessOrEqual(t, v.X, 1.0+1e-9)
}

func TestSolveQEFNoActiveEdgesIsError(t *testing.T) {
	box := v3.Box{Min: v3.Vec{}, Max: v3.Vec{X: 1, Y: 1, Z: 1}}
	_, err := solveQEF(nil, box, 1e-12, 1e-12)
	assert.NotNil(t, err)
}
