package reconstruct

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lanl/tardigrade-overlap-coupling-sub002/kdtree"
	v3 "github.com/lanl/tardigrade-overlap-coupling-sub002/vec/v3"
)

func TestOccupancyExponentHalfFullLandsOnTau(t *testing.T) {
	tau := 0.5
	p := occupancyExponent(tau)
	f := outsideValue * math.Pow(1-0.5, p)
	assert.InDelta(t, tau, f, 1e-9)
}

func TestImplicitFunctionLowAtDenseClusterCenter(t *testing.T) {
	cloud := deterministicCubeCloud(8)
	tree := kdtree.Build(cloud)
	tau := 0.5

	rbar := medianNeighbourDistance(tree, 5)
	f := implicitFunction(gridOfOne(v3.Vec{}), tree, nil, rbar, tau, 1e-9)

	assert.Less(t, f[0], tau)
}

func TestImplicitFunctionHighFarFromCloud(t *testing.T) {
	cloud := deterministicCubeCloud(8)
	tree := kdtree.Build(cloud)
	tau := 0.5

	rbar := medianNeighbourDistance(tree, 5)
	far := v3.Vec{X: 1000, Y: 1000, Z: 1000}
	f := implicitFunction(gridOfOne(far), tree, nil, rbar, tau, 1e-9)

	assert.InDelta(t, outsideValue, f[0], 1e-9)
	assert.Greater(t, f[0], tau)
}

// gridOfOne builds a degenerate single-node grid at center so
// implicitFunction can be exercised directly at a chosen evaluation
// point without going through the full engine pipeline.
func gridOfOne(center v3.Vec) Grid {
	g := Grid{Lower: center, Upper: center.Add(v3.Vec{X: 1, Y: 1, Z: 1})}
	g.Dims.X, g.Dims.Y, g.Dims.Z = 0, 0, 0
	g.axisCoord[0] = []float64{center.X}
	g.axisCoord[1] = []float64{center.Y}
	g.axisCoord[2] = []float64{center.Z}
	return g
}
