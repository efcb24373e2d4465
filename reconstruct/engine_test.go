package reconstruct

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lanl/tardigrade-overlap-coupling-sub002/config"
	v3 "github.com/lanl/tardigrade-overlap-coupling-sub002/vec/v3"
)

// deterministicCubeCloud samples n points per axis on a jittered
// lattice inside [-1,1]^3, giving a reproducible dense point cloud
// without relying on math/rand (kept out of this test for byte-stable
// repeatability across runs).
func deterministicCubeCloud(perAxis int) []v3.Vec {
	var pts []v3.Vec
	step := 2.0 / float64(perAxis-1)
	for i := 0; i < perAxis; i++ {
		for j := 0; j < perAxis; j++ {
			for k := 0; k < perAxis; k++ {
				x := -1 + step*float64(i)
				y := -1 + step*float64(j)
				z := -1 + step*float64(k)
				jitter := 0.01 * math.Sin(float64(i*37+j*17+k*7))
				pts = append(pts, v3.Vec{X: x + jitter, Y: y - jitter, Z: z + 0.5*jitter})
			}
		}
	}
	return pts
}

func TestEvaluateClassifiesCubeInterior(t *testing.T) {
	cfg := config.Default()
	cfg.DomainDiscretization = [3]int{6, 6, 6}
	e, err := New(cfg)
	assert.Nil(t, err)

	cloud := deterministicCubeCloud(6)
	everr := e.Evaluate(cloud, nil)
	assert.Nil(t, everr)

	hasInterior, hasBoundary := false, false
	for _, c := range e.CellClassification() {
		if c == Interior {
			hasInterior = true
		}
		if c == Boundary {
			hasBoundary = true
		}
	}
	assert.True(t, hasInterior)
	assert.True(t, hasBoundary)
	assert.Equal(t, len(e.BoundaryCellIDs()), len(e.BoundaryVertices()))
}

func TestVolumeIntegralApproximatesCubeVolume(t *testing.T) {
	cfg := config.Default()
	cfg.DomainDiscretization = [3]int{8, 8, 8}
	e, _ := New(cfg)
	cloud := deterministicCubeCloud(10)
	assert.Nil(t, e.Evaluate(cloud, nil))

	fn := make([]float64, len(cloud))
	for i := range fn {
		fn[i] = 1
	}
	vol, err := e.VolumeIntegral(fn, 1)
	assert.Nil(t, err)
	// Cube volume is 8; a coarse dual-contouring reconstruction on a
	// sparse cloud is expected to undershoot by roughly a grid-cell's
	// width, so allow a generous band around it.
	assert.InDelta(t, 8.0, vol[0], 4.0)
}

func TestSurfaceIntegralIsPositive(t *testing.T) {
	cfg := config.Default()
	cfg.DomainDiscretization = [3]int{8, 8, 8}
	e, _ := New(cfg)
	cloud := deterministicCubeCloud(10)
	assert.Nil(t, e.Evaluate(cloud, nil))

	fn := make([]float64, len(cloud))
	for i := range fn {
		fn[i] = 1
	}
	area, err := e.SurfaceIntegral(fn, 1)
	assert.Nil(t, err)
	assert.Greater(t, area[0], 0.0)
}

func TestBoundingPlaneClipsVertices(t *testing.T) {
	cfg := config.Default()
	cfg.DomainDiscretization = [3]int{6, 6, 6}
	cfg.BoundingPlanes = []config.BoundingPlane{
		{Point: v3.Vec{X: 0.5}, Normal: v3.Vec{X: 1}},
	}
	e, _ := New(cfg)
	cloud := deterministicCubeCloud(8)
	assert.Nil(t, e.Evaluate(cloud, nil))

	for _, v := range e.BoundaryVertices() {
		assert.LessOrEqual(t, v.X, 0.5+1e-9)
	}
}

func TestGetSurfaceSubdomainsPartitionsAllVertices(t *testing.T) {
	cfg := config.Default()
	cfg.DomainDiscretization = [3]int{6, 6, 6}
	e, _ := New(cfg)
	cloud := deterministicCubeCloud(8)
	assert.Nil(t, e.Evaluate(cloud, nil))

	sub := e.GetSurfaceSubdomains(0.05)
	total := 0
	for _, n := range sub.GroupSizes {
		total += n
	}
	assert.Equal(t, len(e.BoundaryVertices()), total)
	assert.Equal(t, len(e.BoundaryVertices()), len(sub.VertexIndices))
}

func TestInvalidConfigRejected(t *testing.T) {
	cfg := config.Default()
	cfg.DomainDiscretization = [3]int{0, 6, 6}
	_, err := New(cfg)
	assert.NotNil(t, err)
}
