// Package reconstruct implements the volume-reconstruction engine: a
// dual-contouring surface extractor over a point cloud, plus the
// volume, surface, and surface-flux integrals evaluated against the
// extracted boundary mesh.
package reconstruct

import (
	"github.com/lanl/tardigrade-overlap-coupling-sub002/config"
	v3 "github.com/lanl/tardigrade-overlap-coupling-sub002/vec/v3"
	"github.com/lanl/tardigrade-overlap-coupling-sub002/vec/v3i"
)

// Grid is a regular axis-aligned background grid of hex8 cells
// covering the point cloud's bounding box, inflated by a small
// relative exterior margin so every material point lies strictly
// inside the grid.
type Grid struct {
	Lower, Upper v3.Vec // inflated bounding box
	Dims         v3i.Vec // cells per axis
	axisCoord    [3][]float64
}

// NewGrid derives node coordinates on each axis from the cloud's
// bounding box and the configured discretization.
func NewGrid(cloud []v3.Vec, dims v3i.Vec, exteriorRelativeDelta float64) Grid {
	lower, upper := boundingBox(cloud)
	extent := upper.Sub(lower)
	margin := v3.Vec{
		X: extent.X * exteriorRelativeDelta,
		Y: extent.Y * exteriorRelativeDelta,
		Z: extent.Z * exteriorRelativeDelta,
	}
	lower = lower.Sub(margin)
	upper = upper.Add(margin)

	g := Grid{Lower: lower, Upper: upper, Dims: dims}
	g.axisCoord[0] = axisNodes(lower.X, upper.X, dims.X)
	g.axisCoord[1] = axisNodes(lower.Y, upper.Y, dims.Y)
	g.axisCoord[2] = axisNodes(lower.Z, upper.Z, dims.Z)
	return g
}

func boundingBox(points []v3.Vec) (v3.Vec, v3.Vec) {
	lower, upper := points[0], points[0]
	for _, p := range points[1:] {
		lower = lower.MinElem(p)
		upper = upper.MaxElem(p)
	}
	return lower, upper
}

func axisNodes(lo, hi float64, n int) []float64 {
	coords := make([]float64, n+1)
	step := (hi - lo) / float64(n)
	for i := 0; i <= n; i++ {
		coords[i] = lo + step*float64(i)
	}
	return coords
}

// NodeCount returns the total number of grid nodes.
func (g Grid) NodeCount() int {
	return (g.Dims.X + 1) * (g.Dims.Y + 1) * (g.Dims.Z + 1)
}

// CellCount returns the total number of grid cells.
func (g Grid) CellCount() int {
	return g.Dims.Volume()
}

// NodeIndex returns the lexicographic node index for node coordinates
// (i, j, k), 0 <= i <= Dims.X etc.
func (g Grid) NodeIndex(i, j, k int) int {
	ny, nz := g.Dims.Y+1, g.Dims.Z+1
	return (i*ny+j)*nz + k
}

// CellIndex returns the lexicographic cell index for cell coordinates
// (i, j, k), 0 <= i < Dims.X etc.
func (g Grid) CellIndex(i, j, k int) int {
	ny, nz := g.Dims.Y, g.Dims.Z
	return (i*ny+j)*nz + k
}

// CellCoord returns the (i, j, k) cell coordinate for a lexicographic
// cell index.
func (g Grid) CellCoord(cell int) (int, int, int) {
	ny, nz := g.Dims.Y, g.Dims.Z
	k := cell % nz
	rest := cell / nz
	j := rest % ny
	i := rest / ny
	return i, j, k
}

// NodePosition returns the 3-D position of grid node (i, j, k).
func (g Grid) NodePosition(i, j, k int) v3.Vec {
	return v3.Vec{X: g.axisCoord[0][i], Y: g.axisCoord[1][j], Z: g.axisCoord[2][k]}
}

// cellNodeOffsets are the 8 corner offsets in Hex8 node order.
var cellNodeOffsets = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}

// CellNodeIndices returns the 8 global node indices of cell (i, j, k)
// in Hex8 node order.
func (g Grid) CellNodeIndices(i, j, k int) [8]int {
	var out [8]int
	for n, off := range cellNodeOffsets {
		out[n] = g.NodeIndex(i+off[0], j+off[1], k+off[2])
	}
	return out
}

// CellNodeCoords returns the 8 corner positions of cell (i, j, k) in
// Hex8 node order, suitable for fe.Hex8 interpolation.
func (g Grid) CellNodeCoords(i, j, k int) [8]v3.Vec {
	var out [8]v3.Vec
	for n, off := range cellNodeOffsets {
		out[n] = g.NodePosition(i+off[0], j+off[1], k+off[2])
	}
	return out
}

// CellAABB returns the axis-aligned bounding box of cell (i, j, k).
func (g Grid) CellAABB(i, j, k int) v3.Box {
	lo := g.NodePosition(i, j, k)
	hi := g.NodePosition(i+1, j+1, k+1)
	return v3.Box{Min: lo, Max: hi}
}

// spacing returns the per-axis cell width.
func (g Grid) spacing() v3.Vec {
	ext := g.Upper.Sub(g.Lower)
	return v3.Vec{
		X: ext.X / float64(g.Dims.X),
		Y: ext.Y / float64(g.Dims.Y),
		Z: ext.Z / float64(g.Dims.Z),
	}
}

// gridFromConfig is a convenience constructor used by the engine.
func gridFromConfig(cloud []v3.Vec, cfg config.Config) Grid {
	dims := v3i.Vec{X: cfg.DomainDiscretization[0], Y: cfg.DomainDiscretization[1], Z: cfg.DomainDiscretization[2]}
	return NewGrid(cloud, dims, cfg.ExteriorRelativeDelta)
}
