package reconstruct

import (
	"github.com/lanl/tardigrade-overlap-coupling-sub002/errs"
	"github.com/lanl/tardigrade-overlap-coupling-sub002/geom"
	v3 "github.com/lanl/tardigrade-overlap-coupling-sub002/vec/v3"
)

// cellFaceCorners lists the 6 faces of a Hex8 cell as ordered planar
// 4-corner index loops around each face's perimeter, in the node
// ordering used throughout this package. The winding direction is not
// the same for every face; cellVolumeByTets does not depend on it,
// since GetTetVolume returns an unsigned volume.
var cellFaceCorners = [6][4]int{
	{0, 1, 2, 3}, // -Z face
	{4, 5, 6, 7}, // +Z face
	{0, 1, 5, 4}, // -Y face
	{3, 2, 6, 7}, // +Y face
	{0, 3, 7, 4}, // -X face
	{1, 2, 6, 5}, // +X face
}

// cellVolumeByTets decomposes a hex cell into tetrahedra fanned from
// its centroid across each of its 6 faces and sums their exact
// volumes.
func cellVolumeByTets(coords [8]v3.Vec) float64 {
	centroid := geom.Centroid(coords[:])
	var vol float64
	for _, face := range cellFaceCorners {
		nodes := []v3.Vec{coords[face[0]], coords[face[1]], coords[face[2]], coords[face[3]]}
		for _, tet := range geom.GetTets(centroid, nodes) {
			vol += geom.GetTetVolume(tet)
		}
	}
	return vol
}

// insideFraction estimates the fraction of a boundary cell's volume
// lying inside the material, from the count of corners below tau.
// This stands in for an exact clipped-polyhedron volume (the
// reconstruction keeps only one vertex per boundary cell and no
// explicit face connectivity, so the clipped polyhedron itself is not
// reconstructed); it is exact in the limit where the isosurface
// passes through the cell roughly symmetrically, and its error is
// bounded by one grid cell's volume.
func insideFraction(corners [8]float64, tau float64) float64 {
	inside := 0
	for _, v := range corners {
		if v < tau {
			inside++
		}
	}
	return float64(inside) / 8.0
}

// interpolateAtPoint does inverse-distance interpolation of a
// per-point, componentCount-wide function array from the nearby
// material points found via a radius query scaled by rbar.
func (e *Engine) interpolateAtPoint(x v3.Vec, fn []float64, componentCount int) []float64 {
	radius := 2 * e.rbar
	if radius <= 0 {
		radius = 1
	}
	nearby := e.tree.Radius(x, radius)
	out := make([]float64, componentCount)
	if len(nearby) == 0 {
		// fall back to nearest point
		nearby = e.tree.KNearest(x, 1, -1)
	}
	var den float64
	for _, idx := range nearby {
		d := e.tree.Points[idx].Sub(x).Length()
		w := 1.0 / (d + e.cfg.AbsoluteTolerance)
		den += w
		for c := 0; c < componentCount; c++ {
			out[c] += w * fn[idx*componentCount+c]
		}
	}
	if den == 0 {
		return out
	}
	for c := range out {
		out[c] /= den
	}
	return out
}

func (e *Engine) cellGeometry(cell int) (coords [8]v3.Vec, corners [8]float64, center v3.Vec) {
	i, j, k := e.grid.CellCoord(cell)
	coords = e.grid.CellNodeCoords(i, j, k)
	idx := e.grid.CellNodeIndices(i, j, k)
	for n, gi := range idx {
		corners[n] = e.f[gi]
	}
	center = geom.Centroid(coords[:])
	return
}

// VolumeIntegral evaluates the integral over the reconstructed domain
// of a per-point, componentCount-wide function array, via cell-wise
// tet-decomposition quadrature.
func (e *Engine) VolumeIntegral(fn []float64, componentCount int) ([]float64, *errs.Error) {
	if len(fn) != len(e.cloud)*componentCount {
		return nil, errs.New("reconstruct.Engine.VolumeIntegral", errs.KindShapeMismatch, "function array length does not match point count * componentCount")
	}
	out := make([]float64, componentCount)
	tau := e.cfg.IsosurfaceCutoff
	for cell := 0; cell < e.grid.CellCount(); cell++ {
		class := e.classes[cell]
		if class == Exterior {
			continue
		}
		coords, corners, center := e.cellGeometry(cell)
		vol := cellVolumeByTets(coords)
		if class == Boundary {
			vol *= insideFraction(corners, tau)
		}
		values := e.interpolateAtPoint(center, fn, componentCount)
		for c := 0; c < componentCount; c++ {
			out[c] += vol * values[c]
		}
	}
	return out, nil
}

// RelativePositionVolumeIntegral evaluates the integral over the
// domain of (x - origin) (x) fn dV, returned as componentCount*3
// values (each function component contracted against the 3
// relative-position directions).
func (e *Engine) RelativePositionVolumeIntegral(fn []float64, componentCount int, origin v3.Vec) ([]float64, *errs.Error) {
	if len(fn) != len(e.cloud)*componentCount {
		return nil, errs.New("reconstruct.Engine.RelativePositionVolumeIntegral", errs.KindShapeMismatch, "function array length does not match point count * componentCount")
	}
	out := make([]float64, componentCount*3)
	tau := e.cfg.IsosurfaceCutoff
	for cell := 0; cell < e.grid.CellCount(); cell++ {
		class := e.classes[cell]
		if class == Exterior {
			continue
		}
		coords, corners, center := e.cellGeometry(cell)
		vol := cellVolumeByTets(coords)
		if class == Boundary {
			vol *= insideFraction(corners, tau)
		}
		values := e.interpolateAtPoint(center, fn, componentCount)
		rel := center.Sub(origin)
		relArr := [3]float64{rel.X, rel.Y, rel.Z}
		for c := 0; c < componentCount; c++ {
			for d := 0; d < 3; d++ {
				out[c*3+d] += vol * values[c] * relArr[d]
			}
		}
	}
	return out, nil
}

// patchArea estimates a boundary cell's local surface-patch area as
// the average of its three pairs of face areas, a single-point
// proxy for the true dual-contouring quad mesh (which would need the
// 4-cell edge adjacency this engine does not retain).
func patchArea(grid Grid) float64 {
	s := grid.spacing()
	return (s.X*s.Y + s.Y*s.Z + s.Z*s.X) / 3.0
}

// SurfaceIntegral evaluates the integral over the reconstructed
// boundary of a per-point, componentCount-wide function array.
func (e *Engine) SurfaceIntegral(fn []float64, componentCount int) ([]float64, *errs.Error) {
	if len(fn) != len(e.cloud)*componentCount {
		return nil, errs.New("reconstruct.Engine.SurfaceIntegral", errs.KindShapeMismatch, "function array length does not match point count * componentCount")
	}
	out := make([]float64, componentCount)
	area := patchArea(e.grid)
	for _, v := range e.boundaryVertices {
		values := e.interpolateAtPoint(v, fn, componentCount)
		for c := 0; c < componentCount; c++ {
			out[c] += area * values[c]
		}
	}
	return out, nil
}

// PositionWeightedSurfaceIntegral evaluates the integral of fn*x over
// the boundary, returned as componentCount*3 values.
func (e *Engine) PositionWeightedSurfaceIntegral(fn []float64, componentCount int) ([]float64, *errs.Error) {
	if len(fn) != len(e.cloud)*componentCount {
		return nil, errs.New("reconstruct.Engine.PositionWeightedSurfaceIntegral", errs.KindShapeMismatch, "function array length does not match point count * componentCount")
	}
	out := make([]float64, componentCount*3)
	area := patchArea(e.grid)
	for _, v := range e.boundaryVertices {
		values := e.interpolateAtPoint(v, fn, componentCount)
		pos := [3]float64{v.X, v.Y, v.Z}
		for c := 0; c < componentCount; c++ {
			for d := 0; d < 3; d++ {
				out[c*3+d] += area * values[c] * pos[d]
			}
		}
	}
	return out, nil
}

// boundaryNormal recomputes the outward normal at a boundary vertex
// from f's gradient at the owning cell's corner node (i, j, k), the
// cell's lowest-index node, whichever corner the vertex is closest to.
func (e *Engine) boundaryNormal(cell int) v3.Vec {
	i, j, k := e.grid.CellCoord(cell)
	g := gradient(e.grid, e.f, i, j, k)
	if g.Length() == 0 {
		return v3.Vec{Z: 1}
	}
	return g.MulScalar(1 / g.Length())
}

// applySymmetricTensor applies a caller-supplied rank-2 flux field
// (6 Voigt components: 11,22,33,23,13,12) to a normal vector, n . T.
func applySymmetricTensor(t [6]float64, n v3.Vec) v3.Vec {
	return v3.Vec{
		X: t[0]*n.X + t[5]*n.Y + t[4]*n.Z,
		Y: t[5]*n.X + t[1]*n.Y + t[3]*n.Z,
		Z: t[4]*n.X + t[3]*n.Y + t[2]*n.Z,
	}
}

// SurfaceFluxIntegral evaluates the integral over the boundary of
// fn . n dS. When componentCount == 6, fn is interpreted as a
// symmetric 3x3 tensor (Voigt order 11,22,33,23,13,12) contracted with
// the outward normal before integration; otherwise fn is taken as a
// componentCount/3-wide stack of vectors dotted with n.
func (e *Engine) SurfaceFluxIntegral(fn []float64, componentCount int) ([]float64, *errs.Error) {
	if len(fn) != len(e.cloud)*componentCount {
		return nil, errs.New("reconstruct.Engine.SurfaceFluxIntegral", errs.KindShapeMismatch, "function array length does not match point count * componentCount")
	}
	area := patchArea(e.grid)

	if componentCount == 6 {
		out := make([]float64, 3)
		for idx, cell := range e.boundaryCells {
			v := e.boundaryVertices[idx]
			values := e.interpolateAtPoint(v, fn, componentCount)
			var t [6]float64
			copy(t[:], values)
			n := e.boundaryNormal(cell)
			flux := applySymmetricTensor(t, n)
			out[0] += area * flux.X
			out[1] += area * flux.Y
			out[2] += area * flux.Z
		}
		return out, nil
	}

	if componentCount%3 != 0 {
		return nil, errs.New("reconstruct.Engine.SurfaceFluxIntegral", errs.KindShapeMismatch,
			"componentCount must be 6 (symmetric tensor) or a multiple of 3 (vector stack)")
	}
	nVec := componentCount / 3
	out := make([]float64, nVec)
	for idx, cell := range e.boundaryCells {
		v := e.boundaryVertices[idx]
		values := e.interpolateAtPoint(v, fn, componentCount)
		n := e.boundaryNormal(cell)
		for k := 0; k < nVec; k++ {
			vec := v3.Vec{X: values[3*k], Y: values[3*k+1], Z: values[3*k+2]}
			out[k] += area * vec.Dot(n)
		}
	}
	return out, nil
}

// RelativePositionSurfaceFluxIntegral evaluates the integral of
// (x - origin) (x) (fn . n) dS, returned as len(fluxResult)*3 values
// where fluxResult is what SurfaceFluxIntegral would return.
func (e *Engine) RelativePositionSurfaceFluxIntegral(fn []float64, componentCount int, origin v3.Vec) ([]float64, *errs.Error) {
	if len(fn) != len(e.cloud)*componentCount {
		return nil, errs.New("reconstruct.Engine.RelativePositionSurfaceFluxIntegral", errs.KindShapeMismatch, "function array length does not match point count * componentCount")
	}
	area := patchArea(e.grid)

	fluxAt := func(values []float64, n v3.Vec) []float64 {
		if componentCount == 6 {
			var t [6]float64
			copy(t[:], values)
			fv := applySymmetricTensor(t, n)
			return []float64{fv.X, fv.Y, fv.Z}
		}
		nVec := componentCount / 3
		out := make([]float64, nVec)
		for k := 0; k < nVec; k++ {
			vec := v3.Vec{X: values[3*k], Y: values[3*k+1], Z: values[3*k+2]}
			out[k] = vec.Dot(n)
		}
		return out
	}

	var width int
	if componentCount == 6 {
		width = 3
	} else {
		width = componentCount / 3
	}
	out := make([]float64, width*3)
	for idx, cell := range e.boundaryCells {
		v := e.boundaryVertices[idx]
		values := e.interpolateAtPoint(v, fn, componentCount)
		n := e.boundaryNormal(cell)
		flux := fluxAt(values, n)
		rel := v.Sub(origin)
		relArr := [3]float64{rel.X, rel.Y, rel.Z}
		for c := 0; c < width; c++ {
			for d := 0; d < 3; d++ {
				out[c*3+d] += area * flux[c] * relArr[d]
			}
		}
	}
	return out, nil
}
