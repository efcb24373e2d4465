package reconstruct

import (
	"math"
	"sort"

	"github.com/lanl/tardigrade-overlap-coupling-sub002/kdtree"
	v3 "github.com/lanl/tardigrade-overlap-coupling-sub002/vec/v3"
)

// outsideValue is the f value assigned to grid nodes with no material
// points in range; it must be strictly above any plausible cutoff tau
// so empty cells remain classified exterior.
const outsideValue = 10.0

// neighbourDistances returns, for every point in the cloud, the median
// distance to its k nearest neighbours.
func neighbourDistances(tree *kdtree.Tree, k int) []float64 {
	points := tree.Points
	out := make([]float64, len(points))
	for i, p := range points {
		neighbours := tree.KNearest(p, k, i)
		dists := make([]float64, len(neighbours))
		for j, idx := range neighbours {
			dists[j] = points[idx].Sub(p).Length()
		}
		out[i] = median(dists)
	}
	return out
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return 0.5 * (sorted[n/2-1] + sorted[n/2])
}

// medianNeighbourDistance is the global statistic r-bar: the median,
// over all points, of each point's median-neighbour distance.
func medianNeighbourDistance(tree *kdtree.Tree, k int) float64 {
	return median(neighbourDistances(tree, k))
}

// referenceDensity is the typical total inverse-distance weight a
// material point receives from its own neighbours within radius,
// taken as the median over the whole cloud. Grid nodes compare their
// own weight sum against this to judge how fully their neighbourhood
// is occupied, which is what turns implicitFunction into an occupancy
// measure rather than a plain average of the caller's per-point
// function.
func referenceDensity(tree *kdtree.Tree, radius, absoluteTolerance float64) float64 {
	points := tree.Points
	weights := make([]float64, len(points))
	for i, p := range points {
		nearby := tree.Radius(p, radius)
		var den float64
		for _, idx := range nearby {
			if idx == i {
				continue
			}
			d := points[idx].Sub(p).Length()
			den += 1.0 / (d + absoluteTolerance)
		}
		weights[i] = den
	}
	return median(weights)
}

// occupancyExponent picks the power p in f = outsideValue*(1-filled)^p
// so that a neighbourhood exactly half as full as a typical cloud
// point's neighbourhood (filled == 0.5, the expected reading right at
// a locally flat material boundary, since a bisecting plane halves an
// isotropic neighbourhood's total inverse-distance weight) lands
// exactly on tau. Without this, tau would be an arbitrary level with no
// relationship to the geometry the occupancy field is meant to encode.
func occupancyExponent(tau float64) float64 {
	ratio := tau / outsideValue
	if ratio <= 0 {
		ratio = 1e-6
	}
	if ratio >= 1 {
		ratio = 1 - 1e-6
	}
	return math.Log(ratio) / math.Log(0.5)
}

// implicitFunction evaluates f at every node of grid. A node's weight
// sum den, from material points found within an influence radius
// scaled by rbar, is compared against referenceDensity to get an
// occupancy fraction in [0, 1]: 1 where the node's neighbourhood is as
// full as a typical cloud point's, 0 where it is empty. Occupancy is
// further scaled by the caller's per-point function (default 1) into
// filled, and f = outsideValue*(1-filled)^p via occupancyExponent, so
// a node deep inside a dense cloud falls near zero and crosses below
// tau, a node right at the material boundary lands close to tau, and
// nodes with no points in range, or far too few to compare, stay at or
// near outsideValue and keep their owning cells classified exterior.
func implicitFunction(grid Grid, tree *kdtree.Tree, pointFunction []float64, rbar, tau, absoluteTolerance float64) []float64 {
	radius := 2 * rbar
	if radius <= 0 {
		radius = 1
	}
	denRef := referenceDensity(tree, radius, absoluteTolerance)
	exponent := occupancyExponent(tau)

	nx, ny, nz := grid.Dims.X+1, grid.Dims.Y+1, grid.Dims.Z+1
	f := make([]float64, nx*ny*nz)

	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				node := grid.NodePosition(i, j, k)
				nearby := tree.Radius(node, radius)
				idx := grid.NodeIndex(i, j, k)
				if len(nearby) == 0 {
					f[idx] = outsideValue
					continue
				}
				var num, den float64
				for _, pidx := range nearby {
					d := tree.Points[pidx].Sub(node).Length()
					w := 1.0 / (d + absoluteTolerance)
					fv := 1.0
					if pointFunction != nil {
						fv = pointFunction[pidx]
					}
					num += w * fv
					den += w
				}
				if den == 0 {
					f[idx] = outsideValue
					continue
				}
				fvAvg := num / den
				occupancy := 1.0
				if denRef > 0 {
					occupancy = den / denRef
					if occupancy > 1 {
						occupancy = 1
					}
				}
				filled := occupancy * fvAvg
				if filled < 0 {
					filled = 0
				}
				if filled > 1 {
					filled = 1
				}
				f[idx] = outsideValue * math.Pow(1-filled, exponent)
			}
		}
	}
	return f
}

// gradient computes the central-difference gradient of f at grid node
// (i, j, k), used as a fallback surface normal when material-point
// normals are not requested.
func gradient(grid Grid, f []float64, i, j, k int) v3.Vec {
	nx, ny, nz := grid.Dims.X+1, grid.Dims.Y+1, grid.Dims.Z+1
	spacing := grid.spacing()

	dfdx := centralDiff(f, grid.NodeIndex(max(i-1, 0), j, k), grid.NodeIndex(min(i+1, nx-1), j, k), spacing.X, i, nx)
	dfdy := centralDiff(f, grid.NodeIndex(i, max(j-1, 0), k), grid.NodeIndex(i, min(j+1, ny-1), k), spacing.Y, j, ny)
	dfdz := centralDiff(f, grid.NodeIndex(i, j, max(k-1, 0)), grid.NodeIndex(i, j, min(k+1, nz-1)), spacing.Z, k, nz)
	return v3.Vec{X: dfdx, Y: dfdy, Z: dfdz}
}

func centralDiff(f []float64, lowIdx, highIdx int, h float64, coord, n int) float64 {
	if coord == 0 {
		return (f[highIdx] - f[lowIdx]) / h
	}
	if coord == n-1 {
		return (f[highIdx] - f[lowIdx]) / h
	}
	return (f[highIdx] - f[lowIdx]) / (2 * h)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// pcaNormal estimates a surface normal from the local point-cloud PCA
// about origin, used when UseMaterialPointsForNormals is set: the
// normal is the unit eigenvector of the local scatter matrix with the
// smallest eigenvalue. Its sign is not oriented: it may point inward
// or outward, and edgeNormal passes it on unchanged (the QEF in
// solveQEF uses only n n^T, which does not depend on the sign).
func pcaNormal(tree *kdtree.Tree, origin v3.Vec, k int) v3.Vec {
	neighbours := tree.KNearest(origin, k, -1)
	if len(neighbours) < 3 {
		return v3.Vec{Z: 1}
	}
	var mean v3.Vec
	for _, idx := range neighbours {
		mean = mean.Add(tree.Points[idx])
	}
	mean = mean.MulScalar(1 / float64(len(neighbours)))

	var cov [9]float64
	for _, idx := range neighbours {
		d := tree.Points[idx].Sub(mean)
		outer := v3.Outer(d, d)
		for c := 0; c < 9; c++ {
			cov[c] += outer[c]
		}
	}
	return smallestEigenvector(cov)
}

// smallestEigenvector returns a unit eigenvector of a real symmetric
// 3x3 matrix associated with its smallest eigenvalue, by Jacobi
// rotation (a handful of sweeps is exhausted for a 3x3 matrix).
func smallestEigenvector(m [9]float64) v3.Vec {
	a := [3][3]float64{
		{m[0], m[1], m[2]},
		{m[3], m[4], m[5]},
		{m[6], m[7], m[8]},
	}
	v := [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

	for sweep := 0; sweep < 50; sweep++ {
		p, q := 0, 1
		maxOff := math.Abs(a[0][1])
		if math.Abs(a[0][2]) > maxOff {
			p, q, maxOff = 0, 2, math.Abs(a[0][2])
		}
		if math.Abs(a[1][2]) > maxOff {
			p, q, maxOff = 1, 2, math.Abs(a[1][2])
		}
		if maxOff < 1e-14 {
			break
		}
		theta := 0.5 * math.Atan2(2*a[p][q], a[q][q]-a[p][p])
		c, s := math.Cos(theta), math.Sin(theta)
		for i := 0; i < 3; i++ {
			aip, aiq := a[i][p], a[i][q]
			a[i][p] = c*aip - s*aiq
			a[i][q] = s*aip + c*aiq
		}
		for i := 0; i < 3; i++ {
			api, aqi := a[p][i], a[q][i]
			a[p][i] = c*api - s*aqi
			a[q][i] = s*api + c*aqi
		}
		for i := 0; i < 3; i++ {
			vip, viq := v[i][p], v[i][q]
			v[i][p] = c*vip - s*viq
			v[i][q] = s*vip + c*viq
		}
	}

	minIdx := 0
	for i := 1; i < 3; i++ {
		if a[i][i] < a[minIdx][minIdx] {
			minIdx = i
		}
	}
	n := v3.Vec{X: v[0][minIdx], Y: v[1][minIdx], Z: v[2][minIdx]}
	if n.Length() == 0 {
		return v3.Vec{Z: 1}
	}
	return n.MulScalar(1 / n.Length())
}
