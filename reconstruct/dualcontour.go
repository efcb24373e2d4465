package reconstruct

import (
	"github.com/lanl/tardigrade-overlap-coupling-sub002/errs"
	"github.com/lanl/tardigrade-overlap-coupling-sub002/kdtree"
	"github.com/lanl/tardigrade-overlap-coupling-sub002/la"
	v3 "github.com/lanl/tardigrade-overlap-coupling-sub002/vec/v3"

	gmat "gonum.org/v1/gonum/mat"
)

// crossingPoint linearly interpolates the tau-crossing position along
// edge (a, b) given their nodal f values fa, fb.
func crossingPoint(a, b v3.Vec, fa, fb, tau float64) v3.Vec {
	t := (tau - fa) / (fb - fa)
	return a.Add(b.Sub(a).MulScalar(t))
}

// edgeNormal estimates the surface normal at a tau-crossing on an
// active edge, either from central-difference gradients of f at the
// two edge endpoints (averaged) or from local point-cloud PCA about
// the crossing point.
func edgeNormal(grid Grid, f []float64, i, j, k int, edgeIdx int, crossing v3.Vec, useMaterialPoints bool, tree *kdtree.Tree, minApprox int) v3.Vec {
	if useMaterialPoints {
		return pcaNormal(tree, crossing, minApprox)
	}
	e := hexEdges[edgeIdx]
	off0, off1 := cellNodeOffsets[e[0]], cellNodeOffsets[e[1]]
	g0 := gradient(grid, f, i+off0[0], j+off0[1], k+off0[2])
	g1 := gradient(grid, f, i+off1[0], j+off1[1], k+off1[2])
	n := g0.Add(g1).MulScalar(0.5)
	if n.Length() == 0 {
		return v3.Vec{Z: 1}
	}
	return n.MulScalar(1 / n.Length())
}

// qefPoint is one (normal, position) constraint contributing to a
// cell's QEF.
type qefPoint struct {
	Normal, Position v3.Vec
}

// solveQEF places one boundary vertex minimizing
// sum_j (n_j . (v - p_j))^2, constrained to lie within box: solve the
// unconstrained normal equations first, fall back to the
// pseudoinverse when the normal matrix is rank-deficient, then clamp
// into box if the result escapes it.
func solveQEF(points []qefPoint, box v3.Box, atol, rtol float64) (v3.Vec, *errs.Error) {
	if len(points) == 0 {
		return v3.Vec{}, errs.New("reconstruct.solveQEF", errs.KindNumerical, "no active edges to constrain the boundary vertex")
	}

	ata := gmat.NewDense(3, 3, nil)
	atb := gmat.NewVecDense(3, nil)
	for _, p := range points {
		n := [3]float64{p.Normal.X, p.Normal.Y, p.Normal.Z}
		d := p.Normal.Dot(p.Position)
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				ata.Set(r, c, ata.At(r, c)+n[r]*n[c])
			}
			atb.SetVec(r, atb.AtVec(r)+n[r]*d)
		}
	}

	x, err := la.Solve(ata, atb)
	if err != nil {
		pinv, perr := la.PseudoInverse(ata, atol, rtol, la.BDCSVD)
		if perr != nil {
			return v3.Vec{}, errs.Wrap("reconstruct.solveQEF", errs.KindNumerical, "QEF normal matrix is singular and pseudoinverse failed", perr)
		}
		var xd gmat.VecDense
		xd.MulVec(pinv, atb)
		x = &xd
	}

	v := v3.Vec{X: x.AtVec(0), Y: x.AtVec(1), Z: x.AtVec(2)}
	if !box.Contains(v) {
		v = box.Clamp(v)
	}
	return v, nil
}

// qefResidualJacobian returns the analytical Jacobian of the QEF
// residual vector r_j(v) = n_j . (v - p_j) with respect to v: it is
// simply the stacked normals, independent of v.
func qefResidualJacobian(points []qefPoint) [][3]float64 {
	j := make([][3]float64, len(points))
	for i, p := range points {
		j[i] = [3]float64{p.Normal.X, p.Normal.Y, p.Normal.Z}
	}
	return j
}
