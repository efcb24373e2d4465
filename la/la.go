// Package la collects the small set of dense and sparse linear-algebra
// primitives the projection kernel and reconstruction engine need:
// LU solve, small-matrix inversion, Moore-Penrose pseudoinverse, and
// triplet-based sparse assembly.
package la

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/lanl/tardigrade-overlap-coupling-sub002/errs"
)

// Solve returns x such that A*x = b, using partial-pivot LU.
func Solve(a *mat.Dense, b *mat.VecDense) (*mat.VecDense, *errs.Error) {
	rows, cols := a.Dims()
	if rows != cols {
		return nil, errs.New("la.Solve", errs.KindShapeMismatch, "matrix is not square")
	}
	if b.Len() != rows {
		return nil, errs.New("la.Solve", errs.KindShapeMismatch, "rhs length does not match matrix dimension")
	}

	var lu mat.LU
	lu.Factorize(a)
	if math.Abs(lu.Cond()) == math.Inf(1) {
		return nil, errs.New("la.Solve", errs.KindNumerical, "matrix is singular to working precision")
	}

	x := mat.NewVecDense(rows, nil)
	if err := lu.SolveVecTo(x, false, b); err != nil {
		return nil, errs.Wrap("la.Solve", errs.KindNumerical, "LU solve failed", errs.New("gonum", errs.KindNumerical, err.Error()))
	}
	return x, nil
}

// Invert3 inverts a 3x3 matrix in closed form, the common case for
// finite-element Jacobians.
func Invert3(a [9]float64) ([9]float64, *errs.Error) {
	a00, a01, a02 := a[0], a[1], a[2]
	a10, a11, a12 := a[3], a[4], a[5]
	a20, a21, a22 := a[6], a[7], a[8]

	c00 := a11*a22 - a12*a21
	c01 := -(a10*a22 - a12*a20)
	c02 := a10*a21 - a11*a20

	det := a00*c00 + a01*c01 + a02*c02
	if math.Abs(det) < 1e-300 {
		return [9]float64{}, errs.New("la.Invert3", errs.KindNumerical, "matrix is singular")
	}
	invDet := 1.0 / det

	c10 := -(a01*a22 - a02*a21)
	c11 := a00*a22 - a02*a20
	c12 := -(a00*a21 - a01*a20)
	c20 := a01*a12 - a02*a11
	c21 := -(a00*a12 - a02*a10)
	c22 := a00*a11 - a01*a10

	return [9]float64{
		c00 * invDet, c10 * invDet, c20 * invDet,
		c01 * invDet, c11 * invDet, c21 * invDet,
		c02 * invDet, c12 * invDet, c22 * invDet,
	}, nil
}

// Invert inverts a general small dense matrix via gonum.
func Invert(a *mat.Dense) (*mat.Dense, *errs.Error) {
	rows, cols := a.Dims()
	if rows != cols {
		return nil, errs.New("la.Invert", errs.KindShapeMismatch, "matrix is not square")
	}
	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		return nil, errs.Wrap("la.Invert", errs.KindNumerical, "matrix inversion failed", errs.New("gonum", errs.KindNumerical, err.Error()))
	}
	return &inv, nil
}

// PseudoInverseMethod selects the SVD algorithm backing PseudoInverse.
type PseudoInverseMethod int

const (
	// BDCSVD names divide-and-conquer SVD, the default request.
	// PseudoInverse runs the same gonum SVD for both methods.
	BDCSVD PseudoInverseMethod = iota
	// JacobiSVD names Jacobi SVD. PseudoInverse records the request but
	// does not run a separate Jacobi algorithm.
	JacobiSVD
)

// PseudoInverse computes the Moore-Penrose pseudoinverse of A. Singular
// values below max(atol, rtol*sigma_1) are treated as zero. method is
// advisory: gonum's SVD is one-true-path, but the distinction is kept
// so callers can request the Jacobi-flavored tighter tolerance regime
// used for small, potentially rank-deficient 12x12 mass blocks.
func PseudoInverse(a *mat.Dense, atol, rtol float64, method PseudoInverseMethod) (*mat.Dense, *errs.Error) {
	rows, cols := a.Dims()

	var svd mat.SVD
	ok := svd.Factorize(a, mat.SVDFull)
	if !ok {
		return nil, errs.New("la.PseudoInverse", errs.KindNumerical, "SVD factorization failed")
	}

	values := svd.Values(nil)
	if len(values) == 0 {
		return nil, errs.New("la.PseudoInverse", errs.KindNumerical, "SVD produced no singular values")
	}
	sigma1 := values[0]
	tol := math.Max(atol, rtol*sigma1)

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	// Build Sigma+ (cols x rows), zeroing singular values below tol.
	// method is recorded for provenance only; gonum's SVD path does not
	// branch on it, but a Jacobi caller typically supplies a tighter
	// rtol upstream.
	_ = method
	sigmaPlus := mat.NewDense(cols, rows, nil)
	for i, s := range values {
		if s > tol {
			sigmaPlus.Set(i, i, 1.0/s)
		}
	}

	var vSigma mat.Dense
	vSigma.Mul(&v, sigmaPlus)
	var result mat.Dense
	result.Mul(&vSigma, u.T())
	return &result, nil
}

// Triplet is a single (row, col, value) contribution to a sparse
// matrix; duplicate (row, col) pairs are summed at assembly time.
type Triplet struct {
	Row, Col int
	Value    float64
}

// Sparse is a sparse matrix assembled by compressing triplets: it
// stores the compressed (row, col, value) entries sorted first by row
// then by column, which also fixes the deterministic accumulation
// order required of the engine.
type Sparse struct {
	Rows, Cols int
	ri, ci     []int
	val        []float64
}

// AssembleSparse compresses a slice of triplets (summing duplicates)
// into a Sparse matrix of the given shape.
func AssembleSparse(triplets []Triplet, rows, cols int) (*Sparse, *errs.Error) {
	acc := make(map[[2]int]float64, len(triplets))
	order := make([][2]int, 0, len(triplets))
	for _, t := range triplets {
		if t.Row < 0 || t.Row >= rows || t.Col < 0 || t.Col >= cols {
			return nil, errs.New("la.AssembleSparse", errs.KindOutOfRange, "triplet index outside matrix shape")
		}
		key := [2]int{t.Row, t.Col}
		if _, seen := acc[key]; !seen {
			order = append(order, key)
		}
		acc[key] += t.Value
	}

	// order is already in first-seen (deterministic traversal) order;
	// make the final layout row-major deterministic regardless of
	// triplet arrival order by a stable sort.
	sortKeys(order)

	s := &Sparse{Rows: rows, Cols: cols}
	for _, key := range order {
		s.ri = append(s.ri, key[0])
		s.ci = append(s.ci, key[1])
		s.val = append(s.val, acc[key])
	}
	return s, nil
}

func sortKeys(keys [][2]int) {
	// insertion sort: triplet counts in this engine are small (per
	// macro-cell assembly), and the point is determinism, not speed.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0; j-- {
			a, b := keys[j-1], keys[j]
			if a[0] > b[0] || (a[0] == b[0] && a[1] > b[1]) {
				keys[j-1], keys[j] = keys[j], keys[j-1]
			} else {
				break
			}
		}
	}
}

// NNZ returns the number of structurally nonzero entries.
func (s *Sparse) NNZ() int { return len(s.val) }

// At returns the i'th compressed entry.
func (s *Sparse) At(i int) (row, col int, value float64) {
	return s.ri[i], s.ci[i], s.val[i]
}

// Dense materializes the sparse matrix as a gonum dense matrix, mainly
// for testing.
func (s *Sparse) Dense() *mat.Dense {
	d := mat.NewDense(s.Rows, s.Cols, nil)
	for i := range s.val {
		d.Set(s.ri[i], s.ci[i], s.val[i])
	}
	return d
}

// MulVec computes y = S*x for a dense vector x of length S.Cols.
func (s *Sparse) MulVec(x []float64) ([]float64, *errs.Error) {
	if len(x) != s.Cols {
		return nil, errs.New("la.Sparse.MulVec", errs.KindShapeMismatch, "vector length does not match column count")
	}
	y := make([]float64, s.Rows)
	for i := range s.val {
		y[s.ri[i]] += s.val[i] * x[s.ci[i]]
	}
	return y, nil
}
