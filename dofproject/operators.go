package dofproject

import (
	v3 "github.com/lanl/tardigrade-overlap-coupling-sub002/vec/v3"

	"github.com/lanl/tardigrade-overlap-coupling-sub002/errs"
	"github.com/lanl/tardigrade-overlap-coupling-sub002/la"

	gmat "gonum.org/v1/gonum/mat"
)

// interpolationBlock returns the 3x12 block [Na*I3 | Na*(xi (x) I3,
// flattened in phi ordering)] scaled by the given weight, i.e. the
// Jacobian of q = u + phi*xi with respect to (u, phi), scaled.
func interpolationBlock(scale, na float64, xi v3.Vec) [3][12]float64 {
	var blk [3][12]float64
	k := scale * na
	for j := 0; j < 3; j++ {
		blk[j][j] = k
		blk[j][3+j*3+0] = k * xi.X
		blk[j][3+j*3+1] = k * xi.Y
		blk[j][3+j*3+2] = k * xi.Z
	}
	return blk
}

// OperatorDomain is one macro domain's contribution to the sparse
// macro->micro interpolation operator N: its micro node ids/xi/weights
// plus the global macro node ids and shape-function values at the
// domain's local center of mass.
type OperatorDomain struct {
	MicroIndices    []int
	Xi              []v3.Vec
	Weights         []float64
	MacroNodeGlobal [8]int
	ShapeAtCOM      [8]float64
	MicroLocal      LocalIndexMap
	MacroLocal      LocalIndexMap
}

// BuildInterpolationOperator assembles the sparse macro->micro
// interpolation operator N of shape (3*nMicroLocal) x
// (12*nMacroLocal), triplet-accumulated across domains so that
// micro nodes shared between macro cells sum their contributions.
func BuildInterpolationOperator(domains []OperatorDomain, nMicroLocal, nMacroLocal int) (*la.Sparse, *errs.Error) {
	var triplets []la.Triplet
	for _, d := range domains {
		n := len(d.MicroIndices)
		if len(d.Xi) != n || len(d.Weights) != n {
			return nil, errs.New("dofproject.BuildInterpolationOperator", errs.KindShapeMismatch,
				"domain indices, xi, and weights must have the same length")
		}
		for i := 0; i < n; i++ {
			microLocal, ok := d.MicroLocal.Lookup(d.MicroIndices[i])
			if !ok {
				continue
			}
			rowBase := 3 * microLocal
			for a := 0; a < 8; a++ {
				macroLocal, ok := d.MacroLocal.Lookup(d.MacroNodeGlobal[a])
				if !ok {
					continue
				}
				colBase := 12 * macroLocal
				block := interpolationBlock(d.Weights[i], d.ShapeAtCOM[a], d.Xi[i])
				for r := 0; r < 3; r++ {
					for c := 0; c < 12; c++ {
						if block[r][c] == 0 {
							continue
						}
						triplets = append(triplets, la.Triplet{
							Row: rowBase + r, Col: colBase + c, Value: block[r][c],
						})
					}
				}
			}
		}
	}
	return la.AssembleSparse(triplets, 3*nMicroLocal, 12*nMacroLocal)
}

// MicroContribution is one micro node's contribution to a macro
// node's generalized mass matrix and projection right-hand side, used
// by BuildProjectionOperator.
type MicroContribution struct {
	MicroIndex int // global micro id, remapped via MicroLocal
	Shape      float64
	Weight     float64
	Mass       float64
	Xi         v3.Vec
}

// MacroNodeAggregate bundles one macro node's accumulated
// mass/constant/inertia with the list of micro nodes contributing to
// it, as needed to build the weighted least-squares projection block.
type MacroNodeAggregate struct {
	GlobalMacroIndex int
	Mass             float64
	Constant         v3.Vec
	Inertia          [9]float64
	Contributions    []MicroContribution
}

// generalizedMass builds the 12x12 matrix W_a from the normal
// equations of the weighted least-squares fit of (u, phi) to micro
// displacements: W = sum w_i m_i J_i^T J_i, which collapses to block
// form in terms of Mass, Constant, and Inertia.
func generalizedMass(agg MacroNodeAggregate) *gmat.Dense {
	w := gmat.NewDense(12, 12, nil)
	for j := 0; j < 3; j++ {
		w.Set(j, j, agg.Mass)
	}
	c := [3]float64{agg.Constant.X, agg.Constant.Y, agg.Constant.Z}
	for j := 0; j < 3; j++ {
		for k := 0; k < 3; k++ {
			col := 3 + j*3 + k
			w.Set(j, col, c[k])
			w.Set(col, j, c[k])
		}
	}
	for j := 0; j < 3; j++ {
		for k := 0; k < 3; k++ {
			for kp := 0; kp < 3; kp++ {
				row := 3 + j*3 + k
				col := 3 + j*3 + kp
				w.Set(row, col, agg.Inertia[k*3+kp])
			}
		}
	}
	return w
}

// invertGeneralizedMass inverts W_a, falling back to the pseudoinverse
// (with the configured tolerances) when W_a is rank-deficient.
func invertGeneralizedMass(w *gmat.Dense, atol, rtol float64) (*gmat.Dense, *errs.Error) {
	inv, err := la.Invert(w)
	if err == nil {
		return inv, nil
	}
	pinv, perr := la.PseudoInverse(w, atol, rtol, la.BDCSVD)
	if perr != nil {
		return nil, errs.Wrap("dofproject.invertGeneralizedMass", errs.KindNumerical,
			"generalized mass matrix is singular and pseudoinverse failed", perr)
	}
	return pinv, nil
}

// ProjectionTolerances configures the rank-deficiency fallback used
// when inverting each macro node's generalized mass matrix.
type ProjectionTolerances struct {
	AbsoluteTolerance float64
	RelativeTolerance float64
}

// DefaultProjectionTolerances are the default absolute and relative
// tolerances (both 1e-12) for the generalized-mass pseudoinverse
// fallback.
var DefaultProjectionTolerances = ProjectionTolerances{AbsoluteTolerance: 1e-12, RelativeTolerance: 1e-12}

// BuildProjectionOperator assembles the sparse micro->macro projection
// operator of shape (12*nMacroLocal) x (3*nMicroLocal): for each macro
// node a, the 12-row block is W_a^-1 * B_a, where B_a carries the
// mass-weighted shape-function and xi rows for a's contributing micro
// nodes.
func BuildProjectionOperator(aggregates []MacroNodeAggregate, macroLocal, microLocal LocalIndexMap, nMicroLocal, nMacroLocal int, tol ProjectionTolerances) (*la.Sparse, *errs.Error) {
	var triplets []la.Triplet
	for _, agg := range aggregates {
		macroLocalIdx, ok := macroLocal.Lookup(agg.GlobalMacroIndex)
		if !ok {
			continue
		}
		w := generalizedMass(agg)
		wInv, err := invertGeneralizedMass(w, tol.AbsoluteTolerance, tol.RelativeTolerance)
		if err != nil {
			return nil, errs.Wrap("dofproject.BuildProjectionOperator", errs.KindNumerical,
				"failed to invert generalized mass matrix", err)
		}

		for _, c := range agg.Contributions {
			mLocal, ok := microLocal.Lookup(c.MicroIndex)
			if !ok {
				continue
			}
			block := interpolationBlock(c.Weight*c.Mass, c.Shape, c.Xi)
			// B_a's column for this micro node is block^T (12x3); the
			// projection block contributed is W^-1 * B_a column.
			for row := 0; row < 12; row++ {
				var sum [3]float64
				for col := 0; col < 12; col++ {
					wv := wInv.At(row, col)
					if wv == 0 {
						continue
					}
					for comp := 0; comp < 3; comp++ {
						sum[comp] += wv * block[comp][col]
					}
				}
				for comp := 0; comp < 3; comp++ {
					if sum[comp] == 0 {
						continue
					}
					triplets = append(triplets, la.Triplet{
						Row:   12*macroLocalIdx + row,
						Col:   3*mLocal + comp,
						Value: sum[comp],
					})
				}
			}
		}
	}
	return la.AssembleSparse(triplets, 12*nMacroLocal, 3*nMicroLocal)
}

// T returns the 12*n x n selector operator that picks a single DOF
// component (dofIndex in 0..11) from each of n macro nodes:
// row 12*i+dofIndex, column i, value 1. It takes no id map and a fixed
// block width of 12: column i is the i'th node in the caller's compact
// local numbering.
func T(dofIndex, n int) (*la.Sparse, *errs.Error) {
	return selector(dofIndex, DOFsPerMacroNode, n)
}

// S is the domain-side analogue of T, selecting a single component
// across n domains rather than macro nodes. It builds exactly the same
// matrix as T(dofIndex, n) and likewise takes no id map.
func S(dofIndex, n int) (*la.Sparse, *errs.Error) {
	return selector(dofIndex, DOFsPerMacroNode, n)
}

func selector(dofIndex, nDOF, n int) (*la.Sparse, *errs.Error) {
	if dofIndex < 0 || dofIndex >= nDOF {
		return nil, errs.New("dofproject.selector", errs.KindOutOfRange, "DOF index out of range")
	}
	triplets := make([]la.Triplet, n)
	for i := 0; i < n; i++ {
		triplets[i] = la.Triplet{Row: nDOF*i + dofIndex, Col: i, Value: 1}
	}
	return la.AssembleSparse(triplets, nDOF*n, n)
}
