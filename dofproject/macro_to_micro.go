package dofproject

import (
	v3 "github.com/lanl/tardigrade-overlap-coupling-sub002/vec/v3"

	"github.com/lanl/tardigrade-overlap-coupling-sub002/errs"
)

// MacroToMicroInputs bundles one macro domain's contribution to the
// macro->micro displacement projection.
type MacroToMicroInputs struct {
	// MicroIndices are the domain's micro node global ids, length n.
	MicroIndices []int
	// Xi are the reference micro-relative positions, length n.
	Xi []v3.Vec
	// Weights are the per-node partition weights, length n.
	Weights []float64
	// NodalDOF are the 8 macro DOF blocks of the domain's hex cell.
	NodalDOF [8]MacroDOF
	// ShapeAtCOM are the 8 interpolation values N_a evaluated at the
	// domain's local center of mass.
	ShapeAtCOM [8]float64
	// LocalIndex optionally remaps a micro global id to a compact
	// destination index; nil means identity (use the global id).
	LocalIndex LocalIndexMap
}

// MacroToMicroDisplacement computes the macro->micro displacement
// contribution of one domain and accumulates (running-sum, not
// overwrite) it into microDisplacements, a caller-sized buffer of
// length >= 3*nMicro (or 3*(max local index + 1) when LocalIndex is
// supplied).
func MacroToMicroDisplacement(in MacroToMicroInputs, microDisplacements []float64) *errs.Error {
	n := len(in.MicroIndices)
	if len(in.Xi) != n || len(in.Weights) != n {
		return errs.New("dofproject.MacroToMicroDisplacement", errs.KindShapeMismatch,
			"indices, xi, and weights must have the same length")
	}

	dof := InterpolateDOF(in.ShapeAtCOM, in.NodalDOF)

	for i := 0; i < n; i++ {
		global := in.MicroIndices[i]
		dest, ok := in.LocalIndex.Lookup(global)
		if !ok {
			continue
		}
		if dest < 0 {
			return errs.New("dofproject.MacroToMicroDisplacement", errs.KindOutOfRange, "negative destination index")
		}
		base := 3 * dest
		if base+3 > len(microDisplacements) {
			return errs.New("dofproject.MacroToMicroDisplacement", errs.KindOutOfRange,
				"destination index exceeds microDisplacements buffer")
		}

		q := dof.U.Add(dof.ApplyPhi(in.Xi[i]))
		w := in.Weights[i]
		microDisplacements[base+0] += w * q.X
		microDisplacements[base+1] += w * q.Y
		microDisplacements[base+2] += w * q.Z
	}
	return nil
}
