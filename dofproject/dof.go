// Package dofproject implements the bidirectional DOF-projection
// kernel: transfer of displacement, mass, and moment-of-inertia
// quantities between 12-DOF micromorphic macro nodes (3 translations
// plus a 9-component micro-deformation phi) and micro-node
// displacements, plus the sparse interpolation/projection operators
// used for global assembly.
package dofproject

import (
	v3 "github.com/lanl/tardigrade-overlap-coupling-sub002/vec/v3"

	"github.com/lanl/tardigrade-overlap-coupling-sub002/errs"
)

// DOFsPerMacroNode is the width of a macro degree-of-freedom block: 3
// translations plus the 9 components of the micro-deformation phi, in
// row-major order (phi11, phi12, phi13, phi21, ..., phi33).
const DOFsPerMacroNode = 12

// LocalIndexMap maps a global id to a compact local id. A missing key
// means "skip this entry's contribution" rather than an error; this
// avoids allocating zero-filled global-sized buffers for sparse
// participation patterns (see design note on caller-supplied maps).
type LocalIndexMap map[int]int

// Lookup returns (local index, true) if present, or (0, false) if the
// global id is not mapped. A nil map is the identity: every id maps to
// itself and Lookup returns (global, true).
func (m LocalIndexMap) Lookup(global int) (int, bool) {
	if m == nil {
		return global, true
	}
	local, ok := m[global]
	return local, ok
}

// MacroDOF is one macro node's 12-component DOF block: translation u
// and micro-deformation phi, phi laid out row-major
// (phi11,phi12,phi13,phi21,phi22,phi23,phi31,phi32,phi33).
type MacroDOF struct {
	U   v3.Vec
	Phi [9]float64
}

// ApplyPhi returns phi . xi (matrix-vector product, phi row-major).
func (d MacroDOF) ApplyPhi(xi v3.Vec) v3.Vec {
	return v3.Vec{
		X: d.Phi[0]*xi.X + d.Phi[1]*xi.Y + d.Phi[2]*xi.Z,
		Y: d.Phi[3]*xi.X + d.Phi[4]*xi.Y + d.Phi[5]*xi.Z,
		Z: d.Phi[6]*xi.X + d.Phi[7]*xi.Y + d.Phi[8]*xi.Z,
	}
}

// FromFlat reads 12 consecutive entries of a flat macro DOF vector
// starting at the given macro node's block.
func FromFlat(u []float64, macroNode int) (MacroDOF, *errs.Error) {
	base := macroNode * DOFsPerMacroNode
	if base < 0 || base+DOFsPerMacroNode > len(u) {
		return MacroDOF{}, errs.New("dofproject.FromFlat", errs.KindOutOfRange, "macro node index exceeds DOF vector length")
	}
	var d MacroDOF
	d.U = v3.Vec{X: u[base], Y: u[base+1], Z: u[base+2]}
	copy(d.Phi[:], u[base+3:base+12])
	return d, nil
}

// InterpolateDOF evaluates utilde = sum_a N_a U_a (translation) and
// phitilde = sum_a N_a U_a (phi), from nodal shape-function values n
// and the 8 macro DOF blocks of the domain's hex cell.
func InterpolateDOF(n [8]float64, nodalDOF [8]MacroDOF) MacroDOF {
	var out MacroDOF
	for a, na := range n {
		out.U = out.U.Add(nodalDOF[a].U.MulScalar(na))
		for c := 0; c < 9; c++ {
			out.Phi[c] += na * nodalDOF[a].Phi[c]
		}
	}
	return out
}
