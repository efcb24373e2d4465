package dofproject

import (
	v3 "github.com/lanl/tardigrade-overlap-coupling-sub002/vec/v3"

	"github.com/lanl/tardigrade-overlap-coupling-sub002/errs"
)

// MacroMassAccumulator holds the per-macro-node outputs of the
// micro->macro mass/moment projection, one entry per macro node of a
// domain's hex cell (indexed 0..7, matching NodalDOF ordering in the
// caller).
type MacroMassAccumulator struct {
	// Mass is the projected mass m_a.
	Mass [8]float64
	// Inertia is the mass moment of inertia I_a, full row-major 3x3.
	Inertia [8][9]float64
	// Constant is the mass constant C_a (integral of rho*xi).
	Constant [8]v3.Vec
	// Displacement is the mass displacement D_a.
	Displacement [8]v3.Vec
	// DisplacementPosition is DP_a, row-major 3x3 (u (x) xi).
	DisplacementPosition [8][9]float64
}

// MicroPointContribution is one micro node's contribution data for a
// single domain: its shape-function values at the 8 macro nodes, its
// weight, reference position xi, and (optionally) displacement.
type MicroPointContribution struct {
	// Shape holds N_a(x_i) for a = 0..7.
	Shape [8]float64
	Weight float64
	Xi     v3.Vec
	// U is the micro node's displacement; only read when Flags.Displacement
	// or Flags.DisplacementPosition is set.
	U v3.Vec
	// Mass is V_i*rho_i, or the precomputed mass when the caller already
	// has it: the caller computes V*rho before calling, or passes mass
	// directly, and both end up in this single field.
	Mass float64
}

// Flags selects which of the five accumulator quantities to compute,
// so a single entry point can serve all call sites without
// recomputing N_a * m_i * w_i per selection.
type Flags struct {
	Mass                 bool
	Inertia              bool
	Constant             bool
	Displacement         bool
	DisplacementPosition bool
}

// AccumulateMicroToMacro folds one micro node's contribution into acc
// according to flags, so callers needing multiple quantities get them
// from a single pass over N_a, m_i, w_i.
func AccumulateMicroToMacro(c MicroPointContribution, flags Flags, acc *MacroMassAccumulator) {
	for a := 0; a < 8; a++ {
		weight := c.Weight * c.Mass * c.Shape[a]
		if weight == 0 && !flags.Mass {
			continue
		}
		if flags.Mass {
			acc.Mass[a] += weight
		}
		if flags.Inertia {
			outer := v3.Outer(c.Xi, c.Xi)
			for k := 0; k < 9; k++ {
				acc.Inertia[a][k] += weight * outer[k]
			}
		}
		if flags.Constant {
			acc.Constant[a] = acc.Constant[a].Add(c.Xi.MulScalar(weight))
		}
		if flags.Displacement {
			acc.Displacement[a] = acc.Displacement[a].Add(c.U.MulScalar(weight))
		}
		if flags.DisplacementPosition {
			outer := v3.Outer(c.U, c.Xi)
			for k := 0; k < 9; k++ {
				acc.DisplacementPosition[a][k] += weight * outer[k]
			}
		}
	}
}

// DomainMicroPoint is one micro node's raw attributes for
// AddDomainMicroContributionToMacroMass.
type DomainMicroPoint struct {
	Shape  [8]float64
	Weight float64
	Xi     v3.Vec
	U      v3.Vec
}

// AddDomainMicroContributionToMacroMassFromMass accumulates a domain's
// mass and (optionally) moment-of-inertia, constant, displacement, and
// displacement-position contributions given precomputed per-point
// mass. It must agree with
// AddDomainMicroContributionToMacroMassFromVolumeDensity whenever
// mass == volume*density.
func AddDomainMicroContributionToMacroMassFromMass(points []DomainMicroPoint, mass []float64, flags Flags, acc *MacroMassAccumulator) *errs.Error {
	if len(points) != len(mass) {
		return errs.New("dofproject.AddDomainMicroContributionToMacroMassFromMass", errs.KindShapeMismatch,
			"points and mass must have the same length")
	}
	for i, p := range points {
		AccumulateMicroToMacro(MicroPointContribution{
			Shape: p.Shape, Weight: p.Weight, Xi: p.Xi, U: p.U, Mass: mass[i],
		}, flags, acc)
	}
	return nil
}

// AddDomainMicroContributionToMacroMassFromVolumeDensity derives each
// point's mass as volume*density before delegating to
// AddDomainMicroContributionToMacroMassFromMass.
func AddDomainMicroContributionToMacroMassFromVolumeDensity(points []DomainMicroPoint, volume, density []float64, flags Flags, acc *MacroMassAccumulator) *errs.Error {
	if len(points) != len(volume) || len(points) != len(density) {
		return errs.New("dofproject.AddDomainMicroContributionToMacroMassFromVolumeDensity", errs.KindShapeMismatch,
			"points, volume, and density must have the same length")
	}
	mass := make([]float64, len(points))
	for i := range points {
		mass[i] = volume[i] * density[i]
	}
	return AddDomainMicroContributionToMacroMassFromMass(points, mass, flags, acc)
}
