package dofproject

import (
	v3 "github.com/lanl/tardigrade-overlap-coupling-sub002/vec/v3"

	"github.com/lanl/tardigrade-overlap-coupling-sub002/errs"
)

// CenterOfMass computes CM = sum(w_i m_i x_i) / sum(w_i m_i) for a
// domain's micro positions.
func CenterOfMass(positions []v3.Vec, weights, mass []float64) (v3.Vec, *errs.Error) {
	if len(positions) != len(weights) || len(positions) != len(mass) {
		return v3.Vec{}, errs.New("dofproject.CenterOfMass", errs.KindShapeMismatch,
			"positions, weights, and mass must have the same length")
	}
	var num v3.Vec
	var den float64
	for i, x := range positions {
		wm := weights[i] * mass[i]
		num = num.Add(x.MulScalar(wm))
		den += wm
	}
	if den == 0 {
		return v3.Vec{}, errs.New("dofproject.CenterOfMass", errs.KindNumerical, "total weighted mass is zero")
	}
	return num.MulScalar(1 / den), nil
}

// CenterOfMassFromReference computes the center of mass from reference
// positions plus displacements: x_i = x0_i + u_i.
func CenterOfMassFromReference(reference, displacement []v3.Vec, weights, mass []float64) (v3.Vec, *errs.Error) {
	if len(reference) != len(displacement) {
		return v3.Vec{}, errs.New("dofproject.CenterOfMassFromReference", errs.KindShapeMismatch,
			"reference and displacement must have the same length")
	}
	positions := make([]v3.Vec, len(reference))
	for i := range reference {
		positions[i] = reference[i].Add(displacement[i])
	}
	return CenterOfMass(positions, weights, mass)
}

// DomainXi returns xi_i = x_i - CM for each micro position in a
// domain.
func DomainXi(positions []v3.Vec, cm v3.Vec) []v3.Vec {
	xi := make([]v3.Vec, len(positions))
	for i, x := range positions {
		xi[i] = x.Sub(cm)
	}
	return xi
}

// DomainMomentOfInertia returns I = sum(w_i m_i xi_i (x) xi_i),
// row-major 3x3.
func DomainMomentOfInertia(xi []v3.Vec, weights, mass []float64) ([9]float64, *errs.Error) {
	if len(xi) != len(weights) || len(xi) != len(mass) {
		return [9]float64{}, errs.New("dofproject.DomainMomentOfInertia", errs.KindShapeMismatch,
			"xi, weights, and mass must have the same length")
	}
	var out [9]float64
	for i := range xi {
		wm := weights[i] * mass[i]
		outer := v3.Outer(xi[i], xi[i])
		for k := 0; k < 9; k++ {
			out[k] += wm * outer[k]
		}
	}
	return out, nil
}
