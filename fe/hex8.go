// Package fe implements the trilinear 8-node hexahedral reference
// element used both by the macro mesh (DOF interpolation) and by the
// background grid of the volume-reconstruction engine.
//
// Node ordering on the unit cube [-1,1]^3 follows the usual FE
// convention: (---, +--, ++-, -+-, --+, +-+, +++, -++).
package fe

import (
	"fmt"
	"math"

	v3 "github.com/lanl/tardigrade-overlap-coupling-sub002/vec/v3"

	"github.com/lanl/tardigrade-overlap-coupling-sub002/errs"
)

// RefNodes are the canonical unit-cube corner coordinates, in the node
// order used throughout this package.
var RefNodes = [8]v3.Vec{
	{X: -1, Y: -1, Z: -1},
	{X: +1, Y: -1, Z: -1},
	{X: +1, Y: +1, Z: -1},
	{X: -1, Y: +1, Z: -1},
	{X: -1, Y: -1, Z: +1},
	{X: +1, Y: -1, Z: +1},
	{X: +1, Y: +1, Z: +1},
	{X: -1, Y: +1, Z: +1},
}

// Hex8 is the trilinear reference element.
type Hex8 struct{}

// NewtonParams tune the damped-Newton local-coordinate solve.
type NewtonParams struct {
	TolRelative float64
	TolAbsolute float64
	MaxIter     int
	MaxLineStep int
}

// DefaultNewtonParams are the documented default convergence settings.
var DefaultNewtonParams = NewtonParams{
	TolRelative: 1e-9,
	TolAbsolute: 1e-9,
	MaxIter:     20,
	MaxLineStep: 5,
}

// Shape evaluates the 8 trilinear shape functions at local point xi.
func (Hex8) Shape(xi v3.Vec) [8]float64 {
	var n [8]float64
	for i, node := range RefNodes {
		n[i] = 0.125 * (1 + node.X*xi.X) * (1 + node.Y*xi.Y) * (1 + node.Z*xi.Z)
	}
	return n
}

// Grad evaluates the analytical local gradient dN_i/dxi_j at xi.
func (Hex8) Grad(xi v3.Vec) [8][3]float64 {
	var dn [8][3]float64
	for i, node := range RefNodes {
		dn[i][0] = 0.125 * node.X * (1 + node.Y*xi.Y) * (1 + node.Z*xi.Z)
		dn[i][1] = 0.125 * node.Y * (1 + node.X*xi.X) * (1 + node.Z*xi.Z)
		dn[i][2] = 0.125 * node.Z * (1 + node.X*xi.X) * (1 + node.Y*xi.Y)
	}
	return dn
}

// Interpolate returns sum_i N_i(xi) * values[i] for 3-vector nodal
// values (nodal coordinates or any other vector field).
func (h Hex8) Interpolate(values [8]v3.Vec, xi v3.Vec) v3.Vec {
	n := h.Shape(xi)
	var out v3.Vec
	for i, vi := range values {
		out = out.Add(vi.MulScalar(n[i]))
	}
	return out
}

// InterpolateScalar returns sum_i N_i(xi) * values[i] for a scalar
// nodal field.
func (h Hex8) InterpolateScalar(values [8]float64, xi v3.Vec) float64 {
	n := h.Shape(xi)
	var out float64
	for i, vi := range values {
		out += n[i] * vi
	}
	return out
}

// LocalGradient returns d(value)/d(xi), the 3x3 Jacobian of a 3-vector
// nodal field with respect to local coordinates.
func (h Hex8) LocalGradient(values [8]v3.Vec, xi v3.Vec) [9]float64 {
	dn := h.Grad(xi)
	var out [9]float64
	for i, vi := range values {
		for row := 0; row < 3; row++ {
			comp := vi.Component(row)
			for col := 0; col < 3; col++ {
				out[row*3+col] += comp * dn[i][col]
			}
		}
	}
	return out
}

// jacobian computes J = dx/dxi from nodal coordinates.
func (h Hex8) jacobian(coords [8]v3.Vec, xi v3.Vec) [9]float64 {
	return h.LocalGradient(coords, xi)
}

// GlobalGradient computes d(value)/dx = (d(value)/dxi) * J^-1, where J
// is the Jacobian of coords with respect to local coordinates.
func (h Hex8) GlobalGradient(values [8]v3.Vec, xi v3.Vec, coords [8]v3.Vec) ([9]float64, *errs.Error) {
	j := h.jacobian(coords, xi)
	jInv, err := invert3(j)
	if err != nil {
		return [9]float64{}, errs.Wrap("fe.Hex8.GlobalGradient", errs.KindNumerical, "Jacobian is singular", err)
	}
	localGrad := h.LocalGradient(values, xi)
	return matMul3(localGrad, jInv), nil
}

func invert3(a [9]float64) ([9]float64, *errs.Error) {
	a00, a01, a02 := a[0], a[1], a[2]
	a10, a11, a12 := a[3], a[4], a[5]
	a20, a21, a22 := a[6], a[7], a[8]

	c00 := a11*a22 - a12*a21
	c01 := -(a10*a22 - a12*a20)
	c02 := a10*a21 - a11*a20
	det := a00*c00 + a01*c01 + a02*c02
	if math.Abs(det) < 1e-300 {
		return [9]float64{}, errs.New("fe.invert3", errs.KindNumerical, "Jacobian determinant is zero")
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

func matMul3(a, b [9]float64) [9]float64 {
	var out [9]float64
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += a[r*3+k] * b[k*3+c]
			}
			out[r*3+c] = sum
		}
	}
	return out
}

// LocalCoordinates solves x = sum_i N_i(xi) coords[i] for xi by damped
// Newton iteration with a halving line search, against the caller's
// tolerance and iteration-budget settings.
func (h Hex8) LocalCoordinates(x v3.Vec, coords [8]v3.Vec, params NewtonParams) (v3.Vec, *errs.Error) {
	xi := v3.Vec{}
	residual := func(xi v3.Vec) v3.Vec {
		return x.Sub(h.Interpolate(coords, xi))
	}

	r0 := residual(xi)
	tol := params.TolRelative*r0.Length() + params.TolAbsolute
	rNorm := r0.Length()

	for iter := 0; iter < params.MaxIter; iter++ {
		if rNorm <= tol {
			return xi, nil
		}
		r := residual(xi)
		j := h.jacobian(coords, xi)
		jInv, ierr := invert3(j)
		if ierr != nil {
			return v3.Vec{}, errs.Wrap("fe.Hex8.LocalCoordinates", errs.KindNumerical, "Jacobian singular during Newton iteration", ierr)
		}
		// Newton step: solve J * dxi = r  =>  dxi = J^-1 * r.
		step := v3.Vec{
			X: jInv[0]*r.X + jInv[1]*r.Y + jInv[2]*r.Z,
			Y: jInv[3]*r.X + jInv[4]*r.Y + jInv[5]*r.Z,
			Z: jInv[6]*r.X + jInv[7]*r.Y + jInv[8]*r.Z,
		}

		alpha := 1.0
		candidate := xi.Add(step.MulScalar(alpha))
		candidateNorm := residual(candidate).Length()
		lineSteps := 0
		for candidateNorm > rNorm && lineSteps < params.MaxLineStep {
			alpha *= 0.5
			candidate = xi.Add(step.MulScalar(alpha))
			candidateNorm = residual(candidate).Length()
			lineSteps++
		}
		if candidateNorm > rNorm {
			return v3.Vec{}, errs.New("fe.Hex8.LocalCoordinates", errs.KindNumerical,
				fmt.Sprintf("line search exhausted without reducing residual at iteration %d (residual %.3e)", iter, rNorm))
		}
		xi = candidate
		rNorm = candidateNorm
	}

	return v3.Vec{}, errs.New("fe.Hex8.LocalCoordinates", errs.KindNumerical,
		fmt.Sprintf("Newton iteration did not converge within %d iterations (residual %.3e)", params.MaxIter, rNorm))
}

// ContainsPoint reports whether x maps to local coordinates within the
// reference cube [-1,1]^3.
func (h Hex8) ContainsPoint(x v3.Vec, coords [8]v3.Vec) bool {
	xi, err := h.LocalCoordinates(x, coords, DefaultNewtonParams)
	if err != nil {
		return false
	}
	const eps = 1e-9
	return math.Abs(xi.X) <= 1+eps && math.Abs(xi.Y) <= 1+eps && math.Abs(xi.Z) <= 1+eps
}

// AABB returns the axis-aligned bounding box of the 8 nodal coords.
func AABB(coords [8]v3.Vec) v3.Box {
	box := v3.Box{Min: coords[0], Max: coords[0]}
	for _, c := range coords[1:] {
		box = box.Extend(c)
	}
	return box
}
