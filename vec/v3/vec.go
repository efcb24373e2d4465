// Package v3 provides a 3D vector of float64 components.
//
// The type is used throughout the coupling engine for point-cloud
// coordinates, displacements, and micro-relative positions.
package v3

import "math"

// Vec is a 3D vector.
type Vec struct {
	X, Y, Z float64
}

// Zero is the additive identity.
var Zero = Vec{}

// Add returns a + b.
func (a Vec) Add(b Vec) Vec {
	return Vec{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns a - b.
func (a Vec) Sub(b Vec) Vec {
	return Vec{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// MulScalar returns a * k.
func (a Vec) MulScalar(k float64) Vec {
	return Vec{a.X * k, a.Y * k, a.Z * k}
}

// Dot returns a . b.
func (a Vec) Dot(b Vec) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns a x b.
func (a Vec) Cross(b Vec) Vec {
	return Vec{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Length returns the Euclidean norm of a.
func (a Vec) Length() float64 {
	return math.Sqrt(a.Dot(a))
}

// Length2 returns the squared Euclidean norm of a.
func (a Vec) Length2() float64 {
	return a.Dot(a)
}

// Component returns the i'th component (0=X, 1=Y, 2=Z).
func (a Vec) Component(i int) float64 {
	switch i {
	case 0:
		return a.X
	case 1:
		return a.Y
	case 2:
		return a.Z
	default:
		panic("v3.Vec: component index out of range")
	}
}

// SetComponent returns a copy of a with component i set to v.
func (a Vec) SetComponent(i int, v float64) Vec {
	switch i {
	case 0:
		a.X = v
	case 1:
		a.Y = v
	case 2:
		a.Z = v
	default:
		panic("v3.Vec: component index out of range")
	}
	return a
}

// MinElem returns the componentwise minimum of a and b.
func (a Vec) MinElem(b Vec) Vec {
	return Vec{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)}
}

// MaxElem returns the componentwise maximum of a and b.
func (a Vec) MaxElem(b Vec) Vec {
	return Vec{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)}
}

// Outer returns the 3x3 outer product a ⊗ b, row-major.
func Outer(a, b Vec) [9]float64 {
	return [9]float64{
		a.X * b.X, a.X * b.Y, a.X * b.Z,
		a.Y * b.X, a.Y * b.Y, a.Y * b.Z,
		a.Z * b.X, a.Z * b.Y, a.Z * b.Z,
	}
}

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max Vec
}

// Contains returns true iff p lies within the box (inclusive).
func (b Box) Contains(p Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Extend grows the box to also cover p.
func (b Box) Extend(p Vec) Box {
	return Box{b.Min.MinElem(p), b.Max.MaxElem(p)}
}

// Clamp returns p clamped componentwise into the box.
func (b Box) Clamp(p Vec) Vec {
	return Vec{
		math.Min(math.Max(p.X, b.Min.X), b.Max.X),
		math.Min(math.Max(p.Y, b.Min.Y), b.Max.Y),
		math.Min(math.Max(p.Z, b.Min.Z), b.Max.Z),
	}
}
