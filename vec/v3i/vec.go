// Package v3i provides a 3D vector of int components, used for grid
// dimensions and cell/node lexicographic indices.
package v3i

// Vec is a 3D integer vector.
type Vec struct {
	X, Y, Z int
}

// Add returns a + b.
func (a Vec) Add(b Vec) Vec {
	return Vec{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Volume returns X*Y*Z, the number of cells/nodes addressed by a.
func (a Vec) Volume() int {
	return a.X * a.Y * a.Z
}
