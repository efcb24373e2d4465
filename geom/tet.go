// Package geom decomposes convex polyhedron faces into tetrahedra and
// builds the affine map from the canonical unit tetrahedron onto an
// arbitrary tetrahedron, for quadrature transport during integration.
package geom

import (
	v3 "github.com/lanl/tardigrade-overlap-coupling-sub002/vec/v3"
)

// Tet is a tetrahedron as 4 ordered vertices.
type Tet [4]v3.Vec

// Centroid returns the average of an ordered planar polygon's vertices,
// used as the face centroid in GetTets.
func Centroid(nodes []v3.Vec) v3.Vec {
	var sum v3.Vec
	for _, n := range nodes {
		sum = sum.Add(n)
	}
	return sum.MulScalar(1.0 / float64(len(nodes)))
}

// GetTets fans an ordered planar polygon (size >= 3) around its
// centroid and against apex p, returning one tet per polygon edge:
// {p, faceCentroid, nodes[i], nodes[i+1 mod n]}.
func GetTets(p v3.Vec, nodes []v3.Vec) []Tet {
	n := len(nodes)
	if n < 3 {
		return nil
	}
	centroid := Centroid(nodes)
	tets := make([]Tet, n)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		tets[i] = Tet{p, centroid, nodes[i], nodes[j]}
	}
	return tets
}

// GetTetVolume returns (1/6)*|s1 . (s2 x s3)| with s_k = tet[k]-tet[0].
func GetTetVolume(t Tet) float64 {
	s1 := t[1].Sub(t[0])
	s2 := t[2].Sub(t[0])
	s3 := t[3].Sub(t[0])
	v := s1.Dot(s2.Cross(s3)) / 6.0
	if v < 0 {
		return -v
	}
	return v
}

// AffineMap is the pair (A, d) mapping the canonical unit tet onto an
// arbitrary tet: x = A*u + d for u in the unit tet.
type AffineMap struct {
	// A is row-major 3x3: columns are (nodes[1]-nodes[0], nodes[2]-nodes[0], nodes[3]-nodes[0]).
	A [9]float64
	D v3.Vec
}

// GetUnitToTetMap builds the affine map from the canonical unit tet
// {origin, e1, e2, e3} onto the tet spanned by nodes (size 4).
func GetUnitToTetMap(nodes []v3.Vec) AffineMap {
	d := nodes[0]
	c1 := nodes[1].Sub(d)
	c2 := nodes[2].Sub(d)
	c3 := nodes[3].Sub(d)
	return AffineMap{
		A: [9]float64{
			c1.X, c2.X, c3.X,
			c1.Y, c2.Y, c3.Y,
			c1.Z, c2.Z, c3.Z,
		},
		D: d,
	}
}

// Apply maps a point u in the unit tet to the arbitrary tet.
func (m AffineMap) Apply(u v3.Vec) v3.Vec {
	return v3.Vec{
		X: m.A[0]*u.X + m.A[1]*u.Y + m.A[2]*u.Z,
		Y: m.A[3]*u.X + m.A[4]*u.Y + m.A[5]*u.Z,
		Z: m.A[6]*u.X + m.A[7]*u.Y + m.A[8]*u.Z,
	}.Add(m.D)
}

// Det returns det(A), the Jacobian scale factor of the affine map
// (6x the tet volume for a map built from a unit tet of volume 1/6).
func (m AffineMap) Det() float64 {
	a := m.A
	return a[0]*(a[4]*a[8]-a[5]*a[7]) -
		a[1]*(a[3]*a[8]-a[5]*a[6]) +
		a[2]*(a[3]*a[7]-a[4]*a[6])
}
