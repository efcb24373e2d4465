package reconstruct

import (
	"github.com/lanl/tardigrade-overlap-coupling-sub002/config"
	"github.com/lanl/tardigrade-overlap-coupling-sub002/fe"
	v3 "github.com/lanl/tardigrade-overlap-coupling-sub002/vec/v3"
)

// LocalElement is the optional macro element whose hull clips the
// reconstruction: a hex8 cell's nodal coordinates.
type LocalElement struct {
	Coords [8]v3.Vec
}

// Contains reports whether x lies within the element's hull.
func (e LocalElement) Contains(x v3.Vec) bool {
	return fe.Hex8{}.ContainsPoint(x, e.Coords)
}

// clipToPlanes projects any vertex on the outside of a bounding plane
// onto that plane, so the reconstruction ends exactly on it. A plane's
// outward normal points away from the kept half-space.
func clipToPlanes(v v3.Vec, planes []config.BoundingPlane) v3.Vec {
	for _, p := range planes {
		n := p.Normal
		length := n.Length()
		if length == 0 {
			continue
		}
		n = n.MulScalar(1 / length)
		dist := n.Dot(v.Sub(p.Point))
		if dist > 0 {
			v = v.Sub(n.MulScalar(dist))
		}
	}
	return v
}

// clipToElement reports whether a boundary vertex survives clipping
// to an optional local-element hull; vertices outside the hull are
// discarded rather than projected, since the element's containsPoint
// test gives no gradient to project along.
func clipToElement(v v3.Vec, elem *LocalElement) bool {
	if elem == nil {
		return true
	}
	return elem.Contains(v)
}
