package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"

	v3 "github.com/lanl/tardigrade-overlap-coupling-sub002/vec/v3"
)

func TestUnitTetVolume(t *testing.T) {
	unit := Tet{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
	}
	assert.InDelta(t, 1.0/6.0, GetTetVolume(unit), 1e-12)
}

func TestGetTetsCoversPolygon(t *testing.T) {
	apex := v3.Vec{X: 0, Y: 0, Z: 1}
	square := []v3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 1, Y: 1, Z: 0},
		{X: 0, Y: 1, Z: 0},
	}
	tets := GetTets(apex, square)
	assert.Len(t, tets, 4)

	var total float64
	for _, tet := range tets {
		total += GetTetVolume(tet)
	}
	// Pyramid over a unit square with apex height 1 has volume 1/3.
	assert.InDelta(t, 1.0/3.0, total, 1e-9)
}

func TestUnitToTetMap(t *testing.T) {
	nodes := []v3.Vec{
		{X: 1, Y: 1, Z: 1},
		{X: 3, Y: 1, Z: 1},
		{X: 1, Y: 4, Z: 1},
		{X: 1, Y: 1, Z: 5},
	}
	m := GetUnitToTetMap(nodes)

	origin := m.Apply(v3.Vec{})
	e1 := m.Apply(v3.Vec{X: 1})
	e2 := m.Apply(v3.Vec{Y: 1})
	e3 := m.Apply(v3.Vec{Z: 1})

	assert.InDelta(t, 0.0, origin.Sub(nodes[0]).Length(), 1e-9)
	assert.InDelta(t, 0.0, e1.Sub(nodes[1]).Length(), 1e-9)
	assert.InDelta(t, 0.0, e2.Sub(nodes[2]).Length(), 1e-9)
	assert.InDelta(t, 0.0, e3.Sub(nodes[3]).Length(), 1e-9)

	// det(A) should be 6x the mapped tet's volume.
	mapped := Tet{nodes[0], nodes[1], nodes[2], nodes[3]}
	assert.InDelta(t, GetTetVolume(mapped)*6, m.Det(), 1e-9)
}
