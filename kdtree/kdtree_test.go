package kdtree

import (
	"testing"

	"github.com/stretchr/testify/assert"

	v3 "github.com/lanl/tardigrade-overlap-coupling-sub002/vec/v3"
)

func TestRangeBoxMatchesBruteForce(t *testing.T) {
	points := []v3.Vec{
		{X: 2, Y: 3}, {X: 5, Y: 4}, {X: 9, Y: 6},
		{X: 4, Y: 7}, {X: 8, Y: 1}, {X: 7, Y: 2},
	}
	tree := Build(points)

	lower := v3.Vec{X: 3.5, Y: 1.0}
	upper := v3.Vec{X: 7.5, Y: 5.0}

	got := tree.RangeBox(lower, upper)
	gotSet := map[int]bool{}
	for _, g := range got {
		gotSet[g] = true
	}

	var want []int
	for i, p := range points {
		box := v3.Box{Min: lower, Max: upper}
		if box.Contains(p) {
			want = append(want, i)
		}
	}
	assert.Len(t, got, len(want))
	for _, w := range want {
		assert.True(t, gotSet[w])
	}

	// Expected result set = {index of (5,4), index of (7,2)}.
	assert.True(t, gotSet[1])
	assert.True(t, gotSet[5])
	assert.Len(t, got, 2)
}

func TestRangeBoxRandomAgainstBruteForce(t *testing.T) {
	points := make([]v3.Vec, 200)
	seed := 1234
	next := func() float64 {
		seed = (seed*1103515245 + 12345) & 0x7fffffff
		return float64(seed%2000)/100.0 - 10.0
	}
	for i := range points {
		points[i] = v3.Vec{X: next(), Y: next(), Z: next()}
	}
	tree := Build(points)

	lower := v3.Vec{X: -3, Y: -4, Z: -2}
	upper := v3.Vec{X: 2, Y: 5, Z: 3}
	got := tree.RangeBox(lower, upper)
	gotSet := map[int]bool{}
	for _, g := range got {
		gotSet[g] = true
	}

	box := v3.Box{Min: lower, Max: upper}
	wantCount := 0
	for i, p := range points {
		if box.Contains(p) {
			wantCount++
			assert.True(t, gotSet[i])
		}
	}
	assert.Equal(t, wantCount, len(got))
}

func TestRadiusQueryFiltersExactDistance(t *testing.T) {
	points := []v3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 2, Z: 0},
		{X: 10, Y: 10, Z: 10},
	}
	tree := Build(points)
	got := tree.Radius(v3.Vec{}, 1.5)
	gotSet := map[int]bool{}
	for _, g := range got {
		gotSet[g] = true
	}
	assert.True(t, gotSet[0])
	assert.True(t, gotSet[1])
	assert.False(t, gotSet[2])
	assert.False(t, gotSet[3])
}

func TestKNearest(t *testing.T) {
	points := []v3.Vec{
		{X: 0}, {X: 1}, {X: 2}, {X: 3}, {X: 10},
	}
	tree := Build(points)
	got := tree.KNearest(v3.Vec{X: 0}, 2, 0)
	assert.Len(t, got, 2)
	gotSet := map[int]bool{}
	for _, g := range got {
		gotSet[g] = true
	}
	assert.True(t, gotSet[1])
	assert.True(t, gotSet[2])
}
