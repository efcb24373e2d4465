// Package kdtree implements a binary k-d tree over a borrowed 3-D
// point array, supporting axis-aligned range-box queries and radius
// queries. The tree never copies the point array; it only ever stores
// indices into it, and its nodes are owned exclusively by their
// parent so the whole tree is released with a single recursive
// destroy.
package kdtree

import (
	v3 "github.com/lanl/tardigrade-overlap-coupling-sub002/vec/v3"
)

const dims = 3

type node struct {
	index       int
	left, right *node
}

// Tree is a binary k-d tree over Points, built once per point cloud.
type Tree struct {
	Points []v3.Vec
	root   *node
}

// Build constructs a k-d tree over points. The splitting dimension at
// depth d is d mod 3; each node stores the median index along that
// axis and recurses on the two halves.
func Build(points []v3.Vec) *Tree {
	indices := make([]int, len(points))
	for i := range indices {
		indices[i] = i
	}
	t := &Tree{Points: points}
	t.root = build(points, indices, 0)
	return t
}

func build(points []v3.Vec, indices []int, depth int) *node {
	if len(indices) == 0 {
		return nil
	}
	axis := depth % dims
	medianSort(points, indices, axis)
	mid := len(indices) / 2

	n := &node{index: indices[mid]}
	n.left = build(points, indices[:mid], depth+1)
	n.right = build(points, indices[mid+1:], depth+1)
	return n
}

// medianSort partially orders indices so that indices[len/2] holds the
// median element along axis, with smaller elements to its left
// (quickselect, in place).
func medianSort(points []v3.Vec, indices []int, axis int) {
	k := len(indices) / 2
	lo, hi := 0, len(indices)-1
	key := func(i int) float64 { return points[indices[i]].Component(axis) }
	for lo < hi {
		pivot := key((lo + hi) / 2)
		i, j := lo, hi
		for i <= j {
			for key(i) < pivot {
				i++
			}
			for key(j) > pivot {
				j--
			}
			if i <= j {
				indices[i], indices[j] = indices[j], indices[i]
				i++
				j--
			}
		}
		if k <= j {
			hi = j
		} else if k >= i {
			lo = i
		} else {
			break
		}
	}
}

// Destroy releases the tree. Since the tree owns no resources beyond
// its own nodes (points are borrowed), this simply drops the root for
// the garbage collector; it mirrors the reference implementation's
// single recursive destroy so callers have an explicit release point.
func (t *Tree) Destroy() {
	t.root = nil
	t.Points = nil
}

// RangeBox returns the indices of all points componentwise within
// [lower, upper].
func (t *Tree) RangeBox(lower, upper v3.Vec) []int {
	var out []int
	box := v3.Box{Min: lower, Max: upper}
	var walk func(n *node, depth int)
	walk = func(n *node, depth int) {
		if n == nil {
			return
		}
		p := t.Points[n.index]
		if box.Contains(p) {
			out = append(out, n.index)
		}
		axis := depth % dims
		v := p.Component(axis)
		if lower.Component(axis) <= v {
			walk(n.left, depth+1)
		}
		if upper.Component(axis) >= v {
			walk(n.right, depth+1)
		}
	}
	walk(t.root, 0)
	return out
}

// Radius returns the indices of all points within distance r of
// origin: a range-box query followed by an exact distance filter.
func (t *Tree) Radius(origin v3.Vec, r float64) []int {
	lower := v3.Vec{X: origin.X - r, Y: origin.Y - r, Z: origin.Z - r}
	upper := v3.Vec{X: origin.X + r, Y: origin.Y + r, Z: origin.Z + r}
	candidates := t.RangeBox(lower, upper)
	r2 := r * r
	out := candidates[:0]
	for _, idx := range candidates {
		if t.Points[idx].Sub(origin).Length2() <= r2 {
			out = append(out, idx)
		}
	}
	return out
}

// KNearest returns the indices of the k nearest neighbours to origin,
// excluding origin itself if it is one of the tree's points (matched
// by index, not value). It is implemented as an expanding radius
// search, adequate for the reconstruction engine's per-point median
// neighbour-distance statistics where k is small (single digits).
func (t *Tree) KNearest(origin v3.Vec, k int, excludeIndex int) []int {
	if k <= 0 || len(t.Points) == 0 {
		return nil
	}
	box := boundingBox(t.Points)
	diag := box.Max.Sub(box.Min).Length()
	if diag == 0 {
		diag = 1
	}
	r := diag / 100
	for {
		candidates := t.Radius(origin, r)
		count := len(candidates)
		if excludeIndex >= 0 {
			for _, c := range candidates {
				if c == excludeIndex {
					count--
					break
				}
			}
		}
		if count >= k || r >= diag*2 {
			return nearestN(t.Points, origin, candidates, k, excludeIndex)
		}
		r *= 2
	}
}

func nearestN(points []v3.Vec, origin v3.Vec, candidates []int, k int, excludeIndex int) []int {
	type distIdx struct {
		d   float64
		idx int
	}
	list := make([]distIdx, 0, len(candidates))
	for _, idx := range candidates {
		if idx == excludeIndex {
			continue
		}
		list = append(list, distIdx{points[idx].Sub(origin).Length2(), idx})
	}
	// insertion sort: candidate lists are small (local neighbourhoods).
	for i := 1; i < len(list); i++ {
		for j := i; j > 0 && list[j-1].d > list[j].d; j-- {
			list[j-1], list[j] = list[j], list[j-1]
		}
	}
	if len(list) > k {
		list = list[:k]
	}
	out := make([]int, len(list))
	for i, e := range list {
		out[i] = e.idx
	}
	return out
}

func boundingBox(points []v3.Vec) v3.Box {
	box := v3.Box{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box = box.Extend(p)
	}
	return box
}
