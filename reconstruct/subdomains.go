package reconstruct

import (
	v3 "github.com/lanl/tardigrade-overlap-coupling-sub002/vec/v3"
)

// SurfaceSubdomains is the result of partitioning a set of boundary
// vertices into groups whose pairwise minimum distance within a group
// exceeds a threshold.
type SurfaceSubdomains struct {
	// GroupSizes holds the vertex count of each group.
	GroupSizes []int
	// VertexIndices is the concatenation of each group's vertex
	// indices (into Engine.BoundaryVertices), ordered by group.
	VertexIndices []int
}

// GetSurfaceSubdomains partitions the engine's boundary vertices by
// repeated farthest-point selection: each group is grown by always
// admitting, next, the not-yet-grouped vertex farthest from the
// group's current members, until no candidate is farther than
// minDistance, at which point a new group starts.
func (e *Engine) GetSurfaceSubdomains(minDistance float64) SurfaceSubdomains {
	verts := e.boundaryVertices
	n := len(verts)
	assigned := make([]bool, n)

	var groupSizes []int
	var order []int

	remaining := n
	for remaining > 0 {
		seed := -1
		for i := 0; i < n; i++ {
			if !assigned[i] {
				seed = i
				break
			}
		}
		if seed == -1 {
			break
		}
		group := []int{seed}
		assigned[seed] = true
		remaining--
		order = append(order, seed)

		// minDist[i] tracks the distance from vertex i to its nearest
		// admitted member so far; growing the group only ever shrinks
		// it, so each growth step is a single pass over the unassigned
		// vertices rather than a rescan against every group member.
		minDist := make([]float64, n)
		for i := range minDist {
			minDist[i] = verts[i].Sub(verts[seed]).Length()
		}

		for {
			next, dist := farthestUnassigned(minDist, assigned)
			if next == -1 || dist <= minDistance {
				break
			}
			group = append(group, next)
			assigned[next] = true
			remaining--
			order = append(order, next)
			for i, v := range verts {
				if assigned[i] {
					continue
				}
				if d := v.Sub(verts[next]).Length(); d < minDist[i] {
					minDist[i] = d
				}
			}
		}
		groupSizes = append(groupSizes, len(group))
	}

	return SurfaceSubdomains{GroupSizes: groupSizes, VertexIndices: order}
}

// farthestUnassigned returns the unassigned vertex with the largest
// minDist entry (classic farthest-point sampling).
func farthestUnassigned(minDist []float64, assigned []bool) (int, float64) {
	best := -1
	bestDist := -1.0
	for i, d := range minDist {
		if assigned[i] {
			continue
		}
		if d > bestDist {
			bestDist = d
			best = i
		}
	}
	return best, bestDist
}
