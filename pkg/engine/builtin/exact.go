package builtin

import "slices"

// exactApplicable reports whether k^n <= limit.
func exactApplicable(n, k, limit int) bool {
	if limit <= 0 {
		return false
	}
	count := 1
	for i := 0; i < n; i++ {
		if count > limit/k {
			return false
		}
		count *= k
	}
	return true
}

// exact enumerates every assignment and returns the best by [score]. When
// all limits are equal, blocks are interchangeable and only canonical
// labelings are visited: vertex v may open at most one new block. Ties keep
// the lexicographically first assignment, so the result is deterministic.
func exact(g *graph, k int, limits []int64, obj string) []int32 {
	symmetric := true
	for _, l := range limits {
		if l != limits[0] {
			symmetric = false
		}
	}

	part := make([]int32, g.n)
	best := make([]int32, g.n)
	var bestScore score
	found := false
	weight := make([]int64, k)
	seen := make([]int, k)

	var visit func(v, used int)
	visit = func(v, used int) {
		if v == g.n {
			var over int64
			for b, w := range weight {
				if w > limits[b] {
					over += w - limits[b]
				}
			}
			sc := score{overload: over, objective: g.objectiveWith(part, obj, seen)}
			if !found || sc.better(bestScore) {
				copy(best, part)
				bestScore, found = sc, true
			}
			return
		}
		open := k
		if symmetric {
			open = min(used+1, k)
		}
		for b := 0; b < open; b++ {
			part[v] = int32(b)
			weight[b] += g.vw[v]
			visit(v+1, max(used, b+1))
			weight[b] -= g.vw[v]
		}
	}
	visit(0, 0)
	return slices.Clip(best)
}
