package builtin

import (
	"encoding/binary"
	"math/rand/v2"
	"slices"
)

// maxRatedEdgeSize excludes very large hyperedges from cluster ratings; their
// per-pin contribution w(e)/(|e|-1) is negligible and visiting them is not.
const maxRatedEdgeSize = 1000

// level is one coarsening step: mapping sends each vertex of the finer graph
// to its cluster in g.
type level struct {
	g       *graph
	mapping []int
}

// coarsen contracts g until at most limit vertices remain or a step fails to
// shrink the vertex count by minShrink.
func coarsen(g *graph, limit int, maxClusterWeight int64, minShrink float64, rng *rand.Rand) []level {
	var levels []level
	cur := g
	for cur.n > limit {
		mapping, nc := cluster(cur, maxClusterWeight, rng)
		if float64(cur.n) < minShrink*float64(nc) {
			break
		}
		coarse := contract(cur, mapping, nc)
		levels = append(levels, level{g: coarse, mapping: mapping})
		cur = coarse
	}
	return levels
}

// cluster groups vertices by heavy-edge rating: visiting vertices in random
// order, each singleton joins the neighbouring cluster with the highest sum of
// w(e)/(|e|-1) over shared hyperedges, provided the cluster stays within
// maxClusterWeight. It returns the vertex -> cluster map and the cluster count.
func cluster(g *graph, maxClusterWeight int64, rng *rand.Rand) ([]int, int) {
	rep := make([]int, g.n)
	size := make([]int, g.n)
	weight := make([]int64, g.n)
	for v := range rep {
		rep[v] = v
		size[v] = 1
		weight[v] = g.vw[v]
	}

	rating := make([]float64, g.n)
	var touched []int
	for _, u := range rng.Perm(g.n) {
		if size[rep[u]] > 1 {
			continue
		}
		for _, e := range g.incident(u) {
			s := g.edgeSize(e)
			if s < 2 || s > maxRatedEdgeSize {
				continue
			}
			r := float64(g.ew[e]) / float64(s-1)
			for _, p := range g.edge(e) {
				if p == u {
					continue
				}
				c := rep[p]
				if rating[c] == 0 {
					touched = append(touched, c)
				}
				rating[c] += r
			}
		}

		best := -1
		for _, c := range touched {
			if c == u || weight[c]+g.vw[u] > maxClusterWeight {
				continue
			}
			if best < 0 || rating[c] > rating[best] || (rating[c] == rating[best] && c < best) {
				best = c
			}
		}
		for _, c := range touched {
			rating[c] = 0
		}
		touched = touched[:0]

		if best >= 0 {
			rep[u] = best
			size[u]--
			size[best]++
			weight[best] += g.vw[u]
		}
	}

	ids := make([]int, g.n)
	for i := range ids {
		ids[i] = -1
	}
	mapping := make([]int, g.n)
	next := 0
	for v := 0; v < g.n; v++ {
		r := rep[v]
		if ids[r] < 0 {
			ids[r] = next
			next++
		}
		mapping[v] = ids[r]
	}
	return mapping, next
}

// contract builds the coarse graph induced by mapping. Pins are mapped and
// deduplicated, single-pin hyperedges are dropped and parallel hyperedges are
// merged by summing their weights.
func contract(g *graph, mapping []int, nc int) *graph {
	vw := make([]int64, nc)
	for v, c := range mapping {
		vw[c] += g.vw[v]
	}

	offsets := []int{0}
	var pins []int
	var ew []int64
	index := make(map[string]int)
	last := make([]int, nc)
	for i := range last {
		last[i] = -1
	}
	var key []byte

	for e := 0; e < g.m; e++ {
		start := len(pins)
		for _, p := range g.edge(e) {
			if c := mapping[p]; last[c] != e {
				last[c] = e
				pins = append(pins, c)
			}
		}
		if len(pins)-start < 2 {
			pins = pins[:start]
			continue
		}
		slices.Sort(pins[start:])

		key = key[:0]
		for _, p := range pins[start:] {
			key = binary.AppendUvarint(key, uint64(p))
		}
		if ce, ok := index[string(key)]; ok {
			ew[ce] += g.ew[e]
			pins = pins[:start]
			continue
		}
		index[string(key)] = len(ew)
		ew = append(ew, g.ew[e])
		offsets = append(offsets, len(pins))
	}
	return newGraph(nc, len(ew), offsets, pins, ew, vw)
}

// project maps a coarse partition back through mapping.
func project(coarse []int32, mapping []int) []int32 {
	fine := make([]int32, len(mapping))
	for v, c := range mapping {
		fine[v] = coarse[c]
	}
	return fine
}
