package builtin

import (
	"github.com/matzehuels/hyperpart/pkg/engine"
)

// graph is the engine's internal hypergraph: CSR pins plus the transposed
// vertex -> hyperedge incidence.
type graph struct {
	n, m     int
	offsets  []int
	pins     []int
	ew       []int64
	vw       []int64
	vOffsets []int
	vEdges   []int
	total    int64
}

func newGraph(n, m int, offsets, pins []int, ew, vw []int64) *graph {
	g := &graph{n: n, m: m, offsets: offsets, pins: pins, ew: ew, vw: vw}
	for _, w := range vw {
		g.total += w
	}

	g.vOffsets = make([]int, n+1)
	for _, p := range pins {
		g.vOffsets[p+1]++
	}
	for v := 0; v < n; v++ {
		g.vOffsets[v+1] += g.vOffsets[v]
	}
	g.vEdges = make([]int, len(pins))
	next := make([]int, n)
	copy(next, g.vOffsets[:n])
	for e := 0; e < m; e++ {
		for _, p := range g.edge(e) {
			g.vEdges[next[p]] = e
			next[p]++
		}
	}
	return g
}

// graphFromInput converts boundary input, dropping repeated pins within a
// hyperedge so that every (vertex, hyperedge) incidence is unique.
func graphFromInput(in engine.Input) *graph {
	ew := make([]int64, in.NumHyperedges)
	for i, w := range in.HyperedgeWeights {
		ew[i] = int64(w)
	}
	vw := make([]int64, in.NumVertices)
	for i, w := range in.VertexWeights {
		vw[i] = int64(w)
	}

	offsets := make([]int, 1, in.NumHyperedges+1)
	pins := make([]int, 0, len(in.Pins))
	last := make([]int, in.NumVertices)
	for i := range last {
		last[i] = -1
	}
	for e := 0; e < in.NumHyperedges; e++ {
		for _, p := range in.Pins[in.Offsets[e]:in.Offsets[e+1]] {
			if last[p] != e {
				last[p] = e
				pins = append(pins, p)
			}
		}
		offsets = append(offsets, len(pins))
	}
	return newGraph(in.NumVertices, in.NumHyperedges, offsets, pins, ew, vw)
}

func (g *graph) edge(e int) []int     { return g.pins[g.offsets[e]:g.offsets[e+1]] }
func (g *graph) edgeSize(e int) int   { return g.offsets[e+1] - g.offsets[e] }
func (g *graph) incident(v int) []int { return g.vEdges[g.vOffsets[v]:g.vOffsets[v+1]] }

// objective evaluates part under obj from scratch.
func (g *graph) objective(part []int32, k int, obj string) int64 {
	return g.objectiveWith(part, obj, make([]int, k))
}

// objectiveWith is objective with a caller-provided scratch slice of length k.
func (g *graph) objectiveWith(part []int32, obj string, seen []int) int64 {
	for i := range seen {
		seen[i] = -1
	}
	var total int64
	for e := 0; e < g.m; e++ {
		lambda := int64(0)
		for _, p := range g.edge(e) {
			if b := part[p]; seen[b] != e {
				seen[b] = e
				lambda++
			}
		}
		if lambda <= 1 {
			continue
		}
		if obj == ObjectiveCut {
			total += g.ew[e]
		} else {
			total += g.ew[e] * (lambda - 1)
		}
	}
	return total
}

// blockWeights sums vertex weights per block.
func (g *graph) blockWeights(part []int32, k int) []int64 {
	bw := make([]int64, k)
	for v, b := range part {
		bw[b] += g.vw[v]
	}
	return bw
}

// subgraph returns the hypergraph induced by vertices, plus the map from
// sub-vertex to original vertex. With dropCut, hyperedges not fully contained
// in vertices are removed (cut-net splitting); otherwise they are restricted
// to their pins inside vertices (net splitting). Hyperedges left with fewer
// than two pins are dropped as they cannot affect any objective.
func (g *graph) subgraph(vertices []int, dropCut bool) *graph {
	local := make(map[int]int, len(vertices))
	vw := make([]int64, len(vertices))
	for i, v := range vertices {
		local[v] = i
		vw[i] = g.vw[v]
	}

	offsets := []int{0}
	var pins []int
	var ew []int64
	for e := 0; e < g.m; e++ {
		start := len(pins)
		inside := 0
		for _, p := range g.edge(e) {
			if lv, ok := local[p]; ok {
				pins = append(pins, lv)
				inside++
			}
		}
		if inside < 2 || (dropCut && inside != g.edgeSize(e)) {
			pins = pins[:start]
			continue
		}
		offsets = append(offsets, len(pins))
		ew = append(ew, g.ew[e])
	}
	return newGraph(len(vertices), len(ew), offsets, pins, ew, vw)
}
