package render

import (
	"bytes"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/matzehuels/hyperpart/pkg/hypergraph"
)

// Palette holds block fill colours; blocks beyond its length reuse colours
// cyclically.
var Palette = []string{
	"#8dd3c7", "#ffffb3", "#bebada", "#fb8072", "#80b1d3", "#fdb462",
	"#b3de69", "#fccde5", "#d9d9d9", "#bc80bd", "#ccebc5", "#ffed6f",
}

// Options configures DOT generation.
type Options struct {
	// Weights adds vertex and hyperedge weights to labels.
	Weights bool `json:"weights,omitempty"`

	// CutOnly omits hyperedges that lie within a single block.
	CutOnly bool `json:"cut_only,omitempty"`

	// Flat draws vertices without grouping each block in a Graphviz cluster.
	Flat bool `json:"flat,omitempty"`
}

// ToDOT converts a partitioned hypergraph to Graphviz DOT. assignment must
// hold one block in [0,k) per vertex; a nil assignment draws the
// unpartitioned hypergraph.
func ToDOT(hg *hypergraph.Hypergraph, assignment []int, k int, opts Options) string {
	block := func(v int) int {
		if assignment == nil {
			return 0
		}
		return assignment[v]
	}
	cut := CutEdges(hg, assignment)

	var buf bytes.Buffer
	buf.WriteString("graph H {\n")
	buf.WriteString("  layout=neato;\n  overlap=false;\n  splines=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fontsize=10, width=0.3];\n")
	buf.WriteString("  edge [color=\"#888888\"];\n\n")

	writeVertex := func(indent string, v int) {
		label := fmt.Sprint(v)
		if opts.Weights {
			label = fmt.Sprintf("%d\\nw=%d", v, hg.VertexWeight(v))
		}
		fmt.Fprintf(&buf, "%sv%d [label=\"%s\", fillcolor=%q];\n", indent, v, label, blockColor(block(v)))
	}

	if !opts.Flat && assignment != nil && k > 1 {
		members := make([][]int, k)
		for v := 0; v < hg.NumVertices; v++ {
			members[block(v)] = append(members[block(v)], v)
		}
		for b, vs := range members {
			fmt.Fprintf(&buf, "  subgraph cluster_%d {\n    label=\"block %d\";\n    color=%q;\n", b, b, blockColor(b))
			for _, v := range vs {
				writeVertex("    ", v)
			}
			buf.WriteString("  }\n")
		}
	} else {
		for v := 0; v < hg.NumVertices; v++ {
			writeVertex("  ", v)
		}
	}
	buf.WriteString("\n")

	for e := 0; e < hg.NumHyperedges; e++ {
		isCut := cut.Contains(uint32(e))
		if opts.CutOnly && !isCut {
			continue
		}
		color := "#444444"
		if isCut {
			color = "#d62728"
		}
		xlabel := ""
		if opts.Weights {
			xlabel = fmt.Sprintf(", xlabel=\"%d\"", hg.HyperedgeWeight(e))
		}
		fmt.Fprintf(&buf, "  e%d [shape=point, width=0.08, color=%q%s];\n", e, color, xlabel)
		for _, p := range hg.Hyperedge(e) {
			fmt.Fprintf(&buf, "  e%d -- v%d [color=%q];\n", e, p, color)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// CutEdges returns the hyperedges whose pins lie in more than one block.
func CutEdges(hg *hypergraph.Hypergraph, assignment []int) *roaring.Bitmap {
	cut := roaring.New()
	if assignment == nil {
		return cut
	}
	for e := 0; e < hg.NumHyperedges; e++ {
		pins := hg.Hyperedge(e)
		for _, p := range pins[min(1, len(pins)):] {
			if assignment[p] != assignment[pins[0]] {
				cut.Add(uint32(e))
				break
			}
		}
	}
	return cut
}

func blockColor(b int) string { return Palette[b%len(Palette)] }
