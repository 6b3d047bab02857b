package hypergraph

// Stats summarises the shape of a hypergraph.
type Stats struct {
	NumVertices      int     `json:"num_vertices"`
	NumHyperedges    int     `json:"num_hyperedges"`
	NumPins          int     `json:"num_pins"`
	TotalWeight      int64   `json:"total_vertex_weight"`
	MinEdgeSize      int     `json:"min_edge_size"`
	MaxEdgeSize      int     `json:"max_edge_size"`
	AvgEdgeSize      float64 `json:"avg_edge_size"`
	MaxVertexDegree  int     `json:"max_vertex_degree"`
	AvgVertexDegree  float64 `json:"avg_vertex_degree"`
	IsolatedVertices int     `json:"isolated_vertices"`
	WeightedVertices bool    `json:"weighted_vertices"`
	WeightedEdges    bool    `json:"weighted_edges"`
}

// Stats computes summary statistics. The hypergraph must be valid.
func (hg *Hypergraph) Stats() Stats {
	s := Stats{
		NumVertices:      hg.NumVertices,
		NumHyperedges:    hg.NumHyperedges,
		NumPins:          len(hg.Pins),
		TotalWeight:      hg.TotalVertexWeight(),
		WeightedVertices: hg.HasVertexWeights(),
		WeightedEdges:    hg.HasHyperedgeWeights(),
	}

	if hg.NumHyperedges > 0 {
		s.MinEdgeSize = hg.HyperedgeSize(0)
		for e := 0; e < hg.NumHyperedges; e++ {
			size := hg.HyperedgeSize(e)
			s.MinEdgeSize = min(s.MinEdgeSize, size)
			s.MaxEdgeSize = max(s.MaxEdgeSize, size)
		}
		s.AvgEdgeSize = float64(len(hg.Pins)) / float64(hg.NumHyperedges)
	}

	if hg.NumVertices > 0 {
		degree := make([]int, hg.NumVertices)
		for _, p := range hg.Pins {
			degree[p]++
		}
		for _, d := range degree {
			s.MaxVertexDegree = max(s.MaxVertexDegree, d)
			if d == 0 {
				s.IsolatedVertices++
			}
		}
		s.AvgVertexDegree = float64(len(hg.Pins)) / float64(hg.NumVertices)
	}

	return s
}
