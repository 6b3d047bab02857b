package hypergraph

// Builder assembles a hypergraph from individual vertices and hyperedges.
//
// Vertices are numbered in the order they are added. Hyperedges reference
// vertex ids that may be added later; everything is validated once in
// [Builder.Build]. A Builder is not safe for concurrent use.
type Builder struct {
	vertexWeights []int
	edgeWeights   []int
	offsets       []int
	pins          []int

	weightedVertices bool
	weightedEdges    bool
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{offsets: []int{0}}
}

// AddVertex appends a vertex with the given weight and returns its id.
func (b *Builder) AddVertex(weight int) int {
	if weight != DefaultVertexWeight {
		b.weightedVertices = true
	}
	b.vertexWeights = append(b.vertexWeights, weight)
	return len(b.vertexWeights) - 1
}

// AddVertices appends n vertices with the default weight.
func (b *Builder) AddVertices(n int) {
	for range n {
		b.AddVertex(DefaultVertexWeight)
	}
}

// AddHyperedge appends a hyperedge connecting pins and returns its id.
func (b *Builder) AddHyperedge(weight int, pins ...int) int {
	if weight != DefaultHyperedgeWeight {
		b.weightedEdges = true
	}
	b.edgeWeights = append(b.edgeWeights, weight)
	b.pins = append(b.pins, pins...)
	b.offsets = append(b.offsets, len(b.pins))
	return len(b.edgeWeights) - 1
}

// Build validates and returns the hypergraph. Weight arrays are only set when
// at least one element deviates from the default.
func (b *Builder) Build() (*Hypergraph, error) {
	var vw, ew []int
	if b.weightedVertices {
		vw = b.vertexWeights
	}
	if b.weightedEdges {
		ew = b.edgeWeights
	}
	return New(len(b.vertexWeights), len(b.edgeWeights), b.offsets, b.pins, ew, vw)
}
