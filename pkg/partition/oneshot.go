package partition

import "github.com/matzehuels/hyperpart/pkg/hypergraph"

// Partition builds a temporary hypergraph handle from the flat CSR arrays,
// partitions it once with c and releases it, whether or not the call
// succeeds. Weight slices may be nil.
func Partition(numVertices, numHyperedges int, imbalance float64, k int, vertexWeights, hyperedgeWeights, offsets, pins []int, c *Context, opts ...Option) (*Result, error) {
	hg, err := hypergraph.New(numVertices, numHyperedges, offsets, pins, hyperedgeWeights, vertexWeights)
	if err != nil {
		return nil, err
	}
	return PartitionModel(hg, k, imbalance, c, opts...)
}

// PartitionModel is [Partition] for an existing hypergraph model.
func PartitionModel(hg *hypergraph.Hypergraph, k int, epsilon float64, c *Context, opts ...Option) (*Result, error) {
	if c != nil {
		opts = append([]Option{WithEngineInstance(c.eng), WithLogger(c.opts.logger), WithController(c.opts.controller)}, opts...)
	}
	h, err := NewHypergraph(k, hg, opts...)
	if err != nil {
		return nil, err
	}
	defer h.Close()
	return h.Partition(k, epsilon, c)
}
