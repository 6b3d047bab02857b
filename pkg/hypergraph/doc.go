// Package hypergraph provides the validated in-memory hypergraph model that is
// handed to a partitioning engine.
//
// # Overview
//
// A hypergraph has n vertices (ids 0..n-1) and m hyperedges (ids 0..m-1).
// Each hyperedge connects an arbitrary subset of vertices. Memberships are
// called pins and are stored in compressed sparse row (CSR) form:
//
//	offsets: [0, 2, 6, 9, 12]                  // len m+1
//	pins:    [0, 2, 0, 1, 3, 4, 3, 4, 6, 2, 5, 6]
//
// The pins of hyperedge e are pins[offsets[e]:offsets[e+1]], so hyperedge 1
// above connects vertices 0, 1, 3 and 4.
//
// # Validation
//
// [New] copies its inputs and validates every invariant eagerly, before any
// engine resource exists. Violations are reported as INVALID_INPUT errors from
// [github.com/matzehuels/hyperpart/pkg/errors] whose cause is one of the
// sentinel errors of this package, for example [ErrNonMonotonicOffsets] or
// [ErrPinOutOfRange]:
//
//	_, err := hypergraph.New(7, 4, []int{0, 2, 1, 9, 12}, pins, nil, nil)
//	errors.Is(err, hypergraph.ErrNonMonotonicOffsets) // true
//
// # Weights
//
// Vertex and hyperedge weights are optional. A nil (or empty) weight slice
// means every element has weight 1 ([DefaultVertexWeight],
// [DefaultHyperedgeWeight]). Present slices must match the element count
// exactly and may not contain negative values.
//
// # Construction Helpers
//
// [Builder] assembles a hypergraph incrementally from hyperedge pin lists and
// validates it through [New] when [Builder.Build] is called.
package hypergraph
