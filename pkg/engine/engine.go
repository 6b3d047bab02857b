// Package engine defines the boundary to a partitioning engine.
//
// An [Engine] mirrors the shape of a native C API: it hands out opaque
// [Context] and [Hypergraph] resources that must be released with Free
// exactly once, signals allocation failure with a nil return, and performs
// partitioning as a single blocking call. Engines do not validate their
// inputs; callers are expected to go through package partition, which
// validates eagerly and owns every resource through a move-only handle.
//
// Engines register themselves by name:
//
//	import _ "github.com/matzehuels/hyperpart/pkg/engine/builtin"
//
//	e, err := engine.Lookup("builtin")
//
// The pure Go "builtin" engine is always available. The "kahypar" engine binds
// the KaHyPar C library and is only compiled with the kahypar build tag.
package engine

import (
	"errors"
)

// Context is an engine-side configuration resource.
type Context interface {
	// Free releases the native resource. It must be called exactly once.
	Free()
}

// Hypergraph is an engine-side hypergraph resource built from an [Input].
type Hypergraph interface {
	// Free releases the native resource. It must be called exactly once.
	Free()
}

// Input is a validated hypergraph ready to cross the boundary. All arrays are
// owned by the callee once passed and weights are already resolved, so
// len(VertexWeights) == NumVertices and len(HyperedgeWeights) == NumHyperedges.
type Input struct {
	NumVertices      int
	NumHyperedges    int
	Offsets          []int
	Pins             []int
	HyperedgeWeights []int
	VertexWeights    []int
}

// Engine is a hypergraph partitioning engine.
//
// Methods taking a Context or Hypergraph may assume the value was produced by
// the same engine and has not been freed. An Engine must be safe for
// concurrent use on distinct resources; concurrent use of one resource is
// serialized by the caller.
type Engine interface {
	// Name returns the registry name of the engine.
	Name() string

	// NewContext allocates a blank context. A nil return means allocation failed.
	NewContext() Context

	// ConfigureFromFile loads the configuration stored at path, replacing any
	// previous configuration of c including its seed. On error c is unchanged.
	ConfigureFromFile(c Context, path string) error

	// ConfigureFromString behaves like ConfigureFromFile for inline text.
	ConfigureFromString(c Context, text string) error

	// SetSeed overrides the seed of c until the next configure call.
	SetSeed(c Context, seed int32)

	// NewHypergraph builds an engine-side hypergraph. numBlocks is a hint
	// for the k that will later be requested. A nil return means allocation
	// failed.
	NewHypergraph(numBlocks int, in Input) Hypergraph

	// Partition computes a k-way partition of h with imbalance epsilon,
	// writing the block of vertex v to out[v] and returning the objective.
	// len(out) equals the number of vertices of h.
	Partition(h Hypergraph, k int, epsilon float64, c Context, out []int32) (int64, error)
}

// ErrWrongResource is returned by engines handed a resource they did not create.
var ErrWrongResource = errors.New("resource belongs to a different engine")
