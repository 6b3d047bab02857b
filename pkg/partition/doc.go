// Package partition is the resource-managed boundary to a hypergraph
// partitioning engine.
//
// Callers build a validated [hypergraph.Hypergraph], turn it into an owned
// engine-side [Hypergraph] handle, configure a [Context], and request k-way
// partitions:
//
//	ctx, err := partition.NewContext()
//	if err != nil {
//	    return err
//	}
//	defer ctx.Close()
//	if err := ctx.ConfigureFromFile("km1_direct.toml"); err != nil {
//	    return err
//	}
//
//	h, err := partition.NewHypergraph(2, hg)
//	if err != nil {
//	    return err
//	}
//	defer h.Close()
//	res, err := h.Partition(2, 0.03, ctx)
//
// # Validation
//
// All input validation is local and eager. Invalid hypergraphs, block counts
// and imbalance values fail with INVALID_INPUT before any engine resource is
// allocated, and engine results are checked before they are returned: a
// result always has one block id in [0,k) per vertex, otherwise the call
// fails with ENGINE_FAILURE. There are no partial results.
//
// # Ownership
//
// Each handle owns exactly one engine resource and releases it exactly once,
// on Close. Close is idempotent; any other use after Close fails with
// HANDLE_CLOSED. Handles that are never closed are released by a finalizer,
// which logs a warning.
//
// # Concurrency
//
// Handles are safe for concurrent use. Engine calls on one handle are
// serialized, and a context shared by several hypergraphs serializes their
// partition calls. Distinct handles run concurrently.
//
// The engine call itself cannot be interrupted. [Hypergraph.PartitionContext]
// runs it on a worker goroutine and returns CANCELED when the context ends
// first; both handles involved are then abandoned and fail with
// HANDLE_ABANDONED on further use, and their engine resources are released
// once the worker finishes and the handles are closed.
package partition
