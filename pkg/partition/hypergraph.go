package partition

import (
	"context"
	"errors"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/matzehuels/hyperpart/pkg/engine"
	errs "github.com/matzehuels/hyperpart/pkg/errors"
	"github.com/matzehuels/hyperpart/pkg/hypergraph"
	"github.com/matzehuels/hyperpart/pkg/observability"
	"github.com/matzehuels/hyperpart/pkg/resource"
)

// Hypergraph owns an engine-side copy of a validated hypergraph. It is
// immutable and can be partitioned any number of times.
type Hypergraph struct {
	opts options
	eng  engine.Engine

	numBlocks   int
	n, m, pins  int
	totalWeight int64

	// call serializes engine calls that use res. Lock order: Hypergraph.call
	// before Context.call.
	call sync.Mutex

	mu        sync.Mutex
	res       engine.Hypergraph
	closed    bool
	abandoned bool
	running   bool
}

// NewHypergraph validates hg and copies it into the selected engine.
// numBlocks is the number of blocks the hypergraph will be partitioned into;
// engines may use it to size their structures.
//
// It fails with INVALID_INPUT if hg or numBlocks is invalid and with
// ALLOCATION_FAILED if the engine cannot build the hypergraph or the
// controller's pin budget is exhausted.
func NewHypergraph(numBlocks int, hg *hypergraph.Hypergraph, opts ...Option) (*Hypergraph, error) {
	if hg == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "hypergraph is nil")
	}
	if err := hg.Validate(); err != nil {
		return nil, err
	}
	if err := errs.ValidateBlocks(numBlocks); err != nil {
		return nil, err
	}
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}

	pins := int64(len(hg.Pins))
	if err := o.controller.AcquirePins(pins); err != nil {
		if errors.Is(err, resource.ErrPinLimitExceeded) {
			return nil, errs.Wrap(errs.ErrCodeAllocation, err, "hypergraph with %d pins", pins)
		}
		return nil, err
	}
	res := o.eng.NewHypergraph(numBlocks, engine.Input{
		NumVertices:      hg.NumVertices,
		NumHyperedges:    hg.NumHyperedges,
		Offsets:          slices.Clone(hg.Offsets),
		Pins:             slices.Clone(hg.Pins),
		HyperedgeWeights: hg.ResolvedHyperedgeWeights(),
		VertexWeights:    hg.ResolvedVertexWeights(),
	})
	if res == nil {
		o.controller.ReleasePins(pins)
		return nil, errs.New(errs.ErrCodeAllocation, "engine %s returned no hypergraph", o.eng.Name())
	}

	h := &Hypergraph{
		opts:        o,
		eng:         o.eng,
		numBlocks:   numBlocks,
		n:           hg.NumVertices,
		m:           hg.NumHyperedges,
		pins:        len(hg.Pins),
		totalWeight: hg.TotalVertexWeight(),
		res:         res,
	}
	o.controller.HypergraphOpened()
	observability.Partition().OnHypergraphCreate(context.Background(), o.eng.Name(), h.n, h.m, h.pins)
	o.logger.Debug("hypergraph created", "engine", o.eng.Name(), "vertices", h.n, "hyperedges", h.m, "pins", h.pins)
	runtime.SetFinalizer(h, (*Hypergraph).finalize)
	return h, nil
}

// Build validates the flat CSR arrays and creates a hypergraph handle from
// them. Weight slices may be nil, meaning weight 1 everywhere.
func Build(numBlocks, numVertices, numHyperedges int, offsets, pins, hyperedgeWeights, vertexWeights []int, opts ...Option) (*Hypergraph, error) {
	hg, err := hypergraph.New(numVertices, numHyperedges, offsets, pins, hyperedgeWeights, vertexWeights)
	if err != nil {
		return nil, err
	}
	return NewHypergraph(numBlocks, hg, opts...)
}

func (h *Hypergraph) NumVertices() int         { return h.n }
func (h *Hypergraph) NumHyperedges() int       { return h.m }
func (h *Hypergraph) NumPins() int             { return h.pins }
func (h *Hypergraph) NumBlocksHint() int       { return h.numBlocks }
func (h *Hypergraph) TotalVertexWeight() int64 { return h.totalWeight }
func (h *Hypergraph) Engine() string           { return h.eng.Name() }

// Abandoned reports whether a partition call on the handle was abandoned.
func (h *Hypergraph) Abandoned() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.abandoned
}

// Partition computes a k-way partition with imbalance tolerance epsilon
// using configuration c. It blocks until the engine returns.
//
// It fails with UNCONFIGURED_CONTEXT if c was never configured, with
// INVALID_INPUT if k < 1 or epsilon is negative or not finite, and with
// ENGINE_FAILURE if the engine fails or returns an invalid assignment.
func (h *Hypergraph) Partition(k int, epsilon float64, c *Context) (*Result, error) {
	return h.PartitionContext(context.Background(), k, epsilon, c)
}

// PartitionContext is like Partition but returns CANCELED once ctx ends.
// The engine call keeps running on a worker goroutine; h and c are
// abandoned and must not be used again except to Close them.
func (h *Hypergraph) PartitionContext(ctx context.Context, k int, epsilon float64, c *Context) (*Result, error) {
	if c == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "context is nil")
	}
	if err := h.usable(); err != nil {
		return nil, err
	}
	if err := c.usable(); err != nil {
		return nil, err
	}
	if c.State() != StateConfigured {
		return nil, errs.New(errs.ErrCodeUnconfiguredContext, "context must be configured before partitioning")
	}
	if err := errs.ValidateBlocks(k); err != nil {
		return nil, err
	}
	if err := errs.ValidateImbalance(epsilon); err != nil {
		return nil, err
	}
	if c.eng.Name() != h.eng.Name() {
		return nil, errs.New(errs.ErrCodeInvalidInput,
			"context belongs to engine %s, hypergraph to engine %s", c.eng.Name(), h.eng.Name())
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeCanceled, err, "partition")
	}

	ctrl := h.opts.controller
	if err := ctrl.AcquirePartition(ctx); err != nil {
		return nil, errs.Wrap(errs.ErrCodeCanceled, err, "waiting for a partition slot")
	}
	h.call.Lock()
	c.call.Lock()
	unlock := func() {
		c.call.Unlock()
		h.call.Unlock()
		ctrl.ReleasePartition()
	}
	if err := h.begin(); err != nil {
		unlock()
		return nil, err
	}
	seed, seedSet, err := c.begin()
	if err != nil {
		h.end()
		unlock()
		return nil, err
	}

	name := h.eng.Name()
	hooks := observability.Partition()
	hooks.OnPartitionStart(ctx, name, k, epsilon)
	h.opts.logger.Debug("partition start", "engine", name, "k", k, "epsilon", epsilon)
	start := time.Now()

	type outcome struct {
		objective int64
		out       []int32
		err       error
	}
	invoke := func() outcome {
		defer func() {
			c.end()
			h.end()
			unlock()
		}()
		out := make([]int32, h.n)
		obj, err := h.eng.Partition(h.res, k, epsilon, c.res, out)
		return outcome{objective: obj, out: out, err: err}
	}

	var o outcome
	if ctx.Done() == nil {
		o = invoke()
	} else {
		done := make(chan outcome, 1)
		go func() { done <- invoke() }()
		select {
		case o = <-done:
		case <-ctx.Done():
			select {
			case o = <-done:
			default:
				h.abandon()
				c.abandon()
				err := errs.Wrap(errs.ErrCodeCanceled, ctx.Err(), "partition abandoned; handles must not be reused")
				hooks.OnPartitionComplete(ctx, name, k, 0, time.Since(start), err)
				h.opts.logger.Warn("partition abandoned", "engine", name, "k", k, "err", ctx.Err())
				return nil, err
			}
		}
	}

	d := time.Since(start)
	res, err := h.result(o.objective, o.out, o.err, k)
	if res != nil {
		res.Epsilon = epsilon
		res.Seed, res.SeedSet = seed, seedSet
		res.Engine = name
		res.Duration = d
	}
	hooks.OnPartitionComplete(ctx, name, k, o.objective, d, err)
	if err != nil {
		h.opts.logger.Debug("partition failed", "engine", name, "k", k, "err", err)
		return nil, err
	}
	h.opts.logger.Debug("partition complete", "engine", name, "k", k, "objective", res.Objective, "duration", d)
	return res, nil
}

// result converts raw engine output, rejecting anything but a complete
// assignment.
func (h *Hypergraph) result(objective int64, out []int32, err error, k int) (*Result, error) {
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeEngineFailure, err, "engine %s", h.eng.Name())
	}
	if len(out) != h.n {
		return nil, errs.New(errs.ErrCodeEngineFailure, "engine returned %d block ids for %d vertices", len(out), h.n)
	}
	assignment := make([]int, len(out))
	for v, b := range out {
		if b < 0 || int(b) >= k {
			return nil, errs.New(errs.ErrCodeEngineFailure, "engine assigned vertex %d to block %d, want [0,%d)", v, b, k)
		}
		assignment[v] = int(b)
	}
	return &Result{Objective: objective, Assignment: assignment, K: k}, nil
}

// Close releases the engine hypergraph. It is idempotent. When an abandoned
// partition call still runs on the handle, the release happens when that
// call returns.
func (h *Hypergraph) Close() error {
	h.close(false)
	return nil
}

func (h *Hypergraph) finalize() { h.close(true) }

func (h *Hypergraph) close(leaked bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	runtime.SetFinalizer(h, nil)
	if leaked {
		h.opts.logger.Warn("hypergraph was not closed; released by finalizer", "engine", h.eng.Name())
	}
	if !h.running {
		h.releaseLocked(leaked)
	}
}

func (h *Hypergraph) releaseLocked(leaked bool) {
	if h.res == nil {
		return
	}
	h.res.Free()
	h.res = nil
	h.opts.controller.HypergraphClosed(int64(h.pins))
	observability.Partition().OnHypergraphRelease(context.Background(), h.eng.Name(), leaked)
	h.opts.logger.Debug("hypergraph released", "engine", h.eng.Name())
}

func (h *Hypergraph) usable() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.checkLocked()
}

func (h *Hypergraph) checkLocked() error {
	switch {
	case h.closed:
		return errs.New(errs.ErrCodeClosed, "hypergraph is closed")
	case h.abandoned:
		return errs.New(errs.ErrCodeAbandoned, "hypergraph was used by an abandoned partition call")
	}
	return nil
}

func (h *Hypergraph) begin() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkLocked(); err != nil {
		return err
	}
	h.running = true
	return nil
}

func (h *Hypergraph) end() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.running = false
	if h.closed {
		h.releaseLocked(false)
	}
}

func (h *Hypergraph) abandon() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.abandoned = true
}
