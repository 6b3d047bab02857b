package resource

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrPinLimitExceeded is returned by AcquirePins when the pin budget is exhausted.
var ErrPinLimitExceeded = errors.New("pin limit exceeded")

// Config holds resource limits. Zero values mean unlimited.
type Config struct {
	// MaxConcurrentPartitions bounds concurrent engine partition calls.
	MaxConcurrentPartitions int64

	// PinLimit bounds the total pins of live engine hypergraphs.
	PinLimit int64

	// PartitionsPerSecond bounds the rate of partition calls. Burst is one
	// second's worth of calls, at least 1.
	PartitionsPerSecond float64
}

// Controller tracks live engine resources and enforces [Config] limits.
// It is safe for concurrent use.
type Controller struct {
	cfg Config

	callSem *semaphore.Weighted // nil if unlimited
	pinSem  *semaphore.Weighted // nil if unlimited
	limiter *rate.Limiter       // nil if unlimited

	contexts    atomic.Int64
	hypergraphs atomic.Int64
	pins        atomic.Int64
	inFlight    atomic.Int64
	calls       atomic.Int64
}

// Stats is a snapshot of a controller's counters.
type Stats struct {
	Contexts    int64 `json:"contexts"`
	Hypergraphs int64 `json:"hypergraphs"`
	Pins        int64 `json:"pins"`
	InFlight    int64 `json:"in_flight"`
	Calls       int64 `json:"calls"`
}

// Live reports whether any handle is still open.
func (s Stats) Live() bool {
	return s.Contexts != 0 || s.Hypergraphs != 0 || s.Pins != 0
}

// NewController creates a controller enforcing cfg.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}
	if cfg.MaxConcurrentPartitions > 0 {
		c.callSem = semaphore.NewWeighted(cfg.MaxConcurrentPartitions)
	}
	if cfg.PinLimit > 0 {
		c.pinSem = semaphore.NewWeighted(cfg.PinLimit)
	}
	if cfg.PartitionsPerSecond > 0 {
		burst := max(int(cfg.PartitionsPerSecond), 1)
		c.limiter = rate.NewLimiter(rate.Limit(cfg.PartitionsPerSecond), burst)
	}
	return c
}

// Config returns the limits the controller was created with.
func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg
}

// ContextOpened records a new live context.
func (c *Controller) ContextOpened() {
	if c != nil {
		c.contexts.Add(1)
	}
}

// ContextClosed records a released context.
func (c *Controller) ContextClosed() {
	if c != nil {
		c.contexts.Add(-1)
	}
}

// AcquirePins reserves pins for a hypergraph about to be built. It never
// blocks: when the budget is exhausted it fails with [ErrPinLimitExceeded].
func (c *Controller) AcquirePins(pins int64) error {
	if c == nil || pins < 0 {
		return nil
	}
	if c.pinSem != nil && pins > 0 && !c.pinSem.TryAcquire(pins) {
		return ErrPinLimitExceeded
	}
	c.pins.Add(pins)
	return nil
}

// ReleasePins returns pins reserved by AcquirePins without recording a
// hypergraph, for when construction fails after the reservation.
func (c *Controller) ReleasePins(pins int64) {
	if c == nil || pins < 0 {
		return
	}
	if c.pinSem != nil && pins > 0 {
		c.pinSem.Release(pins)
	}
	c.pins.Add(-pins)
}

// HypergraphOpened records a live hypergraph whose pins were acquired.
func (c *Controller) HypergraphOpened() {
	if c != nil {
		c.hypergraphs.Add(1)
	}
}

// HypergraphClosed records a released hypergraph and returns its pins.
func (c *Controller) HypergraphClosed(pins int64) {
	if c != nil {
		c.hypergraphs.Add(-1)
		c.ReleasePins(pins)
	}
}

// AcquirePartition waits for a rate token and a call slot. It returns the
// context's error if ctx ends first.
func (c *Controller) AcquirePartition(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	if c.callSem != nil {
		if err := c.callSem.Acquire(ctx, 1); err != nil {
			return err
		}
	}
	c.inFlight.Add(1)
	c.calls.Add(1)
	return nil
}

// ReleasePartition frees a call slot taken by AcquirePartition.
func (c *Controller) ReleasePartition() {
	if c == nil {
		return
	}
	c.inFlight.Add(-1)
	if c.callSem != nil {
		c.callSem.Release(1)
	}
}

// Stats returns a snapshot of the counters.
func (c *Controller) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	return Stats{
		Contexts:    c.contexts.Load(),
		Hypergraphs: c.hypergraphs.Load(),
		Pins:        c.pins.Load(),
		InFlight:    c.inFlight.Load(),
		Calls:       c.calls.Load(),
	}
}
