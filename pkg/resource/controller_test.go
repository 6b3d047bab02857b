package resource

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPins(t *testing.T) {
	c := NewController(Config{PinLimit: 100})

	if err := c.AcquirePins(60); err != nil {
		t.Fatalf("AcquirePins(60): %v", err)
	}
	c.HypergraphOpened()
	if err := c.AcquirePins(50); !errors.Is(err, ErrPinLimitExceeded) {
		t.Fatalf("AcquirePins(50) = %v, want %v", err, ErrPinLimitExceeded)
	}
	if got := c.Stats().Pins; got != 60 {
		t.Errorf("Pins = %d, want 60", got)
	}

	c.HypergraphClosed(60)
	if err := c.AcquirePins(100); err != nil {
		t.Fatalf("AcquirePins(100) after release: %v", err)
	}
	c.ReleasePins(100)
	if s := c.Stats(); s.Live() {
		t.Errorf("Stats = %+v, want nothing live", s)
	}
}

func TestUnlimitedPins(t *testing.T) {
	c := NewController(Config{})
	if err := c.AcquirePins(1 << 40); err != nil {
		t.Fatalf("AcquirePins: %v", err)
	}
	if got := c.Stats().Pins; got != 1<<40 {
		t.Errorf("Pins = %d", got)
	}
}

func TestHandleCounters(t *testing.T) {
	c := NewController(Config{})
	c.ContextOpened()
	c.ContextOpened()
	c.ContextClosed()
	_ = c.AcquirePins(12)
	c.HypergraphOpened()

	s := c.Stats()
	if s.Contexts != 1 || s.Hypergraphs != 1 || s.Pins != 12 {
		t.Errorf("Stats = %+v", s)
	}
	if !s.Live() {
		t.Error("Live should be true")
	}
}

func TestPartitionConcurrency(t *testing.T) {
	c := NewController(Config{MaxConcurrentPartitions: 2})
	ctx := context.Background()

	if err := c.AcquirePartition(ctx); err != nil {
		t.Fatal(err)
	}
	if err := c.AcquirePartition(ctx); err != nil {
		t.Fatal(err)
	}
	if got := c.Stats().InFlight; got != 2 {
		t.Errorf("InFlight = %d, want 2", got)
	}

	timeout, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	if err := c.AcquirePartition(timeout); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("third AcquirePartition = %v, want deadline exceeded", err)
	}

	c.ReleasePartition()
	if err := c.AcquirePartition(ctx); err != nil {
		t.Errorf("AcquirePartition after release: %v", err)
	}
	if got := c.Stats().Calls; got != 3 {
		t.Errorf("Calls = %d, want 3", got)
	}
}

func TestPartitionRate(t *testing.T) {
	c := NewController(Config{PartitionsPerSecond: 1})
	ctx := context.Background()
	if err := c.AcquirePartition(ctx); err != nil {
		t.Fatal(err)
	}
	c.ReleasePartition()

	timeout, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	if err := c.AcquirePartition(timeout); err == nil {
		t.Error("second call within a second should be rate limited")
	}
}

func TestNilController(t *testing.T) {
	var c *Controller
	c.ContextOpened()
	c.HypergraphOpened()
	c.HypergraphClosed(5)
	if err := c.AcquirePins(10); err != nil {
		t.Errorf("AcquirePins: %v", err)
	}
	if err := c.AcquirePartition(context.Background()); err != nil {
		t.Errorf("AcquirePartition: %v", err)
	}
	c.ReleasePartition()
	if c.Stats() != (Stats{}) {
		t.Error("nil controller should report zero stats")
	}
	if c.Config() != (Config{}) {
		t.Error("nil controller should report zero config")
	}
}
