package partition

import (
	"context"
	"runtime"
	"sync"

	"github.com/matzehuels/hyperpart/pkg/engine"
	errs "github.com/matzehuels/hyperpart/pkg/errors"
	"github.com/matzehuels/hyperpart/pkg/observability"
)

// State is the lifecycle state of a [Context].
type State int

const (
	// StateCreated is a blank context that cannot partition yet.
	StateCreated State = iota
	// StateConfigured is a context holding a configuration.
	StateConfigured
	// StateDestroyed is a closed context.
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateConfigured:
		return "configured"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Context owns an engine configuration and seed. It is created blank and
// must be configured before it can be used for partitioning; every
// configure call replaces the previous configuration entirely, including
// any seed set with [Context.SetSeed].
type Context struct {
	opts options
	eng  engine.Engine

	// call serializes engine calls that use res.
	call sync.Mutex

	mu        sync.Mutex
	res       engine.Context
	state     State
	seed      int32
	seedSet   bool
	abandoned bool
	running   bool
}

// NewContext allocates a blank context on the selected engine. It fails with
// ALLOCATION_FAILED if the engine cannot provide one.
func NewContext(opts ...Option) (*Context, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	res := o.eng.NewContext()
	if res == nil {
		return nil, errs.New(errs.ErrCodeAllocation, "engine %s returned no context", o.eng.Name())
	}
	c := &Context{opts: o, eng: o.eng, res: res}
	o.controller.ContextOpened()
	observability.Partition().OnContextCreate(context.Background(), o.eng.Name())
	o.logger.Debug("context created", "engine", o.eng.Name())
	runtime.SetFinalizer(c, (*Context).finalize)
	return c, nil
}

// Engine returns the name of the engine the context belongs to.
func (c *Context) Engine() string { return c.eng.Name() }

// State returns the lifecycle state.
func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Seed returns the seed set with [Context.SetSeed] since the last
// configuration, if any.
func (c *Context) Seed() (int32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seed, c.seedSet
}

// Abandoned reports whether a partition call using the context was abandoned.
func (c *Context) Abandoned() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.abandoned
}

// ConfigureFromFile loads the engine configuration at path. It fails with
// CONFIG_ERROR if the file is unreadable or rejected by the engine; the
// context then keeps its previous state.
func (c *Context) ConfigureFromFile(path string) error {
	if err := errs.ValidateConfigPath(path); err != nil {
		return err
	}
	return c.configure(func() error {
		if err := c.eng.ConfigureFromFile(c.res, path); err != nil {
			return errs.Wrap(errs.ErrCodeConfig, err, "configure from %s", path)
		}
		return nil
	}, "path", path)
}

// ConfigureFromString applies the engine configuration in text. It fails
// with CONFIG_ERROR if the engine rejects it; the context then keeps its
// previous state.
func (c *Context) ConfigureFromString(text string) error {
	if err := errs.ValidateConfigText(text); err != nil {
		return err
	}
	return c.configure(func() error {
		if err := c.eng.ConfigureFromString(c.res, text); err != nil {
			return errs.Wrap(errs.ErrCodeConfig, err, "configure from string")
		}
		return nil
	}, "bytes", len(text))
}

func (c *Context) configure(apply func() error, keyvals ...any) error {
	if err := c.usable(); err != nil {
		return err
	}
	c.call.Lock()
	defer c.call.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkLocked(); err != nil {
		return err
	}
	if err := apply(); err != nil {
		return err
	}
	c.state = StateConfigured
	c.seed, c.seedSet = 0, false
	c.opts.logger.Debug("context configured", keyvals...)
	return nil
}

// SetSeed sets the seed for the engine's randomized phases. It persists until
// the next configure call. On a closed or abandoned context it does nothing.
func (c *Context) SetSeed(seed int32) {
	if c.usable() != nil {
		return
	}
	c.call.Lock()
	defer c.call.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.checkLocked() != nil {
		return
	}
	c.eng.SetSeed(c.res, seed)
	c.seed, c.seedSet = seed, true
}

// Close releases the engine context. It is idempotent. When an abandoned
// partition call still runs on the context, the release happens when that
// call returns.
func (c *Context) Close() error {
	c.close(false)
	return nil
}

func (c *Context) finalize() { c.close(true) }

func (c *Context) close(leaked bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateDestroyed {
		return
	}
	c.state = StateDestroyed
	runtime.SetFinalizer(c, nil)
	if leaked {
		c.opts.logger.Warn("context was not closed; released by finalizer", "engine", c.eng.Name())
	}
	if !c.running {
		c.releaseLocked(leaked)
	}
}

func (c *Context) releaseLocked(leaked bool) {
	if c.res == nil {
		return
	}
	c.res.Free()
	c.res = nil
	c.opts.controller.ContextClosed()
	observability.Partition().OnContextRelease(context.Background(), c.eng.Name(), leaked)
	c.opts.logger.Debug("context released", "engine", c.eng.Name())
}

// usable is a fast pre-check before waiting for the call lock.
func (c *Context) usable() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checkLocked()
}

func (c *Context) checkLocked() error {
	switch {
	case c.state == StateDestroyed:
		return errs.New(errs.ErrCodeClosed, "context is closed")
	case c.abandoned:
		return errs.New(errs.ErrCodeAbandoned, "context was used by an abandoned partition call")
	}
	return nil
}

// begin marks the start of an engine call. The caller holds c.call.
func (c *Context) begin() (seed int32, seedSet bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkLocked(); err != nil {
		return 0, false, err
	}
	if c.state != StateConfigured {
		return 0, false, errs.New(errs.ErrCodeUnconfiguredContext, "context must be configured before partitioning")
	}
	c.running = true
	return c.seed, c.seedSet, nil
}

// end marks the end of an engine call, performing a release deferred by Close.
func (c *Context) end() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	if c.state == StateDestroyed {
		c.releaseLocked(false)
	}
}

func (c *Context) abandon() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.abandoned = true
}
