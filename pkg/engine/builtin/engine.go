// Package builtin implements a pure Go multilevel hypergraph partitioner.
//
// The engine registers itself as "builtin" and is the default engine. Its
// configuration is TOML; see [Config] for the keys and [Preset] for the
// embedded configurations. Instances with at most exhaustive_limit labelings
// are solved exactly. Larger ones go through heavy-edge coarsening, parallel
// multi-start initial partitioning and FM or label propagation refinement.
//
// With a non-negative seed the engine is deterministic: repeated calls with
// the same hypergraph, configuration and seed return identical assignments.
package builtin

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/matzehuels/hyperpart/pkg/engine"
)

// Name is the registry name of the engine.
const Name = "builtin"

func init() {
	engine.Register(Engine{})
}

var liveContexts, liveHypergraphs atomic.Int64

// Live returns the number of contexts and hypergraphs allocated and not yet freed.
func Live() (contexts, hypergraphs int64) {
	return liveContexts.Load(), liveHypergraphs.Load()
}

// ErrNotConfigured is returned when partitioning with a blank context.
var ErrNotConfigured = errors.New("context not configured")

// Engine is the builtin engine. The zero value is ready to use.
type Engine struct{}

type ctxResource struct {
	configured bool
	cfg        Config
	freed      atomic.Bool
}

func (c *ctxResource) Free() {
	if c.freed.Swap(true) {
		panic("builtin: context freed twice")
	}
	liveContexts.Add(-1)
}

type hgResource struct {
	g     *graph
	freed atomic.Bool
}

func (h *hgResource) Free() {
	if h.freed.Swap(true) {
		panic("builtin: hypergraph freed twice")
	}
	liveHypergraphs.Add(-1)
}

func (Engine) Name() string { return Name }

func (Engine) NewContext() engine.Context {
	liveContexts.Add(1)
	return &ctxResource{}
}

func (Engine) ConfigureFromFile(c engine.Context, path string) error {
	cx, err := asContext(c)
	if err != nil {
		return err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	cx.cfg, cx.configured = cfg, true
	return nil
}

func (Engine) ConfigureFromString(c engine.Context, text string) error {
	cx, err := asContext(c)
	if err != nil {
		return err
	}
	cfg, err := ParseConfig(text)
	if err != nil {
		return err
	}
	cx.cfg, cx.configured = cfg, true
	return nil
}

// SetSeed overrides the configured seed. On a blank context the seed is kept
// and survives only until the first configure call.
func (Engine) SetSeed(c engine.Context, seed int32) {
	if cx, err := asContext(c); err == nil {
		cx.cfg.Seed = int64(seed)
	}
}

func (Engine) NewHypergraph(_ int, in engine.Input) engine.Hypergraph {
	liveHypergraphs.Add(1)
	return &hgResource{g: graphFromInput(in)}
}

func (Engine) Partition(h engine.Hypergraph, k int, epsilon float64, c engine.Context, out []int32) (int64, error) {
	hg, ok := h.(*hgResource)
	if !ok {
		return 0, engine.ErrWrongResource
	}
	cx, err := asContext(c)
	if err != nil {
		return 0, err
	}
	if !cx.configured {
		return 0, ErrNotConfigured
	}
	if k < 1 {
		return 0, fmt.Errorf("k must be >= 1, got %d", k)
	}
	if len(out) != hg.g.n {
		return 0, fmt.Errorf("output length %d does not match %d vertices", len(out), hg.g.n)
	}

	seed := cx.cfg.Seed
	if seed < 0 {
		seed = time.Now().UnixNano()
	}
	part := solve(hg.g, k, epsilon, cx.cfg, uint64(seed))
	copy(out, part)
	return hg.g.objective(part, min(k, hg.g.n), cx.cfg.Objective), nil
}

func asContext(c engine.Context) (*ctxResource, error) {
	cx, ok := c.(*ctxResource)
	if !ok {
		return nil, engine.ErrWrongResource
	}
	return cx, nil
}
