package partition_test

import (
	"errors"
	"os"
	"sync"

	"github.com/matzehuels/hyperpart/pkg/engine"
)

// fakeEngine is a scriptable engine for boundary tests.
type fakeEngine struct {
	noContext    bool
	noHypergraph bool
	err          error
	assign       func(out []int32)
	gate         chan struct{}

	mu          sync.Mutex
	built       int
	calls       int
	active      int
	maxActive   int
	contexts    int
	hypergraphs int
	seed        int32
}

type fakeResource struct {
	e     *fakeEngine
	graph bool
	freed bool
}

func (r *fakeResource) Free() {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()
	if r.freed {
		panic("fake: double free")
	}
	r.freed = true
	if r.graph {
		r.e.hypergraphs--
	} else {
		r.e.contexts--
	}
}

func (e *fakeEngine) Name() string { return "fake" }

func (e *fakeEngine) NewContext() engine.Context {
	if e.noContext {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.contexts++
	return &fakeResource{e: e}
}

func (e *fakeEngine) ConfigureFromFile(_ engine.Context, path string) error {
	_, err := os.ReadFile(path)
	return err
}

func (e *fakeEngine) ConfigureFromString(_ engine.Context, text string) error {
	if text == "bad" {
		return errors.New("malformed")
	}
	return nil
}

func (e *fakeEngine) SetSeed(_ engine.Context, seed int32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seed = seed
}

func (e *fakeEngine) NewHypergraph(int, engine.Input) engine.Hypergraph {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.built++
	if e.noHypergraph {
		return nil
	}
	e.hypergraphs++
	return &fakeResource{e: e, graph: true}
}

func (e *fakeEngine) Partition(_ engine.Hypergraph, _ int, _ float64, _ engine.Context, out []int32) (int64, error) {
	e.mu.Lock()
	e.calls++
	e.active++
	e.maxActive = max(e.maxActive, e.active)
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.active--
		e.mu.Unlock()
	}()

	if e.gate != nil {
		<-e.gate
	}
	if e.assign != nil {
		e.assign(out)
	}
	return 1, e.err
}

func (e *fakeEngine) live() (contexts, hypergraphs int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.contexts, e.hypergraphs
}
