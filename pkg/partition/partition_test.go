package partition_test

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/hyperpart/pkg/engine/builtin"
	errs "github.com/matzehuels/hyperpart/pkg/errors"
	"github.com/matzehuels/hyperpart/pkg/hypergraph"
	"github.com/matzehuels/hyperpart/pkg/partition"
	"github.com/matzehuels/hyperpart/pkg/resource"
)

func golden(t testing.TB) *hypergraph.Hypergraph {
	t.Helper()
	hg, err := hypergraph.New(7, 4,
		[]int{0, 2, 6, 9, 12},
		[]int{0, 2, 0, 1, 3, 4, 3, 4, 6, 2, 5, 6},
		[]int{1, 1000, 1, 1000},
		[]int{1, 2, 3, 4, 5, 6, 7},
	)
	if err != nil {
		t.Fatal(err)
	}
	return hg
}

func randomHypergraph(t testing.TB, n, m int, seed uint64) *hypergraph.Hypergraph {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, 7))
	b := hypergraph.NewBuilder()
	for v := 0; v < n; v++ {
		b.AddVertex(1 + rng.IntN(3))
	}
	for e := 0; e < m; e++ {
		pins := make([]int, 2+rng.IntN(4))
		for i := range pins {
			pins[i] = rng.IntN(n)
		}
		b.AddHyperedge(1+rng.IntN(5), pins...)
	}
	hg, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return hg
}

// configured returns a builtin context with the given preset, closed at
// the end of the test.
func configured(t *testing.T, preset string, opts ...partition.Option) *partition.Context {
	t.Helper()
	c, err := partition.NewContext(opts...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	text, err := builtin.Preset(preset)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.ConfigureFromString(text); err != nil {
		t.Fatal(err)
	}
	return c
}

func handle(t *testing.T, hg *hypergraph.Hypergraph, k int, opts ...partition.Option) *partition.Hypergraph {
	t.Helper()
	h, err := partition.NewHypergraph(k, hg, opts...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func TestGolden(t *testing.T) {
	hg := golden(t)
	c := configured(t, "km1_direct")
	c.SetSeed(42)
	h := handle(t, hg, 2)

	res, err := h.Partition(2, 0.03, c)
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{0, 1, 0, 0, 1, 0, 1}; !slices.Equal(res.Assignment, want) {
		t.Errorf("assignment = %v, want %v", res.Assignment, want)
	}
	if res.Objective != 2001 {
		t.Errorf("objective = %d, want 2001", res.Objective)
	}
	if res.Seed != 42 || !res.SeedSet || res.Engine != builtin.Name || res.K != 2 || res.Epsilon != 0.03 {
		t.Errorf("result metadata = %+v", res)
	}
	weights, err := res.BlockWeights(hg)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(weights, []int64{14, 14}) {
		t.Errorf("block weights = %v", weights)
	}
	if ok, err := res.Balanced(hg); err != nil || !ok {
		t.Errorf("Balanced = %v, %v", ok, err)
	}
}

func TestAssignmentInvariants(t *testing.T) {
	hg := randomHypergraph(t, 300, 600, 1)
	for _, preset := range builtin.Presets() {
		for _, k := range []int{1, 2, 3, 5, 8} {
			c := configured(t, preset)
			c.SetSeed(3)
			h := handle(t, hg, k)
			res, err := h.Partition(k, 0.05, c)
			if err != nil {
				t.Fatalf("%s k=%d: %v", preset, k, err)
			}
			if len(res.Assignment) != hg.NumVertices {
				t.Fatalf("%s k=%d: %d entries, want %d", preset, k, len(res.Assignment), hg.NumVertices)
			}
			for v, b := range res.Assignment {
				if b < 0 || b >= k {
					t.Fatalf("%s k=%d: vertex %d in block %d", preset, k, v, b)
				}
			}
			q, err := res.Quality(hg)
			if err != nil {
				t.Fatal(err)
			}
			if preset != "cut_direct" && q.KM1 != res.Objective {
				t.Errorf("%s k=%d: objective %d, evaluated km1 %d", preset, k, res.Objective, q.KM1)
			}
		}
	}
}

func TestInvalidHypergraphNeverReachesEngine(t *testing.T) {
	tests := []struct {
		name    string
		n, m    int
		offsets []int
		pins    []int
		ew, vw  []int
		cause   error
	}{
		{"non-monotonic offsets", 7, 4, []int{0, 2, 1, 9, 12}, []int{0, 2, 0, 1, 3, 4, 3, 4, 6, 2, 5, 6}, nil, nil, hypergraph.ErrNonMonotonicOffsets},
		{"pin out of range", 7, 4, []int{0, 2, 6, 9, 12}, []int{0, 2, 0, 1, 3, 4, 3, 4, 7, 2, 5, 6}, nil, nil, hypergraph.ErrPinOutOfRange},
		{"vertex weights length", 7, 4, []int{0, 2, 6, 9, 12}, []int{0, 2, 0, 1, 3, 4, 3, 4, 6, 2, 5, 6}, nil, []int{1, 2}, hypergraph.ErrVertexWeightsLength},
		{"hyperedge weights length", 7, 4, []int{0, 2, 6, 9, 12}, []int{0, 2, 0, 1, 3, 4, 3, 4, 6, 2, 5, 6}, []int{1}, nil, hypergraph.ErrHyperedgeWeightsLength},
		{"offsets length", 7, 4, []int{0, 2, 6, 12}, []int{0, 2, 0, 1, 3, 4, 3, 4, 6, 2, 5, 6}, nil, nil, hypergraph.ErrOffsetsLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEngine{}
			_, err := partition.Build(2, tt.n, tt.m, tt.offsets, tt.pins, tt.ew, tt.vw, partition.WithEngineInstance(fake))
			if !errs.Is(err, errs.ErrCodeInvalidInput) {
				t.Fatalf("got %v, want INVALID_INPUT", err)
			}
			if !errors.Is(err, tt.cause) {
				t.Errorf("cause of %v is not %v", err, tt.cause)
			}
			if fake.built != 0 {
				t.Error("engine was called")
			}
		})
	}
}

func TestNewHypergraphRevalidatesLiterals(t *testing.T) {
	hg := golden(t)
	hg.Offsets[2] = 1 // mutate after validation
	fake := &fakeEngine{}
	if _, err := partition.NewHypergraph(2, hg, partition.WithEngineInstance(fake)); !errors.Is(err, hypergraph.ErrNonMonotonicOffsets) {
		t.Fatalf("got %v", err)
	}
	if _, err := partition.NewHypergraph(0, golden(t), partition.WithEngineInstance(fake)); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Fatalf("num_blocks 0: %v", err)
	}
	if _, err := partition.NewHypergraph(2, nil, partition.WithEngineInstance(fake)); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Fatalf("nil hypergraph: %v", err)
	}
	if fake.built != 0 {
		t.Error("engine was called")
	}
}

func TestHandleDoesNotAliasModel(t *testing.T) {
	hg := golden(t)
	c := configured(t, "km1_direct")
	c.SetSeed(42)
	h := handle(t, hg, 2)
	for i := range hg.Pins {
		hg.Pins[i] = 0
	}
	res, err := h.Partition(2, 0.03, c)
	if err != nil {
		t.Fatal(err)
	}
	if res.Objective != 2001 {
		t.Errorf("objective = %d after mutating the model", res.Objective)
	}
}

func TestUnconfiguredContext(t *testing.T) {
	c, err := partition.NewContext()
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if c.State() != partition.StateCreated {
		t.Fatalf("state = %v", c.State())
	}
	h := handle(t, golden(t), 2)
	if _, err := h.Partition(2, 0.03, c); !errs.Is(err, errs.ErrCodeUnconfiguredContext) {
		t.Fatalf("got %v, want UNCONFIGURED_CONTEXT", err)
	}
}

func TestInvalidPartitionArguments(t *testing.T) {
	c := configured(t, "km1_direct")
	h := handle(t, golden(t), 2)
	tests := []struct {
		name    string
		k       int
		epsilon float64
	}{
		{"zero blocks", 0, 0.03},
		{"negative blocks", -2, 0.03},
		{"negative epsilon", 2, -0.01},
		{"NaN epsilon", 2, math.NaN()},
		{"infinite epsilon", 2, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := h.Partition(tt.k, tt.epsilon, c); !errs.Is(err, errs.ErrCodeInvalidInput) {
				t.Errorf("got %v, want INVALID_INPUT", err)
			}
		})
	}
	if _, err := h.Partition(2, 0.03, nil); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("nil context: %v", err)
	}
}

func TestHugeBlockCount(t *testing.T) {
	const k = 1 << 30
	c := configured(t, "km1_direct")
	c.SetSeed(42)
	h := handle(t, golden(t), k)

	res, err := h.Partition(k, 0.03, c)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Assignment) != 7 || res.K != k {
		t.Fatalf("result = %+v", res)
	}
	for v, b := range res.Assignment {
		if b < 0 || b >= k {
			t.Errorf("vertex %d in block %d", v, b)
		}
	}
}

func TestHugeEpsilonIsBalanced(t *testing.T) {
	hg := golden(t)
	c := configured(t, "km1_direct")
	c.SetSeed(42)
	h := handle(t, hg, 2)

	res, err := h.Partition(2, 1e19, c)
	if err != nil {
		t.Fatal(err)
	}
	if ok, err := res.Balanced(hg); err != nil || !ok {
		t.Errorf("Balanced = %v, %v for assignment %v", ok, err, res.Assignment)
	}
}

func TestDeterministicWithFixedSeed(t *testing.T) {
	hg := randomHypergraph(t, 400, 800, 2)
	c := configured(t, "km1_direct")
	c.SetSeed(11)
	h := handle(t, hg, 4)
	first, err := h.Partition(4, 0.03, c)
	if err != nil {
		t.Fatal(err)
	}
	second, err := h.Partition(4, 0.03, c)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(first.Assignment, second.Assignment) || first.Objective != second.Objective {
		t.Error("repeated calls with a fixed seed differ")
	}
}

func TestConfigureOverwritesSeed(t *testing.T) {
	c := configured(t, "km1_direct")
	c.SetSeed(5)
	if seed, ok := c.Seed(); !ok || seed != 5 {
		t.Fatalf("Seed() = %d, %v", seed, ok)
	}
	text, _ := builtin.Preset("cut_direct")
	if err := c.ConfigureFromString(text); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Seed(); ok {
		t.Error("seed survived reconfiguration")
	}
	if c.State() != partition.StateConfigured {
		t.Errorf("state = %v", c.State())
	}
}

func TestFailedConfigureKeepsState(t *testing.T) {
	c, err := partition.NewContext()
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	for _, text := range []string{"", "mode = ", "unknown_key = 1"} {
		if err := c.ConfigureFromString(text); !errs.Is(err, errs.ErrCodeConfig) {
			t.Errorf("%q: got %v, want CONFIG_ERROR", text, err)
		}
	}
	if c.State() != partition.StateCreated {
		t.Fatalf("state = %v after failed configure", c.State())
	}

	text, _ := builtin.Preset("km1_direct")
	if err := c.ConfigureFromString(text); err != nil {
		t.Fatal(err)
	}
	c.SetSeed(42)
	if err := c.ConfigureFromString("objective = \"sum\""); !errs.Is(err, errs.ErrCodeConfig) {
		t.Fatalf("got %v", err)
	}
	if c.State() != partition.StateConfigured {
		t.Fatalf("state = %v", c.State())
	}
	// The previous configuration and seed still apply.
	h := handle(t, golden(t), 2)
	res, err := h.Partition(2, 0.03, c)
	if err != nil {
		t.Fatal(err)
	}
	if res.Objective != 2001 || res.Seed != 42 {
		t.Errorf("objective %d seed %d", res.Objective, res.Seed)
	}
}

func TestConfigureFromFile(t *testing.T) {
	text, _ := builtin.Preset("km1_direct")
	path := filepath.Join(t.TempDir(), "km1.toml")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := partition.NewContext()
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if err := c.ConfigureFromFile(filepath.Join(t.TempDir(), "missing.toml")); !errs.Is(err, errs.ErrCodeConfig) {
		t.Fatalf("missing file: %v", err)
	}
	if err := c.ConfigureFromFile(""); !errs.Is(err, errs.ErrCodeConfig) {
		t.Fatalf("empty path: %v", err)
	}
	if err := c.ConfigureFromFile(path); err != nil {
		t.Fatal(err)
	}
	if c.State() != partition.StateConfigured {
		t.Errorf("state = %v", c.State())
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	ctrl := resource.NewController(resource.Config{})
	c := configured(t, "km1_direct", partition.WithController(ctrl))
	h, err := partition.NewHypergraph(2, golden(t), partition.WithController(ctrl))
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if err := h.Close(); err != nil {
			t.Fatal(err)
		}
		if err := c.Close(); err != nil {
			t.Fatal(err)
		}
	}
	if c.State() != partition.StateDestroyed {
		t.Errorf("state = %v", c.State())
	}
	if _, err := h.Partition(2, 0.03, c); !errs.Is(err, errs.ErrCodeClosed) {
		t.Errorf("partition after close: %v", err)
	}
	if err := c.ConfigureFromString("mode = \"direct\""); !errs.Is(err, errs.ErrCodeClosed) {
		t.Errorf("configure after close: %v", err)
	}
	c.SetSeed(1) // no effect, no panic
	if ctrl.Stats().Live() {
		t.Errorf("live resources after close: %+v", ctrl.Stats())
	}
}

func TestNoLeaks(t *testing.T) {
	ctrl := resource.NewController(resource.Config{})
	beforeCtx, beforeHG := builtin.Live()

	c := configured(t, "km1_direct", partition.WithController(ctrl))
	for i := 0; i < 5; i++ {
		h, err := partition.NewHypergraph(2, golden(t), partition.WithController(ctrl))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := h.Partition(2, 0.03, c); err != nil {
			t.Fatal(err)
		}
		h.Close()
	}
	if s := ctrl.Stats(); s.Hypergraphs != 0 || s.Pins != 0 || s.Contexts != 1 || s.Calls != 5 {
		t.Errorf("stats = %+v", s)
	}
	c.Close()
	if ctrl.Stats().Live() {
		t.Errorf("stats = %+v", ctrl.Stats())
	}
	if ctx, hg := builtin.Live(); ctx != beforeCtx || hg != beforeHG {
		t.Errorf("engine live = %d, %d, want %d, %d", ctx, hg, beforeCtx, beforeHG)
	}
}

func TestAllocationFailure(t *testing.T) {
	ctrl := resource.NewController(resource.Config{})
	if _, err := partition.NewContext(partition.WithEngineInstance(&fakeEngine{noContext: true})); !errs.Is(err, errs.ErrCodeAllocation) {
		t.Errorf("context: %v", err)
	}
	fake := &fakeEngine{noHypergraph: true}
	_, err := partition.NewHypergraph(2, golden(t), partition.WithEngineInstance(fake), partition.WithController(ctrl))
	if !errs.Is(err, errs.ErrCodeAllocation) {
		t.Errorf("hypergraph: %v", err)
	}
	if errs.Retryable(err) {
		t.Error("allocation failures must not be retryable")
	}
	if ctrl.Stats().Live() {
		t.Errorf("pins leaked: %+v", ctrl.Stats())
	}
}

func TestPinLimit(t *testing.T) {
	ctrl := resource.NewController(resource.Config{PinLimit: 20})
	h, err := partition.NewHypergraph(2, golden(t), partition.WithController(ctrl))
	if err != nil {
		t.Fatal(err)
	}
	_, err = partition.NewHypergraph(2, golden(t), partition.WithController(ctrl))
	if !errs.Is(err, errs.ErrCodeAllocation) || !errors.Is(err, resource.ErrPinLimitExceeded) {
		t.Fatalf("got %v", err)
	}
	h.Close()
	h, err = partition.NewHypergraph(2, golden(t), partition.WithController(ctrl))
	if err != nil {
		t.Fatalf("after release: %v", err)
	}
	h.Close()
}

func TestEngineFailure(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeEngine
	}{
		{"engine error", &fakeEngine{err: errors.New("boom")}},
		{"block out of range", &fakeEngine{assign: func(out []int32) { out[3] = 2 }}},
		{"negative block", &fakeEngine{assign: func(out []int32) { out[0] = -1 }}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt := partition.WithEngineInstance(tt.fake)
			c, err := partition.NewContext(opt)
			if err != nil {
				t.Fatal(err)
			}
			defer c.Close()
			if err := c.ConfigureFromString("any"); err != nil {
				t.Fatal(err)
			}
			h := handle(t, golden(t), 2, opt)
			res, err := h.Partition(2, 0.03, c)
			if !errs.Is(err, errs.ErrCodeEngineFailure) {
				t.Fatalf("got %v, want ENGINE_FAILURE", err)
			}
			if res != nil {
				t.Error("partial result returned")
			}
		})
	}
}

func TestEngineMismatch(t *testing.T) {
	fake := &fakeEngine{}
	c, err := partition.NewContext(partition.WithEngineInstance(fake))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	c.ConfigureFromString("any")
	h := handle(t, golden(t), 2)
	if _, err := h.Partition(2, 0.03, c); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("got %v", err)
	}
	if fake.calls != 0 {
		t.Error("engine was called")
	}
}

func TestUnknownEngine(t *testing.T) {
	if _, err := partition.NewContext(partition.WithEngine("nope")); !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("got %v", err)
	}
}

func TestPartitionContextAbandon(t *testing.T) {
	ctrl := resource.NewController(resource.Config{})
	fake := &fakeEngine{gate: make(chan struct{})}
	opts := []partition.Option{partition.WithEngineInstance(fake), partition.WithController(ctrl)}
	c, err := partition.NewContext(opts...)
	if err != nil {
		t.Fatal(err)
	}
	c.ConfigureFromString("any")
	h, err := partition.NewHypergraph(2, golden(t), opts...)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := h.PartitionContext(ctx, 2, 0.03, c); !errs.Is(err, errs.ErrCodeCanceled) {
		t.Fatalf("got %v, want CANCELED", err)
	}
	if !h.Abandoned() || !c.Abandoned() {
		t.Fatal("handles not abandoned")
	}
	if _, err := h.Partition(2, 0.03, c); !errs.Is(err, errs.ErrCodeAbandoned) {
		t.Errorf("reuse: %v", err)
	}
	if err := c.ConfigureFromString("any"); !errs.Is(err, errs.ErrCodeAbandoned) {
		t.Errorf("reconfigure: %v", err)
	}

	// Release waits for the engine call.
	h.Close()
	c.Close()
	if ctxs, hgs := fake.live(); ctxs != 1 || hgs != 1 {
		t.Fatalf("released while the engine call runs: %d, %d", ctxs, hgs)
	}
	close(fake.gate)

	deadline := time.Now().Add(5 * time.Second)
	for ctrl.Stats().Live() || ctrl.Stats().InFlight != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("resources not released: %+v", ctrl.Stats())
		}
		time.Sleep(time.Millisecond)
	}
	if ctxs, hgs := fake.live(); ctxs != 0 || hgs != 0 {
		t.Errorf("engine live = %d, %d", ctxs, hgs)
	}
}

func TestPartitionContextCompletes(t *testing.T) {
	c := configured(t, "km1_direct")
	c.SetSeed(42)
	h := handle(t, golden(t), 2)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	res, err := h.PartitionContext(ctx, 2, 0.03, c)
	if err != nil {
		t.Fatal(err)
	}
	if res.Objective != 2001 || h.Abandoned() {
		t.Errorf("objective %d, abandoned %v", res.Objective, h.Abandoned())
	}

	done, stop := context.WithCancel(context.Background())
	stop()
	if _, err := h.PartitionContext(done, 2, 0.03, c); !errs.Is(err, errs.ErrCodeCanceled) {
		t.Errorf("canceled context: %v", err)
	}
	if h.Abandoned() {
		t.Error("a call that never started must not abandon the handle")
	}
}

func TestSharedContextSerializesCalls(t *testing.T) {
	fake := &fakeEngine{assign: func([]int32) { time.Sleep(2 * time.Millisecond) }}
	opt := partition.WithEngineInstance(fake)
	c, err := partition.NewContext(opt)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	c.ConfigureFromString("any")

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		h := handle(t, golden(t), 2, opt)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 3; j++ {
				if _, err := h.Partition(2, 0.03, c); err != nil {
					t.Error(err)
				}
			}
		}()
	}
	wg.Wait()
	if fake.maxActive != 1 || fake.calls != 12 {
		t.Errorf("max concurrent calls %d, calls %d", fake.maxActive, fake.calls)
	}
}

func TestDistinctHandlesRunConcurrently(t *testing.T) {
	hg := randomHypergraph(t, 200, 400, 5)
	var wg sync.WaitGroup
	results := make([][]int, 4)
	for i := range results {
		c := configured(t, "km1_fast")
		c.SetSeed(9)
		h := handle(t, hg, 3)
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := h.Partition(3, 0.05, c)
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = res.Assignment
		}()
	}
	wg.Wait()
	for i := 1; i < len(results); i++ {
		if !slices.Equal(results[0], results[i]) {
			t.Errorf("run %d differs from run 0", i)
		}
	}
}

func TestConcurrencyLimit(t *testing.T) {
	ctrl := resource.NewController(resource.Config{MaxConcurrentPartitions: 1})
	fake := &fakeEngine{assign: func([]int32) { time.Sleep(2 * time.Millisecond) }}
	opts := []partition.Option{partition.WithEngineInstance(fake), partition.WithController(ctrl)}

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		c, err := partition.NewContext(opts...)
		if err != nil {
			t.Fatal(err)
		}
		defer c.Close()
		c.ConfigureFromString("any")
		h := handle(t, golden(t), 2, opts...)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := h.Partition(2, 0.03, c); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	if fake.maxActive != 1 {
		t.Errorf("max concurrent calls = %d, want 1", fake.maxActive)
	}
}
