package metrics

import (
	"fmt"
	"math"
	"slices"
	"testing"

	errs "github.com/matzehuels/hyperpart/pkg/errors"
	"github.com/matzehuels/hyperpart/pkg/hypergraph"
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

func TestEvaluateGolden(t *testing.T) {
	q, err := Evaluate(golden(t), []int{0, 1, 0, 0, 1, 0, 1}, 2)
	if err != nil {
		t.Fatal(err)
	}
	// Hyperedges 1 and 3 are cut, each spanning both blocks.
	if q.Cut != 2000 || q.KM1 != 2000 || q.SOED != 4000 {
		t.Errorf("cut=%d km1=%d soed=%d", q.Cut, q.KM1, q.SOED)
	}
	if !slices.Equal(q.CutEdges.ToArray(), []uint32{1, 3}) {
		t.Errorf("cut edges = %v", q.CutEdges.ToArray())
	}
	if !slices.Equal(q.BlockWeights, []int64{14, 14}) {
		t.Errorf("block weights = %v", q.BlockWeights)
	}
	if q.PerfectWeight != 14 || q.Imbalance != 0 || !q.Balanced(0) {
		t.Errorf("perfect=%d imbalance=%v", q.PerfectWeight, q.Imbalance)
	}
}

func TestEvaluateImbalance(t *testing.T) {
	q, err := Evaluate(golden(t), []int{0, 0, 0, 0, 0, 0, 1}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if q.MaxBlockWeight != 21 {
		t.Errorf("max block weight = %d, want 21", q.MaxBlockWeight)
	}
	if q.Imbalance != 0.5 {
		t.Errorf("imbalance = %v, want 0.5", q.Imbalance)
	}
	if q.Balanced(0.03) || !q.Balanced(0.5) {
		t.Error("balance check wrong")
	}
	if q.Limit(0.03) != 14 {
		t.Errorf("limit = %d, want 14", q.Limit(0.03))
	}
}

func TestWeightLimit(t *testing.T) {
	tests := []struct {
		share   int64
		epsilon float64
		want    int64
	}{
		{14, 0, 14},
		{14, 0.03, 14},
		{14, 0.5, 21},
		{14, 1e17, 1400000000000000000},
		{14, 1e19, math.MaxInt64},
		{0, 1e19, 0},
		{math.MaxInt64, 0.5, math.MaxInt64},
	}
	for _, tt := range tests {
		if got := WeightLimit(tt.share, tt.epsilon); got != tt.want {
			t.Errorf("WeightLimit(%d, %g) = %d, want %d", tt.share, tt.epsilon, got, tt.want)
		}
	}
}

func TestBalancedWithHugeEpsilon(t *testing.T) {
	q, err := Evaluate(golden(t), make([]int, 7), 2)
	if err != nil {
		t.Fatal(err)
	}
	if q.Limit(1e19) != math.MaxInt64 || !q.Balanced(1e19) {
		t.Errorf("limit = %d, balanced = %v", q.Limit(1e19), q.Balanced(1e19))
	}
}

func TestMaxBlockWeightIsExact(t *testing.T) {
	if testing.Short() {
		t.Skip("builds a hypergraph with 2^22+1 vertices")
	}
	// The total, (2^22+1) * MaxInt32, is odd and above 2^53, so it has no
	// exact float64 representation.
	const n = 1<<22 + 1
	weights := make([]int, n)
	for v := range weights {
		weights[v] = math.MaxInt32
	}
	hg, err := hypergraph.New(n, 0, []int{0}, nil, nil, weights)
	if err != nil {
		t.Fatal(err)
	}
	q, err := Evaluate(hg, make([]int, n), 1)
	if err != nil {
		t.Fatal(err)
	}
	want := int64(n) * math.MaxInt32
	if q.MaxBlockWeight != want || q.BlockWeights[0] != want {
		t.Errorf("max block weight = %d, want %d", q.MaxBlockWeight, want)
	}
	if q.Imbalance != 0 {
		t.Errorf("imbalance = %v, want 0", q.Imbalance)
	}
}

func TestEvaluateEmptyBlocks(t *testing.T) {
	q, err := Evaluate(golden(t), make([]int, 7), 3)
	if err != nil {
		t.Fatal(err)
	}
	if q.EmptyBlocks != 2 || q.NumCutEdges() != 0 || q.KM1 != 0 {
		t.Errorf("empty=%d cut edges=%d km1=%d", q.EmptyBlocks, q.NumCutEdges(), q.KM1)
	}
}

func TestEvaluateErrors(t *testing.T) {
	hg := golden(t)
	tests := []struct {
		name       string
		assignment []int
		k          int
	}{
		{"short", []int{0, 1}, 2},
		{"out of range", []int{0, 1, 0, 0, 2, 0, 1}, 2},
		{"negative", []int{0, 1, 0, 0, -1, 0, 1}, 2},
		{"zero blocks", []int{0, 0, 0, 0, 0, 0, 0}, 0},
		{"too many blocks", []int{0, 1, 0, 0, 1, 0, 1}, MaxBlocks + 1},
		{"engine maximum", []int{0, 1, 0, 0, 1, 0, 1}, math.MaxInt32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(hg, tt.assignment, tt.k)
			if !errs.Is(err, errs.ErrCodeInvalidInput) {
				t.Errorf("got %v, want INVALID_INPUT", err)
			}
		})
	}
	if _, err := Evaluate(nil, nil, 2); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("nil hypergraph: %v", err)
	}
}

func ExampleEvaluate() {
	hg, _ := hypergraph.New(4, 3,
		[]int{0, 2, 4, 6},
		[]int{0, 1, 1, 2, 2, 3},
		nil, nil,
	)
	q, _ := Evaluate(hg, []int{0, 0, 1, 1}, 2)
	fmt.Println("cut:", q.Cut, "km1:", q.KM1, "weights:", q.BlockWeights)
	// Output: cut: 1 km1: 1 weights: [2 2]
}
