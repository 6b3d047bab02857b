// Package metrics evaluates the quality of a hypergraph partition.
//
// [Evaluate] computes the objectives a partitioning engine minimizes (cut
// and connectivity minus one) together with block weights and imbalance, so
// results can be checked independently of the engine that produced them.
package metrics

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/stat"

	errs "github.com/matzehuels/hyperpart/pkg/errors"
	"github.com/matzehuels/hyperpart/pkg/hypergraph"
)

// MaxBlocks is the largest k [Evaluate] accepts. Quality holds per-block
// slices, so k is bounded even though engines take any k up to MaxInt32.
const MaxBlocks = 1 << 20

// Quality summarizes a k-way partition of a hypergraph.
type Quality struct {
	K int `json:"k"`

	// Cut is the total weight of hyperedges spanning more than one block.
	Cut int64 `json:"cut"`

	// KM1 is the sum over hyperedges of weight * (connectivity - 1).
	KM1 int64 `json:"km1"`

	// SOED is the sum over cut hyperedges of weight * connectivity.
	SOED int64 `json:"soed"`

	BlockWeights   []int64 `json:"block_weights"`
	MaxBlockWeight int64   `json:"max_block_weight"`

	// PerfectWeight is ceil(W/k), the ideal block weight.
	PerfectWeight int64 `json:"perfect_weight"`

	// Imbalance is MaxBlockWeight/PerfectWeight - 1.
	Imbalance float64 `json:"imbalance"`

	// BlockWeightStdDev is the standard deviation of block weights.
	BlockWeightStdDev float64 `json:"block_weight_stddev"`

	// EmptyBlocks counts blocks without any vertex.
	EmptyBlocks int `json:"empty_blocks"`

	// CutEdges holds the ids of the cut hyperedges.
	CutEdges *roaring.Bitmap `json:"-"`
}

// NumCutEdges returns the number of cut hyperedges.
func (q *Quality) NumCutEdges() int {
	if q.CutEdges == nil {
		return 0
	}
	return int(q.CutEdges.GetCardinality())
}

// Limit returns floor((1+epsilon) * PerfectWeight), the largest block weight
// an epsilon-balanced partition may have.
func (q *Quality) Limit(epsilon float64) int64 {
	return WeightLimit(q.PerfectWeight, epsilon)
}

// WeightLimit returns floor((1+epsilon) * share) for a non-negative epsilon,
// saturating at math.MaxInt64.
func WeightLimit(share int64, epsilon float64) int64 {
	l := (1 + epsilon) * float64(share)
	if l >= float64(math.MaxInt64) {
		return math.MaxInt64
	}
	return int64(l)
}

// Balanced reports whether every block weight is within the limit for epsilon.
func (q *Quality) Balanced(epsilon float64) bool {
	return q.MaxBlockWeight <= q.Limit(epsilon)
}

// Evaluate measures assignment as a k-way partition of hg.
//
// assignment must have one entry per vertex, each in [0,k); violations are
// INVALID_INPUT errors.
func Evaluate(hg *hypergraph.Hypergraph, assignment []int, k int) (*Quality, error) {
	if hg == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "hypergraph is nil")
	}
	if err := hg.Validate(); err != nil {
		return nil, err
	}
	if err := errs.ValidateBlocks(k); err != nil {
		return nil, err
	}
	if k > MaxBlocks {
		return nil, errs.New(errs.ErrCodeInvalidInput, "cannot evaluate %d blocks, at most %d", k, MaxBlocks)
	}
	if len(assignment) != hg.NumVertices {
		return nil, errs.New(errs.ErrCodeInvalidInput,
			"assignment has %d entries, hypergraph has %d vertices", len(assignment), hg.NumVertices)
	}
	for v, b := range assignment {
		if b < 0 || b >= k {
			return nil, errs.New(errs.ErrCodeInvalidInput, "vertex %d assigned to block %d, want [0,%d)", v, b, k)
		}
	}

	q := &Quality{
		K:            k,
		BlockWeights: BlockWeights(hg, assignment, k),
		CutEdges:     roaring.New(),
	}

	seen := make([]int, k)
	for i := range seen {
		seen[i] = -1
	}
	for e := 0; e < hg.NumHyperedges; e++ {
		lambda := 0
		for _, p := range hg.Hyperedge(e) {
			if b := assignment[p]; seen[b] != e {
				seen[b] = e
				lambda++
			}
		}
		if lambda <= 1 {
			continue
		}
		w := int64(hg.HyperedgeWeight(e))
		q.Cut += w
		q.KM1 += w * int64(lambda-1)
		q.SOED += w * int64(lambda)
		q.CutEdges.Add(uint32(e))
	}

	weights := make([]float64, k)
	for b, w := range q.BlockWeights {
		weights[b] = float64(w)
		q.MaxBlockWeight = max(q.MaxBlockWeight, w)
		if w == 0 {
			q.EmptyBlocks++
		}
	}
	q.BlockWeightStdDev = stat.PopStdDev(weights, nil)

	total := hg.TotalVertexWeight()
	q.PerfectWeight = (total + int64(k) - 1) / int64(k)
	if q.PerfectWeight > 0 {
		q.Imbalance = float64(q.MaxBlockWeight)/float64(q.PerfectWeight) - 1
	}
	return q, nil
}

// BlockWeights returns the total vertex weight of each block. It does not
// validate its arguments; use [Evaluate] for untrusted input.
func BlockWeights(hg *hypergraph.Hypergraph, assignment []int, k int) []int64 {
	weights := make([]int64, k)
	for v, b := range assignment {
		weights[b] += int64(hg.VertexWeight(v))
	}
	return weights
}
