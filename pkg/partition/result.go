package partition

import (
	"time"

	"github.com/matzehuels/hyperpart/pkg/hypergraph"
	"github.com/matzehuels/hyperpart/pkg/metrics"
)

// Result is a complete k-way partition returned by the engine.
type Result struct {
	// Objective is the engine's objective value (cut or km1, depending on
	// the configuration).
	Objective int64 `json:"objective"`

	// Assignment holds the block of each vertex, in [0,K).
	Assignment []int `json:"assignment"`

	K       int     `json:"k"`
	Epsilon float64 `json:"epsilon"`

	// Seed is the seed set on the context for this call; SeedSet is false
	// when the configuration's own seed applied.
	Seed    int32 `json:"seed,omitempty"`
	SeedSet bool  `json:"seed_set"`

	Engine   string        `json:"engine"`
	Duration time.Duration `json:"duration_ns"`
}

// Quality evaluates the assignment against hg, which must be the hypergraph
// that was partitioned.
func (r *Result) Quality(hg *hypergraph.Hypergraph) (*metrics.Quality, error) {
	return metrics.Evaluate(hg, r.Assignment, r.K)
}

// BlockWeights returns the total vertex weight per block.
func (r *Result) BlockWeights(hg *hypergraph.Hypergraph) ([]int64, error) {
	q, err := r.Quality(hg)
	if err != nil {
		return nil, err
	}
	return q.BlockWeights, nil
}

// Balanced reports whether every block weight is at most
// (1+Epsilon) * ceil(W/K).
func (r *Result) Balanced(hg *hypergraph.Hypergraph) (bool, error) {
	q, err := r.Quality(hg)
	if err != nil {
		return false, err
	}
	return q.Balanced(r.Epsilon), nil
}
