package pipeline

import (
	"time"

	"github.com/matzehuels/hyperpart/pkg/metrics"
)

// Report is the JSON summary of a run, written for the "json" format and
// returned by the HTTP API.
type Report struct {
	RunID      string           `json:"run_id"`
	GraphHash  string           `json:"graph_hash"`
	Engine     string           `json:"engine"`
	K          int              `json:"k"`
	Epsilon    float64          `json:"epsilon"`
	Seed       *int32           `json:"seed,omitempty"`
	Objective  int64            `json:"objective"`
	Balanced   bool             `json:"balanced"`
	Assignment []int            `json:"assignment"`
	Quality    *metrics.Quality `json:"quality"`
	CutEdges   []uint32         `json:"cut_edges"`
	Cached     bool             `json:"cached"`
	DurationMS float64          `json:"duration_ms"`
}

// NewReport summarizes a completed run.
func NewReport(r *Result) *Report {
	p := r.Partition
	rep := &Report{
		RunID:      r.RunID,
		GraphHash:  r.GraphHash,
		Engine:     p.Engine,
		K:          p.K,
		Epsilon:    p.Epsilon,
		Objective:  p.Objective,
		Assignment: p.Assignment,
		Quality:    r.Quality,
		CutEdges:   []uint32{},
		Cached:     r.CacheInfo.PartitionHit,
		DurationMS: float64(p.Duration) / float64(time.Millisecond),
	}
	if p.SeedSet {
		seed := p.Seed
		rep.Seed = &seed
	}
	if r.Quality != nil {
		rep.Balanced = r.Quality.Balanced(p.Epsilon)
		if r.Quality.CutEdges != nil {
			rep.CutEdges = r.Quality.CutEdges.ToArray()
		}
	}
	return rep
}
