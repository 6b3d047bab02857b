package builtin

import (
	"math"
	"math/bits"
	"math/rand/v2"

	"github.com/matzehuels/hyperpart/pkg/metrics"
)

// solve partitions g into k blocks with imbalance epsilon under cfg.
func solve(g *graph, k int, epsilon float64, cfg Config, seed uint64) []int32 {
	if k == 1 || g.n == 0 {
		return make([]int32, g.n)
	}
	// At most n blocks can be non-empty and all blocks share one limit, so
	// the direct path only materializes min(k, n) of them.
	used := min(k, g.n)
	limits := uniformLimits(g.total, k, used, epsilon)
	if exactApplicable(g.n, used, cfg.InitialPartitioning.ExhaustiveLimit) {
		return exact(g, used, limits, cfg.Objective)
	}
	if cfg.Mode == ModeRecursive && k <= g.n {
		part := make([]int32, g.n)
		all := make([]int, g.n)
		for v := range all {
			all[v] = v
		}
		bisect(g, all, k, 0, adaptEpsilon(epsilon, k), cfg, seed, part)
		return part
	}
	return multilevel(g, used, limits, cfg, seed)
}

// multilevel runs coarsening, initial partitioning and uncoarsening with
// refinement on every level.
func multilevel(g *graph, k int, limits []int64, cfg Config, seed uint64) []int32 {
	if exactApplicable(g.n, k, cfg.InitialPartitioning.ExhaustiveLimit) {
		return exact(g, k, limits, cfg.Objective)
	}

	rng := rand.New(rand.NewPCG(seed, 0))
	perfect := (g.total + int64(k) - 1) / int64(k)
	maxCluster := max(int64(cfg.Coarsening.MaxClusterWeightFraction*float64(perfect)), 1)
	levels := coarsen(g, cfg.Coarsening.ContractionLimitMultiplier*k, maxCluster, cfg.Coarsening.MinShrinkFactor, rng)

	coarsest := g
	if len(levels) > 0 {
		coarsest = levels[len(levels)-1].g
	}
	var part []int32
	if exactApplicable(coarsest.n, k, cfg.InitialPartitioning.ExhaustiveLimit) {
		part = exact(coarsest, k, limits, cfg.Objective)
	} else {
		part = initialPartition(coarsest, k, limits, cfg, seed)
	}

	s := newState(coarsest, k, cfg.Objective, limits, part)
	s.refine(cfg.Refinement, rng)
	for i := len(levels) - 1; i >= 0; i-- {
		finer := g
		if i > 0 {
			finer = levels[i-1].g
		}
		s = newState(finer, k, cfg.Objective, limits, project(s.part, levels[i].mapping))
		s.refine(cfg.Refinement, rng)
	}

	if s.overload() > 0 {
		s.rebalance()
		s.refine(cfg.Refinement, rng)
	}
	return s.part
}

// bisect splits vertices of root into blocks [offset, offset+k) by recursive
// bisection, writing block ids into out. Each bisection runs on the
// sub-hypergraph induced by vertices; for the cut objective, hyperedges
// already cut by an earlier bisection are removed.
func bisect(root *graph, vertices []int, k int, offset int32, epsilon float64, cfg Config, seed uint64, out []int32) {
	if k == 1 || len(vertices) == 0 {
		for _, v := range vertices {
			out[v] = offset
		}
		return
	}

	sub := root.subgraph(vertices, cfg.Objective == ObjectiveCut)
	k0, k1 := (k+1)/2, k/2
	limits := []int64{
		bisectionLimit(sub.total, k0, k, epsilon),
		bisectionLimit(sub.total, k1, k, epsilon),
	}
	part := multilevel(sub, 2, limits, cfg, mix(seed, uint64(offset)))

	var left, right []int
	for i, b := range part {
		if b == 0 {
			left = append(left, vertices[i])
		} else {
			right = append(right, vertices[i])
		}
	}
	bisect(root, left, k0, offset, epsilon, cfg, seed, out)
	bisect(root, right, k1, offset+int32(k0), epsilon, cfg, seed, out)
}

// bisectionLimit is the weight limit of a side that will hold parts of k
// final blocks.
func bisectionLimit(total int64, parts, k int, epsilon float64) int64 {
	kk, pp := int64(k), int64(parts)
	share := total/kk*pp + (total%kk*pp+kk-1)/kk
	return metrics.WeightLimit(share, epsilon)
}

// adaptEpsilon spreads the imbalance budget over the ceil(log2 k) levels of
// recursive bisection so the final blocks stay within epsilon.
func adaptEpsilon(epsilon float64, k int) float64 {
	depth := bits.Len(uint(k - 1))
	if depth <= 1 {
		return epsilon
	}
	return math.Pow(1+epsilon, 1/float64(depth)) - 1
}

// mix derives a child seed.
func mix(seed, salt uint64) uint64 {
	z := seed + 0x9e3779b97f4a7c15*(salt+1)
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
