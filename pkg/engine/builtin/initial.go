package builtin

import (
	"container/heap"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// initialPartition runs cfg.InitialPartitioning.Runs independent attempts in
// parallel and returns the best by [score]. Run r uses its own generator
// derived from seed and r, and ties go to the lowest run index, so the
// outcome does not depend on scheduling.
func initialPartition(g *graph, k int, limits []int64, cfg Config, seed uint64) []int32 {
	runs := cfg.InitialPartitioning.Runs
	parts := make([][]int32, runs)
	scores := make([]score, runs)

	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for r := 0; r < runs; r++ {
		eg.Go(func() error {
			rng := rand.New(rand.NewPCG(seed, uint64(r)+1))
			var part []int32
			if r%2 == 0 {
				part = growPartition(g, k, limits, rng)
			} else {
				part = spreadPartition(g, k, limits, rng)
			}
			s := newState(g, k, cfg.Objective, limits, part)
			s.rebalance()
			s.refine(cfg.Refinement, rng)
			parts[r], scores[r] = s.part, s.score()
			return nil
		})
	}
	_ = eg.Wait()

	best := 0
	for r := 1; r < runs; r++ {
		if scores[r].better(scores[best]) {
			best = r
		}
	}
	return parts[best]
}

// spreadPartition assigns vertices in random order to the block with the
// most remaining capacity.
func spreadPartition(g *graph, k int, limits []int64, rng *rand.Rand) []int32 {
	part := make([]int32, g.n)
	weight := make([]int64, k)
	for _, v := range rng.Perm(g.n) {
		best := 0
		for b := 1; b < k; b++ {
			if limits[b]-weight[b] > limits[best]-weight[best] {
				best = b
			}
		}
		part[v] = int32(best)
		weight[best] += g.vw[v]
	}
	return part
}

type affinity struct {
	v      int
	rating float64
}

type affinityQueue []affinity

func (q affinityQueue) Len() int { return len(q) }
func (q affinityQueue) Less(i, j int) bool {
	if q[i].rating != q[j].rating {
		return q[i].rating > q[j].rating
	}
	return q[i].v < q[j].v
}
func (q affinityQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *affinityQueue) Push(x any)   { *q = append(*q, x.(affinity)) }
func (q *affinityQueue) Pop() any {
	old := *q
	a := old[len(old)-1]
	*q = old[:len(old)-1]
	return a
}

// growPartition grows blocks 0..k-2 one at a time from a random start
// vertex, always adding the unassigned vertex most strongly connected to the
// growing block, until the block reaches its share of the total weight.
// Whatever remains forms block k-1.
func growPartition(g *graph, k int, limits []int64, rng *rand.Rand) []int32 {
	part := make([]int32, g.n)
	for v := range part {
		part[v] = -1
	}
	var capacity int64
	for _, l := range limits {
		capacity += l
	}

	order := rng.Perm(g.n)
	cursor := 0
	rating := make([]float64, g.n)

	for b := 0; b < k-1; b++ {
		target := limits[b]
		if capacity > 0 {
			target = int64(float64(g.total) * float64(limits[b]) / float64(capacity))
		}
		var weight int64
		q := &affinityQueue{}
		var touched []int

		for weight < target {
			v := -1
			for q.Len() > 0 {
				a := heap.Pop(q).(affinity)
				if part[a.v] < 0 && a.rating == rating[a.v] {
					v = a.v
					break
				}
			}
			if v < 0 {
				for cursor < len(order) && part[order[cursor]] >= 0 {
					cursor++
				}
				if cursor == len(order) {
					break
				}
				v = order[cursor]
			}
			if weight+g.vw[v] > limits[b] {
				// Leave v for a later block; clear its rating so stale
				// queue entries for it are ignored.
				rating[v] = -1
				if q.Len() == 0 {
					break
				}
				continue
			}

			part[v] = int32(b)
			weight += g.vw[v]
			for _, e := range g.incident(v) {
				s := g.edgeSize(e)
				if s < 2 || s > maxRatedEdgeSize {
					continue
				}
				r := float64(g.ew[e]) / float64(s-1)
				for _, p := range g.edge(e) {
					if part[p] >= 0 || rating[p] < 0 {
						continue
					}
					if rating[p] == 0 {
						touched = append(touched, p)
					}
					rating[p] += r
					heap.Push(q, affinity{v: p, rating: rating[p]})
				}
			}
		}
		for _, v := range touched {
			rating[v] = 0
		}
		for v := range rating {
			if rating[v] < 0 {
				rating[v] = 0
			}
		}
	}

	for v := range part {
		if part[v] < 0 {
			part[v] = int32(k - 1)
		}
	}
	return part
}
