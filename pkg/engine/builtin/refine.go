package builtin

import (
	"container/heap"
	"math/rand/v2"
)

// maxNeighborEdgeSize bounds the hyperedges whose pins are revisited after an
// FM move. Gains across larger hyperedges go stale until the next pass.
const maxNeighborEdgeSize = 1000

type candidate struct {
	v    int
	to   int32
	gain int64
}

// moveQueue is a max-heap on gain; ties pop the lower vertex first.
type moveQueue []candidate

func (q moveQueue) Len() int { return len(q) }
func (q moveQueue) Less(i, j int) bool {
	if q[i].gain != q[j].gain {
		return q[i].gain > q[j].gain
	}
	return q[i].v < q[j].v
}
func (q moveQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *moveQueue) Push(x any)   { *q = append(*q, x.(candidate)) }
func (q *moveQueue) Pop() any {
	old := *q
	c := old[len(old)-1]
	*q = old[:len(old)-1]
	return c
}

// refine improves s in place according to cfg. Moves never overload a block.
func (s *state) refine(cfg RefinementConfig, rng *rand.Rand) {
	switch cfg.Algorithm {
	case RefineFM:
		for pass := 0; pass < cfg.MaxPasses; pass++ {
			if !s.fmPass(cfg.FMStopAfter) {
				return
			}
		}
	case RefineLabelPropagation:
		s.labelPropagation(cfg.MaxPasses, rng)
	}
}

// fmPass runs one Fiduccia-Mattheyses pass: it moves each vertex at most
// once in best-gain order, including negative-gain moves, then rolls back to
// the best prefix seen. Gains in the queue are refreshed lazily when popped.
// It reports whether the partition improved.
func (s *state) fmPass(stopAfter int) bool {
	type undo struct {
		v    int
		from int32
	}

	locked := make([]bool, s.g.n)
	q := &moveQueue{}
	for v := 0; v < s.g.n; v++ {
		if !s.boundary(v) {
			continue
		}
		if to, g, ok := s.bestMove(v); ok {
			*q = append(*q, candidate{v: v, to: to, gain: g})
		}
	}
	heap.Init(q)

	start := s.score()
	best, cur := start, start
	var moves []undo
	bestLen := 0
	idle := 0

	for q.Len() > 0 && idle < stopAfter {
		c := heap.Pop(q).(candidate)
		if locked[c.v] {
			continue
		}
		to, g, ok := s.bestMove(c.v)
		if !ok {
			continue
		}
		if to != c.to || g != c.gain {
			heap.Push(q, candidate{v: c.v, to: to, gain: g})
			continue
		}

		moves = append(moves, undo{v: c.v, from: s.part[c.v]})
		s.move(c.v, to)
		locked[c.v] = true
		cur = score{overload: s.overload(), objective: cur.objective - g}
		if cur.better(best) {
			best, bestLen, idle = cur, len(moves), 0
		} else {
			idle++
		}

		for _, e := range s.g.incident(c.v) {
			if s.g.edgeSize(e) > maxNeighborEdgeSize {
				continue
			}
			for _, p := range s.g.edge(e) {
				if locked[p] {
					continue
				}
				if to, g, ok := s.bestMove(p); ok {
					heap.Push(q, candidate{v: p, to: to, gain: g})
				}
			}
		}
	}

	for i := len(moves) - 1; i >= bestLen; i-- {
		s.move(moves[i].v, moves[i].from)
	}
	return best.better(start)
}

// labelPropagation repeatedly moves boundary vertices to their best block
// when that strictly improves the objective.
func (s *state) labelPropagation(passes int, rng *rand.Rand) {
	order := rng.Perm(s.g.n)
	for pass := 0; pass < passes; pass++ {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		moved := 0
		for _, v := range order {
			if !s.boundary(v) {
				continue
			}
			if to, g, ok := s.bestMove(v); ok && g > 0 {
				s.move(v, to)
				moved++
			}
		}
		if moved == 0 {
			return
		}
	}
}

// rebalance moves vertices out of overloaded blocks until every block fits or
// no move reduces the overload. Among overload-reducing moves it prefers
// those that leave the target within its limit, then the highest gain.
func (s *state) rebalance() {
	for iter := 0; iter < s.g.n; iter++ {
		over := int32(-1)
		for b := range s.weight {
			if s.weight[b] > s.limit[b] && (over < 0 || s.weight[b]-s.limit[b] > s.weight[over]-s.limit[over]) {
				over = int32(b)
			}
		}
		if over < 0 {
			return
		}

		bestV, bestTo := -1, int32(-1)
		var bestFits bool
		var bestGain int64
		for v := 0; v < s.g.n; v++ {
			w := s.g.vw[v]
			if s.part[v] != over || w == 0 {
				continue
			}
			for b := int32(0); int(b) < s.k; b++ {
				if b == over || s.overloadDelta(over, b, w) >= 0 {
					continue
				}
				fits := s.fits(v, b)
				g := s.gain(v, b)
				if bestV < 0 || (fits && !bestFits) || (fits == bestFits && g > bestGain) {
					bestV, bestTo, bestFits, bestGain = v, b, fits, g
				}
			}
		}
		if bestV < 0 {
			return
		}
		s.move(bestV, bestTo)
	}
}

// overloadDelta is the change in total overload when weight w moves from
// block from to block to.
func (s *state) overloadDelta(from, to int32, w int64) int64 {
	over := func(b int32, weight int64) int64 {
		if d := weight - s.limit[b]; d > 0 {
			return d
		}
		return 0
	}
	before := over(from, s.weight[from]) + over(to, s.weight[to])
	after := over(from, s.weight[from]-w) + over(to, s.weight[to]+w)
	return after - before
}
