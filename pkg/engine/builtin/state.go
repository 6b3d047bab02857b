package builtin

import "github.com/matzehuels/hyperpart/pkg/metrics"

// state is a k-way partition of a graph with incrementally maintained pin
// counts, connectivity and block weights.
type state struct {
	g      *graph
	k      int
	obj    string
	part   []int32
	weight []int64
	limit  []int64
	// pinCount[e*k+b] is the number of pins of e in block b.
	pinCount []int32
	lambda   []int32
}

func newState(g *graph, k int, obj string, limit []int64, part []int32) *state {
	s := &state{
		g:        g,
		k:        k,
		obj:      obj,
		part:     part,
		weight:   make([]int64, k),
		limit:    limit,
		pinCount: make([]int32, g.m*k),
		lambda:   make([]int32, g.m),
	}
	for v, b := range part {
		s.weight[b] += g.vw[v]
	}
	for e := 0; e < g.m; e++ {
		for _, p := range g.edge(e) {
			i := e*k + int(part[p])
			if s.pinCount[i] == 0 {
				s.lambda[e]++
			}
			s.pinCount[i]++
		}
	}
	return s
}

func (s *state) pc(e int, b int32) int32 { return s.pinCount[e*s.k+int(b)] }

// objective derives the current objective from the maintained connectivity.
func (s *state) objective() int64 {
	var total int64
	for e, l := range s.lambda {
		if l <= 1 {
			continue
		}
		if s.obj == ObjectiveCut {
			total += s.g.ew[e]
		} else {
			total += s.g.ew[e] * int64(l-1)
		}
	}
	return total
}

// overload is the total weight by which blocks exceed their limits.
func (s *state) overload() int64 {
	var over int64
	for b, w := range s.weight {
		if w > s.limit[b] {
			over += w - s.limit[b]
		}
	}
	return over
}

// gain is the objective decrease of moving v to block to.
func (s *state) gain(v int, to int32) int64 {
	from := s.part[v]
	if from == to {
		return 0
	}
	var g int64
	for _, e := range s.g.incident(v) {
		if s.g.edgeSize(e) < 2 {
			continue
		}
		l := s.lambda[e]
		after := l
		if s.pc(e, from) == 1 {
			after--
		}
		if s.pc(e, to) == 0 {
			after++
		}
		w := s.g.ew[e]
		if s.obj == ObjectiveCut {
			if l > 1 {
				g += w
			}
			if after > 1 {
				g -= w
			}
		} else {
			g += w * int64(l-after)
		}
	}
	return g
}

// fits reports whether v can move to block to without overloading it.
func (s *state) fits(v int, to int32) bool {
	return s.weight[to]+s.g.vw[v] <= s.limit[to]
}

// bestMove returns the feasible target block with the highest gain for v.
// Ties prefer the lighter block, then the lower block id.
func (s *state) bestMove(v int) (int32, int64, bool) {
	from := s.part[v]
	best, bestGain, found := int32(-1), int64(0), false
	for b := int32(0); int(b) < s.k; b++ {
		if b == from || !s.fits(v, b) {
			continue
		}
		g := s.gain(v, b)
		if !found || g > bestGain || (g == bestGain && s.weight[b] < s.weight[best]) {
			best, bestGain, found = b, g, true
		}
	}
	return best, bestGain, found
}

func (s *state) move(v int, to int32) {
	from := s.part[v]
	if from == to {
		return
	}
	w := s.g.vw[v]
	s.weight[from] -= w
	s.weight[to] += w
	s.part[v] = to
	for _, e := range s.g.incident(v) {
		i := e * s.k
		s.pinCount[i+int(from)]--
		if s.pinCount[i+int(from)] == 0 {
			s.lambda[e]--
		}
		if s.pinCount[i+int(to)] == 0 {
			s.lambda[e]++
		}
		s.pinCount[i+int(to)]++
	}
}

// boundary reports whether v has an incident hyperedge spanning several blocks.
func (s *state) boundary(v int) bool {
	for _, e := range s.g.incident(v) {
		if s.lambda[e] > 1 {
			return true
		}
	}
	return false
}

// score orders candidate partitions: less overload first, then lower objective.
type score struct {
	overload  int64
	objective int64
}

func (a score) better(b score) bool {
	if a.overload != b.overload {
		return a.overload < b.overload
	}
	return a.objective < b.objective
}

func (s *state) score() score {
	return score{overload: s.overload(), objective: s.objective()}
}

// uniformLimits returns count copies of floor((1+epsilon) * ceil(total/k)),
// the limit of every block in a k-way partition.
func uniformLimits(total int64, k, count int, epsilon float64) []int64 {
	perfect := (total + int64(k) - 1) / int64(k)
	l := metrics.WeightLimit(perfect, epsilon)
	limits := make([]int64, count)
	for i := range limits {
		limits[i] = l
	}
	return limits
}
