package hypergraph

import (
	"errors"
	"math"
	"slices"

	errs "github.com/matzehuels/hyperpart/pkg/errors"
)

const (
	// DefaultVertexWeight is the weight of every vertex when no vertex
	// weights are supplied.
	DefaultVertexWeight = 1

	// DefaultHyperedgeWeight is the weight of every hyperedge when no
	// hyperedge weights are supplied.
	DefaultHyperedgeWeight = 1

	// MaxElements bounds vertex and hyperedge counts to the engine's 32-bit
	// index type.
	MaxElements = math.MaxInt32
)

var (
	// ErrNegativeCount is returned when the vertex or hyperedge count is negative.
	ErrNegativeCount = errors.New("negative element count")

	// ErrTooLarge is returned when a count or weight exceeds the 32-bit engine range.
	ErrTooLarge = errors.New("value exceeds 32-bit engine range")

	// ErrOffsetsLength is returned when len(offsets) != num_hyperedges+1.
	ErrOffsetsLength = errors.New("offsets length must be num_hyperedges+1")

	// ErrOffsetsStart is returned when offsets[0] != 0.
	ErrOffsetsStart = errors.New("offsets must start at 0")

	// ErrNonMonotonicOffsets is returned when offsets decrease somewhere.
	ErrNonMonotonicOffsets = errors.New("offsets must be non-decreasing")

	// ErrOffsetsEnd is returned when offsets[m] != len(pins).
	ErrOffsetsEnd = errors.New("last offset must equal the number of pins")

	// ErrPinOutOfRange is returned when a pin is not a valid vertex id.
	ErrPinOutOfRange = errors.New("pin out of vertex range")

	// ErrVertexWeightsLength is returned when vertex weights are present but
	// their length differs from num_vertices.
	ErrVertexWeightsLength = errors.New("vertex weights length must equal num_vertices")

	// ErrHyperedgeWeightsLength is returned when hyperedge weights are present
	// but their length differs from num_hyperedges.
	ErrHyperedgeWeightsLength = errors.New("hyperedge weights length must equal num_hyperedges")

	// ErrNegativeWeight is returned for a negative vertex or hyperedge weight.
	ErrNegativeWeight = errors.New("weights must be non-negative")
)

// Hypergraph is a CSR hypergraph with optional integer weights.
//
// The zero value is a valid empty hypergraph once Offsets is set to [0];
// use [New] or [Builder] to obtain a validated instance. Fields are exported
// so callers can construct literals, which is why every consumer calls
// [Hypergraph.Validate] again before trusting them.
type Hypergraph struct {
	NumVertices   int   `json:"num_vertices"`
	NumHyperedges int   `json:"num_hyperedges"`
	Offsets       []int `json:"offsets"`
	Pins          []int `json:"pins"`

	// Optional weights; nil or empty means "all weights are 1".
	HyperedgeWeights []int `json:"hyperedge_weights,omitempty"`
	VertexWeights    []int `json:"vertex_weights,omitempty"`
}

// New copies the given arrays into a new Hypergraph and validates it.
//
// On failure it returns an INVALID_INPUT error naming the violated invariant;
// the error's cause is one of the sentinel errors of this package.
func New(numVertices, numHyperedges int, offsets, pins, hyperedgeWeights, vertexWeights []int) (*Hypergraph, error) {
	hg := &Hypergraph{
		NumVertices:      numVertices,
		NumHyperedges:    numHyperedges,
		Offsets:          slices.Clone(offsets),
		Pins:             slices.Clone(pins),
		HyperedgeWeights: slices.Clone(hyperedgeWeights),
		VertexWeights:    slices.Clone(vertexWeights),
	}
	if err := hg.Validate(); err != nil {
		return nil, err
	}
	return hg, nil
}

// Validate checks every structural invariant of the hypergraph.
//
// Checks run in a fixed order so the first violation reported is stable:
// counts, offsets length, offsets start, monotonicity, offsets end, pin
// range, weight lengths, weight signs.
func (hg *Hypergraph) Validate() error {
	if hg == nil {
		return errs.New(errs.ErrCodeInvalidInput, "hypergraph is nil")
	}
	n, m := hg.NumVertices, hg.NumHyperedges
	if n < 0 || m < 0 {
		return invalid(ErrNegativeCount, "num_vertices=%d num_hyperedges=%d", n, m)
	}
	if n > MaxElements || m > MaxElements {
		return invalid(ErrTooLarge, "num_vertices=%d num_hyperedges=%d", n, m)
	}
	if len(hg.Offsets) != m+1 {
		return invalid(ErrOffsetsLength, "got %d offsets for %d hyperedges", len(hg.Offsets), m)
	}
	if hg.Offsets[0] != 0 {
		return invalid(ErrOffsetsStart, "offsets[0]=%d", hg.Offsets[0])
	}
	for e := 1; e <= m; e++ {
		if hg.Offsets[e] < hg.Offsets[e-1] {
			return invalid(ErrNonMonotonicOffsets, "offsets[%d]=%d < offsets[%d]=%d",
				e, hg.Offsets[e], e-1, hg.Offsets[e-1])
		}
	}
	if hg.Offsets[m] != len(hg.Pins) {
		return invalid(ErrOffsetsEnd, "offsets[%d]=%d, len(pins)=%d", m, hg.Offsets[m], len(hg.Pins))
	}
	for i, p := range hg.Pins {
		if p < 0 || p >= n {
			return invalid(ErrPinOutOfRange, "pins[%d]=%d, num_vertices=%d", i, p, n)
		}
	}
	if len(hg.VertexWeights) != 0 && len(hg.VertexWeights) != n {
		return invalid(ErrVertexWeightsLength, "got %d weights for %d vertices", len(hg.VertexWeights), n)
	}
	if len(hg.HyperedgeWeights) != 0 && len(hg.HyperedgeWeights) != m {
		return invalid(ErrHyperedgeWeightsLength, "got %d weights for %d hyperedges", len(hg.HyperedgeWeights), m)
	}
	for v, w := range hg.VertexWeights {
		if w < 0 {
			return invalid(ErrNegativeWeight, "vertex_weights[%d]=%d", v, w)
		}
		if w > math.MaxInt32 {
			return invalid(ErrTooLarge, "vertex_weights[%d]=%d", v, w)
		}
	}
	for e, w := range hg.HyperedgeWeights {
		if w < 0 {
			return invalid(ErrNegativeWeight, "hyperedge_weights[%d]=%d", e, w)
		}
		if w > math.MaxInt32 {
			return invalid(ErrTooLarge, "hyperedge_weights[%d]=%d", e, w)
		}
	}
	return nil
}

// invalid builds an INVALID_INPUT error whose message carries the offending
// values and whose cause names the violated invariant.
func invalid(cause error, format string, args ...any) error {
	return errs.Wrap(errs.ErrCodeInvalidInput, cause, format, args...)
}

// NumPins returns the total number of pins.
func (hg *Hypergraph) NumPins() int { return len(hg.Pins) }

// Hyperedge returns the pins of hyperedge e. The returned slice aliases the
// hypergraph and must not be modified.
func (hg *Hypergraph) Hyperedge(e int) []int {
	return hg.Pins[hg.Offsets[e]:hg.Offsets[e+1]]
}

// HyperedgeSize returns the number of pins of hyperedge e.
func (hg *Hypergraph) HyperedgeSize(e int) int {
	return hg.Offsets[e+1] - hg.Offsets[e]
}

// VertexWeight returns the weight of vertex v, applying the default.
func (hg *Hypergraph) VertexWeight(v int) int {
	if len(hg.VertexWeights) == 0 {
		return DefaultVertexWeight
	}
	return hg.VertexWeights[v]
}

// HyperedgeWeight returns the weight of hyperedge e, applying the default.
func (hg *Hypergraph) HyperedgeWeight(e int) int {
	if len(hg.HyperedgeWeights) == 0 {
		return DefaultHyperedgeWeight
	}
	return hg.HyperedgeWeights[e]
}

// HasVertexWeights reports whether explicit vertex weights are present.
func (hg *Hypergraph) HasVertexWeights() bool { return len(hg.VertexWeights) != 0 }

// HasHyperedgeWeights reports whether explicit hyperedge weights are present.
func (hg *Hypergraph) HasHyperedgeWeights() bool { return len(hg.HyperedgeWeights) != 0 }

// TotalVertexWeight returns the sum of all vertex weights.
func (hg *Hypergraph) TotalVertexWeight() int64 {
	if len(hg.VertexWeights) == 0 {
		return int64(hg.NumVertices) * DefaultVertexWeight
	}
	var total int64
	for _, w := range hg.VertexWeights {
		total += int64(w)
	}
	return total
}

// ResolvedVertexWeights returns a fresh slice of vertex weights with the
// default applied when none were given.
func (hg *Hypergraph) ResolvedVertexWeights() []int {
	return resolve(hg.VertexWeights, hg.NumVertices, DefaultVertexWeight)
}

// ResolvedHyperedgeWeights returns a fresh slice of hyperedge weights with the
// default applied when none were given.
func (hg *Hypergraph) ResolvedHyperedgeWeights() []int {
	return resolve(hg.HyperedgeWeights, hg.NumHyperedges, DefaultHyperedgeWeight)
}

func resolve(weights []int, n, def int) []int {
	if len(weights) != 0 {
		return slices.Clone(weights)
	}
	out := make([]int, n)
	for i := range out {
		out[i] = def
	}
	return out
}

// Incidence returns the vertex-to-hyperedge incidence in CSR form: the
// hyperedges of vertex v are edges[offsets[v]:offsets[v+1]], in increasing
// hyperedge order.
func (hg *Hypergraph) Incidence() (offsets, edges []int) {
	offsets = make([]int, hg.NumVertices+1)
	for _, p := range hg.Pins {
		offsets[p+1]++
	}
	for v := 0; v < hg.NumVertices; v++ {
		offsets[v+1] += offsets[v]
	}
	edges = make([]int, len(hg.Pins))
	next := slices.Clone(offsets[:hg.NumVertices])
	for e := 0; e < hg.NumHyperedges; e++ {
		for _, p := range hg.Hyperedge(e) {
			edges[next[p]] = e
			next[p]++
		}
	}
	return offsets, edges
}

// Clone returns a deep copy of the hypergraph.
func (hg *Hypergraph) Clone() *Hypergraph {
	return &Hypergraph{
		NumVertices:      hg.NumVertices,
		NumHyperedges:    hg.NumHyperedges,
		Offsets:          slices.Clone(hg.Offsets),
		Pins:             slices.Clone(hg.Pins),
		HyperedgeWeights: slices.Clone(hg.HyperedgeWeights),
		VertexWeights:    slices.Clone(hg.VertexWeights),
	}
}
