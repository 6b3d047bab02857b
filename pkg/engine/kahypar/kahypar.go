//go:build kahypar

package kahypar

/*
#cgo LDFLAGS: -lkahypar -lboost_program_options -lstdc++

#include <stdlib.h>
#include <libkahypar.h>
*/
import "C"

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"unsafe"

	"github.com/matzehuels/hyperpart/pkg/engine"
)

// Name is the registry name of the engine.
const Name = "kahypar"

func init() {
	engine.Register(Engine{})
}

// Engine is the KaHyPar engine. The zero value is ready to use.
type Engine struct{}

type ctxResource struct {
	ptr   *C.kahypar_context_t
	freed atomic.Bool
}

func (c *ctxResource) Free() {
	if c.freed.Swap(true) {
		panic("kahypar: context freed twice")
	}
	C.kahypar_context_free(c.ptr)
	c.ptr = nil
}

type hgResource struct {
	ptr       *C.kahypar_hypergraph_t
	numBlocks int
	n         int
	freed     atomic.Bool
}

func (h *hgResource) Free() {
	if h.freed.Swap(true) {
		panic("kahypar: hypergraph freed twice")
	}
	C.kahypar_hypergraph_free(h.ptr)
	h.ptr = nil
}

func (Engine) Name() string { return Name }

func (Engine) NewContext() engine.Context {
	ptr := C.kahypar_context_new()
	if ptr == nil {
		return nil
	}
	return &ctxResource{ptr: ptr}
}

// ConfigureFromFile loads a KaHyPar .ini file. KaHyPar does not report parse
// errors through its C API, so only unreadable files are detected here.
func (Engine) ConfigureFromFile(c engine.Context, path string) error {
	cx, ok := c.(*ctxResource)
	if !ok {
		return engine.ErrWrongResource
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	f.Close()

	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	C.kahypar_configure_context_from_file(cx.ptr, cpath)
	return nil
}

func (Engine) ConfigureFromString(c engine.Context, text string) error {
	cx, ok := c.(*ctxResource)
	if !ok {
		return engine.ErrWrongResource
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("empty configuration")
	}
	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))
	C.kahypar_configure_context_from_string(cx.ptr, ctext)
	return nil
}

func (Engine) SetSeed(c engine.Context, seed int32) {
	if cx, ok := c.(*ctxResource); ok {
		C.kahypar_set_seed(cx.ptr, C.int(seed))
	}
}

func (Engine) NewHypergraph(numBlocks int, in engine.Input) engine.Hypergraph {
	offsets := make([]C.size_t, len(in.Offsets))
	for i, o := range in.Offsets {
		offsets[i] = C.size_t(o)
	}
	pins := make([]C.kahypar_hyperedge_id_t, len(in.Pins))
	for i, p := range in.Pins {
		pins[i] = C.kahypar_hyperedge_id_t(p)
	}
	ew := make([]C.kahypar_hyperedge_weight_t, len(in.HyperedgeWeights))
	for i, w := range in.HyperedgeWeights {
		ew[i] = C.kahypar_hyperedge_weight_t(w)
	}
	vw := make([]C.kahypar_hypernode_weight_t, len(in.VertexWeights))
	for i, w := range in.VertexWeights {
		vw[i] = C.kahypar_hypernode_weight_t(w)
	}

	ptr := C.kahypar_create_hypergraph(
		C.kahypar_partition_id_t(numBlocks),
		C.kahypar_hypernode_id_t(in.NumVertices),
		C.kahypar_hyperedge_id_t(in.NumHyperedges),
		first(offsets),
		first(pins),
		first(ew),
		first(vw),
	)
	if ptr == nil {
		return nil
	}
	return &hgResource{ptr: ptr, numBlocks: numBlocks, n: in.NumVertices}
}

func (Engine) Partition(h engine.Hypergraph, k int, epsilon float64, c engine.Context, out []int32) (int64, error) {
	hg, ok := h.(*hgResource)
	if !ok {
		return 0, engine.ErrWrongResource
	}
	cx, ok := c.(*ctxResource)
	if !ok {
		return 0, engine.ErrWrongResource
	}
	// KaHyPar sizes its block structures from the hypergraph's num_blocks.
	if k != hg.numBlocks {
		return 0, fmt.Errorf("k=%d differs from the %d blocks the hypergraph was built for", k, hg.numBlocks)
	}
	if len(out) != hg.n {
		return 0, fmt.Errorf("output length %d does not match %d vertices", len(out), hg.n)
	}
	if hg.n == 0 {
		return 0, nil
	}

	var objective C.kahypar_hyperedge_weight_t
	C.kahypar_partition_hypergraph(
		hg.ptr,
		C.kahypar_partition_id_t(k),
		C.double(epsilon),
		&objective,
		cx.ptr,
		(*C.kahypar_partition_id_t)(unsafe.Pointer(&out[0])),
	)
	return int64(objective), nil
}

func first[T any](s []T) *T {
	if len(s) == 0 {
		return nil
	}
	return &s[0]
}
