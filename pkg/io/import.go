package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	errs "github.com/matzehuels/hyperpart/pkg/errors"
	"github.com/matzehuels/hyperpart/pkg/hypergraph"
)

// hMetis weight format flags.
const (
	fmtEdgeWeights   = 1
	fmtVertexWeights = 10
)

// maxLineBytes bounds a single hMetis line; large hyperedges produce long lines.
const maxLineBytes = 64 << 20

// ReadHMetis decodes an hMetis hypergraph from r.
//
// ReadHMetis returns an INVALID_FORMAT error for malformed headers, non-numeric
// tokens or a wrong number of lines, and an INVALID_INPUT error when the
// decoded hypergraph violates a structural invariant (for example a vertex id
// larger than n). ReadHMetis does not close r.
func ReadHMetis(r io.Reader) (*hypergraph.Hypergraph, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)

	lineNo := 0
	next := func() ([]string, bool) {
		for sc.Scan() {
			lineNo++
			line := strings.TrimSpace(sc.Text())
			if line == "" || strings.HasPrefix(line, "%") {
				continue
			}
			return strings.Fields(line), true
		}
		return nil, false
	}

	header, ok := next()
	if !ok {
		if err := sc.Err(); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "read header")
		}
		return nil, errs.New(errs.ErrCodeInvalidFormat, "missing hMetis header")
	}
	if len(header) < 2 || len(header) > 3 {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "line %d: header must be \"m n [fmt]\"", lineNo)
	}
	nums, err := atois(header)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "line %d", lineNo)
	}
	m, n, format := nums[0], nums[1], 0
	if len(nums) == 3 {
		format = nums[2]
	}
	if m < 0 || n < 0 {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "line %d: negative counts", lineNo)
	}
	if format != 0 && format != fmtEdgeWeights && format != fmtVertexWeights && format != fmtEdgeWeights+fmtVertexWeights {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "line %d: unsupported fmt %d", lineNo, format)
	}
	edgeWeighted := format%10 == fmtEdgeWeights
	vertexWeighted := format >= fmtVertexWeights

	offsets := make([]int, 1, m+1)
	var pins []int
	var edgeWeights []int
	if edgeWeighted {
		edgeWeights = make([]int, 0, m)
	}

	for e := 0; e < m; e++ {
		fields, ok := next()
		if !ok {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "expected %d hyperedges, found %d", m, e)
		}
		values, err := atois(fields)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "line %d", lineNo)
		}
		if edgeWeighted {
			edgeWeights = append(edgeWeights, values[0])
			values = values[1:]
		}
		for _, v := range values {
			// File ids are 1-based; Validate reports anything out of range.
			pins = append(pins, v-1)
		}
		offsets = append(offsets, len(pins))
	}

	var vertexWeights []int
	if vertexWeighted {
		vertexWeights = make([]int, 0, n)
		for v := 0; v < n; v++ {
			fields, ok := next()
			if !ok {
				return nil, errs.New(errs.ErrCodeInvalidFormat, "expected %d vertex weights, found %d", n, v)
			}
			if len(fields) != 1 {
				return nil, errs.New(errs.ErrCodeInvalidFormat, "line %d: expected a single vertex weight", lineNo)
			}
			w, err := strconv.Atoi(fields[0])
			if err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "line %d", lineNo)
			}
			vertexWeights = append(vertexWeights, w)
		}
	}

	if extra, ok := next(); ok {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "line %d: unexpected trailing data %q", lineNo, strings.Join(extra, " "))
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "read")
	}

	return hypergraph.New(n, m, offsets, pins, edgeWeights, vertexWeights)
}

// ImportHMetis reads an hMetis file at path.
func ImportHMetis(path string) (*hypergraph.Hypergraph, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadHMetis(f)
}

// ReadJSON decodes a JSON hypergraph from r and validates it.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*hypergraph.Hypergraph, error) {
	var hg hypergraph.Hypergraph
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&hg); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode")
	}
	if err := hg.Validate(); err != nil {
		return nil, err
	}
	return &hg, nil
}

// ImportJSON reads a JSON hypergraph file at path.
func ImportJSON(path string) (*hypergraph.Hypergraph, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadJSON(f)
}

// Import reads a hypergraph file, choosing the format from the extension:
// ".json" is decoded as JSON, anything else as hMetis.
func Import(path string) (*hypergraph.Hypergraph, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ImportJSON(path)
	}
	return ImportHMetis(path)
}

// ReadPartition decodes a partition file: one non-negative block id per line.
// Blank lines and '%' comments are skipped.
func ReadPartition(r io.Reader) ([]int, error) {
	sc := bufio.NewScanner(r)
	var blocks []int
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		b, err := strconv.Atoi(line)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "line %d", lineNo)
		}
		if b < 0 {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "line %d: negative block id %d", lineNo, b)
		}
		blocks = append(blocks, b)
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "read")
	}
	return blocks, nil
}

// ImportPartition reads a partition file at path.
func ImportPartition(path string) ([]int, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadPartition(f)
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "open %s", path)
	}
	return f, nil
}

func atois(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", f)
		}
		out[i] = v
	}
	return out, nil
}
