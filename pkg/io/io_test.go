package io

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	errs "github.com/matzehuels/hyperpart/pkg/errors"
	"github.com/matzehuels/hyperpart/pkg/hypergraph"
)

const goldenHMetis = `% golden example
4 7 11
1 1 3
1000 1 2 4 5
1 4 5 7
1000 3 6 7
1
2
3
4
5
6
7
`

func golden(t *testing.T) *hypergraph.Hypergraph {
	t.Helper()
	hg, err := hypergraph.New(7, 4,
		[]int{0, 2, 6, 9, 12},
		[]int{0, 2, 0, 1, 3, 4, 3, 4, 6, 2, 5, 6},
		[]int{1, 1000, 1, 1000},
		[]int{1, 2, 3, 4, 5, 6, 7},
	)
	if err != nil {
		t.Fatalf("golden: %v", err)
	}
	return hg
}

func equal(a, b *hypergraph.Hypergraph) bool {
	return a.NumVertices == b.NumVertices &&
		a.NumHyperedges == b.NumHyperedges &&
		slices.Equal(a.Offsets, b.Offsets) &&
		slices.Equal(a.Pins, b.Pins) &&
		slices.Equal(a.HyperedgeWeights, b.HyperedgeWeights) &&
		slices.Equal(a.VertexWeights, b.VertexWeights)
}

func TestReadHMetisGolden(t *testing.T) {
	hg, err := ReadHMetis(strings.NewReader(goldenHMetis))
	if err != nil {
		t.Fatalf("ReadHMetis: %v", err)
	}
	if !equal(hg, golden(t)) {
		t.Errorf("ReadHMetis = %+v", hg)
	}
}

func TestReadHMetisUnweighted(t *testing.T) {
	hg, err := ReadHMetis(strings.NewReader("2 3\n1 2\n2 3\n"))
	if err != nil {
		t.Fatalf("ReadHMetis: %v", err)
	}
	if hg.HasHyperedgeWeights() || hg.HasVertexWeights() {
		t.Error("unweighted file produced weights")
	}
	if !slices.Equal(hg.Pins, []int{0, 1, 1, 2}) {
		t.Errorf("Pins = %v", hg.Pins)
	}
}

func TestReadHMetisErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errs.Code
	}{
		{"empty", "", errs.ErrCodeInvalidFormat},
		{"only comments", "% nothing\n", errs.ErrCodeInvalidFormat},
		{"short header", "4\n", errs.ErrCodeInvalidFormat},
		{"non-numeric header", "a b\n", errs.ErrCodeInvalidFormat},
		{"bad fmt", "1 2 5\n1 2\n", errs.ErrCodeInvalidFormat},
		{"negative counts", "-1 2\n", errs.ErrCodeInvalidFormat},
		{"missing hyperedge", "2 3\n1 2\n", errs.ErrCodeInvalidFormat},
		{"bad pin", "1 3\n1 x\n", errs.ErrCodeInvalidFormat},
		{"missing vertex weight", "1 2 10\n1 2\n1\n", errs.ErrCodeInvalidFormat},
		{"two vertex weights on a line", "1 2 10\n1 2\n1 1\n1\n", errs.ErrCodeInvalidFormat},
		{"trailing data", "1 2\n1 2\n1 2\n", errs.ErrCodeInvalidFormat},
		{"pin out of range", "1 2\n1 3\n", errs.ErrCodeInvalidInput},
		{"zero pin", "1 2\n0 1\n", errs.ErrCodeInvalidInput},
		{"negative weight", "1 2 1\n-3 1 2\n", errs.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadHMetis(strings.NewReader(tt.input))
			if !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestHMetisRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		hg   func(t *testing.T) *hypergraph.Hypergraph
	}{
		{"golden", golden},
		{"unweighted", func(t *testing.T) *hypergraph.Hypergraph {
			hg, err := hypergraph.New(4, 2, []int{0, 3, 5}, []int{0, 1, 2, 2, 3}, nil, nil)
			if err != nil {
				t.Fatal(err)
			}
			return hg
		}},
		{"empty hyperedge", func(t *testing.T) *hypergraph.Hypergraph {
			hg, err := hypergraph.New(3, 2, []int{0, 0, 2}, []int{0, 1}, nil, nil)
			if err != nil {
				t.Fatal(err)
			}
			return hg
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := tt.hg(t)
			var buf bytes.Buffer
			if err := WriteHMetis(want, &buf); err != nil {
				t.Fatalf("WriteHMetis: %v", err)
			}
			got, err := ReadHMetis(&buf)
			if err != nil {
				t.Fatalf("ReadHMetis: %v\n%s", err, buf.String())
			}
			if got.NumVertices != want.NumVertices || !slices.Equal(got.Offsets, want.Offsets) || !slices.Equal(got.Pins, want.Pins) {
				t.Errorf("round trip changed structure: %+v", got)
			}
			if !slices.Equal(got.ResolvedHyperedgeWeights(), want.ResolvedHyperedgeWeights()) ||
				!slices.Equal(got.ResolvedVertexWeights(), want.ResolvedVertexWeights()) {
				t.Errorf("round trip changed weights: %+v", got)
			}
		})
	}
}

func TestWriteHMetisHeader(t *testing.T) {
	hg, _ := hypergraph.New(4, 2, []int{0, 3, 5}, []int{0, 1, 2, 2, 3}, nil, nil)
	var buf bytes.Buffer
	if err := WriteHMetis(hg, &buf); err != nil {
		t.Fatal(err)
	}
	want := "2 4\n1 2 3\n3 4\n"
	if buf.String() != want {
		t.Errorf("WriteHMetis =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	want := golden(t)
	var buf bytes.Buffer
	if err := WriteJSON(want, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if !equal(got, want) {
		t.Errorf("JSON round trip = %+v", got)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errs.Code
	}{
		{"syntax", "{", errs.ErrCodeInvalidFormat},
		{"unknown field", `{"num_vertices":1,"num_hyperedges":0,"offsets":[0],"pins":[],"extra":1}`, errs.ErrCodeInvalidFormat},
		{"invalid structure", `{"num_vertices":1,"num_hyperedges":1,"offsets":[0,1],"pins":[3]}`, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestPartitionRoundTrip(t *testing.T) {
	want := []int{0, 1, 0, 0, 1, 0, 1}
	var buf bytes.Buffer
	if err := WritePartition(want, &buf); err != nil {
		t.Fatal(err)
	}
	got, err := ReadPartition(&buf)
	if err != nil {
		t.Fatalf("ReadPartition: %v", err)
	}
	if !slices.Equal(got, want) {
		t.Errorf("ReadPartition = %v", got)
	}
}

func TestReadPartitionErrors(t *testing.T) {
	for _, input := range []string{"0\nx\n", "0\n-1\n"} {
		if _, err := ReadPartition(strings.NewReader(input)); !errs.Is(err, errs.ErrCodeInvalidFormat) {
			t.Errorf("ReadPartition(%q) error = %v", input, err)
		}
	}
}

func TestImportDispatch(t *testing.T) {
	dir := t.TempDir()
	want := golden(t)

	hgr := filepath.Join(dir, "g.hgr")
	if err := ExportHMetis(want, hgr); err != nil {
		t.Fatal(err)
	}
	js := filepath.Join(dir, "g.json")
	if err := ExportJSON(want, js); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{hgr, js} {
		got, err := Import(path)
		if err != nil {
			t.Fatalf("Import(%s): %v", path, err)
		}
		if !equal(got, want) {
			t.Errorf("Import(%s) = %+v", path, got)
		}
	}

	part := filepath.Join(dir, "g.part")
	if err := ExportPartition([]int{1, 0}, part); err != nil {
		t.Fatal(err)
	}
	blocks, err := ImportPartition(part)
	if err != nil || !slices.Equal(blocks, []int{1, 0}) {
		t.Errorf("ImportPartition = %v, %v", blocks, err)
	}
}

func TestImportMissingFile(t *testing.T) {
	_, err := Import(filepath.Join(t.TempDir(), "missing.hgr"))
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("cause should be os.ErrNotExist")
	}
}
