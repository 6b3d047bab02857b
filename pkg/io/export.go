package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/matzehuels/hyperpart/pkg/hypergraph"
)

// WriteHMetis encodes hg in hMetis format and writes it to w.
//
// The fmt flag is derived from which weight arrays are present. Because a
// blank line cannot encode an empty hyperedge, hyperedge weights are always
// written when hg contains one. Output can be re-read with [ReadHMetis].
func WriteHMetis(hg *hypergraph.Hypergraph, w io.Writer) error {
	edgeWeighted := hg.HasHyperedgeWeights()
	for e := 0; e < hg.NumHyperedges && !edgeWeighted; e++ {
		if hg.HyperedgeSize(e) == 0 {
			edgeWeighted = true
		}
	}
	vertexWeighted := hg.HasVertexWeights()

	format := 0
	if edgeWeighted {
		format += fmtEdgeWeights
	}
	if vertexWeighted {
		format += fmtVertexWeights
	}

	bw := bufio.NewWriter(w)
	if format == 0 {
		fmt.Fprintf(bw, "%d %d\n", hg.NumHyperedges, hg.NumVertices)
	} else {
		fmt.Fprintf(bw, "%d %d %d\n", hg.NumHyperedges, hg.NumVertices, format)
	}

	var buf []byte
	for e := 0; e < hg.NumHyperedges; e++ {
		buf = buf[:0]
		if edgeWeighted {
			buf = strconv.AppendInt(buf, int64(hg.HyperedgeWeight(e)), 10)
		}
		for _, p := range hg.Hyperedge(e) {
			if len(buf) > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendInt(buf, int64(p+1), 10)
		}
		buf = append(buf, '\n')
		bw.Write(buf)
	}
	if vertexWeighted {
		for v := 0; v < hg.NumVertices; v++ {
			fmt.Fprintf(bw, "%d\n", hg.VertexWeight(v))
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ExportHMetis writes hg to an hMetis file at path.
func ExportHMetis(hg *hypergraph.Hypergraph, path string) error {
	return export(path, func(w io.Writer) error { return WriteHMetis(hg, w) })
}

// WriteJSON encodes hg as indented JSON and writes it to w.
// This format can be re-imported with [ReadJSON].
func WriteJSON(hg *hypergraph.Hypergraph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(hg); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes hg to a JSON file at path.
func ExportJSON(hg *hypergraph.Hypergraph, path string) error {
	return export(path, func(w io.Writer) error { return WriteJSON(hg, w) })
}

// WritePartition writes one block id per line.
func WritePartition(blocks []int, w io.Writer) error {
	bw := bufio.NewWriter(w)
	var buf []byte
	for _, b := range blocks {
		buf = strconv.AppendInt(buf[:0], int64(b), 10)
		buf = append(buf, '\n')
		bw.Write(buf)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ExportPartition writes a partition file at path.
func ExportPartition(blocks []int, path string) error {
	return export(path, func(w io.Writer) error { return WritePartition(blocks, w) })
}

func export(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
