// Package io reads and writes hypergraphs and partitions.
//
// # Overview
//
// Three formats are supported:
//
//   - hMetis (.hgr): the de-facto exchange format of hypergraph partitioners
//   - JSON (.json): the CSR arrays of [hypergraph.Hypergraph] verbatim
//   - Partition files: one block id per line, line i holding the block of vertex i
//
// # hMetis Format
//
// The first non-comment line is the header "m n [fmt]" with m hyperedges and
// n vertices. The optional fmt selects weights:
//
//	0 or omitted   no weights
//	1              hyperedge weights (first number on every hyperedge line)
//	10             vertex weights (n extra lines after the hyperedges)
//	11             both
//
// Each of the following m lines lists the 1-based vertex ids of one
// hyperedge. Lines starting with '%' are comments:
//
//	% golden example
//	4 7 11
//	1 1 3
//	1000 1 2 4 5
//	1 4 5 7
//	1000 3 6 7
//	1
//	2
//	...
//
// # JSON Format
//
//	{
//	  "num_vertices": 7,
//	  "num_hyperedges": 4,
//	  "offsets": [0, 2, 6, 9, 12],
//	  "pins": [0, 2, 0, 1, 3, 4, 3, 4, 6, 2, 5, 6],
//	  "hyperedge_weights": [1, 1000, 1, 1000],
//	  "vertex_weights": [1, 2, 3, 4, 5, 6, 7]
//	}
//
// Weight arrays are optional. Every reader validates the result with
// [hypergraph.Hypergraph.Validate], so a successfully read hypergraph is
// always safe to hand to an engine. Syntax problems are reported as
// INVALID_FORMAT errors, structural problems as INVALID_INPUT errors.
package io
