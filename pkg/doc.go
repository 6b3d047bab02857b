// Package pkg provides the core libraries for hyperpart hypergraph partitioning.
//
// # Overview
//
// hyperpart splits the vertices of a weighted hypergraph into k blocks of
// bounded weight while minimizing the connectivity (km1) or cut-net
// objective. Partitioning runs behind a pluggable engine boundary: a pure Go
// multilevel engine ships by default, and a binding to the KaHyPar C library
// is compiled in with the kahypar build tag. The pkg directory is organized
// into four main areas:
//
//  1. [hypergraph], [io] - The hypergraph model and its file formats
//  2. [partition], [engine] - Handle-based partitioning across engines
//  3. [metrics], [render] - Evaluation and drawing of partitions
//  4. [pipeline], [cache], [api] - Orchestration for the CLI and HTTP server
//
// # Architecture
//
// The typical data flow through hyperpart:
//
//	hMetis / JSON file
//	         ↓
//	    [io] package (parse and validate)
//	         ↓
//	    [partition] package (context + hypergraph handles)
//	         ↓
//	    [engine] package (builtin or kahypar)
//	         ↓
//	    [metrics] + [render] (quality, DOT/SVG/PNG/PDF)
//
// # Quick Start
//
// Partition a hypergraph file into two blocks:
//
//	import (
//	    hgio "github.com/matzehuels/hyperpart/pkg/io"
//	    "github.com/matzehuels/hyperpart/pkg/engine/builtin"
//	    "github.com/matzehuels/hyperpart/pkg/partition"
//	)
//
//	hg, _ := hgio.Import("graph.hgr")
//
//	ctx, _ := partition.NewContext()
//	defer ctx.Close()
//	text, _ := builtin.Preset("km1_direct")
//	_ = ctx.ConfigureFromString(text)
//	ctx.SetSeed(42)
//
//	res, _ := partition.PartitionModel(hg, 2, 0.03, ctx)
//	fmt.Println(res.Objective, res.Assignment)
//
// # Main Packages
//
// ## Model
//
// [hypergraph] - Flat CSR hypergraph (offsets + pins) with optional vertex
// and hyperedge weights, validation and statistics.
//
// [io] - hMetis and JSON readers and writers, plus partition files (one
// block id per line).
//
// ## Partitioning
//
// [engine] - The engine interface and registry. [engine/builtin] is the
// default multilevel partitioner configured by TOML presets.
//
// [partition] - Context and hypergraph handles with explicit lifecycles,
// cancellation, leak detection and resource accounting.
//
// [resource] - Limits on concurrent calls, call rate and live pins.
//
// [metrics] - Cut, km1 and sum-of-external-degrees objectives, block weights
// and imbalance.
//
// ## Infrastructure
//
// [pipeline] - Load → partition → evaluate → render, shared by the CLI and
// the HTTP API so both behave the same.
//
// [cache] - Result cache with file, Redis, MongoDB and S3 backends and
// optional zstd or lz4 compression.
//
// [render] - Graphviz drawings of partitioned hypergraphs.
//
// [api] - JSON HTTP API with request IDs, timeouts and Prometheus metrics.
//
// [observability] - Hooks for partition, cache and HTTP events.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                  # All tests
//	go test ./pkg/engine/builtin/...   # Specific package
//	go test -run Example               # Examples only
//	go test -tags kahypar ./pkg/...    # Include the KaHyPar binding
//
// [hypergraph]: https://pkg.go.dev/github.com/matzehuels/hyperpart/pkg/hypergraph
// [io]: https://pkg.go.dev/github.com/matzehuels/hyperpart/pkg/io
// [partition]: https://pkg.go.dev/github.com/matzehuels/hyperpart/pkg/partition
// [engine]: https://pkg.go.dev/github.com/matzehuels/hyperpart/pkg/engine
// [engine/builtin]: https://pkg.go.dev/github.com/matzehuels/hyperpart/pkg/engine/builtin
// [resource]: https://pkg.go.dev/github.com/matzehuels/hyperpart/pkg/resource
// [metrics]: https://pkg.go.dev/github.com/matzehuels/hyperpart/pkg/metrics
// [render]: https://pkg.go.dev/github.com/matzehuels/hyperpart/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/hyperpart/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/hyperpart/pkg/cache
// [api]: https://pkg.go.dev/github.com/matzehuels/hyperpart/pkg/api
// [observability]: https://pkg.go.dev/github.com/matzehuels/hyperpart/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/hyperpart/pkg/errors
package pkg
