// Package render draws partitioned hypergraphs.
//
// Hypergraphs are drawn as their star expansion: every vertex becomes a
// node filled with its block's colour, every hyperedge becomes a small point
// node linked to its pins. Cut hyperedges are drawn in red. Blocks are
// grouped into Graphviz clusters so the layout reflects the partition.
//
//	dot := render.ToDOT(hg, assignment, k, render.Options{})
//	svg, err := render.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//
// [RenderSVG] and [RenderPNG] use [github.com/goccy/go-graphviz] in process.
// [ToPDF] converts SVG with the external rsvg-convert tool (from librsvg).
package render
