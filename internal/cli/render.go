package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	hgio "github.com/matzehuels/hyperpart/pkg/io"
	"github.com/matzehuels/hyperpart/pkg/metrics"
	"github.com/matzehuels/hyperpart/pkg/pipeline"
	"github.com/matzehuels/hyperpart/pkg/render"
)

// renderFlags holds flags for the render command.
type renderFlags struct {
	k       int
	output  string
	format  string
	weights bool
	cutOnly bool
	flat    bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	flags := renderFlags{}

	cmd := &cobra.Command{
		Use:   "render <hypergraph> [partition]",
		Short: "Draw a (partitioned) hypergraph with Graphviz",
		Long: `Draw a hypergraph as its star expansion: vertices are filled with their
block colour, hyperedges are small points linked to their pins and cut
hyperedges are red. Without a partition file the plain hypergraph is drawn.

The format is taken from --format or the output extension (svg, png, pdf, dot).`,
		Example: `  hyperpart render examples/golden.hgr examples/golden.hgr.part2 -o golden.svg
  hyperpart render graph.hgr graph.hgr.part4 --cut-only -o cut.pdf`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args, flags)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&flags.k, "blocks", "k", 0, "number of blocks (default max block id + 1)")
	f.StringVarP(&flags.output, "output", "o", "", "output file (default <hypergraph>.<format>)")
	f.StringVarP(&flags.format, "format", "f", "", "output format: svg, png, pdf or dot")
	f.BoolVar(&flags.weights, "weights", false, "label with weights")
	f.BoolVar(&flags.cutOnly, "cut-only", false, "draw only cut hyperedges")
	f.BoolVar(&flags.flat, "flat", false, "do not group blocks into clusters")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, args []string, flags renderFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	format, err := renderFormat(flags.format, flags.output)
	if err != nil {
		return err
	}
	if flags.output == "" {
		flags.output = args[0] + "." + format
	}

	hg, err := hgio.Import(args[0])
	if err != nil {
		return err
	}
	var assignment []int
	k := 1
	if len(args) == 2 {
		if assignment, err = hgio.ImportPartition(args[1]); err != nil {
			return err
		}
		k = flags.k
		if k == 0 {
			k = blocksOf(assignment)
		}
		// Rejects assignments that do not fit the hypergraph.
		if _, err := metrics.Evaluate(hg, assignment, k); err != nil {
			return err
		}
	}

	dot := render.ToDOT(hg, assignment, k, render.Options{
		Weights: flags.weights,
		CutOnly: flags.cutOnly,
		Flat:    flags.flat,
	})
	logger.Debug("generated DOT", "bytes", len(dot), "format", format)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", filepath.Base(args[0])))
	spinner.Start()
	defer spinner.Stop()

	var data []byte
	switch format {
	case pipeline.FormatDOT:
		data = []byte(dot)
	case pipeline.FormatSVG:
		data, err = render.RenderSVG(ctx, dot)
	case pipeline.FormatPNG:
		data, err = render.RenderPNG(ctx, dot)
	case pipeline.FormatPDF:
		var svg []byte
		if svg, err = render.RenderSVG(ctx, dot); err == nil {
			data, err = render.ToPDF(ctx, svg)
		}
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(flags.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", flags.output, err)
	}
	spinner.StopWithSuccess(fmt.Sprintf("Rendered %s", filepath.Base(args[0])))
	printFile(flags.output)
	return nil
}

// renderFormat resolves the output format from the flag or the output
// file extension, defaulting to SVG.
func renderFormat(flag, output string) (string, error) {
	format := flag
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	}
	switch format {
	case "":
		return pipeline.FormatSVG, nil
	case pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF, pipeline.FormatDOT:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported render format %q (must be one of: svg, png, pdf, dot)", format)
	}
}
