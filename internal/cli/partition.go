package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hyperpart/pkg/pipeline"
)

// partitionFlags holds flags for the partition command.
type partitionFlags struct {
	k       int
	epsilon float64
	engine  string
	preset  string
	config  string
	seed    int32
	refresh bool

	output string
	report string
	dot    string
	svg    string
	png    string
	pdf    string

	weights bool
	cutOnly bool
	flat    bool
	quiet   bool
}

// partitionCommand creates the partition command.
func (c *CLI) partitionCommand() *cobra.Command {
	flags := partitionFlags{}

	cmd := &cobra.Command{
		Use:   "partition <hypergraph>",
		Short: "Partition a hypergraph into k balanced blocks",
		Long: `Partition a hypergraph (hMetis .hgr or .json) into k blocks.

The partition file is written next to the input as <file>.part<k> unless -o
is given. Results with an explicit --seed are cached; --refresh recomputes.`,
		Example: `  hyperpart partition examples/golden.hgr -k 2 --seed 42
  hyperpart partition graph.hgr -k 8 -e 0.05 --preset km1_recursive --report out.json
  hyperpart partition graph.hgr -k 4 --engine kahypar --config km1_kKaHyPar_sea20.ini
  hyperpart partition graph.hgr -k 2 --svg graph.svg --cut-only`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPartition(cmd, args[0], flags)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&flags.k, "blocks", "k", pipeline.DefaultK, "number of blocks")
	f.Float64VarP(&flags.epsilon, "epsilon", "e", pipeline.DefaultEpsilon, "allowed imbalance")
	f.StringVar(&flags.engine, "engine", pipeline.DefaultEngine, "partitioning engine")
	f.StringVar(&flags.preset, "preset", "", "builtin configuration preset (default "+pipeline.DefaultPreset+")")
	f.StringVarP(&flags.config, "config", "c", "", "engine configuration file")
	f.Int32Var(&flags.seed, "seed", 0, "random seed (default: the configuration's)")
	f.BoolVar(&flags.refresh, "refresh", false, "ignore cached results")
	f.StringVarP(&flags.output, "output", "o", "", "partition file (default <hypergraph>.part<k>)")
	f.StringVar(&flags.report, "report", "", "write a JSON report")
	f.StringVar(&flags.dot, "dot", "", "write a Graphviz DOT drawing")
	f.StringVar(&flags.svg, "svg", "", "write an SVG drawing")
	f.StringVar(&flags.png, "png", "", "write a PNG drawing")
	f.StringVar(&flags.pdf, "pdf", "", "write a PDF drawing (requires rsvg-convert)")
	f.BoolVar(&flags.weights, "weights", false, "label drawings with weights")
	f.BoolVar(&flags.cutOnly, "cut-only", false, "draw only cut hyperedges")
	f.BoolVar(&flags.flat, "flat", false, "do not group blocks into clusters")
	f.BoolVarP(&flags.quiet, "quiet", "q", false, "print nothing but errors")

	cmd.MarkFlagsMutuallyExclusive("preset", "config")

	return cmd
}

func (c *CLI) runPartition(cmd *cobra.Command, input string, flags partitionFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	opts := pipeline.Options{
		Input:      input,
		K:          flags.k,
		Epsilon:    &flags.epsilon,
		Engine:     flags.engine,
		Preset:     flags.preset,
		ConfigPath: flags.config,
		Refresh:    flags.refresh,
		Logger:     logger,
	}
	opts.Render.Weights = flags.weights
	opts.Render.CutOnly = flags.cutOnly
	opts.Render.Flat = flags.flat
	if cmd.Flags().Changed("seed") {
		opts.Seed = &flags.seed
	}
	if flags.output == "" {
		flags.output = input + ".part" + strconv.Itoa(flags.k)
	}

	outputs := map[string]string{pipeline.FormatPartition: flags.output}
	for format, path := range map[string]string{
		pipeline.FormatJSON: flags.report,
		pipeline.FormatDOT:  flags.dot,
		pipeline.FormatSVG:  flags.svg,
		pipeline.FormatPNG:  flags.png,
		pipeline.FormatPDF:  flags.pdf,
	} {
		if path != "" {
			outputs[format] = path
		}
	}
	for format := range outputs {
		opts.Formats = append(opts.Formats, format)
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	var spinner *Spinner
	if !flags.quiet {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Partitioning %s into %d blocks...", filepath.Base(input), flags.k))
		spinner.Start()
	}
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		if spinner != nil {
			spinner.StopWithError("Partitioning failed")
		}
		return err
	}
	if spinner != nil {
		spinner.Stop()
	}

	for format, path := range outputs {
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", format, err)
		}
	}
	prog.done("wrote outputs", "files", len(outputs))

	if flags.quiet {
		return nil
	}

	res, q := result.Partition, result.Quality
	printSuccess("Partitioned %s into %d blocks", filepath.Base(input), res.K)
	printStats(result.Hypergraph.NumVertices, result.Hypergraph.NumHyperedges, result.Hypergraph.NumPins(), result.CacheInfo.PartitionHit)
	printNewline()
	printKeyValue("engine", res.Engine)
	printKeyValue("objective", StyleNumber.Render(strconv.FormatInt(res.Objective, 10)))
	printQuality(q, res.Epsilon)
	printBlockTable(q)

	for _, format := range []string{pipeline.FormatPartition, pipeline.FormatJSON, pipeline.FormatDOT, pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF} {
		if path, ok := outputs[format]; ok {
			printFile(path)
		}
	}
	if flags.svg == "" {
		printNewline()
		printNextStep("Draw it", fmt.Sprintf("%s render %s %s -o out.svg", appName, input, flags.output))
	}
	return nil
}
