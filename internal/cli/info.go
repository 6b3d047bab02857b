package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	hgio "github.com/matzehuels/hyperpart/pkg/io"
	"github.com/matzehuels/hyperpart/pkg/metrics"
	"github.com/matzehuels/hyperpart/pkg/pipeline"
)

// infoCommand creates the info command.
func (c *CLI) infoCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info <hypergraph>",
		Short: "Show size and weight statistics of a hypergraph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hg, err := hgio.Import(args[0])
			if err != nil {
				return err
			}
			stats := hg.Stats()

			if asJSON {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}

			printInfo("%s", StyleTitle.Render(filepath.Base(args[0])))
			printKeyValue("vertices", strconv.Itoa(stats.NumVertices))
			printKeyValue("hyperedges", strconv.Itoa(stats.NumHyperedges))
			printKeyValue("pins", strconv.Itoa(stats.NumPins))
			printKeyValue("weight", strconv.FormatInt(stats.TotalWeight, 10))
			printKeyValue("edge size", fmt.Sprintf("%d..%d (avg %.2f)", stats.MinEdgeSize, stats.MaxEdgeSize, stats.AvgEdgeSize))
			printKeyValue("degree", fmt.Sprintf("max %d (avg %.2f)", stats.MaxVertexDegree, stats.AvgVertexDegree))
			printKeyValue("weighted", fmt.Sprintf("vertices=%t hyperedges=%t", stats.WeightedVertices, stats.WeightedEdges))
			if stats.IsolatedVertices > 0 {
				printWarning("%d isolated vertices", stats.IsolatedVertices)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print statistics as JSON")
	return cmd
}

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var (
		k       int
		epsilon float64
	)

	cmd := &cobra.Command{
		Use:   "validate <hypergraph> [partition]",
		Short: "Check a hypergraph file and optionally evaluate a partition of it",
		Long: `Check that a hypergraph file is well-formed. With a partition file, also
evaluate the partition's objectives and check it against the imbalance bound.
The number of blocks defaults to the largest block id plus one.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			hg, err := hgio.Import(args[0])
			if err != nil {
				return err
			}
			printSuccess("%s is valid", filepath.Base(args[0]))
			printDetail("%d vertices, %d hyperedges, %d pins", hg.NumVertices, hg.NumHyperedges, hg.NumPins())
			if len(args) == 1 {
				return nil
			}

			assignment, err := hgio.ImportPartition(args[1])
			if err != nil {
				return err
			}
			if k == 0 {
				k = blocksOf(assignment)
			}
			q, err := metrics.Evaluate(hg, assignment, k)
			if err != nil {
				return err
			}
			printNewline()
			printInfo("%d-way partition %s", k, filepath.Base(args[1]))
			printQuality(q, epsilon)
			printBlockTable(q)
			if !q.Balanced(epsilon) {
				return fmt.Errorf("partition exceeds the imbalance bound %.4f", epsilon)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&k, "blocks", "k", 0, "number of blocks (default max block id + 1)")
	cmd.Flags().Float64VarP(&epsilon, "epsilon", "e", pipeline.DefaultEpsilon, "allowed imbalance")
	return cmd
}

// blocksOf returns the number of blocks an assignment uses, at least 1.
func blocksOf(assignment []int) int {
	if len(assignment) == 0 {
		return 1
	}
	return max(slices.Max(assignment)+1, 1)
}
