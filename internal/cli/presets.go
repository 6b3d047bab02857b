package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hyperpart/pkg/engine"
	"github.com/matzehuels/hyperpart/pkg/engine/builtin"
	"github.com/matzehuels/hyperpart/pkg/pipeline"
)

// presetsCommand creates the presets command.
func (c *CLI) presetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List the embedded configurations of the builtin engine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range builtin.Presets() {
				line := "  " + name
				if name == pipeline.DefaultPreset {
					line += StyleDim.Render(" (default)")
				}
				fmt.Fprintln(stdout, line)
			}
			return nil
		},
	}

	cmd.AddCommand(c.presetsShowCommand())
	return cmd
}

// presetsShowCommand creates the "presets show" subcommand.
func (c *CLI) presetsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print a preset's TOML text",
		Long: `Print a preset's TOML text. The output is a valid configuration file and
can be edited and passed back with partition --config.`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return builtin.Presets(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := builtin.Preset(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(stdout, text)
			if !strings.HasSuffix(text, "\n") {
				fmt.Fprintln(stdout)
			}
			return nil
		},
	}
}

// enginesCommand creates the engines command.
func (c *CLI) enginesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "engines",
		Short: "List the partitioning engines compiled into this binary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := engine.Names()
			slices.Sort(names)
			for _, name := range names {
				line := "  " + name
				if name == engine.DefaultName {
					line += StyleDim.Render(" (default)")
				}
				fmt.Fprintln(stdout, line)
			}
			return nil
		},
	}
}
