package cli

import (
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hyperpart/pkg/engine"
	"github.com/matzehuels/hyperpart/pkg/engine/builtin"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for hyperpart. Engine names, presets
and output formats complete as well as commands.

  $ source <(hyperpart completion bash)
  $ hyperpart completion zsh > "${fpath[1]}/_hyperpart"
  $ hyperpart completion fish > ~/.config/fish/completions/hyperpart.fish
  PS> hyperpart completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(stdout, true)
			case "zsh":
				return root.GenZshCompletion(stdout)
			case "fish":
				return root.GenFishCompletion(stdout, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(stdout)
			}
			return nil
		},
	}
}

// registerFlagCompletions attaches value completions to flags that take a
// fixed set of names. Commands without such a flag are skipped.
func registerFlagCompletions(root *cobra.Command) {
	fixed := func(values ...string) cobra.CompletionFunc {
		return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return values, cobra.ShellCompDirectiveNoFileComp
		}
	}
	engines := func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := engine.Names()
		slices.Sort(names)
		return names, cobra.ShellCompDirectiveNoFileComp
	}

	_ = root.RegisterFlagCompletionFunc("log-format", fixed("text", "json", "logfmt"))
	for _, cmd := range root.Commands() {
		if cmd.Flags().Lookup("engine") != nil {
			_ = cmd.RegisterFlagCompletionFunc("engine", engines)
		}
		if cmd.Flags().Lookup("preset") != nil {
			_ = cmd.RegisterFlagCompletionFunc("preset", fixed(builtin.Presets()...))
		}
		if cmd.Flags().Lookup("format") != nil {
			_ = cmd.RegisterFlagCompletionFunc("format", fixed("svg", "png", "pdf", "dot"))
		}
	}
}
