package cli

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hyperpart/pkg/buildinfo"
	_ "github.com/matzehuels/hyperpart/pkg/engine/builtin" // default engine
	_ "github.com/matzehuels/hyperpart/pkg/engine/kahypar" // registered with -tags kahypar
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Persistent flags select the log level and format and the result cache.
// The configured logger is attached to the command context and reaches
// every subcommand through loggerFromContext.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "hyperpart partitions hypergraphs into balanced blocks",
		Long: `hyperpart partitions hypergraphs into k balanced blocks while minimizing the
connectivity (km1) or cut-net objective. Hypergraphs are read in hMetis or
JSON format; results can be written as partition files, JSON reports and
Graphviz drawings.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := LogInfo
			if c.verbose {
				level = LogDebug
			}
			c.SetLogLevel(level)
			switch c.logFormat {
			case "json":
				c.Logger.SetFormatter(log.JSONFormatter)
			case "logfmt":
				c.Logger.SetFormatter(log.LogfmtFormatter)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&c.logFormat, "log-format", "text", "log format: text, json or logfmt")
	pf.StringVar(&c.cacheURL, "cache", "", "cache URL (default $HYPERPART_CACHE_URL or the user cache directory)")
	pf.BoolVar(&c.noCache, "no-cache", false, "disable the result cache")

	// Register all subcommands
	root.AddCommand(c.partitionCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.presetsCommand())
	root.AddCommand(c.enginesCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	registerFlagCompletions(root)
	return root
}

// Execute runs the command line args against the root command.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	root := c.RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
