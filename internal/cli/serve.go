package cli

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hyperpart/pkg/api"
	"github.com/matzehuels/hyperpart/pkg/observability"
	"github.com/matzehuels/hyperpart/pkg/resource"
)

// serveFlags holds flags for the serve command.
type serveFlags struct {
	addr          string
	maxConcurrent int64
	rate          float64
	pinLimit      int64
	timeout       time.Duration
	maxBody       int64
	noMetrics     bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	flags := serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the partitioner over HTTP",
		Long: `Serve the partitioner over HTTP. Requests go through the same pipeline and
cache as the partition command. Concurrency, call rate and the number of
live pins are bounded by a resource controller; Prometheus metrics are
exposed on /metrics.`,
		Example: `  hyperpart serve --addr :8080 --max-concurrent 4
  curl -s localhost:8080/v1/partition -d @request.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.addr, "addr", ":8080", "listen address")
	f.Int64Var(&flags.maxConcurrent, "max-concurrent", 0, "maximum concurrent partition calls (0 = unlimited)")
	f.Float64Var(&flags.rate, "rate", 0, "maximum partition calls per second (0 = unlimited)")
	f.Int64Var(&flags.pinLimit, "pin-limit", 0, "maximum pins held by live hypergraphs (0 = unlimited)")
	f.DurationVar(&flags.timeout, "timeout", api.DefaultTimeout, "per-request timeout")
	f.Int64Var(&flags.maxBody, "max-body", api.DefaultMaxBodyBytes, "maximum request body size in bytes")
	f.BoolVar(&flags.noMetrics, "no-metrics", false, "do not expose /metrics")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, flags serveFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	runner.Controller = resource.NewController(resource.Config{
		MaxConcurrentPartitions: flags.maxConcurrent,
		PartitionsPerSecond:     flags.rate,
		PinLimit:                flags.pinLimit,
	})

	cfg := api.Config{
		Runner:       runner,
		Logger:       logger,
		MaxBodyBytes: flags.maxBody,
		Timeout:      flags.timeout,
	}
	if !flags.noMetrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		observability.NewPrometheusHooks(reg).Install()
		defer observability.Reset()
		cfg.Gatherer = reg
	}

	logger.Info("listening", "addr", flags.addr, "max_concurrent", flags.maxConcurrent, "rate", flags.rate, "pin_limit", flags.pinLimit)
	return api.New(cfg).ListenAndServe(ctx, flags.addr)
}
