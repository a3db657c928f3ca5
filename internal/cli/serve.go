package cli

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mazeroute/internal/server"
	"github.com/matzehuels/mazeroute/pkg/cache"
	"github.com/matzehuels/mazeroute/pkg/observability"
	"github.com/matzehuels/mazeroute/pkg/pipeline"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP solving service",
		Long: `Serve answers POST /v1/solve with the solution of the maze in the request
body. Solutions are cached under a server-only key namespace in the
configured cache backend. Metrics are exposed at /metrics.`,
		Example: `  mazeroute serve
  mazeroute serve --addr :9090
  curl --data-binary @maze.png 'localhost:8080/v1/solve?output=path' > Path.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg := c.cfg.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}

			prom := observability.NewPrometheus(prometheus.DefaultRegisterer)
			observability.SetPipelineHooks(prom)
			observability.SetCacheHooks(prom)
			observability.SetHTTPHooks(prom)

			cc, err := c.newCache(ctx, noCache)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), "server:"), logger)
			defer runner.Close()

			base := c.baseOptions()
			printKeyValue("Address", cfg.Addr)
			printKeyValue("Cache", c.cfg.Cache.Backend)
			printKeyValue("Upload limit", strconv.FormatInt(cfg.MaxUploadBytes, 10)+" bytes")

			return server.New(cfg, runner, base, logger, prometheus.DefaultGatherer).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
