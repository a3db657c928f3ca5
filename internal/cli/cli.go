package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mazeroute/pkg/buildinfo"
	"github.com/matzehuels/mazeroute/pkg/cache"
	"github.com/matzehuels/mazeroute/pkg/config"
	"github.com/matzehuels/mazeroute/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "mazeroute"

// annotationSkipConfig marks commands that run without loading the
// config file.
const annotationSkipConfig = "mazeroute/skip-config"

// Log levels accepted by New.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	logFormat  string
	verbose    bool
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Mazeroute finds the shortest path through maze images",
		Long: `Mazeroute reads a two-tone maze image, reduces it to a graph of decision
points, finds the shortest route from entrance to exit, and draws the route
back onto the image.`,
		Version:      buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[annotationSkipConfig] == "" {
				cfg, err := config.Load(c.configPath)
				if err != nil {
					return err
				}
				c.cfg = cfg
			}
			if err := configureLogger(c.Logger, c.cfg.Log, c.logFormat, c.verbose); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/mazeroute/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVar(&c.logFormat, "log-format", "", "log format: "+logFormatNames()+" (default from config)")

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

// newCache opens the configured cache. A file cache that cannot be created
// disables caching rather than failing the command.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	opts := c.cfg.Cache.Options()
	if opts.Backend == "" || opts.Backend == cache.BackendFile {
		dir, err := c.localCacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		opts.Dir = dir
		fc, err := cache.NewFileCache(opts.Dir)
		if err != nil {
			c.Logger.Warn("cache disabled", "dir", opts.Dir, "error", err)
			return cache.NewNullCache(), nil
		}
		return fc, nil
	}
	return cache.Open(ctx, opts)
}

// baseOptions returns pipeline options seeded from the config file.
func (c *CLI) baseOptions() pipeline.Options {
	opts := pipeline.FromConfig(c.cfg)
	opts.Logger = c.Logger
	return opts
}
