package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mazeroute/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the local solution cache",
		Long: `Solved mazes and rendered images are cached by content, so solving the same
maze again with the same settings is instant. These commands act on the file
backend; redis and mongo entries expire on their own.`,
	}
	cmd.AddCommand(c.cacheInfoCommand(), c.cacheClearCommand(), c.cachePathCommand())
	return cmd
}

func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show entry count and size of the cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.fileCache()
			if fc == nil || err != nil {
				return err
			}
			st, err := fc.Stats()
			if err != nil {
				return err
			}
			printKeyValue("Directory", fc.Dir())
			printKeyValue("Entries", strconv.Itoa(st.Entries))
			printKeyValue("Size", formatSize(st.Bytes))
			printKeyValue("Expired", strconv.Itoa(st.Expired))
			return nil
		},
	}
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	var expiredOnly bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached solutions and images",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.fileCache()
			if fc == nil || err != nil {
				return err
			}
			remove, what := fc.Clear, "cached"
			if expiredOnly {
				remove, what = fc.Prune, "expired"
			}
			n, err := remove()
			if err != nil {
				return err
			}
			printSuccess("Removed %d %s entries", n, what)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
	cmd.Flags().BoolVar(&expiredOnly, "expired", false, "only remove expired entries")
	return cmd
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.localCacheDir()
			if err != nil {
				return fmt.Errorf("cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// fileCache opens the local file cache. It returns nil and no error, after
// a warning, when another backend is configured.
func (c *CLI) fileCache() (*cache.FileCache, error) {
	if b := c.cfg.Cache.Backend; b != "" && b != string(cache.BackendFile) {
		printWarning("Cache backend is %s; only the file cache is managed here", b)
		return nil, nil
	}
	dir, err := c.localCacheDir()
	if err != nil {
		return nil, fmt.Errorf("cache dir: %w", err)
	}
	return cache.NewFileCache(dir)
}

// localCacheDir is cache.dir from the config or the XDG default.
func (c *CLI) localCacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return cache.DefaultDir()
}
