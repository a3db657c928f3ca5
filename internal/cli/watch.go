package cli

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/mazeroute/pkg/errors"
	"github.com/matzehuels/mazeroute/pkg/pipeline"
)

// defaultDebounce is how long a file must stay quiet before it is solved.
// Image editors often write a file in several steps.
const defaultDebounce = 250 * time.Millisecond

type watchFlags struct {
	solve    solveFlags
	debounce time.Duration
	initial  bool
}

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	flags := watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Solve mazes as they appear in a directory",
		Long: `Watch solves every maze file that is created or changed in dir and writes
its outputs to <output-dir>/<maze name>/. Press Ctrl+C to stop.`,
		Example: `  mazeroute watch inbox -o solved
  mazeroute watch . --outputs path,solution --initial`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDirs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			info, err := os.Stat(dir)
			if err != nil || !info.IsDir() {
				return errs.New(errs.ErrCodeFileNotFound, "%s is not a directory", dir)
			}
			opts, err := c.solveOptions(cmd, flags.solve)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, flags.solve.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			logger := loggerFromContext(ctx)
			solve := func(path string) {
				p := newProgress(logger)
				o := opts
				o.Path = path
				res, err := c.solveTo(ctx, runner, outputDirs(flags.solve.outDir, []string{path})[0], o)
				if err != nil {
					printError("%s: %s", path, errs.UserMessage(err))
					return
				}
				p.done("Solved "+path, "length", res.Solution.Length, "cached", res.CacheInfo.SolutionHit)
			}

			if flags.initial {
				files, err := findMazes(dir)
				if err != nil {
					return err
				}
				for _, f := range files {
					solve(f.Path)
				}
			}

			printInfo("Watching %s for mazes", dir)
			printDetail("Outputs go to %s", flags.solve.outDir)
			return watchDir(ctx, dir, flags.debounce, skipOutputs(flags.solve.outDir, opts), logger, solve)
		},
	}

	cmd.Flags().StringVarP(&flags.solve.outDir, "output-dir", "o", "solved", "directory to write outputs into")
	cmd.Flags().StringSliceVar(&flags.solve.outputs, "outputs", nil, "outputs to write (default nodes,path)")
	cmd.Flags().StringVar(&flags.solve.frontier, "frontier", "", "frontier implementation: sorted or heap")
	cmd.Flags().IntVar(&flags.solve.scale, "scale", 0, "pixel scale for PNG outputs")
	cmd.Flags().StringVar(&flags.solve.palette, "palette", "", "PNG palette")
	cmd.Flags().BoolVar(&flags.solve.noCache, "no-cache", false, "disable caching")
	cmd.Flags().DurationVar(&flags.debounce, "debounce", defaultDebounce, "quiet period before a changed file is solved")
	cmd.Flags().BoolVar(&flags.initial, "initial", false, "solve the mazes already in the directory first")
	flags.solve.jobs = 1

	return cmd
}

// skipOutputs returns a filter that rejects files this command writes.
func skipOutputs(outDir string, opts pipeline.Options) func(string) bool {
	opts.SetDefaults()
	absOut, _ := filepath.Abs(outDir)
	return func(path string) bool {
		base := filepath.Base(path)
		if base == opts.NodesName || base == opts.PathName {
			return true
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return false
		}
		rel, err := filepath.Rel(absOut, abs)
		return err == nil && filepath.IsLocal(rel)
	}
}

// watchDir calls solve for each maze file in dir that is created or written,
// once it has been quiet for debounce. It returns when ctx is done.
func watchDir(ctx context.Context, dir string, debounce time.Duration, skip func(string) bool, logger *log.Logger, solve func(string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}

	pending := map[string]time.Time{}
	ticker := time.NewTicker(max(debounce/4, 10*time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !errs.IsImageExtension(ev.Name) || skip(ev.Name) {
				continue
			}
			pending[ev.Name] = time.Now()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < debounce {
					continue
				}
				delete(pending, path)
				if info, err := os.Stat(path); err != nil || info.IsDir() {
					continue
				}
				solve(path)
			}
		}
	}
}
