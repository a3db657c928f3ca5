package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	errs "github.com/matzehuels/mazeroute/pkg/errors"
	"github.com/matzehuels/mazeroute/pkg/pipeline"
	"github.com/matzehuels/mazeroute/pkg/render"
)

// solveFlags holds flags for the solve command. Solver and render flags
// override the config file only when set.
type solveFlags struct {
	outDir    string
	outputs   []string
	frontier  string
	entrance  string
	threshold int
	scale     int
	palette   string
	verify    bool
	trace     bool
	noCache   bool
	refresh   bool
	jobs      int
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	flags := solveFlags{}

	cmd := &cobra.Command{
		Use:   "solve [maze...]",
		Short: "Solve maze images and draw the route",
		Long: `Solve reads each maze, finds the shortest route from the entrance to the
exit, and writes Nodes.png (every decision point) and Path.png (the route).

Mazes are PNG, GIF, JPEG, BMP or TIFF images, or .txt pictures using '#'
for walls. With several mazes each one writes into its own subdirectory.
Without arguments an interactive picker lists the mazes in the current
directory.`,
		Example: `  mazeroute solve maze.png
  mazeroute solve maze.png --outputs path,graph --scale 4 --palette blueprint
  mazeroute solve mazes/*.png -o solved -j 4 --verify`,
		ValidArgsFunction: completeMazes(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.solveOptions(cmd, flags)
			if err != nil {
				return err
			}

			paths := args
			if len(paths) == 0 {
				if !canPick() {
					return errs.New(errs.ErrCodeInvalidInput, "no maze given and no terminal to pick one")
				}
				paths, err = pickMazes(".")
				if err != nil {
					return err
				}
				if len(paths) == 0 {
					return nil
				}
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			if len(paths) == 1 {
				return c.solveOne(ctx, runner, paths[0], flags.outDir, opts)
			}
			return c.solveBatch(ctx, runner, paths, flags, opts)
		},
	}

	cmd.Flags().StringVarP(&flags.outDir, "output-dir", "o", ".", "directory to write outputs into")
	cmd.Flags().StringSliceVar(&flags.outputs, "outputs", nil, "outputs to write: path, nodes, solution, graph, dot, svg (default nodes,path)")
	cmd.Flags().StringVar(&flags.frontier, "frontier", "", "frontier implementation: sorted or heap")
	cmd.Flags().StringVar(&flags.entrance, "entrance-weight", "", "entrance edge weighting: unit or measured")
	cmd.Flags().IntVar(&flags.threshold, "threshold", 0, "luminance below which a pixel is a wall (0 = default)")
	cmd.Flags().IntVar(&flags.scale, "scale", 0, fmt.Sprintf("pixel scale for PNG outputs (1-%d)", render.MaxScale))
	cmd.Flags().StringVar(&flags.palette, "palette", "", "PNG palette: "+strings.Join(render.PaletteNames(), ", "))
	cmd.Flags().BoolVar(&flags.verify, "verify", false, "compare the route with an independent shortest-path search")
	cmd.Flags().BoolVar(&flags.trace, "trace", false, "log every search step (implies debug logging)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached results and re-solve")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 4, "mazes solved in parallel")

	return cmd
}

// solveOptions merges changed flags over the config file settings.
func (c *CLI) solveOptions(cmd *cobra.Command, flags solveFlags) (pipeline.Options, error) {
	opts := c.baseOptions()
	set := cmd.Flags().Changed

	if set("outputs") {
		opts.Outputs = flags.outputs
	}
	if set("frontier") {
		opts.Frontier = flags.frontier
	}
	if set("entrance-weight") {
		opts.EntranceWeight = flags.entrance
	}
	if set("threshold") {
		if flags.threshold < 0 || flags.threshold > 255 {
			return opts, errs.New(errs.ErrCodeInvalidConfig, "threshold %d out of range [0, 255]", flags.threshold)
		}
		opts.Threshold = uint8(flags.threshold)
	}
	if set("scale") {
		opts.Scale = flags.scale
	}
	if set("palette") {
		opts.Palette = flags.palette
	}
	if set("verify") {
		opts.Verify = flags.verify
	}
	if flags.trace {
		opts.Trace = true
		c.SetLogLevel(LogDebug)
	}
	opts.Refresh = flags.refresh
	if flags.jobs < 1 {
		return opts, errs.New(errs.ErrCodeInvalidConfig, "jobs must be at least 1")
	}
	return opts, nil
}

// solveOne solves a single maze and reports it in detail.
func (c *CLI) solveOne(ctx context.Context, runner *pipeline.Runner, path, outDir string, opts pipeline.Options) error {
	opts.Path = path
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	spinner := newSpinner(ctx, "Solving "+path+"...")
	spinner.Start()
	res, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		return err
	}

	written, err := writeArtifacts(outDir, res, opts)
	if err != nil {
		return err
	}

	sol := res.Solution
	printSuccess("Solved %s", path)
	printStats(sol.Nodes, sol.Length, res.CacheInfo.SolutionHit)
	if sol.Optimal != nil && *sol.Optimal < sol.Length {
		printWarning("Route is %d steps longer than optimal (%d)", sol.Length-*sol.Optimal, *sol.Optimal)
	}
	for _, f := range written {
		printFile(f)
	}
	fmt.Fprintln(out)
	printNextStep("Inspect the graph", "mazeroute graph "+path+" --format svg -o graph.svg")
	return nil
}

// solveBatch solves several mazes concurrently and prints a summary table.
// One failing maze does not stop the others.
func (c *CLI) solveBatch(ctx context.Context, runner *pipeline.Runner, paths []string, flags solveFlags, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)
	dirs := outputDirs(flags.outDir, paths)
	rows := make([]summaryRow, len(paths))

	spinner := newSpinner(ctx, fmt.Sprintf("Solving %d mazes...", len(paths)))
	spinner.Start()
	var finished atomic.Int32

	var g errgroup.Group
	g.SetLimit(flags.jobs)
	for i, path := range paths {
		g.Go(func() error {
			p := newProgress(logger)
			row := summaryRow{maze: path}
			start := time.Now()

			o := opts
			o.Path = path
			res, err := c.solveTo(ctx, runner, dirs[i], o)
			row.duration = time.Since(start).Round(time.Millisecond).String()
			if err != nil {
				row.err = err
				logger.Warn("solve failed", "maze", path, "error", err)
			} else {
				row.nodes = res.Solution.Nodes
				row.length = res.Solution.Length
				row.optimal = res.Solution.Optimal
				row.cached = res.CacheInfo.SolutionHit
				p.done("Solved "+path, "length", row.length)
			}

			rows[i] = row
			spinner.Update(fmt.Sprintf("Solving %d mazes... %d done", len(paths), finished.Add(1)))
			return nil
		})
	}
	_ = g.Wait()
	spinner.Stop()

	printSummary(rows)

	failed := 0
	for _, r := range rows {
		if r.err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d mazes failed", failed, len(paths))
	}
	printSuccess("Wrote outputs to %s", flags.outDir)
	return nil
}

// solveTo runs one maze and writes its outputs into dir.
func (c *CLI) solveTo(ctx context.Context, runner *pipeline.Runner, dir string, opts pipeline.Options) (*pipeline.Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		return nil, err
	}
	if _, err := writeArtifacts(dir, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

// writeArtifacts writes every requested output into dir and returns the
// paths written, in output order.
func writeArtifacts(dir string, res *pipeline.Result, opts pipeline.Options) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "create output directory")
	}

	for _, output := range opts.Outputs {
		if _, ok := res.Artifacts[output]; !ok {
			return nil, errs.New(errs.ErrCodeInternal, "no %s output produced", output)
		}
	}

	written := make([]string, len(opts.Outputs))
	var g errgroup.Group
	for i, output := range opts.Outputs {
		data := res.Artifacts[output]
		path := filepath.Join(dir, opts.FileName(output))
		written[i] = path
		g.Go(func() error {
			return os.WriteFile(path, data, 0o644)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return written, nil
}

// outputDirs gives each maze its own subdirectory of base, named after the
// file stem. Repeated stems get a numeric suffix.
func outputDirs(base string, paths []string) []string {
	used := make(map[string]bool, len(paths))
	dirs := make([]string, len(paths))
	for i, p := range paths {
		stem := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		name := stem
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s-%d", stem, n)
		}
		used[name] = true
		dirs[i] = filepath.Join(base, name)
	}
	return dirs
}
