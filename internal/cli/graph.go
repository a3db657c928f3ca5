package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/mazeroute/pkg/errors"
	"github.com/matzehuels/mazeroute/pkg/graph"
	mio "github.com/matzehuels/mazeroute/pkg/io"
	"github.com/matzehuels/mazeroute/pkg/render/nodelink"
	"github.com/matzehuels/mazeroute/pkg/route"
	"github.com/matzehuels/mazeroute/pkg/search"
)

// graphFlags holds flags for the graph command.
type graphFlags struct {
	format   string
	output   string
	entrance string
	detailed bool
	noRoute  bool
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	flags := graphFlags{}

	cmd := &cobra.Command{
		Use:   "graph <maze>",
		Short: "Export the decision-point graph of a maze",
		Long: `Graph builds the graph of decision points for a maze and writes it as
Graphviz DOT, a rendered SVG or PNG diagram, or JSON.

Nodes sit at their maze coordinates. The shortest route is highlighted
unless --no-route is given; a maze without a route still exports its graph.`,
		Example: `  mazeroute graph maze.png
  mazeroute graph maze.png --format svg -o graph.svg
  mazeroute graph maze.txt --format json --entrance-weight measured`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeMazes(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var w io.Writer = cmd.OutOrStdout()
			if flags.output != "" {
				f, err := os.Create(flags.output)
				if err != nil {
					return errs.Wrap(errs.ErrCodeInvalidPath, err, "create %s", flags.output)
				}
				defer f.Close()
				w = f
			}
			if err := c.exportGraph(cmd.Context(), w, args[0], flags); err != nil {
				return err
			}
			if flags.output != "" {
				printSuccess("Wrote %s graph", flags.format)
				printFile(flags.output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "dot", "output format: dot, svg, png, json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&flags.entrance, "entrance-weight", "", "entrance edge weighting: unit or measured")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "label nodes with their search distance")
	cmd.Flags().BoolVar(&flags.noRoute, "no-route", false, "skip the search and route highlight")

	return cmd
}

func (c *CLI) exportGraph(ctx context.Context, w io.Writer, path string, flags graphFlags) error {
	logger := loggerFromContext(ctx)
	switch flags.format {
	case "dot", "svg", "png", "json":
	default:
		return errs.New(errs.ErrCodeInvalidFormat, "unknown graph format %q (want dot, svg, png or json)", flags.format)
	}

	weightName := c.cfg.Solver.EntranceWeight
	if flags.entrance != "" {
		weightName = flags.entrance
	}
	weight, err := graph.ParseEntranceWeight(weightName)
	if err != nil {
		return err
	}

	m, err := mio.Load(path, uint8(c.cfg.Solver.Threshold))
	if err != nil {
		return err
	}
	p := newProgress(logger)
	g, err := graph.Build(m, graph.WithEntranceWeight(weight))
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	p.done("Built graph", "nodes", g.Len(), "junctions", g.Junctions())

	opts := nodelink.Options{Weights: true, Detailed: flags.detailed}
	if !flags.noRoute {
		opts.Route = routeNodes(g, c.cfg.Solver.Frontier, logger.Warn)
	}

	switch flags.format {
	case "json":
		return mio.WriteGraph(w, g)
	case "dot":
		_, err := io.WriteString(w, nodelink.ToDOT(g, opts))
		return err
	}

	format := nodelink.SVG
	if flags.format == "png" {
		format = nodelink.PNG
	}
	data, err := nodelink.Render(ctx, nodelink.ToDOT(g, opts), format)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, bytes.NewReader(data))
	return err
}

// routeNodes searches g and returns the route's nodes. A maze without a
// route yields nil after a warning.
func routeNodes(g *graph.Graph, frontier string, warn func(any, ...any)) []graph.NodeID {
	strategy, err := search.ParseStrategy(frontier)
	if err != nil {
		strategy = search.Sorted
	}
	if _, err := search.Search(g, g.Entrance, search.WithFrontier(strategy)); err != nil {
		warn("no route to highlight", "error", err)
		return nil
	}
	r, err := route.Reconstruct(g, g.Exit)
	if err != nil {
		warn("no route to highlight", "error", err)
		return nil
	}
	return r.Nodes
}
