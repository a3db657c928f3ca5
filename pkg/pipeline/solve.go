package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/mazeroute/pkg/graph"
	"github.com/matzehuels/mazeroute/pkg/grid"
	mio "github.com/matzehuels/mazeroute/pkg/io"
	"github.com/matzehuels/mazeroute/pkg/observability"
	"github.com/matzehuels/mazeroute/pkg/route"
	"github.com/matzehuels/mazeroute/pkg/search"
)

// Solve builds, searches and reconstructs m. The returned result has no
// artifacts; Grid, Graph, Search, Route, Solution and Stats are set.
func Solve(ctx context.Context, m *grid.Grid, opts Options) (*Result, error) {
	if err := opts.ValidateForSolve(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger
	res := &Result{Grid: m, Artifacts: make(map[string][]byte)}

	weight, _ := graph.ParseEntranceWeight(opts.EntranceWeight)
	strategy, _ := search.ParseStrategy(opts.Frontier)

	var g *graph.Graph
	err := stage(ctx, observability.StageBuild, &res.Stats.BuildTime, func() (err error) {
		g, err = graph.Build(m, graph.WithEntranceWeight(weight))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	res.Graph = g
	res.Stats.Nodes = g.Len()
	res.Stats.Junctions = g.Junctions()
	logger.Info("built graph",
		"nodes", g.Len(),
		"entrance", g.Node(g.Entrance).Pos,
		"exit", g.Node(g.Exit).Pos,
		"duration", res.Stats.BuildTime)

	searchOpts := []search.Option{search.WithFrontier(strategy)}
	if opts.Trace {
		searchOpts = append(searchOpts, search.WithTrace(func(e search.Event) {
			logger.Debug(e.Kind.String(),
				"node", g.Node(e.Node).Pos,
				"distance", e.Distance,
				"frontier", e.Frontier)
		}))
	}
	err = stage(ctx, observability.StageSearch, &res.Stats.SearchTime, func() (err error) {
		res.Search, err = search.Search(g, g.Entrance, searchOpts...)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	res.Stats.Expanded = res.Search.Expanded
	res.Stats.Length = res.Search.Length
	logger.Info("searched graph",
		"frontier", strategy,
		"expanded", res.Search.Expanded,
		"length", res.Search.Length,
		"duration", res.Stats.SearchTime)

	err = stage(ctx, observability.StageReconstruct, &res.Stats.ReconstructTime, func() (err error) {
		res.Route, err = route.Reconstruct(g, g.Exit)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("reconstruct: %w", err)
	}
	logger.Debug("reconstructed path",
		"cells", len(res.Route.Cells),
		"turns", len(res.Route.Turns()),
		"duration", res.Stats.ReconstructTime)

	res.Solution = mio.NewSolution(g, res.Search, res.Route)
	if opts.Verify {
		if opt, ok := search.Optimal(g); ok {
			res.Solution.Optimal = &opt
			if gap := res.Search.Length - opt; gap > 0 {
				logger.Warn("path is longer than optimal", "length", res.Search.Length, "optimal", opt, "gap", gap)
			}
		}
	}

	observability.Pipeline().OnSolved(ctx, g.Len(), res.Search.Expanded, res.Search.Length)
	return res, nil
}

// stage times fn and reports it to the pipeline hooks.
func stage(ctx context.Context, name string, d *time.Duration, fn func() error) error {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, name)
	start := time.Now()
	err := fn()
	*d = time.Since(start)
	hooks.OnStageComplete(ctx, name, *d, err)
	return err
}
