package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	mio "github.com/matzehuels/mazeroute/pkg/io"
	"github.com/matzehuels/mazeroute/pkg/render"
	"github.com/matzehuels/mazeroute/pkg/render/nodelink"
)

// Render produces the given outputs from a solved result. Outputs other
// than path and solution need res.Graph. Outputs render concurrently; they
// only read the result.
func Render(ctx context.Context, res *Result, outputs []string, opts Options) (map[string][]byte, error) {
	if err := ValidateOutputs(outputs); err != nil {
		return nil, err
	}
	if res.Graph == nil && needsGraph(outputs) {
		return nil, fmt.Errorf("outputs %v need the graph", outputs)
	}
	pal, err := render.LookupPalette(opts.Palette)
	if err != nil {
		return nil, err
	}
	scale := max(opts.Scale, 1)

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(outputs))
	)
	eg, ctx := errgroup.WithContext(ctx)
	for _, output := range outputs {
		eg.Go(func() error {
			data, err := renderOne(ctx, res, output, pal, scale)
			if err != nil {
				return fmt.Errorf("%s: %w", output, err)
			}
			mu.Lock()
			artifacts[output] = data
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderOne(ctx context.Context, res *Result, output string, pal render.Palette, scale int) ([]byte, error) {
	switch output {
	case OutputPath:
		return render.PNG(res.Solution.Overlay(res.Grid), render.WithPalette(pal), render.WithScale(scale))
	case OutputNodes:
		return render.PNG(res.Graph.Overlay(), render.WithPalette(pal), render.WithScale(scale))
	case OutputSolution:
		var buf bytes.Buffer
		err := mio.WriteSolution(&buf, res.Solution)
		return buf.Bytes(), err
	case OutputGraph:
		var buf bytes.Buffer
		err := mio.WriteGraph(&buf, res.Graph)
		return buf.Bytes(), err
	case OutputDOT:
		return []byte(dot(res)), nil
	case OutputSVG:
		return nodelink.RenderSVG(ctx, dot(res))
	default:
		return nil, fmt.Errorf("unsupported output %q", output)
	}
}

func dot(res *Result) string {
	opts := nodelink.Options{Weights: true, Detailed: true}
	if res.Route != nil {
		opts.Route = res.Route.Nodes
	}
	return nodelink.ToDOT(res.Graph, opts)
}
