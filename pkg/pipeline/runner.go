package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mazeroute/pkg/cache"
	"github.com/matzehuels/mazeroute/pkg/grid"
	mio "github.com/matzehuels/mazeroute/pkg/io"
	"github.com/matzehuels/mazeroute/pkg/observability"
)

// Cache key types reported to the cache hooks.
const (
	keySolution = "solution"
	keyArtifact = "artifact"
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner can serve concurrent runs with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer selects DefaultKeyer, a nil
// cache disables caching and a nil logger uses the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs decode, solve and render, serving what it can from the
// cache.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	opts.Logger.Debug("running pipeline", "options", opts.String())

	res := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Decode
	m, err := r.Decode(ctx, opts, &res.Stats)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	res.Grid = m
	res.MazeHash = cache.Hash([]byte(m.String()))
	opts.Logger.Info("decoded maze",
		"height", m.Height(),
		"width", m.Width(),
		"duration", res.Stats.DecodeTime)

	solutionKey := r.Keyer.SolutionKey(res.MazeHash, opts.SolutionKeyOpts())

	// Stages 2-4: Solve, unless the cache covers every output.
	if !opts.Refresh {
		if sol, ok := r.cachedSolution(ctx, solutionKey); ok {
			res.Solution = sol
			res.CacheInfo.SolutionHit = true
			res.Stats.Length = sol.Length
			res.Stats.Nodes = sol.Nodes
			res.Stats.Junctions = sol.Junctions
			res.Stats.Expanded = sol.Expanded
		}
	}
	cached, missing := r.cachedArtifacts(ctx, solutionKey, opts)
	if !res.CacheInfo.SolutionHit || needsGraph(missing) {
		solved, err := Solve(ctx, m, opts)
		if err != nil {
			return nil, err
		}
		solved.MazeHash = res.MazeHash
		solved.Stats.DecodeTime = res.Stats.DecodeTime
		solved.CacheInfo = res.CacheInfo
		res = solved
		if !res.CacheInfo.SolutionHit {
			r.storeSolution(ctx, solutionKey, res.Solution, opts)
		}
	} else {
		opts.Logger.Info("solution from cache", "length", res.Solution.Length)
	}

	// Stage 5: Render
	res.Artifacts = cached
	res.CacheInfo.RenderHit = len(missing) == 0
	if len(missing) > 0 {
		var rendered map[string][]byte
		err := stage(ctx, observability.StageRender, &res.Stats.RenderTime, func() (err error) {
			rendered, err = Render(ctx, res, missing, opts)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		for output, data := range rendered {
			res.Artifacts[output] = data
			r.set(ctx, keyArtifact, r.Keyer.ArtifactKey(solutionKey, opts.ArtifactKeyOpts(output)), data, cache.ArtifactTTL)
		}
	}
	opts.Logger.Info("rendered outputs",
		"outputs", opts.Outputs,
		"cached", len(cached),
		"duration", res.Stats.RenderTime)

	return res, nil
}

// Decode reads the maze named by opts.
func (r *Runner) Decode(ctx context.Context, opts Options, stats *Stats) (*grid.Grid, error) {
	var m *grid.Grid
	err := stage(ctx, observability.StageDecode, &stats.DecodeTime, func() (err error) {
		switch {
		case opts.Grid != nil:
			m = opts.Grid
		case opts.Path != "":
			m, err = mio.Load(opts.Path, opts.Threshold)
		default:
			m, _, err = mio.Decode(bytes.NewReader(opts.Data), opts.Threshold)
		}
		return err
	})
	return m, err
}

// cachedArtifacts splits the requested outputs into those in the cache
// and those still to render.
func (r *Runner) cachedArtifacts(ctx context.Context, solutionKey string, opts Options) (map[string][]byte, []string) {
	artifacts := make(map[string][]byte, len(opts.Outputs))
	if opts.Refresh {
		return artifacts, opts.Outputs
	}
	var missing []string
	for _, output := range opts.Outputs {
		if data, ok := r.get(ctx, keyArtifact, r.Keyer.ArtifactKey(solutionKey, opts.ArtifactKeyOpts(output))); ok {
			artifacts[output] = data
			continue
		}
		missing = append(missing, output)
	}
	return artifacts, missing
}

func (r *Runner) cachedSolution(ctx context.Context, key string) (*mio.Solution, bool) {
	data, ok := r.get(ctx, keySolution, key)
	if !ok {
		return nil, false
	}
	sol, err := mio.ReadSolution(bytes.NewReader(data))
	if err != nil {
		r.Logger.Debug("discarding cached solution", "key", key, "error", err)
		return nil, false
	}
	return sol, true
}

func (r *Runner) storeSolution(ctx context.Context, key string, sol *mio.Solution, opts Options) {
	var buf bytes.Buffer
	if err := mio.WriteSolution(&buf, sol); err != nil {
		return
	}
	r.set(ctx, keySolution, key, buf.Bytes(), opts.SolutionTTL)
}

// get reads a key and reports the outcome to the cache hooks. Cache
// failures count as misses.
func (r *Runner) get(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "key", key, "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
