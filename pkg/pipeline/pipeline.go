// Package pipeline runs the maze solver end to end.
//
// A run has five stages:
//
//  1. Decode: read the maze raster or text picture into a grid
//  2. Build: derive the decision-point graph
//  3. Search: sorted-frontier Dijkstra from the entrance
//  4. Reconstruct: walk predecessors back from the exit
//  5. Render: produce the requested outputs
//
// [Solve] runs stages 2 to 4 on a grid. [Runner] adds decoding, rendering
// and caching, and is shared by the CLI and the HTTP server:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Path:    "maze.png",
//	    Outputs: []string{pipeline.OutputPath, pipeline.OutputNodes},
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("Path.png", res.Artifacts[pipeline.OutputPath], 0o644)
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mazeroute/pkg/cache"
	"github.com/matzehuels/mazeroute/pkg/config"
	errs "github.com/matzehuels/mazeroute/pkg/errors"
	"github.com/matzehuels/mazeroute/pkg/graph"
	"github.com/matzehuels/mazeroute/pkg/grid"
	mio "github.com/matzehuels/mazeroute/pkg/io"
	"github.com/matzehuels/mazeroute/pkg/render"
	"github.com/matzehuels/mazeroute/pkg/route"
	"github.com/matzehuels/mazeroute/pkg/search"
)

// Outputs a run can produce.
const (
	OutputPath     = "path"     // PNG with the route marked
	OutputNodes    = "nodes"    // PNG with every graph node marked
	OutputSolution = "solution" // JSON solution
	OutputGraph    = "graph"    // JSON graph snapshot
	OutputDOT      = "dot"      // Graphviz source of the node-link diagram
	OutputSVG      = "svg"      // node-link diagram as SVG
)

// ValidOutputs is the set of supported outputs.
var ValidOutputs = map[string]bool{
	OutputPath:     true,
	OutputNodes:    true,
	OutputSolution: true,
	OutputGraph:    true,
	OutputDOT:      true,
	OutputSVG:      true,
}

// DefaultOutputs are written when no output is requested.
var DefaultOutputs = []string{OutputNodes, OutputPath}

// Default output file names.
const (
	DefaultNodesName = "Nodes.png"
	DefaultPathName  = "Path.png"
)

// Options configures a pipeline run. Exactly one of Path, Data and Grid
// supplies the maze.
type Options struct {
	Path string     `json:"path,omitempty"`
	Data []byte     `json:"-"`
	Grid *grid.Grid `json:"-"`

	// Solver options
	Threshold      uint8  `json:"threshold,omitempty"`
	Frontier       string `json:"frontier,omitempty"`
	EntranceWeight string `json:"entrance_weight,omitempty"`
	Verify         bool   `json:"verify,omitempty"`
	Trace          bool   `json:"trace,omitempty"`

	// Render options
	Outputs   []string `json:"outputs,omitempty"`
	Scale     int      `json:"scale,omitempty"`
	Palette   string   `json:"palette,omitempty"`
	NodesName string   `json:"nodes_name,omitempty"`
	PathName  string   `json:"path_name,omitempty"`

	// Cache options
	Refresh     bool          `json:"refresh,omitempty"`
	SolutionTTL time.Duration `json:"-"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// FromConfig returns options carrying the file-backed settings. The maze
// input and outputs are left for the caller.
func FromConfig(cfg config.Config) Options {
	return Options{
		Threshold:      uint8(cfg.Solver.Threshold),
		Frontier:       cfg.Solver.Frontier,
		EntranceWeight: cfg.Solver.EntranceWeight,
		Verify:         cfg.Solver.Verify,
		Scale:          cfg.Render.Scale,
		Palette:        cfg.Render.Palette,
		NodesName:      cfg.Render.NodesName,
		PathName:       cfg.Render.PathName,
		SolutionTTL:    cfg.Cache.TTL.Duration,
	}
}

// Result holds the outputs of a run.
type Result struct {
	Grid     *grid.Grid
	MazeHash string

	// Graph, Search and Route are nil when the solution came from the
	// cache and no requested output needed the graph.
	Graph  *graph.Graph
	Search *search.Result
	Route  *route.Route

	Solution  *mio.Solution
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds stage timings and graph size.
type Stats struct {
	Nodes           int
	Junctions       int
	Expanded        int
	Length          int
	DecodeTime      time.Duration
	BuildTime       time.Duration
	SearchTime      time.Duration
	ReconstructTime time.Duration
	RenderTime      time.Duration
}

// Total returns the summed stage time.
func (s Stats) Total() time.Duration {
	return s.DecodeTime + s.BuildTime + s.SearchTime + s.ReconstructTime + s.RenderTime
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	SolutionHit bool
	RenderHit   bool
}

// ValidateOutputs checks every requested output.
func ValidateOutputs(outputs []string) error {
	for _, o := range outputs {
		if !ValidOutputs[o] {
			return errs.New(errs.ErrCodeInvalidConfig, "invalid output %q (must be one of: %s)", o, strings.Join(outputNames(), ", "))
		}
	}
	return nil
}

func outputNames() []string {
	names := make([]string, 0, len(ValidOutputs))
	for n := range ValidOutputs {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.Frontier == "" {
		o.Frontier = string(search.Sorted)
	}
	if o.EntranceWeight == "" {
		o.EntranceWeight = graph.EntranceUnit.String()
	}
	if len(o.Outputs) == 0 {
		o.Outputs = slices.Clone(DefaultOutputs)
	}
	if o.Scale == 0 {
		o.Scale = 1
	}
	if o.Palette == "" {
		o.Palette = render.Classic.Name
	}
	if o.NodesName == "" {
		o.NodesName = DefaultNodesName
	}
	if o.PathName == "" {
		o.PathName = DefaultPathName
	}
	if o.SolutionTTL == 0 {
		o.SolutionTTL = cache.SolutionTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForSolve checks the solver options.
func (o *Options) ValidateForSolve() error {
	o.SetDefaults()
	if _, err := search.ParseStrategy(o.Frontier); err != nil {
		return err
	}
	_, err := graph.ParseEntranceWeight(o.EntranceWeight)
	return err
}

// ValidateAndSetDefaults checks the whole run. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	inputs := 0
	for _, set := range []bool{o.Path != "", o.Data != nil, o.Grid != nil} {
		if set {
			inputs++
		}
	}
	if inputs != 1 {
		return errs.New(errs.ErrCodeInvalidInput, "exactly one of path, data or grid is required, got %d", inputs)
	}
	if err := o.ValidateForSolve(); err != nil {
		return err
	}
	if err := ValidateOutputs(o.Outputs); err != nil {
		return err
	}
	if _, err := render.LookupPalette(o.Palette); err != nil {
		return err
	}
	if o.Scale < 1 || o.Scale > render.MaxScale {
		return errs.New(errs.ErrCodeInvalidConfig, "scale %d out of range [1, %d]", o.Scale, render.MaxScale)
	}
	for _, name := range []string{o.NodesName, o.PathName} {
		if err := errs.ValidateOutputName(name); err != nil {
			return err
		}
	}
	o.validated = true
	return nil
}

// FileName returns the file an output is written to.
func (o *Options) FileName(output string) string {
	switch output {
	case OutputNodes:
		return o.NodesName
	case OutputPath:
		return o.PathName
	case OutputSolution:
		return "solution.json"
	case OutputGraph:
		return "graph.json"
	case OutputDOT:
		return "graph.dot"
	case OutputSVG:
		return "graph.svg"
	default:
		return output
	}
}

// SolutionKeyOpts returns the cache key options for the solution.
func (o *Options) SolutionKeyOpts() cache.SolutionKeyOpts {
	return cache.SolutionKeyOpts{
		Frontier:       o.Frontier,
		EntranceWeight: o.EntranceWeight,
		Threshold:      o.Threshold,
	}
}

// ArtifactKeyOpts returns the cache key options for one output.
func (o *Options) ArtifactKeyOpts(output string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Kind:    output,
		Format:  formatOf(output),
		Scale:   o.Scale,
		Palette: o.Palette,
	}
}

func formatOf(output string) string {
	switch output {
	case OutputPath, OutputNodes:
		return "png"
	case OutputSolution, OutputGraph:
		return "json"
	default:
		return output
	}
}

// needsGraph reports whether any output needs the graph rather than just
// the solution.
func needsGraph(outputs []string) bool {
	for _, o := range outputs {
		if o != OutputPath && o != OutputSolution {
			return true
		}
	}
	return false
}

func (o *Options) String() string {
	return fmt.Sprintf("frontier=%s entrance=%s outputs=%v", o.Frontier, o.EntranceWeight, o.Outputs)
}
