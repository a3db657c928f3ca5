package cli

import (
	"context"
	"encoding/json"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/mazeroute/internal/mazetest"
	errs "github.com/matzehuels/mazeroute/pkg/errors"
	"github.com/matzehuels/mazeroute/pkg/pipeline"
)

// execute runs the root command with an isolated config and cache.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	buf := captureOutput(t)

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(buf)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func writeMaze(t *testing.T, dir, name, maze string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.TrimLeft(maze, "\n")), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSolveCommand(t *testing.T) {
	dir := t.TempDir()
	maze := writeMaze(t, dir, "maze.txt", mazetest.RightAngle)
	outDir := filepath.Join(dir, "out")

	output, err := execute(t, "solve", maze, "-o", outDir, "--outputs", "path,nodes,solution", "--scale", "2", "--verify")
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if !strings.Contains(output, "Solved") || !strings.Contains(output, "5 steps") {
		t.Errorf("output = %q", output)
	}

	f, err := os.Open(filepath.Join(outDir, "Path.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 10 || img.Bounds().Dy() != 10 {
		t.Errorf("Path.png is %v, want 10x10", img.Bounds())
	}
	if _, err := os.Stat(filepath.Join(outDir, "Nodes.png")); err != nil {
		t.Error(err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "solution.json"))
	if err != nil {
		t.Fatal(err)
	}
	var sol struct {
		Length  int  `json:"length"`
		Optimal *int `json:"optimal"`
	}
	if err := json.Unmarshal(data, &sol); err != nil {
		t.Fatal(err)
	}
	if sol.Length != 5 || sol.Optimal == nil || *sol.Optimal != 5 {
		t.Errorf("solution length=%d optimal=%v, want 5 and 5", sol.Length, sol.Optimal)
	}
}

func TestSolveCommandBatch(t *testing.T) {
	dir := t.TempDir()
	a := writeMaze(t, dir, "a.txt", mazetest.RightAngle)
	b := writeMaze(t, dir, "b.txt", mazetest.Loops)
	blocked := writeMaze(t, dir, "blocked.txt", mazetest.Blocked)
	outDir := filepath.Join(dir, "solved")

	output, err := execute(t, "solve", a, b, blocked, "-o", outDir, "-j", "2")
	if err == nil || !strings.Contains(err.Error(), "1 of 3 mazes failed") {
		t.Fatalf("err = %v, want one failure", err)
	}
	for _, stem := range []string{"a", "b"} {
		for _, name := range []string{"Nodes.png", "Path.png"} {
			if _, err := os.Stat(filepath.Join(outDir, stem, name)); err != nil {
				t.Errorf("missing %s/%s: %v", stem, name, err)
			}
		}
	}
	if !strings.Contains(output, "blocked.txt") {
		t.Errorf("summary should list the failed maze:\n%s", output)
	}
}

func TestSolveCommandErrors(t *testing.T) {
	dir := t.TempDir()
	maze := writeMaze(t, dir, "maze.txt", mazetest.RightAngle)

	tests := []struct {
		name string
		args []string
		code errs.Code
	}{
		{"Threshold", []string{"solve", maze, "--threshold", "300"}, errs.ErrCodeInvalidConfig},
		{"Jobs", []string{"solve", maze, "-j", "0"}, errs.ErrCodeInvalidConfig},
		{"Frontier", []string{"solve", maze, "--frontier", "fifo", "-o", dir}, errs.ErrCodeInvalidConfig},
		{"Output", []string{"solve", maze, "--outputs", "gif", "-o", dir}, errs.ErrCodeInvalidConfig},
		{"Missing", []string{"solve", filepath.Join(dir, "nope.png"), "-o", dir}, errs.ErrCodeFileNotFound},
		{"NoPath", []string{"solve", writeMaze(t, dir, "blocked.txt", mazetest.Blocked), "-o", dir}, errs.ErrCodeNoPathExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if !errs.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestGraphCommand(t *testing.T) {
	dir := t.TempDir()
	maze := writeMaze(t, dir, "maze.txt", mazetest.RightAngle)

	dot := filepath.Join(dir, "graph.dot")
	if _, err := execute(t, "graph", maze, "-o", dot); err != nil {
		t.Fatalf("graph: %v", err)
	}
	data, err := os.ReadFile(dot)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "graph G {") || !strings.Contains(string(data), "color=red") {
		t.Errorf("dot output:\n%s", data)
	}

	js := filepath.Join(dir, "graph.json")
	if _, err := execute(t, "graph", maze, "--format", "json", "-o", js); err != nil {
		t.Fatalf("graph json: %v", err)
	}
	var snap struct {
		Nodes []json.RawMessage `json:"nodes"`
	}
	data, _ = os.ReadFile(js)
	if err := json.Unmarshal(data, &snap); err != nil || len(snap.Nodes) != 4 {
		t.Errorf("graph.json nodes = %d (%v)", len(snap.Nodes), err)
	}

	if _, err := execute(t, "graph", maze, "--format", "gif"); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestGraphCommandWithoutRoute(t *testing.T) {
	dir := t.TempDir()
	maze := writeMaze(t, dir, "blocked.txt", mazetest.Blocked)
	out := filepath.Join(dir, "graph.dot")

	if _, err := execute(t, "graph", maze, "-o", out); err != nil {
		t.Fatalf("a maze without a route should still export: %v", err)
	}
	data, _ := os.ReadFile(out)
	if strings.Contains(string(data), "color=red") {
		t.Error("no route should be highlighted")
	}
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mazeroute.toml")

	if _, err := execute(t, "--config", path, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := execute(t, "--config", path, "config", "init"); !errs.Is(err, errs.ErrCodeInvalidPath) {
		t.Errorf("second init err = %v, want INVALID_PATH", err)
	}
	if _, err := execute(t, "--config", path, "config", "init", "--force"); err != nil {
		t.Errorf("forced init: %v", err)
	}

	output, err := execute(t, "--config", path, "config", "show", "--format", "yaml")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(output, "frontier: sorted") {
		t.Errorf("config show:\n%s", output)
	}

	output, err = execute(t, "--config", path, "config", "path")
	if err != nil || strings.TrimSpace(output) != path {
		t.Errorf("config path = %q (%v), want %q", output, err, path)
	}
}

func TestCacheCommands(t *testing.T) {
	dir := t.TempDir()
	maze := writeMaze(t, dir, "maze.txt", mazetest.RightAngle)

	if _, err := execute(t, "cache", "clear"); err != nil {
		t.Fatal(err)
	}

	// execute isolates XDG dirs per call, so share one cache explicitly.
	cacheHome := t.TempDir()
	run := func(args ...string) string {
		t.Helper()
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		t.Setenv("XDG_CACHE_HOME", cacheHome)
		buf := captureOutput(t)
		root := New(io.Discard, LogInfo).RootCommand()
		root.SetArgs(args)
		root.SetOut(buf)
		if err := root.ExecuteContext(context.Background()); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return buf.String()
	}

	run("solve", maze, "-o", filepath.Join(dir, "out"))
	if got := run("solve", maze, "-o", filepath.Join(dir, "out")); !strings.Contains(got, "cached") {
		t.Errorf("second solve should hit the cache:\n%s", got)
	}
	if got := run("cache", "path"); strings.TrimSpace(got) != filepath.Join(cacheHome, appName) {
		t.Errorf("cache path = %q", got)
	}
	if got := run("cache", "info"); !strings.Contains(got, "Entries") || !strings.Contains(got, "Expired") {
		t.Errorf("cache info:\n%s", got)
	}
	if got := run("cache", "clear", "--expired"); !strings.Contains(got, "Removed 0 expired") {
		t.Errorf("cache clear --expired:\n%s", got)
	}
	if got := run("cache", "clear"); !strings.Contains(got, "Removed") || strings.Contains(got, "Removed 0") {
		t.Errorf("cache clear:\n%s", got)
	}
}

func TestOutputDirs(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		want  []string
	}{
		{"RepeatedStem", []string{"x/maze.png", "y/maze.png", "z/other.txt"}, []string{"maze", "maze-2", "other"}},
		{"SuffixCollision", []string{"a.png", "b/a.png", "a-2.png"}, []string{"a", "a-2", "a-2-2"}},
		{"SuffixFirst", []string{"a-2.png", "a.png", "b/a.png"}, []string{"a-2", "a", "a-3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputDirs("out", tt.paths)
			for i := range tt.want {
				if want := filepath.Join("out", tt.want[i]); got[i] != want {
					t.Errorf("outputDirs()[%d] = %q, want %q", i, got[i], want)
				}
			}
		})
	}
}

func TestWriteArtifactsMissingOutput(t *testing.T) {
	dir := t.TempDir()
	res := &pipeline.Result{Artifacts: map[string][]byte{pipeline.OutputPath: []byte("png")}}
	opts := pipeline.Options{Outputs: []string{pipeline.OutputPath, pipeline.OutputNodes}}

	_, err := writeArtifacts(dir, res, opts)
	if !errs.Is(err, errs.ErrCodeInternal) {
		t.Fatalf("writeArtifacts() error = %v, want INTERNAL", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("wrote %d files before failing, want 0", len(entries))
	}
}

func TestSkipOutputs(t *testing.T) {
	dir := t.TempDir()
	skip := skipOutputs(filepath.Join(dir, "solved"), pipeline.Options{})

	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join(dir, "maze.png"), false},
		{filepath.Join(dir, "Path.png"), true},
		{filepath.Join(dir, "Nodes.png"), true},
		{filepath.Join(dir, "solved", "maze", "other.png"), true},
	}
	for _, tt := range tests {
		if got := skip(tt.path); got != tt.want {
			t.Errorf("skip(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
