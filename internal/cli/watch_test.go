package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestWatchDirSolvesNewMazes(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	solved := make(chan string, 4)
	skip := func(path string) bool { return filepath.Base(path) == "Path.png" }
	done := make(chan error, 1)
	go func() {
		done <- watchDir(ctx, dir, 20*time.Millisecond, skip, log.New(io.Discard), func(path string) {
			solved <- path
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	for _, name := range []string{"notes.md", "Path.png", "maze.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("#.#"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case got := <-solved:
		if filepath.Base(got) != "maze.txt" {
			t.Errorf("solved %s, want maze.txt", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("maze.txt was not solved")
	}

	select {
	case got := <-solved:
		t.Errorf("unexpected second solve of %s", got)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("watchDir() = %v", err)
	}
}

func TestWatchDirMissing(t *testing.T) {
	err := watchDir(context.Background(), filepath.Join(t.TempDir(), "missing"), time.Millisecond, func(string) bool { return false }, log.New(io.Discard), func(string) {})
	if err == nil {
		t.Error("watching a missing directory should fail")
	}
}
