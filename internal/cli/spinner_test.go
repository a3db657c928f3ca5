package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a buffer shared with the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerAnimates(t *testing.T) {
	var buf syncBuffer
	s := newSpinnerTo(context.Background(), &buf, true, "Solving maze.png")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(buf.String(), "Solving maze.png") {
		t.Errorf("spinner output missing message: %q", buf.String())
	}
}

func TestSpinnerUpdate(t *testing.T) {
	var buf syncBuffer
	s := newSpinnerTo(context.Background(), &buf, true, "Solving 3 mazes...")
	s.Start()
	time.Sleep(2 * spinnerInterval)
	s.Update("Solving 3 mazes... 2 done")
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	if !strings.Contains(buf.String(), "2 done") {
		t.Errorf("updated message never drawn: %q", buf.String())
	}
	if !strings.HasSuffix(buf.String(), "\r") {
		t.Error("Stop should leave the cursor at the start of a cleared line")
	}
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	var buf syncBuffer
	newSpinnerTo(context.Background(), &buf, true, "never started").Stop()
	if buf.String() != "" {
		t.Errorf("wrote %q", buf.String())
	}
}

func TestSpinnerSilentOffTerminal(t *testing.T) {
	var buf syncBuffer
	s := newSpinnerTo(context.Background(), &buf, false, "Solving")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if buf.String() != "" {
		t.Errorf("non-terminal spinner wrote %q", buf.String())
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinner(ctx, "Solving maze.png...")
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), "Solving maze.png...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithMessage(t *testing.T) {
	var buf bytes.Buffer
	old := out
	out = &buf
	defer func() { out = old }()

	s := newSpinner(context.Background(), "Solving maze.png...")
	s.Start()
	s.StopWithSuccess("Solved")

	s = newSpinner(context.Background(), "Solving maze.png...")
	s.Start()
	s.StopWithError("No path")

	if !strings.Contains(buf.String(), "Solved") || !strings.Contains(buf.String(), "No path") {
		t.Errorf("status output = %q", buf.String())
	}
}
