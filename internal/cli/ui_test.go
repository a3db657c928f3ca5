package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := out
	out = &buf
	t.Cleanup(func() { out = old })
	return &buf
}

func TestRenderSummary(t *testing.T) {
	optimal := 40
	rows := []summaryRow{
		{maze: "a.png", nodes: 12, length: 40, optimal: &optimal, duration: "3ms"},
		{maze: "b.png", nodes: 7, length: 18, duration: "1ms", cached: true},
		{maze: "c.png", err: errors.New("NO_PATH_EXISTS: frontier exhausted")},
	}

	got := renderSummary(rows)
	for _, want := range []string{"Maze", "Optimal", "a.png", "40", "cached", "fresh", "frontier exhausted"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}

func TestPrintSummaryCountsFailures(t *testing.T) {
	buf := captureOutput(t)
	printSummary([]summaryRow{
		{maze: "a.png", nodes: 1, length: 2},
		{maze: "b.png", err: errors.New("boom")},
	})
	if !strings.Contains(buf.String(), "1 of 2 failed") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestPrintStats(t *testing.T) {
	buf := captureOutput(t)
	printStats(12, 40, true)
	got := buf.String()
	for _, want := range []string{"12 nodes", "40 steps", "cached"} {
		if !strings.Contains(got, want) {
			t.Errorf("stats missing %q: %q", want, got)
		}
	}
}
