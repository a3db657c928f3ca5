package search

import (
	"container/heap"
	"fmt"
	"slices"
	"strings"

	errs "github.com/matzehuels/mazeroute/pkg/errors"
	"github.com/matzehuels/mazeroute/pkg/graph"
)

// Frontier is the worklist of discovered but unexpanded nodes, ordered by
// ascending distance and, on ties, by insertion order. A node's distance
// must not change while it is in the frontier.
type Frontier interface {
	Len() int
	// Front returns the minimum without removing it.
	Front() graph.NodeID
	// Insert adds nodes and restores the ordering.
	Insert(ids ...graph.NodeID)
	// DropFront removes the minimum.
	DropFront()
}

// Strategy names a Frontier implementation.
type Strategy string

const (
	// Sorted keeps a slice and stable-sorts it after every insertion.
	// Quadratic, and the reference behaviour.
	Sorted Strategy = "sorted"
	// Heap keeps a binary heap keyed on (distance, insertion order). It
	// yields exactly the same expansion order as Sorted.
	Heap Strategy = "heap"
)

// Strategies lists the known strategies.
var Strategies = []Strategy{Sorted, Heap}

// ParseStrategy parses a strategy name. The empty string selects Sorted.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", Sorted:
		return Sorted, nil
	case Heap:
		return Heap, nil
	default:
		return "", errs.New(errs.ErrCodeInvalidConfig, "unknown frontier %q (want sorted or heap)", s)
	}
}

// New returns an empty frontier of the given strategy. dist reports a
// node's current distance.
func (s Strategy) New(dist func(graph.NodeID) int) Frontier {
	switch s {
	case Heap:
		return NewHeap(dist)
	case Sorted, "":
		return NewSorted(dist)
	default:
		panic(fmt.Sprintf("search: unknown strategy %q", string(s)))
	}
}

type sortedFrontier struct {
	items []graph.NodeID
	dist  func(graph.NodeID) int
}

// NewSorted returns the re-sorting frontier.
func NewSorted(dist func(graph.NodeID) int) Frontier {
	return &sortedFrontier{dist: dist}
}

func (f *sortedFrontier) Len() int { return len(f.items) }

func (f *sortedFrontier) Front() graph.NodeID { return f.items[0] }

func (f *sortedFrontier) Insert(ids ...graph.NodeID) {
	f.items = append(f.items, ids...)
	slices.SortStableFunc(f.items, func(a, b graph.NodeID) int {
		return f.dist(a) - f.dist(b)
	})
}

func (f *sortedFrontier) DropFront() { f.items = f.items[1:] }

type entry struct {
	id   graph.NodeID
	dist int
	seq  int
}

type entryHeap []entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].dist != h[j].dist {
		return h[i].dist < h[j].dist
	}
	return h[i].seq < h[j].seq
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) { *h = append(*h, x.(entry)) }

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

type heapFrontier struct {
	h    entryHeap
	seq  int
	dist func(graph.NodeID) int
}

// NewHeap returns the heap frontier.
func NewHeap(dist func(graph.NodeID) int) Frontier {
	return &heapFrontier{dist: dist}
}

func (f *heapFrontier) Len() int { return f.h.Len() }

func (f *heapFrontier) Front() graph.NodeID { return f.h[0].id }

func (f *heapFrontier) Insert(ids ...graph.NodeID) {
	for _, id := range ids {
		heap.Push(&f.h, entry{id: id, dist: f.dist(id), seq: f.seq})
		f.seq++
	}
}

func (f *heapFrontier) DropFront() { heap.Pop(&f.h) }
