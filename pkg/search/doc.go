// Package search finds the exit of a maze graph with a sorted-frontier
// variant of Dijkstra's algorithm.
//
// The frontier is a list kept in ascending distance order. Each iteration
// looks at the front node; if it is exit-adjacent the search is over,
// otherwise every unvisited neighbour is marked visited, given the front
// node as predecessor, and inserted. The list is re-sorted (stably, so
// ties keep insertion order) and the front node is dropped. There is no
// separate closed set: the visited flag set on enqueue guarantees every
// node enters the frontier at most once.
//
// [Sorted] re-sorts the whole list every time and is quadratic. [Heap]
// keeps a binary heap keyed on distance and insertion order and expands
// nodes in exactly the same order, so the two are interchangeable.
//
// [Optimal] runs gonum's Dijkstra over the same graph for comparison.
package search
