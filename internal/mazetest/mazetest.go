// Package mazetest holds maze fixtures and a seeded maze generator shared
// by the solver's tests.
package mazetest

import (
	"math/rand/v2"
	"strings"

	"github.com/matzehuels/mazeroute/pkg/grid"
)

// RightAngle has one turn pair: down from (0,1), right along row 2, down to
// (4,3). Corners sit at (2,1) and (2,3).
const RightAngle = `
#.###
#.###
#...#
###.#
###.#
`

// Corridor is a straight vertical corridor without any junction.
const Corridor = `
##.##
##.##
##.##
##.##
##.##
`

// Blocked has an entrance and an exit that cannot reach each other.
const Blocked = `
#.###
#.###
#####
###.#
###.#
`

// Loops has a cycle and a dead end.
const Loops = `
#.#########
#...#.....#
#.#.#.###.#
#.#...#...#
#.#####.#.#
#.......#.#
#########.#
`

// MustParse parses a fixture and panics on error.
func MustParse(s string) *grid.Grid {
	g, err := grid.Parse(s)
	if err != nil {
		panic(err)
	}
	return g
}

// Random carves a perfect maze of rows x cols rooms with a randomized
// depth-first walk, then knocks out extra walls with probability loops to
// create cycles. The result is (2*rows+1) x (2*cols+1) with the entrance on
// the top border at column 1 and the exit on the bottom border at the last
// interior column.
func Random(seed uint64, rows, cols int, loops float64) *grid.Grid {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	h, w := 2*rows+1, 2*cols+1
	open := make([][]bool, h)
	for r := range open {
		open[r] = make([]bool, w)
	}

	type room struct{ r, c int }
	seen := make([][]bool, rows)
	for r := range seen {
		seen[r] = make([]bool, cols)
	}
	stack := []room{{0, 0}}
	seen[0][0] = true
	open[1][1] = true
	steps := []room{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		var next []room
		for _, d := range steps {
			n := room{cur.r + d.r, cur.c + d.c}
			if n.r >= 0 && n.r < rows && n.c >= 0 && n.c < cols && !seen[n.r][n.c] {
				next = append(next, n)
			}
		}
		if len(next) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		n := next[rng.IntN(len(next))]
		seen[n.r][n.c] = true
		open[2*n.r+1][2*n.c+1] = true
		open[cur.r+n.r+1][cur.c+n.c+1] = true
		stack = append(stack, n)
	}

	for r := 1; r < h-1; r++ {
		for c := 1; c < w-1; c++ {
			if open[r][c] || (r%2 == 1) == (c%2 == 1) {
				continue
			}
			if rng.Float64() < loops {
				open[r][c] = true
			}
		}
	}

	open[0][1] = true
	open[h-1][w-2] = true

	g, err := grid.New(open)
	if err != nil {
		panic(err)
	}
	return g
}

// Picture renders rows of a grid for failure messages.
func Picture(g *grid.Grid) string {
	return strings.TrimRight(g.String(), "\n")
}
