package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// ANSI 256 palette.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

var (
	StyleTitle   = fg(colorCyan).Bold(true)
	StyleDim     = fg(colorDim)
	StyleValue   = fg(colorWhite)
	StyleNumber  = fg(colorCyan)
	StyleWarning = fg(colorYellow)
	StyleError   = fg(colorRed)

	styleIconSpinner = fg(colorCyan)
	styleCached      = fg(colorGreen)
	styleComputed    = fg(colorGray)
	styleCommand     = fg(colorBlue)
	styleLabel       = fg(colorGray).Width(12)
)

const (
	iconArrow  = "→"
	iconCached = "cached"
	iconFresh  = "fresh"
)

// out is where status output goes. Tests swap it for a buffer.
var out io.Writer = os.Stdout

// statusLine prints "<icon> <message>"; text styles the message when set.
func statusLine(icon string, iconStyle lipgloss.Style, text *lipgloss.Style, format string, args []any) {
	msg := fmt.Sprintf(format, args...)
	if text != nil {
		msg = text.Render(msg)
	}
	fmt.Fprintln(out, iconStyle.Render(icon)+" "+msg)
}

func printSuccess(format string, args ...any) {
	statusLine("✓", fg(colorGreen), nil, format, args)
}

func printError(format string, args ...any) {
	statusLine("✗", StyleError, nil, format, args)
}

func printWarning(format string, args ...any) {
	statusLine("!", StyleWarning, &StyleWarning, format, args)
}

func printInfo(format string, args ...any) {
	statusLine("›", fg(colorGray), nil, format, args)
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(out, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile lists a written output file.
func printFile(path string) {
	fmt.Fprintln(out, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(out, styleLabel.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(out, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// printStats prints "N nodes · N steps · fresh|cached" under a solved maze.
func printStats(nodes, length int, cached bool) {
	status := styleComputed.Render(iconFresh)
	if cached {
		status = styleCached.Render(iconCached)
	}
	sep := StyleDim.Render(" · ")
	fmt.Fprintln(out, "  "+StyleDim.Render(fmt.Sprintf("%d nodes", nodes))+sep+
		StyleDim.Render(fmt.Sprintf("%d steps", length))+sep+status)
}

// summaryRow is one maze in a batch summary.
type summaryRow struct {
	maze     string
	nodes    int
	length   int
	optimal  *int
	duration string
	cached   bool
	err      error
}

// renderSummary lays out a batch of results as a table.
func renderSummary(rows []summaryRow) string {
	headerStyle := fg(colorGray).Bold(true)

	data := make([][]string, len(rows))
	for i, r := range rows {
		if r.err != nil {
			data[i] = []string{r.maze, "-", "-", "-", "-", r.err.Error()}
			continue
		}
		optimal := "-"
		if r.optimal != nil {
			optimal = strconv.Itoa(*r.optimal)
		}
		status := iconFresh
		if r.cached {
			status = iconCached
		}
		data[i] = []string{r.maze, strconv.Itoa(r.nodes), strconv.Itoa(r.length), optimal, r.duration, status}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Maze", "Nodes", "Length", "Optimal", "Time", "Status").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			r := rows[row]
			switch {
			case r.err != nil:
				return StyleError
			case col == 5 && r.cached:
				return styleCached
			case col == 3 && r.optimal != nil && *r.optimal < r.length:
				return StyleWarning
			case col == 1 || col == 2 || col == 3:
				return StyleNumber
			}
			return StyleValue
		})
	return t.Render()
}

// printSummary prints a batch summary table.
func printSummary(rows []summaryRow) {
	fmt.Fprintln(out, renderSummary(rows))
	failed := 0
	for _, r := range rows {
		if r.err != nil {
			failed++
		}
	}
	if failed > 0 {
		printDetail("%d of %d failed", failed, len(rows))
	}
}
