package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	errs "github.com/matzehuels/mazeroute/pkg/errors"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// mazeFile is one candidate in the picker.
type mazeFile struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// findMazes lists the decodable maze files directly inside dir, newest first.
func findMazes(dir string) ([]mazeFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []mazeFile
	for _, e := range entries {
		if e.IsDir() || !errs.IsImageExtension(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, mazeFile{
			Path:    filepath.Join(dir, e.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	slices.SortStableFunc(files, func(a, b mazeFile) int {
		return b.ModTime.Compare(a.ModTime)
	})
	return files, nil
}

// MazeListModel is the bubbletea model for interactive maze selection.
// Space toggles a file; enter confirms the toggled set, or the file under
// the cursor when nothing is toggled.
type MazeListModel struct {
	Files    []mazeFile
	Cursor   int
	Offset   int
	Height   int
	Marked   map[int]bool
	Selected []string
	now      func() time.Time
}

// NewMazeListModel creates a new maze list model.
func NewMazeListModel(files []mazeFile) MazeListModel {
	return MazeListModel{
		Files:  files,
		Height: 15,
		Marked: map[int]bool{},
		now:    time.Now,
	}
}

func (m MazeListModel) Init() tea.Cmd {
	return nil
}

func (m MazeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Files)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			if len(m.Files) == 0 {
				return m, nil
			}
			if m.Marked[m.Cursor] {
				delete(m.Marked, m.Cursor)
			} else {
				m.Marked[m.Cursor] = true
			}
		case "a":
			if len(m.Marked) == len(m.Files) {
				m.Marked = map[int]bool{}
			} else {
				for i := range m.Files {
					m.Marked[i] = true
				}
			}
		case "enter":
			if len(m.Files) == 0 {
				return m, tea.Quit
			}
			m.Selected = m.selection()
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m MazeListModel) selection() []string {
	if len(m.Marked) == 0 {
		return []string{m.Files[m.Cursor].Path}
	}
	var out []string
	for i, f := range m.Files {
		if m.Marked[i] {
			out = append(out, f.Path)
		}
	}
	return out
}

func (m MazeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Mazes"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ solve  q quit"))
	b.WriteString("\n\n")

	if len(m.Files) == 0 {
		b.WriteString(listDimStyle.Render("  no maze files here"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Files))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		f := m.Files[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := " "
		if m.Marked[i] {
			mark = "✓"
		}
		rows = append(rows, []string{cursor, mark, filepath.Base(f.Path), formatSize(f.Size), formatRelativeTime(m.now(), f.ModTime)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Maze", "Size", "Modified").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			base := lipgloss.NewStyle()
			if col >= 3 {
				base = base.Foreground(colorDim)
			}
			switch {
			case idx == m.Cursor:
				if col < 3 {
					return base.Foreground(colorGreen).Bold(true)
				}
				return base.Bold(true)
			case m.Marked[idx]:
				if col < 3 {
					return base.Foreground(colorGreen)
				}
				return base
			}
			if col < 3 {
				return base.Foreground(colorWhite)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d selected", m.Cursor+1, len(m.Files), len(m.Marked))))

	return b.String()
}

// pickMazes runs the picker over dir. It returns nil when the user quits
// without choosing.
func pickMazes(dir string) ([]string, error) {
	files, err := findMazes(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errs.New(errs.ErrCodeFileNotFound, "no maze files in %s", dir)
	}
	final, err := tea.NewProgram(NewMazeListModel(files)).Run()
	if err != nil {
		return nil, err
	}
	return final.(MazeListModel).Selected, nil
}

// canPick reports whether an interactive picker can run.
func canPick() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

// =============================================================================
// Helpers
// =============================================================================

func formatSize(n int64) string {
	switch {
	case n < 1<<10:
		return fmt.Sprintf("%d B", n)
	case n < 1<<20:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	}
}

func formatRelativeTime(now, t time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
