package chart

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Canvas paints a Layout into terminal text. Every call starts from a blank
// grid, so the output depends only on the layout and the canvas settings.
type Canvas struct {
	MarginLeft int    // columns reserved for name labels
	LabelColor string // foreground for axis labels
	Background string // empty keeps the terminal background
}

type pixel struct {
	ch rune
	fg string
	bg string
}

// Paint renders the plot plus one row of id labels underneath it. Axis lines
// are not drawn.
func (c Canvas) Paint(l Layout) string {
	if l.Width <= 0 || l.Height <= 0 {
		return ""
	}
	margin := max(c.MarginLeft, 0)
	cols := margin + l.Width
	rows := l.Height + 1

	grid := make([][]pixel, rows)
	for r := range grid {
		grid[r] = make([]pixel, cols)
		for col := range grid[r] {
			grid[r][col] = pixel{ch: ' ', bg: c.Background}
		}
	}

	fill := func(x0, y0, w, h int, bg string) {
		for y := max(y0, 0); y < min(y0+h, l.Height); y++ {
			for x := max(x0, 0); x < min(x0+w, l.Width); x++ {
				grid[y][margin+x] = pixel{ch: ' ', bg: bg}
			}
		}
	}
	for _, cell := range l.Cells {
		fill(cell.X, cell.Y, cell.Width, cell.Height, cell.Background)
	}
	for _, cell := range l.Cells {
		x, w := cell.X, cell.Width
		if w >= 4 {
			x, w = x+1, w-2
		}
		fill(x, cell.Y, w, cell.Height, cell.Fill)
	}

	write := func(row, col int, text string) {
		for i, r := range []rune(text) {
			if col+i < 0 || col+i >= cols {
				continue
			}
			grid[row][col+i].ch = r
			grid[row][col+i].fg = c.LabelColor
		}
	}
	if margin > 1 {
		for _, label := range l.YLabels {
			row := min(label.Pos+label.Span/2, l.Height-1)
			text := Fit(label.Text, margin-1)
			write(row, margin-1-len([]rune(text)), text)
		}
	}
	for _, label := range l.XLabels {
		if label.Span <= 0 {
			continue
		}
		text := Fit(label.Text, label.Span)
		offset := (label.Span - len([]rune(text))) / 2
		write(l.Height, margin+label.Pos+offset, text)
	}

	return renderGrid(grid)
}

func renderGrid(grid [][]pixel) string {
	styles := make(map[[2]string]lipgloss.Style)
	styleFor := func(fg, bg string) lipgloss.Style {
		key := [2]string{fg, bg}
		if s, ok := styles[key]; ok {
			return s
		}
		s := lipgloss.NewStyle()
		if fg != "" {
			s = s.Foreground(lipgloss.Color(fg))
		}
		if bg != "" {
			s = s.Background(lipgloss.Color(bg))
		}
		styles[key] = s
		return s
	}

	lines := make([]string, len(grid))
	for r, row := range grid {
		var b strings.Builder
		var run []rune
		var fg, bg string
		flush := func() {
			if len(run) == 0 {
				return
			}
			if fg == "" && bg == "" {
				b.WriteString(string(run))
			} else {
				b.WriteString(styleFor(fg, bg).Render(string(run)))
			}
			run = run[:0]
		}
		for i, p := range row {
			if i > 0 && (p.fg != fg || p.bg != bg) {
				flush()
			}
			fg, bg = p.fg, p.bg
			run = append(run, p.ch)
		}
		flush()
		lines[r] = b.String()
	}
	return strings.Join(lines, "\n")
}

// Fit truncates s to at most width runes, marking cuts with an ellipsis.
func Fit(s string, width int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if width <= 0 {
		return ""
	}
	if len(runes) <= width {
		return s
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
