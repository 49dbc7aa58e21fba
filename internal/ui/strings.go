package ui

import (
	"strings"

	"github.com/five82/lineup/internal/chart"
)

// truncate shortens a string to the given limit the same way chart labels
// are cut. A limit <= 0 leaves the value whole.
func truncate(value string, limit int) string {
	if limit <= 0 {
		return strings.TrimSpace(value)
	}
	return chart.Fit(value, limit)
}

// padRight pads a string with spaces to the given width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(r))
}
