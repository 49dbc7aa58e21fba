package ui

import (
	"github.com/five82/lineup/internal/chart"
)

// chartHeight is the fixed plot height in rows.
func (m Model) chartHeight() int {
	if m.config != nil && m.config.ChartHeight > 0 {
		return m.config.ChartHeight
	}
	return DefaultChartHeight
}

// chartWidth follows the terminal width on every render.
func (m Model) chartWidth() int {
	return max(m.width-ChartMarginLeft-ChartMarginRight, 0)
}

// chartLayout computes the grid for the current queue.
func (m Model) chartLayout() chart.Layout {
	return chart.Compute(m.snapshot.Queue, m.chartWidth(), m.chartHeight())
}

// renderChart redraws the whole chart from the current queue.
func (m Model) renderChart() string {
	canvas := chart.Canvas{
		MarginLeft: ChartMarginLeft,
		LabelColor: m.theme.Muted,
	}
	return canvas.Paint(m.chartLayout())
}
