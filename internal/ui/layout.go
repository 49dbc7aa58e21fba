package ui

import "time"

// Chart geometry, in terminal cells.
const (
	// ChartMarginLeft is reserved for name labels.
	ChartMarginLeft = 14

	// ChartMarginRight keeps the last column off the terminal edge.
	ChartMarginRight = 2

	// DefaultChartHeight is used when no config is supplied.
	DefaultChartHeight = 16
)

// Next-item panel geometry.
const (
	// PreviewRows is the height of one rendered image preview.
	PreviewRows = 8

	// PreviewMaxWidth caps a preview's width.
	PreviewMaxWidth = 40
)

// Log overlay limits.
const (
	// LogTailLines is how many lines of the log file the overlay reads.
	LogTailLines = 500
)

// Timing constants.
const (
	// DefaultUIInterval is the default snapshot refresh interval.
	DefaultUIInterval = time.Second

	// PreviewTimeout bounds a single chafa invocation.
	PreviewTimeout = 5 * time.Second
)
