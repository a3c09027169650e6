package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which panes stack vertically.
	LayoutCompactWidth = 100

	// LayoutMinHeight is the smallest body height the panes are laid out for.
	LayoutMinHeight = 8
)

// Editor display.
const (
	// TabWidth is the display width of a tab in the editor.
	TabWidth = 4
)

// Log overlay limits.
const (
	// LogOverlayLines is how many log lines the overlay loads.
	LogOverlayLines = 500
)

// Timing constants.
const (
	// CopiedToastDuration is how long "Copied!" stays visible.
	CopiedToastDuration = 2 * time.Second

	// NoticeDuration is how long transient notices stay visible.
	NoticeDuration = 4 * time.Second
)
