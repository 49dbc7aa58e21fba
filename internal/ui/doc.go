// Package ui provides the terminal user interface for lineup.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. All state lives in Model and changes only
// inside Update, so the queue, the chart and the Next-Item Panel are never
// touched from two goroutines. Slow work (feed snapshots, image waits, chafa
// previews, log reads) runs in tea.Cmd functions that report back as
// messages.
//
// # Screen Layout
//
//	┌───────────────────────────────────────────────┐
//	│ header: remaining, dismissed, image progress  │
//	├───────────────────────────────────────────────┤
//	│ chart: one cell per item, ids along the       │
//	│ bottom, names in the left margin              │
//	├───────────────────────────────────────────────┤
//	│ info bar: next item id, name, dates, images   │  <- click to dismiss
//	├───────────────────────────────────────────────┤
//	│ footer: key help                              │
//	└───────────────────────────────────────────────┘
//
// The chart width follows the terminal on every render; its height comes
// from chart_height in the config.
//
// # Next-Item Panel
//
// nextItemPanel is a pure function of the queue, the cache and the feed
// variant. It hides every image until the cache reports ready, and in
// dual-image feeds it shows both images or neither. While the head item's
// images are still loading the model issues a single Wait command for that
// item; dismissing the item evicts it from the cache, which ends the wait.
//
// # Package Structure
//
//   - app.go: Model, Update/View, commands and Run
//   - panel.go: Next-Item Panel state, info bar and previews
//   - chart_view.go: chart sizing and painting
//   - header.go: status header
//   - logs.go: log file overlay
//   - help.go: keyboard help overlay
//   - keys.go: key bindings
//   - theme.go, style_helpers.go: colors and styled text helpers
package ui
