package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding

	// Queue
	Dismiss        key.Binding
	TogglePreviews key.Binding

	// Logs
	ViewLogs     key.Binding
	ReloadLogs   key.Binding
	Up           key.Binding
	Down         key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding
	Top          key.Binding
	Bottom       key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close overlay"),
		),

		Dismiss: key.NewBinding(
			key.WithKeys(" ", "space", "enter", "n"),
			key.WithHelp("space/n", "Next item"),
		),
		TogglePreviews: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "Toggle previews"),
		),

		ViewLogs: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Show log"),
		),
		ReloadLogs: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload log"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Scroll down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u", "pgup"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d", "pgdown"),
			key.WithHelp("ctrl+d", "Half page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Dismiss, k.ViewLogs, k.CycleTheme, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay, one group per section.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Queue
		{k.Dismiss, k.TogglePreviews},
		// Logs
		{k.ViewLogs, k.ReloadLogs, k.Up, k.Down, k.HalfPageDown, k.HalfPageUp, k.Top, k.Bottom, k.Escape},
		// General
		{k.CycleTheme, k.Help, k.Quit},
	}
}

// helpSectionTitles names the FullHelp groups in order.
var helpSectionTitles = []string{"Queue", "Logs", "General"}
