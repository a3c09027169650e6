package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	FocusNext  key.Binding
	FocusPrev  key.Binding
	Logs       key.Binding

	// Workflow
	Browse     key.Binding
	Extract    key.Binding
	Edit       key.Binding
	Analyze    key.Binding
	Copy       key.Binding
	ClearImage key.Binding
	Probe      key.Binding
	Report     key.Binding

	// Editor
	LeaveEditor key.Binding
	InsertTab   key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q/ctrl+c", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		FocusNext: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next pane"),
		),
		FocusPrev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous pane"),
		),
		Logs: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Show log"),
		),

		Browse: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Browse for image"),
		),
		Extract: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Extract code"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter", "i"),
			key.WithHelp("enter/i", "Edit code"),
		),
		Analyze: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Analyze code"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c", "ctrl+y"),
			key.WithHelp("c/ctrl+y", "Copy code"),
		),
		ClearImage: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "New (clear image)"),
		),
		Probe: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Check service again"),
		),
		Report: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "Write report"),
		),

		LeaveEditor: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Stop editing"),
		),
		InsertTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Insert tab (editing)"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Scroll down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdown", "Page down"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings grouped the way the help overlay shows them.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Browse, k.Extract, k.Edit, k.Analyze, k.Copy, k.ClearImage, k.Report},
		{k.LeaveEditor, k.InsertTab},
		{k.FocusNext, k.Up, k.Down, k.Top, k.Bottom, k.PageDown},
		{k.Probe, k.Logs, k.CycleTheme, k.Help, k.Quit},
	}
}
