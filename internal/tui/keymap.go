package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	NextCell key.Binding
	PrevCell key.Binding

	// Editing
	Edit   key.Binding
	Clear  key.Binding
	Commit key.Binding
	Cancel key.Binding
	Accept key.Binding

	// Sheet layout
	AddStand    key.Binding
	RemoveStand key.Binding
	AddRow      key.Binding
	RemoveRow   key.Binding
	AddStaff    key.Binding
	RemoveStaff key.Binding
	Workday     key.Binding

	// Actions
	Save         key.Binding
	Export       key.Binding
	LoadPrevious key.Binding
	Confirm      key.Binding
	Decline      key.Binding

	// Application
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "right"),
		),
		NextCell: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next cell"),
		),
		PrevCell: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("Shift+Tab", "previous cell"),
		),

		// Editing
		Edit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "edit cell"),
		),
		Clear: key.NewBinding(
			key.WithKeys("delete", "backspace"),
			key.WithHelp("Del", "clear cell"),
		),
		Commit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "keep"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "discard"),
		),
		Accept: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "use suggestion"),
		),

		// Sheet layout
		AddStand: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "add stand"),
		),
		RemoveStand: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "remove last stand"),
		),
		AddRow: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "add count row"),
		),
		RemoveRow: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "remove last count row"),
		),
		AddStaff: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add shed staff"),
		),
		RemoveStaff: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "remove last shed staff"),
		),
		Workday: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "8/9 hour day"),
		),

		// Actions
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("Ctrl+S", "save"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("Ctrl+E", "export"),
		),
		LoadPrevious: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("Ctrl+P", "load previous"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "save anyway"),
		),
		Decline: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n/Esc", "keep editing"),
		),

		// Application
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Save, k.Export, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.NextCell, k.PrevCell},
		{k.Edit, k.Clear, k.Cancel, k.Accept},
		{k.AddStand, k.RemoveStand, k.AddRow, k.RemoveRow, k.AddStaff, k.RemoveStaff, k.Workday},
		{k.Save, k.Export, k.LoadPrevious, k.Help, k.Quit},
	}
}
