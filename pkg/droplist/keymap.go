package droplist

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the widget's key bindings. Up/Down double as drop-target
// navigation while a gesture is active.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Top       key.Binding
	Bottom    key.Binding
	Select    key.Binding
	SelectAll key.Binding
	ExtendUp  key.Binding
	ExtendDn  key.Binding
	Filter    key.Binding
	Drag      key.Binding
	Accept    key.Binding
	Cancel    key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:       key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:    key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Select:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		SelectAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
		ExtendUp:  key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("shift+↑", "extend up")),
		ExtendDn:  key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("shift+↓", "extend down")),
		Filter:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Drag:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "drag")),
		Accept:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop/open")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Drag, k.Accept}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.Filter},
		{k.Select, k.SelectAll, k.ExtendUp, k.ExtendDn},
		{k.Drag, k.Accept, k.Cancel},
	}
}
