package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Toggle     key.Binding
	New        key.Binding
	All        key.Binding
	Incomplete key.Binding
	Completed  key.Binding
	Reload     key.Binding
	Quit       key.Binding

	NextField key.Binding
	Submit    key.Binding
	Cancel    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:     key.NewBinding(key.WithKeys(" ", "space", "x", "enter"), key.WithHelp("space", "toggle")),
		New:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		All:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all")),
		Incomplete: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "incomplete")),
		Completed:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "completed")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		NextField: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
		Submit:    key.NewBinding(key.WithKeys("enter", "ctrl+s"), key.WithHelp("enter", "save")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k keyMap) listHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.New, k.All, k.Incomplete, k.Completed, k.Reload, k.Quit}
}

func (k keyMap) formHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Submit, k.Cancel}
}
