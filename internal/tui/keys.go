package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit key.Binding
	Back key.Binding

	// Navigation
	Contacts  key.Binding
	Birthdays key.Binding
	Settings  key.Binding

	// Actions
	Select   key.Binding
	New      key.Binding
	AddPhone key.Binding
	Birthday key.Binding
	Delete   key.Binding
	Window   key.Binding

	// Movement
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Contacts:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "contacts")),
	Birthdays: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "birthdays")),
	Settings:  key.NewBinding(key.WithKeys(","), key.WithHelp(",", "settings")),
	Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	New:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	AddPhone:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "add phone")),
	Birthday:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "set birthday")),
	Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Window:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "window/all")),
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous page")),
	Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next page")),
}
