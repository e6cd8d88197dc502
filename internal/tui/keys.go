package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit key.Binding
	Back key.Binding

	// Navigation
	Invoice   key.Binding
	Customers key.Binding
	Products  key.Binding
	Archive   key.Binding
	History   key.Binding
	Settings  key.Binding

	// Actions
	Select key.Binding
	New    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Search key.Binding
	Open   key.Binding
	Use    key.Binding

	// Movement
	Up   key.Binding
	Down key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Invoice:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "invoice")),
	Customers: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "customers")),
	Products:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "products")),
	Archive:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "archive")),
	History:   key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
	Settings:  key.NewBinding(key.WithKeys(","), key.WithHelp(",", "settings")),
	Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	New:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Open:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
	Use:       key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "use on invoice")),
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
}
