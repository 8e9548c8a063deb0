package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	next      key.Binding
	prev      key.Binding
	favorite  key.Binding
	kind      key.Binding
	favorites key.Binding
	back      key.Binding
	reload    key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		next:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next page")),
		prev:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev page")),
		favorite:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "toggle favorite")),
		kind:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch kind")),
		favorites: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "favorites")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.next, k.prev, k.favorite, k.kind, k.favorites, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.next, k.prev},
		{k.favorite, k.kind, k.favorites},
		{k.back, k.reload, k.quit},
	}
}
