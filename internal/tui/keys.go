package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Show   key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Show: key.NewBinding(
			key.WithKeys("s", "enter"),
			key.WithHelp("s", "show players"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("c", "esc"),
			key.WithHelp("c", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp renders the control panel line.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Show, k.Cancel, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
