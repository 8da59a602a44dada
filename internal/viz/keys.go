package viz

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	Pause     key.Binding
	Reset     key.Binding
	NextParam key.Binding
	Increase  key.Binding
	Decrease  key.Binding
	AddNode   key.Binding
	DropNode  key.Binding
	Pin       key.Binding
	Theme     key.Binding
	Help      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Pause:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		NextParam: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next param")),
		Increase:  key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "increase")),
		Decrease:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "decrease")),
		AddNode:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "add node")),
		DropNode:  key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "drop node")),
		Pin:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pin at pointer")),
		Theme:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Reset, k.NextParam, k.Increase, k.Decrease, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Reset, k.Theme, k.Quit},
		{k.NextParam, k.Increase, k.Decrease},
		{k.AddNode, k.DropNode, k.Pin, k.Help},
	}
}
