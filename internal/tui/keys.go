package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap is the demo's key bindings, grouped for the help footer.
type keyMap struct {
	Next     key.Binding
	Prev     key.Binding
	First    key.Binding
	Last     key.Binding
	Jump     key.Binding
	Minimode key.Binding
	Debug    key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("down", "pgdown", " ", "j"),
			key.WithHelp("↓/space", "next section"),
		),
		Prev: key.NewBinding(
			key.WithKeys("up", "pgup", "k"),
			key.WithHelp("↑", "previous section"),
		),
		First: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home", "first section"),
		),
		Last: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end", "last section"),
		),
		Jump: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "jump to section"),
		),
		Minimode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "minimode"),
		),
		Debug: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "debug overlay"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Jump, k.Minimode, k.Debug, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.First, k.Last},
		{k.Jump, k.Minimode, k.Debug, k.Quit},
	}
}
