package app

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the global key bindings.
type keyMap struct {
	PrevMode key.Binding
	NextMode key.Binding
	Submit   key.Binding
	Clear    key.Binding
	Focus    key.Binding
	Quit     key.Binding
}

// ShortHelp returns the bindings for the help bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevMode, k.NextMode, k.Submit, k.Clear, k.Focus, k.Quit}
}

// FullHelp returns the bindings grouped for expanded help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevMode, k.NextMode, k.Submit},
		{k.Clear, k.Focus, k.Quit},
	}
}

// defaultKeyMap returns the finnterm key bindings.
func defaultKeyMap() keyMap {
	return keyMap{
		PrevMode: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "prev mode"),
		),
		NextMode: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "next mode"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch focus"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q", "ctrl+c"),
			key.WithHelp("ctrl+q", "quit"),
		),
	}
}
