package tui

import (
	"go-chi-calculator/internal/calculator"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap is the terminal view's key bindings. The calculator shortcuts come
// from calculator.Shortcuts so both front ends agree on them.
type KeyMap struct {
	Shortcuts   []key.Binding
	ToggleTheme key.Binding
	NextFocus   key.Binding
	PrevFocus   key.Binding
	Up          key.Binding
	Down        key.Binding
	Select      key.Binding
	Quit        key.Binding
}

func DefaultKeyMap() KeyMap {
	var shortcuts []key.Binding
	for _, s := range calculator.Shortcuts() {
		shortcuts = append(shortcuts, key.NewBinding(
			key.WithKeys(s.Key),
			key.WithHelp(s.Key, s.Action.String()),
		))
	}

	return KeyMap{
		Shortcuts: shortcuts,
		ToggleTheme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "theme"),
		),
		NextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevFocus: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "history up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "history down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "show result"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	out := append([]key.Binding{}, k.Shortcuts...)
	return append(out, k.ToggleTheme, k.NextFocus, k.Quit)
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.Shortcuts,
		{k.ToggleTheme, k.NextFocus, k.PrevFocus},
		{k.Up, k.Down, k.Select, k.Quit},
	}
}
