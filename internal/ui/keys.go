package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	ForceQuit key.Binding
	Quit      key.Binding
	NextPanel key.Binding
	PrevPanel key.Binding
	Tab       key.Binding
	ShiftTab  key.Binding
}

// Tab and ShiftTab switch panels only outside forms, where they move
// between fields instead.
var Keys = KeyMap{
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	NextPanel: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "next panel")),
	PrevPanel: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "previous panel")),
	Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next panel")),
	ShiftTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous panel")),
}
