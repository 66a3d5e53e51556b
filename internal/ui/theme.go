package ui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#FF6600")

	EmptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#828282")).
			Padding(1, 2)

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			PaddingLeft(1)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(accent)
)
