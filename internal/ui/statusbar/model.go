package statusbar

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	barStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#FFFFFF"))

	activeTabStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#FF6600")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("#555555")).
				Foreground(lipgloss.Color("#CCCCCC")).
				Padding(0, 1)

	hostStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#00FF00")).
			Padding(0, 1)

	statusTextStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#AAAAAA")).
			Padding(0, 1)

	errorTextStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#8B0000")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)
)

// Model is the status bar at the bottom of the screen.
type Model struct {
	width      int
	tabs       []string
	active     string
	host       string
	statusText string
	isError    bool
}

// New creates a new status bar for the given panel tabs.
func New(tabs []string, host string) Model {
	m := Model{tabs: tabs, host: host}
	if len(tabs) > 0 {
		m.active = tabs[0]
	}
	return m
}

// SetSize sets the width.
func (m *Model) SetSize(w int) {
	m.width = w
}

// SetActiveTab marks a panel tab as active.
func (m *Model) SetActiveTab(tab string) {
	m.active = tab
}

// SetStatus sets the last status message.
func (m *Model) SetStatus(text string, isError bool) {
	m.statusText = text
	m.isError = isError
}

// StatusText returns the last status message.
func (m Model) StatusText() string {
	return m.statusText
}

// Update is a no-op for the status bar.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the status bar.
func (m Model) View() string {
	var tabsStr string
	for _, t := range m.tabs {
		if t == m.active {
			tabsStr += activeTabStyle.Render(t)
		} else {
			tabsStr += inactiveTabStyle.Render(t)
		}
	}

	var right string
	if m.statusText != "" {
		if m.isError {
			right += errorTextStyle.Render(m.statusText)
		} else {
			right += statusTextStyle.Render(m.statusText)
		}
	}
	if m.host != "" {
		right += hostStyle.Render(m.host)
	}

	tabsWidth := lipgloss.Width(tabsStr)
	rightWidth := lipgloss.Width(right)
	gap := m.width - tabsWidth - rightWidth
	if gap < 0 {
		gap = 0
	}
	mid := barStyle.Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, tabsStr, mid, right)
}
