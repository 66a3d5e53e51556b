package activity

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/fragmede/authpanel/internal/history"
	"github.com/fragmede/authpanel/internal/render"
)

const (
	pageSize        = 50
	maxMessageWidth = 83
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600")).Bold(true).Padding(1, 0)
	rowStyle      = lipgloss.NewStyle().Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("#333333")).Padding(0, 1)
	opStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600")).Bold(true).Width(8)
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#32CD32"))
	failStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	metaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// Source lists recorded activity.
type Source interface {
	Recent(limit int) ([]history.Entry, error)
}

// Model is the activity panel.
type Model struct {
	entries     []history.Entry
	err         string
	selectedIdx int
	src         Source
	width       int
	height      int
}

// New creates a new activity panel.
func New(src Source) Model {
	return Model{src: src}
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Load refreshes the list from the activity log.
func (m *Model) Load() {
	entries, err := m.src.Recent(pageSize)
	if err != nil {
		m.err = err.Error()
		return
	}
	m.err = ""
	m.entries = entries
	if m.selectedIdx >= len(m.entries) {
		m.selectedIdx = max(len(m.entries)-1, 0)
	}
}

// Entries returns the loaded entries, newest first.
func (m Model) Entries() []history.Entry {
	return m.entries
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.selectedIdx < len(m.entries)-1 {
				m.selectedIdx++
			}
		case "k", "up":
			if m.selectedIdx > 0 {
				m.selectedIdx--
			}
		case "r":
			m.Load()
		}
	}
	return m, nil
}

// View renders the activity list.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Activity"))
	sb.WriteString("\n")

	if m.err != "" {
		sb.WriteString(failStyle.Render("Error: " + m.err))
		return sb.String()
	}
	if len(m.entries) == 0 {
		sb.WriteString("\n  No activity yet.\n")
		return sb.String()
	}

	for i, e := range m.entries {
		var line strings.Builder
		line.WriteString(opStyle.Render(e.Operation))
		if e.OK {
			line.WriteString(okStyle.Render("ok    "))
		} else {
			line.WriteString(failStyle.Render("failed"))
		}
		status := "-"
		if e.Status != 0 {
			status = fmt.Sprintf("%d", e.Status)
		}
		line.WriteString(metaStyle.Render(fmt.Sprintf("  %s  %s  %s", status, e.Duration, render.TimeAgo(e.CreatedAt))))
		if e.Message != "" {
			line.WriteString("\n  " + failStyle.Render(ansi.Truncate(e.Message, maxMessageWidth, "...")))
		}

		entry := line.String()
		if i == m.selectedIdx {
			entry = selectedStyle.Render(entry)
		} else {
			entry = rowStyle.Render(entry)
		}
		sb.WriteString(entry + "\n")
	}

	return sb.String()
}
