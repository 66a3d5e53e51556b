package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/authpanel/internal/api"
	"github.com/fragmede/authpanel/internal/render"
	"github.com/fragmede/authpanel/internal/ui/messages"
	"github.com/fragmede/authpanel/internal/ui/status"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600")).Bold(true).Padding(1, 0)
	buttonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#555555")).Padding(0, 1)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	frameStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#555555")).Padding(0, 1)
)

var (
	meKey     = key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "who am i"))
	logoutKey = key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "log out"))
)

// Backend reads and ends the current session.
type Backend interface {
	CurrentSession(ctx context.Context) api.Result
	Logout(ctx context.Context) api.Result
}

// Model is the session panel: an output surface plus optional "me" and
// "logout" buttons. Both buttons write to the same output.
type Model struct {
	output      viewport.Model
	status      status.Status
	client      Backend
	meWired     bool
	logoutWired bool
	meBusy      bool
	logoutBusy  bool
	width       int
	height      int
}

// New creates the session panel. A button that is not wired ignores its key.
func New(client Backend, me, logout bool) Model {
	return Model{
		output:      viewport.New(60, 10),
		client:      client,
		meWired:     me,
		logoutWired: logout,
	}
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.output.Width = max(w-8, 20)
	m.output.Height = max(h-10, 3)
	m.refresh()
}

// Status returns the output surface.
func (m Model) Status() status.Status {
	return m.status
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, meKey):
			if !m.meWired || m.meBusy {
				return m, nil
			}
			m.meBusy = true
			m.setStatus(status.Start("Loading..."))
			return m, messages.Perform(api.OpMe, m.client.CurrentSession)
		case key.Matches(msg, logoutKey):
			if !m.logoutWired || m.logoutBusy {
				return m, nil
			}
			m.logoutBusy = true
			m.setStatus(status.Start("Logging out..."))
			return m, messages.Perform(api.OpLogout, m.client.Logout)
		}

	case messages.ResultMsg:
		switch msg.Op {
		case api.OpMe:
			m.meBusy = false
			if msg.Result.OK() {
				m.setStatus(status.Succeed(PrettyJSON(msg.Result.Payload)))
			} else {
				m.setStatus(status.Fail(msg.Result.Message()))
			}
		case api.OpLogout:
			m.logoutBusy = false
			if msg.Result.OK() {
				m.setStatus(status.Succeed("Logged out"))
			} else {
				m.setStatus(status.Fail(msg.Result.Message()))
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.output, cmd = m.output.Update(msg)
	return m, cmd
}

func (m *Model) setStatus(s status.Status) {
	m.status = s
	m.refresh()
}

func (m *Model) refresh() {
	text := m.status.Text
	if m.status.Kind == status.Failed {
		text = errorStyle.Render(render.Wrap(text, m.output.Width))
	}
	m.output.SetContent(text)
	m.output.GotoTop()
}

// PrettyJSON renders a payload as two-space indented JSON.
func PrettyJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// View renders the session panel.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Session"))
	sb.WriteString("\n")

	var buttons []string
	if m.meWired {
		buttons = append(buttons, buttonStyle.Render("m  Who am I"))
	}
	if m.logoutWired {
		buttons = append(buttons, buttonStyle.Render("o  Log out"))
	}
	sb.WriteString(strings.Join(buttons, "  "))
	sb.WriteString("\n\n")

	if m.status.Kind == status.Idle {
		sb.WriteString(frameStyle.Render(hintStyle.Render("No output yet.")))
	} else {
		sb.WriteString(frameStyle.Render(m.output.View()))
	}

	content := sb.String()
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Top, content)
}
