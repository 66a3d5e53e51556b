package login

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/authpanel/internal/api"
	"github.com/fragmede/authpanel/internal/ui/messages"
	"github.com/fragmede/authpanel/internal/ui/status"
)

var (
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#32CD32"))
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600")).Bold(true).
			Padding(1, 0)
)

// Authenticator opens sessions.
type Authenticator interface {
	Login(ctx context.Context, email, password string) api.Result
}

// Model is the login form view.
type Model struct {
	emailInput    textinput.Model
	passwordInput textinput.Model
	focusIndex    int
	status        status.Status
	client        Authenticator
	width         int
	height        int
}

// New creates a new login form.
func New(client Authenticator) Model {
	emailInput := textinput.New()
	emailInput.Placeholder = "email"
	emailInput.Focus()
	emailInput.Width = 30

	passwordInput := textinput.New()
	passwordInput.Placeholder = "password"
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.Width = 30

	return Model{
		emailInput:    emailInput,
		passwordInput: passwordInput,
		client:        client,
	}
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Status returns the form's status surface.
func (m Model) Status() status.Status {
	return m.status
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			if m.focusIndex == 0 {
				m.focusIndex = 1
				m.emailInput.Blur()
				return m, m.passwordInput.Focus()
			}
			m.focusIndex = 0
			m.passwordInput.Blur()
			return m, m.emailInput.Focus()
		case "enter":
			if m.status.Busy() {
				return m, nil
			}
			creds := api.Credentials{
				Email:    m.emailInput.Value(),
				Password: m.passwordInput.Value(),
			}.Trimmed()
			m.status = status.Start("Logging in...")
			client := m.client
			return m, messages.Perform(api.OpLogin, func(ctx context.Context) api.Result {
				return client.Login(ctx, creds.Email, creds.Password)
			})
		}

	case messages.ResultMsg:
		if msg.Op != api.OpLogin {
			return m, nil
		}
		if !msg.Result.OK() {
			m.status = status.Fail(msg.Result.Message())
			return m, nil
		}
		m.status = status.Succeed("Hello, " + msg.Result.Session().Field("name"))
		return m, nil
	}

	var cmd tea.Cmd
	if m.focusIndex == 0 {
		m.emailInput, cmd = m.emailInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

// View renders the login form.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Log in"))
	sb.WriteString("\n\n")
	sb.WriteString(labelStyle.Render("Email:"))
	sb.WriteString("\n")
	sb.WriteString(m.emailInput.View())
	sb.WriteString("\n\n")
	sb.WriteString(labelStyle.Render("Password:"))
	sb.WriteString("\n")
	sb.WriteString(m.passwordInput.View())
	sb.WriteString("\n\n")

	switch m.status.Kind {
	case status.Failed:
		sb.WriteString(errorStyle.Render(m.status.Text))
	case status.Succeeded:
		sb.WriteString(okStyle.Render(m.status.Text))
	case status.Pending:
		sb.WriteString(m.status.Text)
	default:
		sb.WriteString(focusedStyle.Render("Enter") + " to submit, " + focusedStyle.Render("Tab") + " to switch fields")
	}

	content := sb.String()
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
