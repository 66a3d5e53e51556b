package signup

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/authpanel/internal/api"
	"github.com/fragmede/authpanel/internal/ui/messages"
	"github.com/fragmede/authpanel/internal/ui/status"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true).Width(10)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#32CD32"))
)

// Registrar creates accounts.
type Registrar interface {
	Signup(ctx context.Context, name, email, password string) api.Result
}

type field int

const (
	fieldName field = iota
	fieldEmail
	fieldPassword
	fieldCount
)

// Model is the signup form.
type Model struct {
	nameInput     textinput.Model
	emailInput    textinput.Model
	passwordInput textinput.Model
	focused       field
	status        status.Status
	client        Registrar
	width         int
	height        int
}

// New creates a new signup form.
func New(client Registrar) Model {
	ni := textinput.New()
	ni.Placeholder = "name"
	ni.Focus()
	ni.Width = 30

	ei := textinput.New()
	ei.Placeholder = "email"
	ei.Width = 30

	pi := textinput.New()
	pi.Placeholder = "password"
	pi.EchoMode = textinput.EchoPassword
	pi.Width = 30

	return Model{
		nameInput:     ni,
		emailInput:    ei,
		passwordInput: pi,
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

// Values returns the current input contents.
func (m Model) Values() api.Credentials {
	return api.Credentials{
		Name:     m.nameInput.Value(),
		Email:    m.emailInput.Value(),
		Password: m.passwordInput.Value(),
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			m.focused = (m.focused + 1) % fieldCount
			return m, m.updateFocus()
		case "shift+tab", "up":
			m.focused = (m.focused + fieldCount - 1) % fieldCount
			return m, m.updateFocus()
		case "enter":
			// Enter always belongs to the form, even when it is ignored.
			if m.status.Busy() {
				return m, nil
			}
			creds := m.Values().Trimmed()
			m.status = status.Start("Signing up...")
			client := m.client
			return m, messages.Perform(api.OpSignup, func(ctx context.Context) api.Result {
				return client.Signup(ctx, creds.Name, creds.Email, creds.Password)
			})
		}

	case messages.ResultMsg:
		if msg.Op != api.OpSignup {
			return m, nil
		}
		if !msg.Result.OK() {
			m.status = status.Fail(msg.Result.Message())
			return m, nil
		}
		info := msg.Result.Session()
		m.status = status.Succeed(fmt.Sprintf("Created: %s (%s)", info.Field("name"), info.Field("email")))
		return m, m.reset()
	}

	var cmd tea.Cmd
	switch m.focused {
	case fieldName:
		m.nameInput, cmd = m.nameInput.Update(msg)
	case fieldEmail:
		m.emailInput, cmd = m.emailInput.Update(msg)
	case fieldPassword:
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

// reset clears every input and returns focus to the name field.
func (m *Model) reset() tea.Cmd {
	m.nameInput.Reset()
	m.emailInput.Reset()
	m.passwordInput.Reset()
	m.focused = fieldName
	return m.updateFocus()
}

func (m *Model) updateFocus() tea.Cmd {
	m.nameInput.Blur()
	m.emailInput.Blur()
	m.passwordInput.Blur()
	switch m.focused {
	case fieldName:
		return m.nameInput.Focus()
	case fieldEmail:
		return m.emailInput.Focus()
	case fieldPassword:
		return m.passwordInput.Focus()
	}
	return nil
}

// View renders the signup form.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Create account"))
	sb.WriteString("\n\n")
	sb.WriteString(labelStyle.Render("Name") + " " + m.nameInput.View())
	sb.WriteString("\n\n")
	sb.WriteString(labelStyle.Render("Email") + " " + m.emailInput.View())
	sb.WriteString("\n\n")
	sb.WriteString(labelStyle.Render("Password") + " " + m.passwordInput.View())
	sb.WriteString("\n\n")

	switch m.status.Kind {
	case status.Failed:
		sb.WriteString(errorStyle.Render(m.status.Text))
	case status.Succeeded:
		sb.WriteString(okStyle.Render(m.status.Text))
	case status.Pending:
		sb.WriteString(m.status.Text)
	default:
		sb.WriteString(hintStyle.Render("Tab to switch fields | Enter to sign up"))
	}

	content := sb.String()
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
