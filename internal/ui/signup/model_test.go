package signup

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fragmede/authpanel/internal/api"
	"github.com/fragmede/authpanel/internal/ui/messages"
	"github.com/fragmede/authpanel/internal/ui/status"
)

type fakeRegistrar struct {
	result api.Result
	calls  []api.Credentials
}

func (f *fakeRegistrar) Signup(_ context.Context, name, email, password string) api.Result {
	f.calls = append(f.calls, api.Credentials{Name: name, Email: email, Password: password})
	return f.result
}

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func filled(client Registrar) Model {
	m := New(client)
	m.nameInput.SetValue("  Ann ")
	m.emailInput.SetValue(" a@x.com ")
	m.passwordInput.SetValue(" pw ")
	return m
}

func TestSignup_Success(t *testing.T) {
	fake := &fakeRegistrar{result: api.Success(201, map[string]any{"name": "Ann", "email": "a@x.com"})}
	m := filled(fake)

	m, cmd := m.Update(enter)

	require.NotNil(t, cmd)
	assert.Equal(t, status.Start("Signing up..."), m.Status())
	assert.Empty(t, fake.calls, "request runs in the command, not in Update")

	m, _ = m.Update(cmd())

	assert.Equal(t, status.Succeeded, m.Status().Kind)
	assert.Equal(t, "Created: Ann (a@x.com)", m.Status().Text)
	assert.Equal(t, api.Credentials{}, m.Values())
	assert.Equal(t, fieldName, m.focused)
	assert.Equal(t, []api.Credentials{{Name: "Ann", Email: "a@x.com", Password: " pw "}}, fake.calls)
}

func TestSignup_Failure(t *testing.T) {
	fake := &fakeRegistrar{result: api.Failure(409, &api.Error{Status: 409, Message: "Email already registered!"})}
	m := filled(fake)

	m, cmd := m.Update(enter)
	m, _ = m.Update(cmd())

	assert.Equal(t, status.Fail("Email already registered!"), m.Status())
	assert.Equal(t, "Error: Email already registered!", m.Status().Text)
	assert.Equal(t, "  Ann ", m.Values().Name, "inputs are kept after a failure")
}

func TestSignup_IgnoresRetriggerWhilePending(t *testing.T) {
	fake := &fakeRegistrar{result: api.Success(201, nil)}
	m := filled(fake)

	m, first := m.Update(enter)
	m, second := m.Update(enter)

	require.NotNil(t, first)
	assert.Nil(t, second)

	m, _ = m.Update(first())
	m.nameInput.SetValue("Bob")
	_, third := m.Update(enter)
	assert.NotNil(t, third, "trigger works again once the first request resolved")
}

func TestSignup_IgnoresOtherResults(t *testing.T) {
	m := New(&fakeRegistrar{})

	m, _ = m.Update(messages.ResultMsg{Op: api.OpLogin, Result: api.Success(200, nil)})

	assert.Equal(t, status.Idle, m.Status().Kind)
}

func TestSignup_FocusCycles(t *testing.T) {
	m := New(&fakeRegistrar{})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, fieldEmail, m.focused)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, fieldPassword, m.focused)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, fieldName, m.focused)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, fieldPassword, m.focused)
}

func TestSignup_TypingGoesToFocusedField(t *testing.T) {
	m := New(&fakeRegistrar{})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Ann")})

	assert.Equal(t, "Ann", m.Values().Name)
	assert.Empty(t, m.Values().Email)
}

func TestSignup_View(t *testing.T) {
	m := New(&fakeRegistrar{})
	assert.Contains(t, m.View(), "Enter to sign up")

	m.status = status.Fail("nope")
	assert.Contains(t, m.View(), "Error: nope")
}
