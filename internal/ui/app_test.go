package ui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fragmede/authpanel/internal/api"
	"github.com/fragmede/authpanel/internal/config"
	"github.com/fragmede/authpanel/internal/history"
	"github.com/fragmede/authpanel/internal/ui/messages"
	"github.com/fragmede/authpanel/internal/ui/status"
)

type fakeAuth struct {
	signup, login, me, logout api.Result
}

func (f *fakeAuth) BaseURL() string { return "http://auth.test" }

func (f *fakeAuth) Signup(context.Context, string, string, string) api.Result { return f.signup }
func (f *fakeAuth) Login(context.Context, string, string) api.Result          { return f.login }
func (f *fakeAuth) CurrentSession(context.Context) api.Result                 { return f.me }
func (f *fakeAuth) Logout(context.Context) api.Result                         { return f.logout }

func testConfig(surfaces ...string) config.Config {
	cfg := config.Default()
	cfg.Surfaces = surfaces
	return cfg
}

func press(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain runs cmd and any batched commands it expands to, returning every
// message produced.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func send(a *App, msg tea.Msg) tea.Cmd {
	_, cmd := a.Update(msg)
	return cmd
}

func TestNewApp_WiresPresentSurfacesOnly(t *testing.T) {
	tests := []struct {
		name     string
		surfaces []string
		want     []string
	}{
		{"all", []string{"signup", "login", "me", "logout"}, []string{PanelSignup, PanelLogin, PanelSession}},
		{"forms only", []string{"signup", "login"}, []string{PanelSignup, PanelLogin}},
		{"logout button only", []string{"logout"}, []string{PanelSession}},
		{"nothing", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewApp(testConfig(tt.surfaces...), &fakeAuth{}, nil, zerolog.Nop())

			assert.Equal(t, tt.want, a.Panels())
		})
	}
}

func TestApp_NoSurfaces(t *testing.T) {
	a := NewApp(testConfig(), &fakeAuth{}, nil, zerolog.Nop())

	assert.Equal(t, "", a.ActivePanel())
	assert.Nil(t, send(a, press("m")))
	assert.Nil(t, send(a, press("ctrl+n")))
	assert.Contains(t, a.View(), "No surfaces configured")
	assert.Equal(t, tea.QuitMsg{}, send(a, press("q"))())
}

func TestApp_WithoutSessionSurfacesSessionKeysDoNothing(t *testing.T) {
	fake := &fakeAuth{me: api.Success(200, map[string]any{"email": "a@x.com"})}
	a := NewApp(testConfig("login"), fake, nil, zerolog.Nop())

	send(a, press("m"))
	send(a, press("o"))

	assert.Equal(t, PanelLogin, a.ActivePanel())
	assert.Equal(t, status.Idle, a.loginForm.Status().Kind)
	assert.Equal(t, status.Idle, a.sessionPanel.Status().Kind)
}

func TestApp_LoginFlow(t *testing.T) {
	fake := &fakeAuth{login: api.Success(200, map[string]any{"name": "Ann"})}
	a := NewApp(testConfig("login"), fake, nil, zerolog.Nop())

	send(a, press("a@x.com"))
	send(a, press("tab"))
	send(a, press("pw"))
	cmd := send(a, press("enter"))
	assert.Equal(t, "Logging in...", a.loginForm.Status().Text)

	for _, msg := range drain(cmd) {
		send(a, msg)
	}

	assert.Equal(t, "Hello, Ann", a.loginForm.Status().Text)
	assert.Equal(t, "login ok", a.statusBar.StatusText())
}

func TestApp_FormsSwallowQuitKey(t *testing.T) {
	a := NewApp(testConfig("login", "me"), &fakeAuth{}, nil, zerolog.Nop())

	send(a, press("q"))
	assert.Equal(t, PanelLogin, a.ActivePanel())

	send(a, press("ctrl+n"))
	assert.Equal(t, PanelSession, a.ActivePanel())
	assert.Equal(t, tea.QuitMsg{}, send(a, press("q"))())
}

func TestApp_TabSwitchesPanelsOutsideForms(t *testing.T) {
	a := NewApp(testConfig("signup", "me"), &fakeAuth{}, nil, zerolog.Nop())

	send(a, press("tab"))
	assert.Equal(t, PanelSignup, a.ActivePanel(), "tab moves between fields inside a form")

	send(a, press("ctrl+n"))
	assert.Equal(t, PanelSession, a.ActivePanel())

	send(a, press("tab"))
	assert.Equal(t, PanelSignup, a.ActivePanel())
}

func TestApp_ResultsReachOwningPanel(t *testing.T) {
	fake := &fakeAuth{signup: api.Success(201, map[string]any{"name": "Ann", "email": "a@x.com"})}
	a := NewApp(testConfig("signup", "me", "logout"), fake, nil, zerolog.Nop())

	cmd := send(a, press("enter"))
	send(a, press("ctrl+n"))
	require.Equal(t, PanelSession, a.ActivePanel())

	for _, msg := range drain(cmd) {
		send(a, msg)
	}

	assert.Equal(t, "Created: Ann (a@x.com)", a.signupForm.Status().Text)
	assert.Equal(t, status.Idle, a.sessionPanel.Status().Kind)
}

func TestApp_SessionPanel(t *testing.T) {
	fake := &fakeAuth{
		me:     api.Failure(401, &api.Error{Status: 401, Message: "Not logged in!"}),
		logout: api.Success(200, "Logged out!"),
	}
	a := NewApp(testConfig("me", "logout"), fake, nil, zerolog.Nop())

	for _, msg := range drain(send(a, press("m"))) {
		send(a, msg)
	}
	assert.Equal(t, "Error: Not logged in!", a.sessionPanel.Status().Text)
	assert.Equal(t, "me failed", a.statusBar.StatusText())

	for _, msg := range drain(send(a, press("o"))) {
		send(a, msg)
	}
	assert.Equal(t, "Logged out", a.sessionPanel.Status().Text)
}

func TestApp_RedirectAfterLogin(t *testing.T) {
	cfg := testConfig("login", "me")
	cfg.Redirect = config.Redirect{After: time.Millisecond, To: PanelSession}
	fake := &fakeAuth{login: api.Success(200, map[string]any{"name": "Ann"})}
	a := NewApp(cfg, fake, nil, zerolog.Nop())

	var navigated bool
	pending := drain(send(a, press("enter")))
	for len(pending) > 0 {
		msg := pending[0]
		pending = pending[1:]
		if _, ok := msg.(messages.NavigateMsg); ok {
			navigated = true
		}
		pending = append(pending, drain(send(a, msg))...)
	}

	assert.True(t, navigated)
	assert.Equal(t, PanelSession, a.ActivePanel())
}

func TestApp_NoRedirectAfterFailure(t *testing.T) {
	cfg := testConfig("login", "me")
	cfg.Redirect = config.Redirect{After: time.Millisecond, To: PanelSession}
	fake := &fakeAuth{login: api.Failure(401, &api.Error{Status: 401, Message: "bad credentials"})}
	a := NewApp(cfg, fake, nil, zerolog.Nop())

	for _, msg := range drain(send(a, press("enter"))) {
		assert.Nil(t, send(a, msg))
	}

	assert.Equal(t, PanelLogin, a.ActivePanel())
	assert.Equal(t, "Error: bad credentials", a.loginForm.Status().Text)
}

func TestApp_RedirectToMissingPanelIsDisabled(t *testing.T) {
	cfg := testConfig("login")
	cfg.Redirect = config.Redirect{After: time.Millisecond, To: PanelSession}
	fake := &fakeAuth{login: api.Success(200, map[string]any{"name": "Ann"})}
	a := NewApp(cfg, fake, nil, zerolog.Nop())

	for _, msg := range drain(send(a, press("enter"))) {
		assert.Nil(t, send(a, msg))
	}
	assert.Equal(t, PanelLogin, a.ActivePanel())
}

func TestApp_RecordsActivity(t *testing.T) {
	db, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer db.Close()

	fake := &fakeAuth{
		login: api.Failure(401, &api.Error{Status: 401, Message: "bad credentials"}),
		me:    api.Success(200, map[string]any{"email": "a@x.com"}),
	}
	a := NewApp(testConfig("login", "me"), fake, db, zerolog.Nop())
	assert.Equal(t, []string{PanelLogin, PanelSession, PanelActivity}, a.Panels())

	for _, msg := range drain(send(a, press("enter"))) {
		send(a, msg)
	}
	send(a, press("ctrl+n"))
	for _, msg := range drain(send(a, press("m"))) {
		send(a, msg)
	}

	entries, err := db.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	ops := []string{entries[0].Operation, entries[1].Operation}
	assert.ElementsMatch(t, []string{"login", "me"}, ops)
	for _, e := range entries {
		if e.Operation == "login" {
			assert.Equal(t, "bad credentials", e.Message)
			assert.Equal(t, 401, e.Status)
		} else {
			assert.True(t, e.OK)
			assert.Empty(t, e.Message)
		}
	}
	assert.Len(t, a.activityLog.Entries(), 2)

	send(a, press("ctrl+n"))
	assert.Equal(t, PanelActivity, a.ActivePanel())
	assert.Contains(t, a.View(), "bad credentials")
}

func TestApp_WindowResize(t *testing.T) {
	a := NewApp(testConfig("signup", "login", "me"), &fakeAuth{}, nil, zerolog.Nop())

	assert.Nil(t, send(a, tea.WindowSizeMsg{Width: 100, Height: 30}))
	assert.NotPanics(t, func() { _ = a.View() })
}

func TestApp_ForceQuitInForm(t *testing.T) {
	a := NewApp(testConfig("signup"), &fakeAuth{}, nil, zerolog.Nop())

	assert.Equal(t, tea.QuitMsg{}, send(a, press("ctrl+c"))())
}

func TestApp_StatusBarShowsClientHost(t *testing.T) {
	a := NewApp(testConfig("login"), &fakeAuth{}, nil, zerolog.Nop())

	assert.Contains(t, a.View(), "http://auth.test")
}
