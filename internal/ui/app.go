package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/fragmede/authpanel/internal/api"
	"github.com/fragmede/authpanel/internal/config"
	"github.com/fragmede/authpanel/internal/history"
	"github.com/fragmede/authpanel/internal/ui/activity"
	"github.com/fragmede/authpanel/internal/ui/login"
	"github.com/fragmede/authpanel/internal/ui/messages"
	"github.com/fragmede/authpanel/internal/ui/session"
	"github.com/fragmede/authpanel/internal/ui/signup"
	"github.com/fragmede/authpanel/internal/ui/statusbar"
)

// Panel names, also used as redirect targets.
const (
	PanelSignup   = "signup"
	PanelLogin    = "login"
	PanelSession  = "session"
	PanelActivity = "activity"
)

// AuthClient is everything the panels need from the auth endpoint.
type AuthClient interface {
	signup.Registrar
	login.Authenticator
	session.Backend
	BaseURL() string
}

// App is the root Bubble Tea model. Each panel exists only when one of its
// surfaces is configured, and keys reach only panels that exist.
type App struct {
	panels []string
	active int

	signupForm   signup.Model
	loginForm    login.Model
	sessionPanel session.Model
	activityLog  activity.Model
	statusBar    statusbar.Model

	cfg     config.Config
	history *history.DB
	log     zerolog.Logger

	width  int
	height int
}

// NewApp creates the root application model. db may be nil, in which case
// nothing is recorded and the activity panel is absent.
func NewApp(cfg config.Config, client AuthClient, db *history.DB, log zerolog.Logger) *App {
	a := &App{
		cfg:     cfg,
		history: db,
		log:     log,
	}

	if cfg.Has(config.SurfaceSignup) {
		a.panels = append(a.panels, PanelSignup)
		a.signupForm = signup.New(client)
	}
	if cfg.Has(config.SurfaceLogin) {
		a.panels = append(a.panels, PanelLogin)
		a.loginForm = login.New(client)
	}
	me, logout := cfg.Has(config.SurfaceMe), cfg.Has(config.SurfaceLogout)
	if me || logout {
		a.panels = append(a.panels, PanelSession)
		a.sessionPanel = session.New(client, me, logout)
	}
	if db != nil {
		a.panels = append(a.panels, PanelActivity)
		a.activityLog = activity.New(db)
		a.activityLog.Load()
	}

	if cfg.Redirect.After > 0 && !a.has(cfg.Redirect.To) {
		log.Warn().Str("to", cfg.Redirect.To).Msg("redirect target is not a present panel; redirect disabled")
		a.cfg.Redirect.After = 0
	}

	a.statusBar = statusbar.New(a.panels, client.BaseURL())
	log.Info().Strs("panels", a.panels).Str("base_url", client.BaseURL()).Msg("panels wired")
	return a
}

// Init starts the application.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// ActivePanel returns the name of the panel in front, or "" when none exist.
func (a *App) ActivePanel() string {
	if len(a.panels) == 0 {
		return ""
	}
	return a.panels[a.active]
}

// Panels returns the present panels in tab order.
func (a *App) Panels() []string {
	return a.panels
}

func (a *App) has(panel string) bool {
	return slices.Contains(a.panels, panel)
}

func (a *App) inForm() bool {
	p := a.ActivePanel()
	return p == PanelSignup || p == PanelLogin
}

// Update handles all messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		contentHeight := msg.Height - 2 // status bar and help line
		for _, p := range a.panels {
			switch p {
			case PanelSignup:
				a.signupForm.SetSize(msg.Width, contentHeight)
			case PanelLogin:
				a.loginForm.SetSize(msg.Width, contentHeight)
			case PanelSession:
				a.sessionPanel.SetSize(msg.Width, contentHeight)
			case PanelActivity:
				a.activityLog.SetSize(msg.Width, contentHeight)
			}
		}
		a.statusBar.SetSize(msg.Width)
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, Keys.ForceQuit):
			return a, tea.Quit
		case key.Matches(msg, Keys.NextPanel):
			return a, a.cycle(1)
		case key.Matches(msg, Keys.PrevPanel):
			return a, a.cycle(-1)
		}
		if !a.inForm() {
			switch {
			case key.Matches(msg, Keys.Quit):
				return a, tea.Quit
			case key.Matches(msg, Keys.Tab):
				return a, a.cycle(1)
			case key.Matches(msg, Keys.ShiftTab):
				return a, a.cycle(-1)
			}
		}
		return a, a.updateActive(msg)

	case messages.ResultMsg:
		return a, a.handleResult(msg)

	case messages.NavigateMsg:
		if i := slices.Index(a.panels, msg.Panel); i >= 0 {
			a.show(i)
		}
		return a, nil
	}

	return a, a.updateActive(msg)
}

// handleResult records the outcome and hands it to the panel that owns the
// operation, whichever panel is in front.
func (a *App) handleResult(msg messages.ResultMsg) tea.Cmd {
	res := msg.Result
	ev := a.log.Info()
	if !res.OK() {
		ev = a.log.Warn().Str("message", res.Message())
	}
	ev.Str("op", string(msg.Op)).
		Bool("ok", res.OK()).
		Int("status", res.Status).
		Dur("elapsed", msg.Elapsed).
		Msg("operation finished")

	if err := a.history.Record(history.Entry{
		Operation: string(msg.Op),
		OK:        res.OK(),
		Status:    res.Status,
		Message:   res.Message(),
		Duration:  msg.Elapsed,
	}); err != nil {
		a.log.Error().Err(err).Msg("recording activity")
	}
	if a.has(PanelActivity) {
		a.activityLog.Load()
	}

	if res.OK() {
		a.statusBar.SetStatus(fmt.Sprintf("%s ok", msg.Op), false)
	} else {
		a.statusBar.SetStatus(fmt.Sprintf("%s failed", msg.Op), true)
	}

	var cmd tea.Cmd
	switch msg.Op {
	case api.OpSignup:
		a.signupForm, cmd = a.signupForm.Update(msg)
	case api.OpLogin:
		a.loginForm, cmd = a.loginForm.Update(msg)
	case api.OpMe, api.OpLogout:
		a.sessionPanel, cmd = a.sessionPanel.Update(msg)
	}

	if res.OK() && a.cfg.Redirect.After > 0 && (msg.Op == api.OpSignup || msg.Op == api.OpLogin) {
		return tea.Batch(cmd, messages.RedirectAfter(a.cfg.Redirect.After, a.cfg.Redirect.To))
	}
	return cmd
}

func (a *App) updateActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.ActivePanel() {
	case PanelSignup:
		a.signupForm, cmd = a.signupForm.Update(msg)
	case PanelLogin:
		a.loginForm, cmd = a.loginForm.Update(msg)
	case PanelSession:
		a.sessionPanel, cmd = a.sessionPanel.Update(msg)
	case PanelActivity:
		a.activityLog, cmd = a.activityLog.Update(msg)
	}
	return cmd
}

func (a *App) cycle(delta int) tea.Cmd {
	if len(a.panels) == 0 {
		return nil
	}
	a.show((a.active + delta + len(a.panels)) % len(a.panels))
	return nil
}

func (a *App) show(i int) {
	a.active = i
	a.statusBar.SetActiveTab(a.panels[i])
	if a.panels[i] == PanelActivity {
		a.activityLog.Load()
	}
}

// View renders the application.
func (a *App) View() string {
	var content string
	switch a.ActivePanel() {
	case PanelSignup:
		content = a.signupForm.View()
	case PanelLogin:
		content = a.loginForm.View()
	case PanelSession:
		content = a.sessionPanel.View()
	case PanelActivity:
		content = a.activityLog.View()
	default:
		content = EmptyStyle.Render("No surfaces configured. Press q to quit.")
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, a.helpLine(), a.statusBar.View())
}

func (a *App) helpLine() string {
	var parts []string
	add := func(b key.Binding) {
		h := b.Help()
		parts = append(parts, HelpKeyStyle.Render(h.Key)+" "+h.Desc)
	}
	if len(a.panels) > 1 {
		add(Keys.NextPanel)
	}
	if !a.inForm() {
		add(Keys.Quit)
	} else {
		add(Keys.ForceQuit)
	}
	return HelpStyle.Render(strings.Join(parts, " • "))
}
