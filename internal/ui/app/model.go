// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/credexa/credexa-tui/internal/api"
	"github.com/credexa/credexa-tui/internal/clock"
	"github.com/credexa/credexa-tui/internal/credstore"
	"github.com/credexa/credexa-tui/internal/locale"
	"github.com/credexa/credexa-tui/internal/session"
	"github.com/credexa/credexa-tui/internal/terms"
	"github.com/credexa/credexa-tui/internal/token"
	"github.com/credexa/credexa-tui/internal/ui/components"
	"github.com/credexa/credexa-tui/internal/ui/styles"
)

// =============================================================================
// SCREENS
// =============================================================================

// Screen identifies the visible page.
type Screen int

const (
	ScreenLanding Screen = iota
	ScreenLogin
	ScreenSignup
	ScreenDashboard
)

// String returns a string representation of the Screen.
func (s Screen) String() string {
	switch s {
	case ScreenLanding:
		return "landing"
	case ScreenLogin:
		return "login"
	case ScreenSignup:
		return "signup"
	case ScreenDashboard:
		return "dashboard"
	default:
		return "unknown"
	}
}

// MockBalance is the amount shown on the dashboard preview.
const MockBalance = 120450

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// Deps are the collaborators the model drives. Store and Client are required.
type Deps struct {
	Store   *credstore.Store
	Client  *api.Client
	Clock   clock.Clock
	Session session.Config
	Theme   *styles.Theme
	// Watcher is optional; when set, external store changes refresh the
	// preferences and detect sign-out from another process.
	Watcher *credstore.Watcher
}

// Model is the root Bubble Tea model.
type Model struct {
	store   *credstore.Store
	client  *api.Client
	clk     clock.Clock
	sessCfg session.Config
	theme   *styles.Theme
	watcher *credstore.Watcher

	// send delivers messages from timer goroutines into the program.
	send func(tea.Msg)

	keys KeyMap
	help help.Model

	screen Screen
	width  int
	height int
	busy   bool

	locale   locale.Locale
	currency locale.Currency
	tr       *locale.Translator

	header  *components.Header
	banner  components.Banner
	balance *components.BalanceCard
	modal   components.TimeoutModal
	notice  components.Notice

	login  form
	signup form

	showTerms bool
	termsView string

	bank       *api.BankConfig
	username   string
	user       *api.User
	info       *token.Info
	controller *session.Controller
}

// newHelp styles the key hint line with the theme's shortcut styles.
func newHelp(theme *styles.Theme) help.Model {
	h := help.New()
	h.Styles.ShortKey = theme.ShortcutKey
	h.Styles.ShortDesc = theme.ShortcutDesc
	h.Styles.FullKey = theme.ShortcutKey
	h.Styles.FullDesc = theme.ShortcutDesc
	return h
}

// New creates the model. The first screen is the dashboard when a session is
// already stored, the landing page otherwise.
func New(d Deps) *Model {
	clk := d.Clock
	if clk == nil {
		clk = clock.Real()
	}
	theme := d.Theme
	if theme == nil {
		theme = styles.NewTheme(styles.ModeAuto)
	}
	cfg := d.Session
	if cfg.QuietDuration <= 0 {
		cfg = session.DefaultConfig()
	}

	loc := d.Store.Locale()
	cur := d.Store.Currency()
	tr := locale.NewTranslator(loc)

	m := &Model{
		store:    d.Store,
		client:   d.Client,
		clk:      clk,
		sessCfg:  cfg,
		theme:    theme,
		watcher:  d.Watcher,
		keys:     DefaultKeyMap(),
		help:     newHelp(theme),
		screen:   ScreenLanding,
		locale:   loc,
		currency: cur,
		tr:       tr,
		header:   components.NewHeader(theme),
		banner:   components.NewBanner(theme, "Credexa"),
		balance:  components.NewBalanceCard(theme, tr, MockBalance),
		modal:    components.NewTimeoutModal(tr),
		login:    newLoginForm(),
		signup:   newSignupForm(),
	}
	m.header.SetPreferences(loc, cur)
	m.balance.Currency = cur

	if d.Store.HasSession() {
		m.screen = ScreenDashboard
	}
	return m
}

// SetSender sets the function used to deliver session events. It must be
// called before the program starts.
func (m *Model) SetSender(send func(tea.Msg)) {
	m.send = send
}

// Screen returns the visible screen.
func (m *Model) Screen() Screen {
	return m.screen
}

// SessionState returns the timeout state shown by the modal.
func (m *Model) SessionState() session.State {
	return m.modal.State()
}

// Close tears down the session controller.
func (m *Model) Close() {
	m.stopSession()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.fetchBankConfig()}
	if m.watcher != nil {
		cmds = append(cmds, waitForChange(m.watcher))
	}
	if m.screen == ScreenDashboard {
		cmds = append(cmds, m.enterDashboard(""))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.header.SetWidth(msg.Width)
		m.banner.SetWidth(msg.Width)
		m.modal.SetSize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		m.termsView = ""
		return m, nil

	case tea.KeyMsg:
		m.recordActivity()
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.recordActivity()
		return m, nil

	case sessionChangedMsg:
		if m.controller != nil && msg.ctrl == m.controller {
			m.modal.SetState(m.controller.State())
		}
		return m, nil

	case sessionExpiredMsg:
		if m.controller == nil || msg.ctrl != m.controller {
			return m, nil
		}
		return m.handleExpired()

	case prefsChangedMsg:
		return m.handlePrefsChanged()

	case bankConfigMsg:
		if msg.err != nil {
			log.Debug().Err(msg.err).Msg("bank config unavailable")
			return m, nil
		}
		m.bank = msg.cfg
		return m, nil

	case loginResultMsg:
		return m.handleLoginResult(msg)

	case registerResultMsg:
		return m.handleRegisterResult(msg)

	case profileMsg:
		return m.handleProfile(msg)

	case logoutDoneMsg:
		m.busy = false
		if msg.err != nil {
			log.Warn().Err(msg.err).Msg("logout request failed")
		}
		return m, m.toLogin()

	case components.NoticeExpiredMsg:
		if msg.ID == m.notice.ID {
			m.notice = components.Notice{}
		}
		return m, nil
	}

	return m, m.updateActiveForm(msg)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.Close()
		return m, tea.Quit
	}

	// The countdown modal captures input until dismissed.
	if m.modal.IsVisible() {
		if key.Matches(msg, m.keys.Stay) && m.controller != nil {
			m.controller.Stay()
			m.modal.SetState(m.controller.State())
		}
		return m, nil
	}

	if m.showTerms {
		if key.Matches(msg, m.keys.Back, m.keys.Terms, m.keys.Submit) {
			m.showTerms = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Currency):
		return m, m.cycleCurrency()
	case key.Matches(msg, m.keys.Language):
		return m, m.toggleLanguage()
	}

	switch m.screen {
	case ScreenLanding:
		return m.handleLandingKey(msg)
	case ScreenLogin:
		return m.handleLoginKey(msg)
	case ScreenSignup:
		return m.handleSignupKey(msg)
	case ScreenDashboard:
		return m.handleDashboardKey(msg)
	}
	return m, nil
}

func (m *Model) handleLandingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m, m.toLogin()
	case key.Matches(msg, m.keys.Signup):
		return m, m.toSignup()
	}
	return m, nil
}

func (m *Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.screen = ScreenLanding
		return m, nil
	case key.Matches(msg, m.keys.Signup):
		return m, m.toSignup()
	case key.Matches(msg, m.keys.Next):
		return m, m.login.next()
	case key.Matches(msg, m.keys.Prev):
		return m, m.login.prev()
	case key.Matches(msg, m.keys.Submit):
		return m, m.submitLogin()
	}
	return m, m.login.update(msg)
}

func (m *Model) handleSignupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, m.toLogin()
	case key.Matches(msg, m.keys.Terms):
		m.showTerms = true
		return m, nil
	case key.Matches(msg, m.keys.Next):
		return m, m.signup.next()
	case key.Matches(msg, m.keys.Prev):
		return m, m.signup.prev()
	case m.signup.onCheckbox() && key.Matches(msg, m.keys.Toggle):
		m.signup.toggle()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		return m, m.submitSignup()
	}
	return m, m.signup.update(msg)
}

func (m *Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Logout) && !m.busy {
		m.busy = true
		m.stopSession()
		return m, m.logoutCmd()
	}
	return m, nil
}

func (m *Model) updateActiveForm(msg tea.Msg) tea.Cmd {
	switch m.screen {
	case ScreenLogin:
		return m.login.update(msg)
	case ScreenSignup:
		return m.signup.update(msg)
	}
	return nil
}

// =============================================================================
// NAVIGATION
// =============================================================================

func (m *Model) toLogin() tea.Cmd {
	m.screen = ScreenLogin
	m.username = ""
	m.user = nil
	m.info = nil
	m.login.reset()
	return m.login.setFocus(0)
}

func (m *Model) toSignup() tea.Cmd {
	m.screen = ScreenSignup
	m.showTerms = false
	m.signup.reset()
	return m.signup.setFocus(0)
}

// enterDashboard shows the dashboard, arms the idle timeout and fetches the
// user's profile.
func (m *Model) enterDashboard(username string) tea.Cmd {
	m.screen = ScreenDashboard
	m.user = nil
	m.info = nil

	if raw, ok := m.store.Session(); ok {
		info, err := token.Inspect(raw)
		if err != nil {
			log.Debug().Err(err).Msg("session token is opaque")
		} else {
			m.info = info
			if username == "" {
				username = info.Username
			}
		}
	}
	m.username = username

	m.startSession()
	if username == "" {
		return nil
	}
	return m.fetchProfile(username)
}

// invalidate returns to the login screen after the server rejected the
// session. No message is shown.
func (m *Model) invalidate() tea.Cmd {
	m.stopSession()
	return m.toLogin()
}

// =============================================================================
// SESSION TIMEOUT
// =============================================================================

func (m *Model) startSession() {
	m.stopSession()

	ctrl := session.New(m.clk, m.store, m.sessCfg)
	ctrl.OnChange(func(session.State) {
		m.emit(sessionChangedMsg{ctrl: ctrl})
	})
	m.controller = ctrl
	ctrl.Start(func() {
		m.emit(sessionExpiredMsg{ctrl: ctrl})
	})
	m.modal.SetState(ctrl.State())
}

func (m *Model) stopSession() {
	if m.controller != nil {
		m.controller.Teardown()
		m.controller = nil
	}
	m.modal.SetState(session.State{Phase: session.Active})
}

func (m *Model) recordActivity() {
	if m.controller != nil {
		m.controller.Activity()
	}
}

func (m *Model) handleExpired() (tea.Model, tea.Cmd) {
	m.stopSession()
	focus := m.toLogin()
	return m, tea.Batch(focus, m.setNotice(components.NewNotice(components.NoticeWarning, m.tr.T(locale.KeySessionExpired))))
}

func (m *Model) emit(msg tea.Msg) {
	if m.send != nil {
		m.send(msg)
	}
}

// =============================================================================
// PREFERENCES
// =============================================================================

func (m *Model) cycleCurrency() tea.Cmd {
	next := m.currency.Next()
	if err := m.store.SetCurrency(next); err != nil {
		log.Error().Err(err).Msg("saving currency")
		return m.setNotice(components.NewErrorNotice(err.Error()))
	}
	m.applyCurrency(next)
	return nil
}

func (m *Model) toggleLanguage() tea.Cmd {
	next := m.locale.Toggle()
	if err := m.store.SetLocale(next); err != nil {
		log.Error().Err(err).Msg("saving language")
		return m.setNotice(components.NewErrorNotice(err.Error()))
	}
	m.applyLocale(next)
	return nil
}

func (m *Model) applyCurrency(c locale.Currency) {
	m.currency = c
	m.header.SetPreferences(m.locale, c)
	m.balance.Currency = c
}

func (m *Model) applyLocale(l locale.Locale) {
	m.locale = l
	m.tr = locale.NewTranslator(l)
	m.header.SetPreferences(l, m.currency)
	m.balance.SetTranslator(m.tr)
	m.modal.SetTranslator(m.tr)
	m.termsView = ""
}

// adoptServerPreferences applies the account's language and currency unless
// the user already chose their own on this device.
func (m *Model) adoptServerPreferences(lang, currency string) {
	if lang != "" && !m.store.HasPreference(credstore.PrefLocale) {
		if l, err := locale.ParseLocale(lang); err == nil {
			if err := m.store.SetLocale(l); err != nil {
				log.Warn().Err(err).Msg("saving server language")
			}
			m.applyLocale(l)
		}
	}
	if currency != "" && !m.store.HasPreference(credstore.PrefCurrency) {
		if c, err := locale.ParseCurrency(currency); err == nil {
			if err := m.store.SetCurrency(c); err != nil {
				log.Warn().Err(err).Msg("saving server currency")
			}
			m.applyCurrency(c)
		}
	}
}

func (m *Model) handlePrefsChanged() (tea.Model, tea.Cmd) {
	if l := m.store.Locale(); l != m.locale {
		m.applyLocale(l)
	}
	if c := m.store.Currency(); c != m.currency {
		m.applyCurrency(c)
	}

	cmds := []tea.Cmd{waitForChange(m.watcher)}
	if m.screen == ScreenDashboard && !m.busy && !m.store.HasSession() {
		log.Info().Msg("session removed outside the client")
		cmds = append(cmds, m.invalidate())
	}
	return m, tea.Batch(cmds...)
}

// waitForChange blocks until the store changes on disk.
func waitForChange(w *credstore.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-w.Changes(); !ok {
			return nil
		}
		return prefsChangedMsg{}
	}
}

func (m *Model) setNotice(n components.Notice) tea.Cmd {
	m.notice = n
	return n.DismissCmd()
}

// =============================================================================
// API COMMANDS
// =============================================================================

func (m *Model) submitLogin() tea.Cmd {
	if m.busy {
		return nil
	}
	identifier := m.login.value(loginIdentifier)
	password := m.login.value(loginPassword)
	if problem := validateLogin(identifier, password); problem != "" {
		m.login.setError(problem)
		return nil
	}
	m.login.clearError()
	m.busy = true

	client := m.client
	req := api.LoginRequest{UsernameOrEmailOrMobile: identifier, Password: password}
	return func() tea.Msg {
		resp, err := client.Login(context.Background(), req)
		return loginResultMsg{resp: resp, err: err}
	}
}

func (m *Model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		log.Debug().Err(msg.err).Msg("login failed")
		m.login.setError(locale.KeyInvalidCredentials)
		return m, nil
	}

	m.adoptServerPreferences(msg.resp.PreferredLanguage, msg.resp.PreferredCurrency)
	m.login.reset()
	return m, m.enterDashboard(msg.resp.Username)
}

func (m *Model) submitSignup() tea.Cmd {
	if m.busy {
		return nil
	}
	f := &m.signup
	password := f.value(signupPassword)
	if problem := validateSignup(f.value(signupEmail), password, f.value(signupConfirm), f.checked); problem != "" {
		f.setError(problem)
		return nil
	}
	f.clearError()
	m.busy = true

	client := m.client
	req := api.NewRegisterRequest(f.value(signupName), f.value(signupEmail), f.value(signupPhone), password, m.locale, m.currency)
	return func() tea.Msg {
		user, err := client.Register(context.Background(), req)
		return registerResultMsg{user: user, err: err}
	}
}

func (m *Model) handleRegisterResult(msg registerResultMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		m.signup.setErrorText(errorText(msg.err))
		return m, nil
	}
	focus := m.toLogin()
	return m, tea.Batch(focus, m.setNotice(components.NewSuccessNotice(m.tr.T(locale.KeyRegistered))))
}

func (m *Model) fetchProfile(username string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		user, err := client.UserByUsername(context.Background(), username)
		return profileMsg{user: user, err: err}
	}
}

func (m *Model) handleProfile(msg profileMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if api.IsInvalidated(msg.err) && m.screen == ScreenDashboard {
			return m, m.invalidate()
		}
		log.Debug().Err(msg.err).Msg("profile unavailable")
		return m, nil
	}
	if m.screen == ScreenDashboard {
		m.user = msg.user
	}
	return m, nil
}

func (m *Model) fetchBankConfig() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		cfg, err := client.BankConfig(context.Background())
		return bankConfigMsg{cfg: cfg, err: err}
	}
}

func (m *Model) logoutCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return logoutDoneMsg{err: client.Logout(context.Background())}
	}
}

// errorText prefers the server's explanation over the wrapped error string.
func errorText(err error) string {
	var rf *api.RequestFailedError
	if errors.As(err, &rf) && rf.Message != "" {
		return rf.Message
	}
	return err.Error()
}

// renderTerms caches the rendered terms for the current locale and width.
func (m *Model) renderTerms() string {
	if m.termsView != "" {
		return m.termsView
	}
	width := m.width - 4
	out, err := terms.Render(m.locale, width)
	if err != nil {
		log.Error().Err(err).Msg("rendering terms")
		return terms.Markdown(m.locale)
	}
	m.termsView = out
	return out
}
