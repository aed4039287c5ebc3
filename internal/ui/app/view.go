// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/credexa/credexa-tui/internal/locale"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.modal.IsVisible() {
		return m.modal.View()
	}

	var body string
	switch {
	case m.showTerms && m.screen == ScreenSignup:
		body = m.renderTerms()
	case m.screen == ScreenLanding:
		body = m.viewLanding()
	case m.screen == ScreenLogin:
		body = m.viewLogin()
	case m.screen == ScreenSignup:
		body = m.viewSignup()
	case m.screen == ScreenDashboard:
		body = m.viewDashboard()
	}

	if m.width > 0 {
		body = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, body)
	}

	parts := []string{m.header.View(), "", body, ""}
	if n := m.notice.View(m.theme); n != "" {
		parts = append(parts, n)
	}
	parts = append(parts, m.theme.StatusBar.Render(m.help.View(m.keys)))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) viewLanding() string {
	lines := []string{
		m.banner.ViewWithTagline(m.tr.T(locale.KeyTagline), m.tr.T(locale.KeySubtext)),
	}
	if m.bank != nil && m.bank.BankName != "" {
		lines = append(lines, "", m.theme.Meta.Render(m.bank.BankName))
	}
	lines = append(lines, "", m.theme.ButtonActive.Render(m.tr.T(locale.KeyExplore)))
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) viewLogin() string {
	lines := []string{
		m.theme.FormTitle.Render(m.tr.T(locale.KeyWelcomeBack)),
		m.theme.Subtext.Render(m.tr.T(locale.KeySubtext)),
		"",
	}
	lines = append(lines, m.viewFields(&m.login)...)
	lines = append(lines, m.viewFormFooter(&m.login, locale.KeySignin)...)
	lines = append(lines, "",
		m.theme.Meta.Render(m.tr.T(locale.KeyForgot))+"   "+
			m.theme.LinkStyle.Render(m.tr.T(locale.KeySignup))+m.theme.Meta.Render(" (C-n)"),
	)
	return m.theme.Form.Render(strings.Join(lines, "\n"))
}

func (m *Model) viewSignup() string {
	lines := []string{
		m.theme.FormTitle.Render(m.tr.T(locale.KeyCreateAccount)),
		m.theme.Subtext.Render(m.tr.T(locale.KeySubtext)),
		"",
	}
	lines = append(lines, m.viewFields(&m.signup)...)

	box := "[ ]"
	if m.signup.checked {
		box = "[x]"
	}
	agree := m.theme.Checkbox.Render(box + " " + m.tr.T(locale.KeyAgree))
	if m.signup.onCheckbox() {
		agree = m.theme.ChipActive.Render(box + " " + m.tr.T(locale.KeyAgree))
	}
	lines = append(lines, agree, m.theme.Meta.Render("C-t: terms"))

	lines = append(lines, m.viewFormFooter(&m.signup, locale.KeySubmit)...)
	lines = append(lines, "",
		m.theme.Meta.Render(m.tr.T(locale.KeyHaveAccount))+"  "+
			m.theme.LinkStyle.Render(m.tr.T(locale.KeyBackToLogin))+m.theme.Meta.Render(" (esc)"),
	)
	return m.theme.Form.Render(strings.Join(lines, "\n"))
}

func (m *Model) viewFields(f *form) []string {
	var lines []string
	for i := range f.inputs {
		style := m.theme.Input
		if f.focus == i {
			style = m.theme.InputFocused
		}
		lines = append(lines, m.theme.Label.Render(m.tr.T(f.labels[i])), style.Render(f.inputs[i].View()))
	}
	return lines
}

func (m *Model) viewFormFooter(f *form, submitKey string) []string {
	var lines []string
	if msg := f.errorMessage(m.tr); msg != "" {
		lines = append(lines, "", m.theme.ErrorStyle.Render(msg))
	}

	label := m.tr.T(submitKey)
	if m.busy {
		label += " ..."
	}
	button := m.theme.Button.Render(label)
	if f.onSubmit() {
		button = m.theme.ButtonActive.Render(label)
	}
	return append(lines, "", button)
}

func (m *Model) viewDashboard() string {
	m.balance.Title = m.tr.T(locale.KeyDashboard)
	m.balance.Caption = m.tr.T(locale.KeyBalancePreview)

	lines := []string{m.balance.View(), ""}

	if name := m.displayName(); name != "" {
		lines = append(lines, m.theme.Subtext.Render(m.tr.T(locale.KeySignedInAs, name)))
	}
	if m.info != nil {
		if len(m.info.Roles) > 0 {
			lines = append(lines, m.theme.Meta.Render(strings.Join(m.info.Roles, ", ")))
		}
		if m.info.HasExpiry() {
			lines = append(lines, m.theme.Meta.Render(fmt.Sprintf("token expires %s", m.info.ExpiresAt.Local().Format("2006-01-02 15:04"))))
		}
	}

	label := m.tr.T(locale.KeyLogout)
	if m.busy {
		label += " ..."
	}
	lines = append(lines, "", m.theme.ButtonActive.Render(label))
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

// displayName prefers the profile, then the login response, then the token.
func (m *Model) displayName() string {
	switch {
	case m.user != nil && m.user.Username != "":
		return m.user.Username
	case m.username != "":
		return m.username
	case m.info != nil:
		return m.info.Username
	}
	return ""
}
