// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/credexa/credexa-tui/internal/locale"
	"github.com/credexa/credexa-tui/internal/session"
	"github.com/credexa/credexa-tui/internal/ui/styles"
)

// =============================================================================
// INACTIVITY MODAL
// =============================================================================

// TimeoutModal renders the inactivity countdown. It holds no timers of its
// own; the session controller drives it through SetState.
type TimeoutModal struct {
	state session.State
	tr    *locale.Translator

	width  int
	height int
}

// NewTimeoutModal creates a hidden modal.
func NewTimeoutModal(tr *locale.Translator) TimeoutModal {
	return TimeoutModal{
		state: session.State{Phase: session.Active},
		tr:    tr,
	}
}

// SetSize sets the area the modal is centered in.
func (m *TimeoutModal) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetTranslator switches the modal's language.
func (m *TimeoutModal) SetTranslator(tr *locale.Translator) {
	m.tr = tr
}

// SetState applies a controller snapshot.
func (m *TimeoutModal) SetState(s session.State) {
	m.state = s
}

// State returns the last applied snapshot.
func (m TimeoutModal) State() session.State {
	return m.state
}

// IsVisible reports whether the countdown is showing.
func (m TimeoutModal) IsVisible() bool {
	return m.state.Phase == session.Warning
}

// View renders the centered modal, or "" when hidden.
func (m TimeoutModal) View() string {
	if !m.IsVisible() {
		return ""
	}
	return lipgloss.Place(
		m.areaWidth(), m.areaHeight(),
		lipgloss.Center, lipgloss.Center,
		m.Box(),
		lipgloss.WithWhitespaceBackground(styles.SurfaceDim),
	)
}

// Box renders the modal without centering.
func (m TimeoutModal) Box() string {
	maxWidth := m.areaWidth() - 8
	if maxWidth < 40 {
		maxWidth = 40
	}
	if maxWidth > 60 {
		maxWidth = 60
	}

	secs := m.state.SecondsRemaining
	if secs < 0 {
		secs = 0
	}

	var parts []string

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.Amber).
		Bold(true)
	parts = append(parts, titleStyle.Render(styles.StatusIndicators.Warning+" "+formatCountdown(secs)))
	parts = append(parts, "")

	msgStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Width(maxWidth - 8).
		Align(lipgloss.Center)
	parts = append(parts, msgStyle.Render(m.tr.T(locale.KeyInactivityWarning, secs)))
	parts = append(parts, "")

	buttonStyle := lipgloss.NewStyle().
		Foreground(styles.TextInverse).
		Background(styles.Amber).
		Bold(true).
		Padding(0, 3)
	parts = append(parts, buttonStyle.Render(m.tr.T(locale.KeyStayLoggedIn)))

	hintStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)
	parts = append(parts, hintStyle.Render("enter"))

	content := lipgloss.JoinVertical(lipgloss.Center, parts...)

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(styles.Amber).
		Padding(1, 3).
		Width(maxWidth).
		Align(lipgloss.Center).
		Render(content)
}

func (m TimeoutModal) areaWidth() int {
	if m.width == 0 {
		return 60
	}
	return m.width
}

func (m TimeoutModal) areaHeight() int {
	if m.height == 0 {
		return 24
	}
	return m.height
}

// formatCountdown formats whole seconds as M:SS.
func formatCountdown(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
