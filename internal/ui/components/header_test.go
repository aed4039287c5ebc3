// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/credexa/credexa-tui/internal/locale"
	"github.com/credexa/credexa-tui/internal/session"
	"github.com/credexa/credexa-tui/internal/ui/styles"
)

// =============================================================================
// HEADER TESTS
// =============================================================================

func TestNewHeader(t *testing.T) {
	h := NewHeader(styles.NewTheme(styles.ModeDark))

	assert.Equal(t, "Credexa", h.Title)
	assert.Equal(t, locale.INR, h.Currency)
	assert.Equal(t, locale.English, h.Locale)
}

func TestHeaderViewShowsSelectorAndToggle(t *testing.T) {
	h := NewHeader(styles.NewTheme(styles.ModeDark))
	h.SetWidth(100)

	view := h.View()
	for _, c := range locale.Currencies {
		assert.Contains(t, view, c.Option())
	}
	// English selected: the toggle offers Japanese.
	assert.Contains(t, view, locale.Japanese.Label())

	h.SetPreferences(locale.Japanese, locale.KWD)
	assert.Contains(t, h.View(), locale.English.Label())
}

func TestHeaderNarrowWidth(t *testing.T) {
	theme := styles.NewTheme(styles.ModeDark)
	theme.SetSize(40, 20)
	h := NewHeader(theme)
	h.SetWidth(10)

	view := h.View()
	assert.Contains(t, view, "Credexa")
	assert.NotContains(t, view, locale.KWD.Option())
}

// =============================================================================
// BALANCE CARD TESTS
// =============================================================================

func TestBalanceCardFormatsPerCurrency(t *testing.T) {
	theme := styles.NewTheme(styles.ModeDark)
	card := NewBalanceCard(theme, locale.NewTranslator(locale.English), 120450)

	tests := []struct {
		currency locale.Currency
		symbol   string
	}{
		{locale.INR, "₹"},
		{locale.KWD, "د.ك"},
		{locale.JPY, "¥"},
	}

	for _, tt := range tests {
		card.Currency = tt.currency
		got := card.FormattedAmount()
		assert.True(t, strings.HasPrefix(got, tt.symbol), "%s: %q", tt.currency, got)
		assert.Contains(t, got, "120,450")
		assert.Contains(t, card.View(), got)
	}
}

// =============================================================================
// TIMEOUT MODAL TESTS
// =============================================================================

func TestTimeoutModalHiddenUnlessWarning(t *testing.T) {
	m := NewTimeoutModal(locale.NewTranslator(locale.English))

	assert.False(t, m.IsVisible())
	assert.Empty(t, m.View())

	m.SetState(session.State{Phase: session.Expired})
	assert.False(t, m.IsVisible())
	assert.Empty(t, m.View())
}

func TestTimeoutModalShowsCountdown(t *testing.T) {
	tr := locale.NewTranslator(locale.English)
	m := NewTimeoutModal(tr)
	m.SetSize(80, 24)
	m.SetState(session.State{Phase: session.Warning, SecondsRemaining: 30})

	assert.True(t, m.IsVisible())
	box := m.Box()
	assert.Contains(t, box, "0:30")
	assert.Contains(t, box, tr.T(locale.KeyStayLoggedIn))
	assert.NotEmpty(t, m.View())

	m.SetState(session.State{Phase: session.Warning, SecondsRemaining: 7})
	assert.Contains(t, m.Box(), "0:07")
}

func TestTimeoutModalTranslates(t *testing.T) {
	m := NewTimeoutModal(locale.NewTranslator(locale.English))
	m.SetState(session.State{Phase: session.Warning, SecondsRemaining: 12})

	ja := locale.NewTranslator(locale.Japanese)
	m.SetTranslator(ja)
	assert.Contains(t, m.Box(), ja.T(locale.KeyStayLoggedIn))
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "0:00"},
		{-5, "0:00"},
		{9, "0:09"},
		{30, "0:30"},
		{90, "1:30"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatCountdown(tt.secs))
	}
}

// =============================================================================
// BANNER AND NOTICE TESTS
// =============================================================================

func TestBannerFallsBackWhenNarrow(t *testing.T) {
	b := NewBanner(styles.NewTheme(styles.ModeDark), "Credexa")

	art := b.Art()
	assert.Contains(t, art, "\n")

	b.SetWidth(120)
	assert.Contains(t, b.View(), "\n")

	b.SetWidth(12)
	assert.NotContains(t, b.View(), "\n")
	assert.Contains(t, b.View(), "Credexa")
}

func TestNoticeKinds(t *testing.T) {
	theme := styles.NewTheme(styles.ModeDark)

	n := NewErrorNotice("Invalid credentials")
	assert.Equal(t, ErrorNoticeDuration, n.Duration)
	assert.Contains(t, n.View(theme), styles.StatusIndicators.Error)
	assert.NotNil(t, n.DismissCmd())

	s := NewSuccessNotice("ok")
	assert.Equal(t, DefaultNoticeDuration, s.Duration)
	assert.NotEqual(t, n.ID, s.ID)
	assert.Contains(t, s.View(theme), styles.StatusIndicators.Success)

	w := NewNotice(NoticeWarning, "Session expiring")
	assert.Equal(t, ErrorNoticeDuration, w.Duration)
	assert.Contains(t, w.View(theme), styles.StatusIndicators.Warning)
	assert.Contains(t, NewNotice(NoticeInfo, "Signed out").View(theme), styles.StatusIndicators.Info)

	var zero Notice
	assert.True(t, zero.IsZero())
	assert.Empty(t, zero.View(theme))
	assert.Nil(t, zero.DismissCmd())
}
