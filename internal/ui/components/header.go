// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/credexa/credexa-tui/internal/locale"
	"github.com/credexa/credexa-tui/internal/util"
	"github.com/credexa/credexa-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar shown on every screen: brand on the left, the
// currency selector and language toggle on the right.
type Header struct {
	Title    string
	Currency locale.Currency
	Locale   locale.Locale
	Width    int
	theme    *styles.Theme
}

// NewHeader creates a Header with default preferences.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title:    "Credexa",
		Currency: locale.DefaultCurrency,
		Locale:   locale.DefaultLocale,
		Width:    80,
		theme:    theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetPreferences updates the selected currency and locale.
func (h *Header) SetPreferences(l locale.Locale, c locale.Currency) {
	h.Locale = l
	h.Currency = c
}

// View renders the header.
func (h *Header) View() string {
	width := h.Width
	if width < 40 {
		width = 40
	}

	brand := h.theme.HeaderBrand.Render(h.Title)
	right := h.currencySelector() + "  " + h.languageToggle()

	if h.theme.Width > 0 && h.theme.GetLayoutMode() == styles.LayoutNarrow {
		right = h.theme.ChipActive.Render(h.Currency.Symbol()) + " " + h.languageToggle()
	}

	gap := width - 2 - lipgloss.Width(brand) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return h.theme.Header.Width(width).Render(brand + strings.Repeat(" ", gap) + right)
}

// currencySelector renders every supported currency, highlighting the
// selected one.
func (h *Header) currencySelector() string {
	chips := make([]string, 0, len(locale.Currencies))
	for _, c := range locale.Currencies {
		if c == h.Currency {
			chips = append(chips, h.theme.ChipActive.Render(c.Option()))
		} else {
			chips = append(chips, h.theme.Chip.Render(c.Option()))
		}
	}
	return strings.Join(chips, "")
}

// languageToggle renders the label of the locale a toggle would switch to.
func (h *Header) languageToggle() string {
	return h.theme.LinkStyle.Render(h.Locale.Toggle().Label())
}

// =============================================================================
// BALANCE CARD
// =============================================================================

// BalanceCard shows an amount formatted in the selected currency.
type BalanceCard struct {
	Title    string
	Caption  string
	Amount   float64
	Currency locale.Currency
	Width    int
	theme    *styles.Theme
	tr       *locale.Translator
}

// NewBalanceCard creates a card for amount.
func NewBalanceCard(theme *styles.Theme, tr *locale.Translator, amount float64) *BalanceCard {
	return &BalanceCard{
		Amount:   amount,
		Currency: locale.DefaultCurrency,
		Width:    40,
		theme:    theme,
		tr:       tr,
	}
}

// SetTranslator switches the card's number formatting locale.
func (b *BalanceCard) SetTranslator(tr *locale.Translator) {
	b.tr = tr
}

// FormattedAmount returns the amount with the currency symbol.
func (b *BalanceCard) FormattedAmount() string {
	return b.tr.FormatAmount(b.Currency, b.Amount)
}

// View renders the card. Wide currency symbols are measured by display width
// so the amount stays centered.
func (b *BalanceCard) View() string {
	inner := b.Width - 6
	if inner < 20 {
		inner = 20
	}

	lines := []string{
		b.theme.CardTitle.Render(util.PadCenter(b.Title, inner)),
		"",
		b.theme.Amount.Render(util.PadCenter(b.FormattedAmount(), inner)),
	}
	if b.Caption != "" {
		lines = append(lines, "", b.theme.Meta.Render(util.PadCenter(util.TruncateWidth(b.Caption, inner), inner)))
	}
	return b.theme.Card.Render(strings.Join(lines, "\n"))
}
