// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/common-nighthawk/go-figure"

	"github.com/credexa/credexa-tui/internal/util"
	"github.com/credexa/credexa-tui/internal/ui/styles"
)

// BannerFont is the figlet font used for the landing banner.
const BannerFont = "standard"

// Banner renders the product name as ASCII art, falling back to plain text
// when the terminal is too narrow.
type Banner struct {
	Text  string
	Width int
	theme *styles.Theme
}

// NewBanner creates a banner for text.
func NewBanner(theme *styles.Theme, text string) Banner {
	return Banner{Text: text, Width: 80, theme: theme}
}

// SetWidth updates the available width.
func (b *Banner) SetWidth(width int) {
	b.Width = width
}

// Art returns the unstyled figlet rendering.
func (b Banner) Art() string {
	fig := figure.NewFigure(b.Text, BannerFont, true)
	return strings.TrimRight(fig.String(), "\n ")
}

// View renders the banner in the brand color.
func (b Banner) View() string {
	art := b.Art()
	if artWidth(art) > b.Width-4 {
		return b.theme.Banner.Render(b.Text)
	}
	return b.theme.Banner.Render(art)
}

// ViewWithTagline renders the banner above a tagline and subtext.
func (b Banner) ViewWithTagline(tagline, subtext string) string {
	return lipgloss.JoinVertical(lipgloss.Center,
		b.View(),
		"",
		b.theme.Tagline.Render(tagline),
		b.theme.Subtext.Render(subtext),
	)
}

func artWidth(art string) int {
	w := 0
	for _, line := range strings.Split(art, "\n") {
		if lw := util.DisplayWidth(line); lw > w {
			w = lw
		}
	}
	return w
}
