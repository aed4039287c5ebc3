// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme modes accepted by NewTheme.
const (
	ModeAuto  = "auto"
	ModeDark  = "dark"
	ModeLight = "light"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderBrand lipgloss.Style
	Chip        lipgloss.Style
	ChipActive  lipgloss.Style

	// ==========================================================================
	// LANDING STYLES
	// ==========================================================================

	Banner  lipgloss.Style
	Tagline lipgloss.Style
	Subtext lipgloss.Style

	// ==========================================================================
	// FORM STYLES
	// ==========================================================================

	Form         lipgloss.Style
	FormTitle    lipgloss.Style
	Label        lipgloss.Style
	Input        lipgloss.Style
	InputFocused lipgloss.Style
	Checkbox     lipgloss.Style
	Button       lipgloss.Style
	ButtonActive lipgloss.Style

	// ==========================================================================
	// DASHBOARD STYLES
	// ==========================================================================

	Card      lipgloss.Style
	CardTitle lipgloss.Style
	Amount    lipgloss.Style
	Meta      lipgloss.Style

	// ==========================================================================
	// STATUS STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
	LinkStyle    lipgloss.Style
}

// NewTheme creates a new theme with all styles configured. mode is one of
// auto, dark or light; anything else is treated as auto, where lipgloss
// queries the terminal background.
func NewTheme(mode string) *Theme {
	switch strings.ToLower(mode) {
	case ModeDark:
		lipgloss.SetHasDarkBackground(true)
	case ModeLight:
		lipgloss.SetHasDarkBackground(false)
	}

	t := &Theme{}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.Chip = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ChipActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Purple).
		Bold(true).
		Padding(0, 1)

	// Landing
	t.Banner = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.Tagline = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	t.Subtext = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Forms
	t.Form = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(1, 3)

	t.FormTitle = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true).
		MarginBottom(1)

	t.Label = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.Input = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(OverlayDim).
		Padding(0, 1)

	t.InputFocused = t.Input.
		BorderForeground(Purple)

	t.Checkbox = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.Button = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SurfaceBright).
		Padding(0, 3)

	t.ButtonActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Purple).
		Bold(true).
		Padding(0, 3)

	// Dashboard
	t.Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(1, 2)

	t.CardTitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)

	t.Amount = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.Meta = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(SuccessHighContrast).
		Bold(true)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorHighContrast).
		Bold(true)

	t.WarningStyle = lipgloss.NewStyle().
		Foreground(WarningHighContrast).
		Bold(true)

	t.InfoStyle = lipgloss.NewStyle().
		Foreground(InfoHighContrast).
		Bold(true)

	t.LinkStyle = lipgloss.NewStyle().
		Foreground(LinkColor).
		Underline(true)
}

// Success renders message with the success indicator.
func (t *Theme) Success(message string) string {
	return t.SuccessStyle.Render(StatusIndicators.Success + " " + message)
}

// Error renders message with the error indicator.
func (t *Theme) Error(message string) string {
	return t.ErrorStyle.Render(StatusIndicators.Error + " " + message)
}

// Warning renders message with the warning indicator.
func (t *Theme) Warning(message string) string {
	return t.WarningStyle.Render(StatusIndicators.Warning + " " + message)
}

// Info renders message with the info indicator.
func (t *Theme) Info(message string) string {
	return t.InfoStyle.Render(StatusIndicators.Info + " " + message)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
