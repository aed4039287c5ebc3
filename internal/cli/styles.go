// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared styles for command output.

package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/credexa/credexa-tui/internal/ui/styles"
)

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

var (
	// TitleStyle is used for command titles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Purple).
			MarginBottom(1)

	// LabelStyle is used for field labels
	LabelStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Width(20)

	// ValueStyle is used for regular values
	ValueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	// DimStyle is used for hints
	DimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)
)

// printField writes one "label  value" line.
func printField(w io.Writer, label string, value interface{}) {
	fmt.Fprintf(w, "%s %s\n", LabelStyle.Render(label+":"), ValueStyle.Render(fmt.Sprint(value)))
}

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, TitleStyle.Render(title))
}

func printSuccess(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", SuccessStyle.Render(styles.StatusIndicators.Success), fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", WarningStyle.Render(styles.StatusIndicators.Warning), fmt.Sprintf(format, args...))
}
