// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the credexa TUI.

All colors use Lip Gloss AdaptiveColor so the same palette works on light and
dark terminals.

# Color System (colors.go)

  - Purple - brand accent, focused inputs, selected chips
  - Cyan - links and informational text
  - Emerald - balances and success notices
  - Amber - the inactivity warning
  - Rose - validation errors and the expired-session notice

Surface and text colors follow the same light/dark pairs.

# Theme (theme.go)

NewTheme builds every lipgloss.Style used by the screens. The theme mode comes
from the ui.theme config key:

	theme := styles.NewTheme("auto")  // detect the terminal background
	theme := styles.NewTheme("dark")  // force dark palette

# Accessibility

Status messages always pair a color with an ASCII indicator:

	theme.Success("Account created")  // [OK] Account created
	theme.Error("Invalid credentials") // [X] Invalid credentials
*/
package styles
