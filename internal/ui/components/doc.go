// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the reusable pieces of the credexa TUI.

  - Header (header.go) - brand, currency selector and language toggle
  - BalanceCard (header.go) - an amount in the selected currency
  - Banner (banner.go) - figlet product name for the landing screen
  - TimeoutModal (timeout_modal.go) - inactivity countdown driven by a
    session.State snapshot
  - Notice (notice.go) - auto-dismissing status line under forms

Components render with the styles package and translate through a
locale.Translator; none of them own timers or talk to the API.
*/
package components
