// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/credexa/credexa-tui/internal/api"
	"github.com/credexa/credexa-tui/internal/session"
)

// =============================================================================
// SESSION MESSAGES
// =============================================================================

// sessionChangedMsg is sent when a controller publishes a new state. The
// handler reads the controller's current state rather than trusting the
// order in which these messages arrive.
type sessionChangedMsg struct {
	ctrl *session.Controller
}

// sessionExpiredMsg is sent once when a controller logs the user out.
type sessionExpiredMsg struct {
	ctrl *session.Controller
}

// prefsChangedMsg is sent when the store file changes on disk.
type prefsChangedMsg struct{}

// =============================================================================
// API MESSAGES
// =============================================================================

type bankConfigMsg struct {
	cfg *api.BankConfig
	err error
}

type loginResultMsg struct {
	resp *api.LoginResponse
	err  error
}

type registerResultMsg struct {
	user *api.User
	err  error
}

type profileMsg struct {
	user *api.User
	err  error
}

type logoutDoneMsg struct {
	err error
}
