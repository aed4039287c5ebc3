// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session enforces the idle logout policy for a signed-in user.
//
// A Controller moves through three phases:
//
//	Active --(idle for quiet-lead)--> Warning --(lead elapses)--> Expired
//	                                     |
//	                                     +--(Stay)--> Active
//
// Entering Expired clears the stored session and calls the logout callback
// exactly once. Expired is terminal; start a new Controller after the user
// signs in again.
//
// # Usage
//
//	ctrl := session.New(clock.Real(), store, session.DefaultConfig())
//	ctrl.OnChange(func(s session.State) { program.Send(s) })
//	ctrl.Start(func() { program.Send(loggedOutMsg{}) })
//	defer ctrl.Teardown()
//
// Forward every key press or mouse event to ctrl.Activity().
package session
