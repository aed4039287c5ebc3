// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package app is the root Bubble Tea model of the credexa TUI.

It owns four screens (landing, login, signup, dashboard) and wires them to the
credential store, the API client and a session.Controller. Every key press
and mouse event is reported to the controller as activity; controller state
changes arrive back as messages through the program's Send.

	err := app.Run(app.Deps{
		Store:   store,
		Client:  client,
		Session: session.DefaultConfig(),
	})
*/
package app
