// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the keyboard bindings. Global shortcuts use function or
// control keys so they never collide with text typed into a form.
type KeyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Submit   key.Binding
	Toggle   key.Binding
	Currency key.Binding
	Language key.Binding
	Signup   key.Binding
	Back     key.Binding
	Terms    key.Binding
	Logout   key.Binding
	Stay     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("S-tab", "previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle"),
		),
		Currency: key.NewBinding(
			key.WithKeys("f2", "ctrl+y"),
			key.WithHelp("F2", "currency"),
		),
		Language: key.NewBinding(
			key.WithKeys("f3", "ctrl+l"),
			key.WithHelp("F3", "language"),
		),
		Signup: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "create account"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Terms: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "terms"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+o", "o"),
			key.WithHelp("o", "logout"),
		),
		Stay: key.NewBinding(
			key.WithKeys("enter", "s"),
			key.WithHelp("enter", "stay logged in"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Submit, k.Currency, k.Language, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Submit, k.Toggle},
		{k.Currency, k.Language, k.Terms},
		{k.Signup, k.Back, k.Logout},
		{k.Help, k.Quit},
	}
}
