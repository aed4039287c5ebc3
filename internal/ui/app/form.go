// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/credexa/credexa-tui/internal/locale"
)

// passwordPolicy requires at least eight characters followed somewhere by a
// special character.
var passwordPolicy = regexp.MustCompile(`^.{8,}.*[!@#$%^&*(),.?":{}|<>]`)

// ValidPassword reports whether p satisfies the password policy.
func ValidPassword(p string) bool {
	return passwordPolicy.MatchString(p)
}

// Login form field indexes.
const (
	loginIdentifier = iota
	loginPassword
)

// Signup form field indexes.
const (
	signupName = iota
	signupEmail
	signupPhone
	signupPassword
	signupConfirm
)

// form is a vertical list of text inputs, an optional agreement checkbox and
// a submit button. focus walks inputs, then the checkbox, then the button.
type form struct {
	inputs   []textinput.Model
	labels   []string
	checkbox bool
	checked  bool
	focus    int

	// errKey is a translation key; errText is shown verbatim when errKey is empty.
	errKey  string
	errText string
}

func newInput(placeholder string, secret bool) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 128
	ti.Width = 36
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return ti
}

func newLoginForm() form {
	f := form{
		inputs: []textinput.Model{
			newInput("john@doe.com", false),
			newInput("••••••••", true),
		},
		labels: []string{locale.KeyEmailOrPhone, locale.KeyPassword},
	}
	f.setFocus(0)
	return f
}

func newSignupForm() form {
	f := form{
		inputs: []textinput.Model{
			newInput("John Doe", false),
			newInput("john@doe.com", false),
			newInput("+91 90000 00000", false),
			newInput("••••••••", true),
			newInput("••••••••", true),
		},
		labels:   []string{locale.KeyFullName, locale.KeyEmail, locale.KeyPhone, locale.KeyPassword, locale.KeyConfirmPassword},
		checkbox: true,
	}
	f.setFocus(0)
	return f
}

// stops is the number of focusable positions.
func (f *form) stops() int {
	n := len(f.inputs) + 1
	if f.checkbox {
		n++
	}
	return n
}

func (f *form) setFocus(i int) tea.Cmd {
	n := f.stops()
	f.focus = ((i % n) + n) % n

	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focus {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

func (f *form) next() tea.Cmd { return f.setFocus(f.focus + 1) }
func (f *form) prev() tea.Cmd { return f.setFocus(f.focus - 1) }

func (f *form) onInput() bool    { return f.focus < len(f.inputs) }
func (f *form) onCheckbox() bool { return f.checkbox && f.focus == len(f.inputs) }
func (f *form) onSubmit() bool   { return f.focus == f.stops()-1 }

func (f *form) value(i int) string {
	return f.inputs[i].Value()
}

func (f *form) setValue(i int, v string) {
	f.inputs[i].SetValue(v)
}

func (f *form) toggle() {
	f.checked = !f.checked
}

func (f *form) setError(key string) {
	f.errKey, f.errText = key, ""
}

func (f *form) setErrorText(text string) {
	f.errKey, f.errText = "", text
}

func (f *form) clearError() {
	f.errKey, f.errText = "", ""
}

func (f *form) errorMessage(tr *locale.Translator) string {
	if f.errKey != "" {
		return tr.T(f.errKey)
	}
	return f.errText
}

func (f *form) reset() {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
	f.checked = false
	f.clearError()
	f.setFocus(0)
}

// update forwards msg to the focused input.
func (f *form) update(msg tea.Msg) tea.Cmd {
	if !f.onInput() {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// validateLogin returns the translation key of the first problem, or "".
func validateLogin(identifier, password string) string {
	if strings.TrimSpace(identifier) == "" {
		return locale.KeyRequired
	}
	if password == "" {
		return locale.KeyRequired
	}
	if !ValidPassword(password) {
		return locale.KeyPasswordPolicy
	}
	return ""
}

// validateSignup returns the translation key of the first problem, or "".
func validateSignup(email, password, confirm string, agreed bool) string {
	if strings.TrimSpace(email) == "" {
		return locale.KeyRequired
	}
	if password == "" {
		return locale.KeyRequired
	}
	if password != confirm {
		return locale.KeyPasswordMismatch
	}
	if !ValidPassword(password) {
		return locale.KeyPasswordPolicy
	}
	if !agreed {
		return locale.KeyMustAgree
	}
	return ""
}
