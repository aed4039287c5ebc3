// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error types and exit codes for CLI commands.
//
// Commands always return errors; Execute decides how to display them and
// which exit code to use.

package cli

import (
	"errors"
	"fmt"

	"github.com/credexa/credexa-tui/internal/api"
	"github.com/credexa/credexa-tui/internal/config"
	"github.com/credexa/credexa-tui/internal/credstore"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	// ExitUsageError indicates invalid arguments or input
	ExitUsageError = 2
	// ExitConfigError indicates a configuration or store problem
	ExitConfigError = 3
	// ExitAuthError indicates a missing or rejected session
	ExitAuthError = 4
	// ExitNetworkError indicates the service could not be reached
	ExitNetworkError = 5
)

// ErrNotSignedIn is returned by commands that need a stored session.
var ErrNotSignedIn = errors.New("not signed in")

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // e.g. "prefs"
	Action  string // e.g. "set"
	Err     error
}

func (e *CommandError) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("%s failed: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Command, e.Action, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ValidationError represents invalid user input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewCommandError wraps err with the command that produced it.
func NewCommandError(command, action string, err error) error {
	return &CommandError{Command: command, Action: action, Err: err}
}

// GetExitCode maps an error to the process exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var validationErr *ValidationError
	var configErr config.ValidateErrors
	var reqErr *api.RequestFailedError
	switch {
	case errors.As(err, &validationErr), errors.Is(err, credstore.ErrInvalidPreference):
		return ExitUsageError
	case errors.As(err, &configErr), errors.Is(err, credstore.ErrBackend):
		return ExitConfigError
	case errors.Is(err, ErrNotSignedIn), api.IsInvalidated(err):
		return ExitAuthError
	case errors.As(err, &reqErr) && reqErr.Status == 0:
		return ExitNetworkError
	}
	return ExitGeneralError
}
