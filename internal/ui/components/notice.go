// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/credexa/credexa-tui/internal/ui/styles"
)

// NoticeKind is the severity of a notice line.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeError
	NoticeWarning
	NoticeSuccess
)

// DefaultNoticeDuration is how long info and success notices stay up.
const DefaultNoticeDuration = 4 * time.Second

// ErrorNoticeDuration is longer so errors can be read.
const ErrorNoticeDuration = 8 * time.Second

var noticeSeq atomic.Int64

// Notice is a one-line, auto-dismissing status message shown under a form.
type Notice struct {
	ID       int64
	Kind     NoticeKind
	Message  string
	Duration time.Duration
}

// NoticeExpiredMsg is delivered when a notice's duration elapses.
type NoticeExpiredMsg struct {
	ID int64
}

// NewNotice creates a notice with the default duration for its kind.
func NewNotice(kind NoticeKind, message string) Notice {
	d := DefaultNoticeDuration
	if kind == NoticeError || kind == NoticeWarning {
		d = ErrorNoticeDuration
	}
	return Notice{
		ID:       noticeSeq.Add(1),
		Kind:     kind,
		Message:  message,
		Duration: d,
	}
}

// NewErrorNotice is shorthand for NewNotice(NoticeError, message).
func NewErrorNotice(message string) Notice {
	return NewNotice(NoticeError, message)
}

// NewSuccessNotice is shorthand for NewNotice(NoticeSuccess, message).
func NewSuccessNotice(message string) Notice {
	return NewNotice(NoticeSuccess, message)
}

// IsZero reports whether n is the empty notice.
func (n Notice) IsZero() bool {
	return n.Message == ""
}

// DismissCmd fires NoticeExpiredMsg after the notice's duration.
func (n Notice) DismissCmd() tea.Cmd {
	if n.IsZero() || n.Duration <= 0 {
		return nil
	}
	id := n.ID
	return tea.Tick(n.Duration, func(time.Time) tea.Msg {
		return NoticeExpiredMsg{ID: id}
	})
}

// View renders the notice in theme's status style with its indicator.
func (n Notice) View(theme *styles.Theme) string {
	if n.IsZero() {
		return ""
	}
	switch n.Kind {
	case NoticeError:
		return theme.Error(n.Message)
	case NoticeWarning:
		return theme.Warning(n.Message)
	case NoticeSuccess:
		return theme.Success(n.Message)
	default:
		return theme.Info(n.Message)
	}
}
