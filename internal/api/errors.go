// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
)

var (
	// ErrRequestFailed matches every *RequestFailedError.
	ErrRequestFailed = errors.New("request failed")

	// ErrUnrecognizedShape indicates a 2xx body that does not match the endpoint.
	ErrUnrecognizedShape = errors.New("unrecognized response shape")
)

// RequestFailedError reports a transport failure (Status 0) or a non-2xx response.
type RequestFailedError struct {
	// Status is the HTTP status code, or 0 when no response was received.
	Status int
	// Message is the server's explanation, best effort. May be empty.
	Message string
	// Err is the underlying transport error, if any.
	Err error

	invalidated bool
}

// Error implements the error interface.
func (e *RequestFailedError) Error() string {
	switch {
	case e.Status == 0 && e.Err != nil:
		return fmt.Sprintf("request failed: %v", e.Err)
	case e.Message != "":
		return fmt.Sprintf("request failed (HTTP %d): %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("request failed (HTTP %d)", e.Status)
	}
}

// Is makes errors.Is(err, ErrRequestFailed) true.
func (e *RequestFailedError) Is(target error) bool {
	return target == ErrRequestFailed
}

func (e *RequestFailedError) Unwrap() error {
	return e.Err
}

// Invalidated reports whether the stored session was cleared because the
// server rejected the credentials.
func (e *RequestFailedError) Invalidated() bool {
	return e.invalidated
}

// IsInvalidated reports whether err is a request failure that cleared the session.
func IsInvalidated(err error) bool {
	var rf *RequestFailedError
	return errors.As(err, &rf) && rf.Invalidated()
}
