// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL points at a locally running service.
	DefaultBaseURL = "http://localhost:8080"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 15 * time.Second

	// MaxResponseSize is the maximum accepted response body size.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB

	// maxMessageLen caps error messages lifted from plain-text bodies.
	maxMessageLen = 512

	userAgent = "credexa-tui"
)

// TokenStore is the part of the credential store the client needs.
type TokenStore interface {
	Session() (string, bool)
	SetSession(token string) error
	ClearSession() error
}

// Client talks to the authentication service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      TokenStore
}

// NewClient creates a client for baseURL that reads and updates store.
func NewClient(baseURL string, store TokenStore) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		store:      store,
	}
}

// WithTimeout sets the request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// ENDPOINTS
// =============================================================================

// Login authenticates and stores the returned token before returning.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	body, err := c.do(ctx, http.MethodPost, "/login", req)
	if err != nil {
		return nil, err
	}
	env, err := decode[LoginResponse](body, true)
	if err != nil {
		return nil, err
	}
	if env.Data.Token == "" {
		return nil, fmt.Errorf("%w: login response has no token", ErrUnrecognizedShape)
	}
	if err := c.store.SetSession(env.Data.Token); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}
	return &env.Data, nil
}

// Register creates an account. It does not sign the user in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	body, err := c.do(ctx, http.MethodPost, "/register", req)
	if err != nil {
		return nil, err
	}
	env, err := decode[User](body, true)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// Logout ends the server session. The local session is cleared whether or not
// the request succeeds.
func (c *Client) Logout(ctx context.Context) error {
	_, reqErr := c.do(ctx, http.MethodPost, "/logout", nil)
	if err := c.store.ClearSession(); err != nil {
		log.Err(err).Msg("clearing session on logout")
	}
	return reqErr
}

// ValidateToken asks the server whether token is valid. The token is sent as
// a plain-text body; the stored session is neither sent nor modified.
func (c *Client) ValidateToken(ctx context.Context, token string) (*TokenValidation, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/validate-token", strings.NewReader(token))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/plain")

	status, body, err := c.send(req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, &RequestFailedError{Status: status, Message: extractMessage(body)}
	}

	env, err := decode[TokenValidation](body, true)
	if err != nil {
		return nil, err
	}
	if env.Data.Valid == nil {
		return nil, fmt.Errorf("%w: validation response has no verdict", ErrUnrecognizedShape)
	}
	return &env.Data, nil
}

// BankConfig returns the bank's branding and defaults.
func (c *Client) BankConfig(ctx context.Context) (*BankConfig, error) {
	body, err := c.do(ctx, http.MethodGet, "/bank-config", nil)
	if err != nil {
		return nil, err
	}
	env, err := decode[BankConfig](body, true)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// UserByUsername looks up a user. username is path-escaped.
func (c *Client) UserByUsername(ctx context.Context, username string) (*User, error) {
	body, err := c.do(ctx, http.MethodGet, "/user/"+url.PathEscape(username), nil)
	if err != nil {
		return nil, err
	}
	env, err := decode[User](body, true)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// Health returns the service's status string.
func (c *Client) Health(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return "", err
	}
	env, err := decode[string](body, true)
	if err != nil {
		return "", err
	}
	return env.Data, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// do sends a JSON request with the stored bearer token. A 401 clears the
// session before the error is returned.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token, ok := c.store.Session(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	status, body, readErr := c.send(req)
	if status == 0 {
		return nil, readErr
	}

	// An unreadable body still carries the status; the message is then empty.
	if status == http.StatusUnauthorized {
		if err := c.store.ClearSession(); err != nil {
			log.Err(err).Str("path", path).Msg("clearing session after 401")
		}
		return nil, &RequestFailedError{Status: status, Message: extractMessage(body), invalidated: true}
	}
	if status < 200 || status > 299 {
		return nil, &RequestFailedError{Status: status, Message: extractMessage(body)}
	}
	if readErr != nil {
		return nil, readErr
	}
	return body, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// send performs req and reads the body with a size limit. A transport failure
// reports status 0. A body read failure keeps the status and returns a nil
// body. Headers are never logged; they may carry the bearer token.
func (c *Client) send(req *http.Request) (int, []byte, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Str("request_id", req.Header.Get("X-Request-ID")).
			Msg("api request failed")
		return 0, nil, &RequestFailedError{Err: err}
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Str("request_id", req.Header.Get("X-Request-ID")).
		Msg("api request")
	if err != nil {
		return resp.StatusCode, nil, &RequestFailedError{Status: resp.StatusCode, Err: err}
	}
	return resp.StatusCode, body, nil
}

// readResponse reads the response body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// =============================================================================
// DECODING
// =============================================================================

// decode parses an envelope. With requireData, a missing or null data field
// is an unrecognized shape.
func decode[T any](body []byte, requireData bool) (*Envelope[T], error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedShape, err)
	}

	raw, ok := fields["data"]
	if requireData && (!ok || string(raw) == "null") {
		return nil, fmt.Errorf("%w: missing data", ErrUnrecognizedShape)
	}

	var env Envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: field %q: %v", ErrUnrecognizedShape, typeErr.Field, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedShape, err)
	}
	return &env, nil
}

// extractMessage pulls a human-readable message out of an error body: the
// envelope's message when present, otherwise the trimmed text.
func extractMessage(body []byte) string {
	var env struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Message != "" {
			return env.Message
		}
		if env.Error != "" {
			return env.Error
		}
		return ""
	}

	text := strings.TrimSpace(string(body))
	if runes := []rune(text); len(runes) > maxMessageLen {
		text = string(runes[:maxMessageLen])
	}
	return text
}
