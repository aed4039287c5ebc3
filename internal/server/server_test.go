// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/credexa/credexa-tui/internal/api"
	"github.com/credexa/credexa-tui/internal/clock"
	"github.com/credexa/credexa-tui/internal/credstore"
	"github.com/credexa/credexa-tui/internal/locale"
	"github.com/credexa/credexa-tui/internal/token"
)

const password = "s3cretpass!"

type fixture struct {
	srv    *Server
	clk    *clock.Manual
	store  *credstore.Store
	client *api.Client
	url    string
}

func newFixture(t *testing.T, limiter *RateLimiter) *fixture {
	t.Helper()
	clk := clock.NewManual(time.Now())
	srv, err := New(Options{
		BcryptCost:   bcrypt.MinCost,
		Clock:        clk,
		TokenTTL:     10 * time.Minute,
		LoginLimiter: limiter,
	})
	require.NoError(t, err)

	hs := httptest.NewServer(srv.Handler())
	t.Cleanup(hs.Close)

	backend, err := credstore.Open(credstore.BackendMemory, "")
	require.NoError(t, err)
	store := credstore.New(backend)

	return &fixture{srv: srv, clk: clk, store: store, client: api.NewClient(hs.URL, store), url: hs.URL}
}

func (f *fixture) register(t *testing.T) {
	t.Helper()
	_, err := f.client.Register(context.Background(),
		api.NewRegisterRequest("asha", "asha@example.com", "9000000001", password, locale.Japanese, locale.KWD))
	require.NoError(t, err)
}

// =============================================================================
// END TO END
// =============================================================================

func TestServer_RegisterLoginLookupLogout(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	user, err := f.client.Register(ctx,
		api.NewRegisterRequest("", "asha@example.com", "9000000001", password, locale.Japanese, locale.KWD))
	require.NoError(t, err)
	assert.Equal(t, "asha", user.Username)
	assert.Equal(t, int64(1), user.ID)
	require.Len(t, user.Roles, 1)
	assert.Equal(t, DefaultRole, user.Roles[0].Name)

	resp, err := f.client.Login(ctx, api.LoginRequest{UsernameOrEmailOrMobile: "ASHA@example.com", Password: password})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "ja", resp.PreferredLanguage)
	assert.Equal(t, "KWD", resp.PreferredCurrency)
	assert.Equal(t, (10 * time.Minute).Milliseconds(), resp.ExpiresIn)

	stored, ok := f.store.Session()
	require.True(t, ok)
	assert.Equal(t, resp.Token, stored)

	info, err := token.Inspect(stored)
	require.NoError(t, err)
	assert.Equal(t, "asha", info.Username)
	assert.Equal(t, int64(1), info.UserID)
	assert.Equal(t, []string{DefaultRole}, info.Roles)
	assert.InDelta(t, 600, info.Remaining(f.clk.Now()).Seconds(), 1)

	profile, err := f.client.UserByUsername(ctx, "asha")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", profile.Email)
	assert.Equal(t, "9000000001", profile.MobileNumber)

	v, err := f.client.ValidateToken(ctx, stored)
	require.NoError(t, err)
	assert.True(t, v.IsValid())
	assert.Equal(t, "asha", v.Username)

	require.NoError(t, f.client.Logout(ctx))
	assert.False(t, f.store.HasSession())

	v, err = f.client.ValidateToken(ctx, stored)
	require.NoError(t, err)
	assert.False(t, v.IsValid())
	assert.NotEmpty(t, v.Message)
}

func TestServer_LoginByMobileNumber(t *testing.T) {
	f := newFixture(t, nil)
	f.register(t)

	resp, err := f.client.Login(context.Background(), api.LoginRequest{UsernameOrEmailOrMobile: "9000000001", Password: password})
	require.NoError(t, err)
	assert.Equal(t, "asha", resp.Username)
}

func TestServer_BadCredentials(t *testing.T) {
	f := newFixture(t, nil)
	f.register(t)

	for _, id := range []string{"asha", "nobody"} {
		_, err := f.client.Login(context.Background(), api.LoginRequest{UsernameOrEmailOrMobile: id, Password: "wrong-pass!"})
		var reqErr *api.RequestFailedError
		require.ErrorAs(t, err, &reqErr, id)
		assert.Equal(t, http.StatusUnauthorized, reqErr.Status)
		assert.Equal(t, "Invalid credentials", reqErr.Message)
	}
	assert.False(t, f.store.HasSession())
}

func TestServer_DuplicateRegistration(t *testing.T) {
	f := newFixture(t, nil)
	f.register(t)
	ctx := context.Background()

	_, err := f.client.Register(ctx, api.NewRegisterRequest("Asha", "other@example.com", "", password, locale.English, locale.INR))
	var reqErr *api.RequestFailedError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusConflict, reqErr.Status)
	assert.Equal(t, "Username already taken", reqErr.Message)

	_, err = f.client.Register(ctx, api.NewRegisterRequest("ravi", "asha@example.com", "", password, locale.English, locale.INR))
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "Email already registered", reqErr.Message)

	_, err = f.client.Register(ctx, api.RegisterRequest{Username: "ravi"})
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusBadRequest, reqErr.Status)
}

func TestServer_ExpiredTokenInvalidatesSession(t *testing.T) {
	f := newFixture(t, nil)
	f.register(t)
	ctx := context.Background()

	_, err := f.client.Login(ctx, api.LoginRequest{UsernameOrEmailOrMobile: "asha", Password: password})
	require.NoError(t, err)

	f.clk.Advance(11 * time.Minute)

	_, err = f.client.UserByUsername(ctx, "asha")
	require.Error(t, err)
	assert.True(t, api.IsInvalidated(err))
	assert.False(t, f.store.HasSession())
}

func TestServer_UnknownUser(t *testing.T) {
	f := newFixture(t, nil)
	f.register(t)
	ctx := context.Background()
	_, err := f.client.Login(ctx, api.LoginRequest{UsernameOrEmailOrMobile: "asha", Password: password})
	require.NoError(t, err)

	_, err = f.client.UserByUsername(ctx, "ravi")
	var reqErr *api.RequestFailedError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusNotFound, reqErr.Status)
	assert.True(t, f.store.HasSession())
}

func TestServer_AuthRequired(t *testing.T) {
	f := newFixture(t, nil)

	for _, tc := range []struct{ method, path, auth string }{
		{http.MethodPost, "/logout", ""},
		{http.MethodGet, "/user/asha", ""},
		{http.MethodGet, "/user/asha", "Bearer not-a-jwt"},
		{http.MethodGet, "/user/asha", "Basic YXNoYTpwdw=="},
	} {
		req, err := http.NewRequest(tc.method, f.url+tc.path, nil)
		require.NoError(t, err)
		if tc.auth != "" {
			req.Header.Set("Authorization", tc.auth)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s %q", tc.method, tc.path, tc.auth)
	}
}

func TestServer_PublicEndpoints(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	status, err := f.client.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "UP", status)

	bank, err := f.client.BankConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultBank, *bank)
}

func TestServer_LoginRateLimit(t *testing.T) {
	f := newFixture(t, NewRateLimiter(time.Hour, 2))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := f.client.Login(ctx, api.LoginRequest{UsernameOrEmailOrMobile: "asha", Password: password})
		var reqErr *api.RequestFailedError
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, http.StatusUnauthorized, reqErr.Status)
	}

	_, err := f.client.Login(ctx, api.LoginRequest{UsernameOrEmailOrMobile: "asha", Password: password})
	var reqErr *api.RequestFailedError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusTooManyRequests, reqErr.Status)

	// Other endpoints are not limited.
	_, err = f.client.Health(ctx)
	assert.NoError(t, err)
}

func TestServer_ResponseHeaders(t *testing.T) {
	f := newFixture(t, nil)

	req, err := http.NewRequest(http.MethodGet, f.url+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "req-42")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "req-42", resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json"))
}

func TestServer_RecoversFromPanics(t *testing.T) {
	h := RecoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

// =============================================================================
// UNITS
// =============================================================================

func TestTokenIssuer_RejectsForeignSignature(t *testing.T) {
	clk := clock.NewManual(time.Now())
	a, err := NewTokenIssuer([]byte("key-a"), time.Minute, clk)
	require.NoError(t, err)
	b, err := NewTokenIssuer([]byte("key-b"), time.Minute, clk)
	require.NoError(t, err)

	signed, _, err := a.Issue(Account{User: api.User{ID: 1, Username: "asha"}})
	require.NoError(t, err)

	_, err = b.Verify(signed)
	assert.Error(t, err)

	claims, err := a.Verify(signed)
	require.NoError(t, err)
	a.Revoke(claims)
	_, err = a.Verify(signed)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		want       string
	}{
		{"direct", "203.0.113.7:5555", "", "203.0.113.7"},
		{"untrusted proxy header ignored", "203.0.113.7:5555", "198.51.100.1", "203.0.113.7"},
		{"trusted proxy", "127.0.0.1:5555", "198.51.100.1, 10.0.0.1", "198.51.100.1"},
		{"invalid forwarded ip", "127.0.0.1:5555", "not-an-ip", "127.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			assert.Equal(t, tt.want, GetClientIP(req))
		})
	}
}
