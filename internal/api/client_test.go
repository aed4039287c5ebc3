// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/credexa/credexa-tui/internal/credstore"
	"github.com/credexa/credexa-tui/internal/locale"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService records requests and serves canned responses.
type fakeService struct {
	mu       sync.Mutex
	auth     []string
	bodies   map[string]string
	types    map[string]string
	requests int

	meStatus int
}

func newFakeService(t *testing.T) (*fakeService, *httptest.Server) {
	t.Helper()
	f := &fakeService{bodies: map[string]string{}, types: map[string]string{}, meStatus: http.StatusOK}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			body, _ := io.ReadAll(req.Body)
			f.mu.Lock()
			f.requests++
			f.auth = append(f.auth, req.Header.Get("Authorization"))
			f.bodies[req.URL.Path] = string(body)
			f.types[req.URL.Path] = req.Header.Get("Content-Type")
			f.mu.Unlock()
			req.Body = io.NopCloser(strings.NewReader(string(body)))
			w.Header().Set("Content-Type", "application/json")
			next.ServeHTTP(w, req)
		})
	})

	r.Post("/login", func(w http.ResponseWriter, req *http.Request) {
		var in LoginRequest
		_ = json.NewDecoder(req.Body).Decode(&in)
		if in.Password != "s3cret!pass" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"success":false,"message":"Login failed: Bad credentials"}`))
			return
		}
		w.Write([]byte(`{"success":true,"message":"Login successful","data":{
			"token":"abc","tokenType":"Bearer","userId":7,"username":"asha",
			"roles":["ROLE_USER"],"preferredLanguage":"ja","preferredCurrency":"JPY",
			"loginTime":"2025-03-01T10:00:00","expiresIn":3600000}}`))
	})
	r.Post("/logout", func(w http.ResponseWriter, req *http.Request) {
		if req.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"success":false,"message":"Missing or invalid Authorization header"}`))
			return
		}
		w.Write([]byte(`{"success":true,"message":"Logout successful","data":null}`))
	})
	r.Post("/register", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true,"data":{"id":9,"username":"Asha Rao","email":"asha@example.com","roles":[{"name":"ROLE_USER"}]}}`))
	})
	r.Post("/validate-token", func(w http.ResponseWriter, req *http.Request) {
		body, _ := io.ReadAll(req.Body)
		if string(body) != "abc" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"success":false,"message":"Token validation failed"}`))
			return
		}
		w.Write([]byte(`{"success":true,"data":{"valid":true,"username":"asha","userId":7,"roles":["ROLE_USER"]}}`))
	})
	r.Get("/bank-config", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"bankName":"Credexa Bank","defaultLanguage":"en","defaultCurrency":"INR","currencyDecimalPlaces":2}}`))
	})
	r.Get("/user/{username}", func(w http.ResponseWriter, req *http.Request) {
		name, _ := url.PathUnescape(chi.URLParam(req, "username"))
		if f.meStatus != http.StatusOK {
			w.WriteHeader(f.meStatus)
			w.Write([]byte("upstream exploded\n"))
			return
		}
		json.NewEncoder(w).Encode(Envelope[User]{Success: true, Data: User{ID: 7, Username: name}})
	})
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"success":true,"data":"Login Service is running"}`))
	})
	r.Get("/weird", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`[1,2,3]`))
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeService) lastAuth() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.auth) == 0 {
		return ""
	}
	return f.auth[len(f.auth)-1]
}

func newTestClient(t *testing.T) (*Client, *credstore.Store, *fakeService) {
	t.Helper()
	f, srv := newFakeService(t)
	store := credstore.New(credstore.NewMemoryBackend())
	return NewClient(srv.URL+"/", store), store, f
}

// =============================================================================
// SESSION COUPLING
// =============================================================================

func TestLoginThenBearerThenInvalidation(t *testing.T) {
	c, store, f := newTestClient(t)
	ctx := context.Background()

	resp, err := c.Login(ctx, LoginRequest{UsernameOrEmailOrMobile: "asha", Password: "s3cret!pass"})
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.Token)
	assert.Equal(t, []string{"ROLE_USER"}, resp.Roles)
	assert.Equal(t, int64(3600000), resp.ExpiresIn)
	assert.Empty(t, f.auth[0], "login is sent without a bearer token")

	token, ok := store.Session()
	require.True(t, ok)
	assert.Equal(t, "abc", token)

	_, err = c.UserByUsername(ctx, "asha")
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", f.lastAuth())

	// Server-side the token is revoked: the next request gets a 401.
	_, err = c.Login(ctx, LoginRequest{UsernameOrEmailOrMobile: "asha", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRequestFailed))
	assert.True(t, IsInvalidated(err))

	var rf *RequestFailedError
	require.True(t, errors.As(err, &rf))
	assert.Equal(t, http.StatusUnauthorized, rf.Status)
	assert.Equal(t, "Login failed: Bad credentials", rf.Message)

	_, ok = store.Session()
	assert.False(t, ok)
}

func TestNoAuthorizationHeaderWithoutSession(t *testing.T) {
	c, _, f := newTestClient(t)

	_, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", f.lastAuth())
}

func TestLogoutClearsSession(t *testing.T) {
	c, store, f := newTestClient(t)
	require.NoError(t, store.SetSession("abc"))

	require.NoError(t, c.Logout(context.Background()))
	assert.Equal(t, "Bearer abc", f.lastAuth())
	assert.False(t, store.HasSession())
}

func TestLogoutClearsSessionEvenOnFailure(t *testing.T) {
	store := credstore.New(credstore.NewMemoryBackend())
	require.NoError(t, store.SetSession("abc"))
	c := NewClient("http://127.0.0.1:1", store)

	err := c.Logout(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.False(t, store.HasSession())

	var rf *RequestFailedError
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, 0, rf.Status)
	assert.False(t, rf.Invalidated())
}

func TestLogoutWithoutSessionIs401(t *testing.T) {
	c, store, _ := newTestClient(t)

	err := c.Logout(context.Background())
	assert.True(t, IsInvalidated(err))
	assert.False(t, store.HasSession())
}

// =============================================================================
// ENDPOINTS
// =============================================================================

func TestRegister(t *testing.T) {
	c, _, f := newTestClient(t)

	req := NewRegisterRequest("  Asha Rao ", "asha@example.com", "+91 98765", "s3cret!pass", locale.Japanese, locale.KWD)
	user, err := c.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(9), user.ID)
	assert.Equal(t, "ROLE_USER", user.Roles[0].Name)

	var sent map[string]string
	require.NoError(t, json.Unmarshal([]byte(f.bodies["/register"]), &sent))
	assert.Equal(t, "Asha Rao", sent["username"])
	assert.Equal(t, "ja", sent["preferredLanguage"])
	assert.Equal(t, "KWD", sent["preferredCurrency"])
	assert.Equal(t, "+91 98765", sent["mobileNumber"])
}

func TestNewRegisterRequestUsernameFallback(t *testing.T) {
	req := NewRegisterRequest("   ", "asha.rao@example.com", "", "pw", locale.English, locale.INR)
	assert.Equal(t, "asha.rao", req.Username)
}

func TestValidateToken(t *testing.T) {
	c, store, f := newTestClient(t)
	require.NoError(t, store.SetSession("stored"))

	v, err := c.ValidateToken(context.Background(), "abc")
	require.NoError(t, err)
	assert.True(t, v.IsValid())
	assert.Equal(t, "asha", v.Username)
	assert.Equal(t, "text/plain", f.types["/validate-token"])
	assert.Equal(t, "abc", f.bodies["/validate-token"])
	assert.Equal(t, "", f.lastAuth())

	// A rejected token does not touch the stored session.
	_, err = c.ValidateToken(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.False(t, IsInvalidated(err))
	assert.True(t, store.HasSession())
}

func TestBankConfig(t *testing.T) {
	c, _, _ := newTestClient(t)

	cfg, err := c.BankConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Credexa Bank", cfg.BankName)
	assert.Equal(t, 2, cfg.CurrencyDecimalPlaces)
}

func TestUserByUsernameEscapesPath(t *testing.T) {
	c, _, _ := newTestClient(t)

	user, err := c.UserByUsername(context.Background(), "asha rao/admin")
	require.NoError(t, err)
	assert.Equal(t, "asha rao/admin", user.Username)
}

func TestHealth(t *testing.T) {
	c, _, _ := newTestClient(t)

	status, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Login Service is running", status)
}

// =============================================================================
// ERRORS
// =============================================================================

func TestPlainTextErrorMessage(t *testing.T) {
	c, _, f := newTestClient(t)
	f.meStatus = http.StatusBadGateway

	_, err := c.UserByUsername(context.Background(), "asha")
	var rf *RequestFailedError
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, http.StatusBadGateway, rf.Status)
	assert.Equal(t, "upstream exploded", rf.Message)
	assert.Contains(t, rf.Error(), "HTTP 502")
}

func TestUnrecognizedShape(t *testing.T) {
	c, _, _ := newTestClient(t)

	_, err := c.do(context.Background(), http.MethodGet, "/weird", nil)
	require.NoError(t, err)

	_, err = decode[User]([]byte(`[1,2,3]`), true)
	assert.ErrorIs(t, err, ErrUnrecognizedShape)

	_, err = decode[User]([]byte(`{"success":true}`), true)
	assert.ErrorIs(t, err, ErrUnrecognizedShape)

	_, err = decode[User]([]byte(`{"success":true,"data":null}`), true)
	assert.ErrorIs(t, err, ErrUnrecognizedShape)

	_, err = decode[User]([]byte(`{"success":true,"data":{"id":"seven"}}`), true)
	assert.ErrorIs(t, err, ErrUnrecognizedShape)

	env, err := decode[User]([]byte(`{"success":true,"data":null}`), false)
	require.NoError(t, err)
	assert.True(t, env.Success)
}

func TestLoginWithoutTokenIsUnrecognized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"username":"asha"}}`))
	}))
	defer srv.Close()
	store := credstore.New(credstore.NewMemoryBackend())

	_, err := NewClient(srv.URL, store).Login(context.Background(), LoginRequest{})
	assert.ErrorIs(t, err, ErrUnrecognizedShape)
	assert.False(t, store.HasSession())
}

func TestExtractMessage(t *testing.T) {
	assert.Equal(t, "bad", extractMessage([]byte(`{"message":"bad"}`)))
	assert.Equal(t, "Unauthorized", extractMessage([]byte(`{"error":"Unauthorized","status":401}`)))
	assert.Equal(t, "", extractMessage([]byte(`{"success":false}`)))
	assert.Equal(t, "plain text", extractMessage([]byte("  plain text \n")))
	assert.Equal(t, "", extractMessage(nil))
	assert.Len(t, []rune(extractMessage([]byte(strings.Repeat("日", 600)))), maxMessageLen)
}

func TestResponseTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":"`))
		w.Write([]byte(strings.Repeat("x", MaxResponseSize)))
		w.Write([]byte(`"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, credstore.New(credstore.NewMemoryBackend())).Health(context.Background())
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestUnauthorizedWithUnreadableBodyClearsSession(t *testing.T) {
	tests := []struct {
		name  string
		write func(w http.ResponseWriter)
	}{
		{"oversized", func(w http.ResponseWriter) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(strings.Repeat("x", MaxResponseSize+10)))
		}},
		{"truncated", func(w http.ResponseWriter) {
			w.Header().Set("Content-Length", "100")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				tt.write(w)
			}))
			defer srv.Close()

			store := credstore.New(credstore.NewMemoryBackend())
			require.NoError(t, store.SetSession("abc"))

			_, err := NewClient(srv.URL, store).UserByUsername(context.Background(), "asha")
			var reqErr *RequestFailedError
			require.ErrorAs(t, err, &reqErr)
			assert.Equal(t, http.StatusUnauthorized, reqErr.Status)
			assert.Empty(t, reqErr.Message)
			assert.True(t, IsInvalidated(err))
			assert.False(t, store.HasSession())
		})
	}
}

func TestErrorStatusWithUnreadableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(strings.Repeat("x", MaxResponseSize+10)))
	}))
	defer srv.Close()

	store := credstore.New(credstore.NewMemoryBackend())
	require.NoError(t, store.SetSession("abc"))

	_, err := NewClient(srv.URL, store).Health(context.Background())
	var reqErr *RequestFailedError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusBadGateway, reqErr.Status)
	assert.Empty(t, reqErr.Message)
	assert.False(t, IsInvalidated(err))
	assert.True(t, store.HasSession())
}

func TestRequestIDHeader(t *testing.T) {
	ids := make(chan string, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids <- r.Header.Get("X-Request-ID")
		w.Write([]byte(`{"success":true,"data":"ok"}`))
	}))
	defer srv.Close()
	c := NewClient(srv.URL, credstore.New(credstore.NewMemoryBackend()))

	_, err := c.Health(context.Background())
	require.NoError(t, err)
	_, err = c.Health(context.Background())
	require.NoError(t, err)

	first, second := <-ids, <-ids
	assert.Len(t, first, 36)
	assert.NotEqual(t, first, second)
}
