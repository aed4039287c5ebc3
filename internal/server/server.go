// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/credexa/credexa-tui/internal/api"
	"github.com/credexa/credexa-tui/internal/clock"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultAddr is where the development server listens.
	DefaultAddr = "127.0.0.1:8080"

	// DefaultTokenTTL is the lifetime of issued tokens.
	DefaultTokenTTL = time.Hour

	// MaxRequestBodySize caps request bodies (64KB).
	MaxRequestBodySize = 64 * 1024
)

// DefaultBank is the bank configuration served when none is given.
var DefaultBank = api.BankConfig{
	BankName:              "Credexa Bank",
	DefaultLanguage:       "en",
	DefaultCurrency:       "INR",
	CurrencyDecimalPlaces: 2,
}

// ============================================================================
// SERVER
// ============================================================================

// Options configures a Server.
type Options struct {
	Addr     string
	Bank     api.BankConfig
	TokenTTL time.Duration
	// Secret signs tokens. Random when empty.
	Secret []byte
	// BcryptCost is the password hashing cost. Zero means bcrypt.DefaultCost.
	BcryptCost   int
	Clock        clock.Clock
	LoginLimiter *RateLimiter
}

// Server implements the authentication API in memory for local development
// and tests.
type Server struct {
	addr   string
	bank   api.BankConfig
	users  *Directory
	tokens *TokenIssuer
	clock  clock.Clock

	handler http.Handler

	mu         sync.Mutex
	httpServer *http.Server
}

// New creates a Server. Zero option fields take their defaults.
func New(opts Options) (*Server, error) {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Bank.BankName == "" {
		opts.Bank = DefaultBank
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = DefaultTokenTTL
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.LoginLimiter == nil {
		opts.LoginLimiter = DefaultLoginLimiter()
	}

	tokens, err := NewTokenIssuer(opts.Secret, opts.TokenTTL, opts.Clock)
	if err != nil {
		return nil, err
	}

	s := &Server{
		addr:   opts.Addr,
		bank:   opts.Bank,
		users:  NewDirectory(opts.BcryptCost),
		tokens: tokens,
		clock:  opts.Clock,
	}
	s.handler = s.routes(opts.LoginLimiter)
	return s, nil
}

// Users gives access to the account registry, e.g. for seeding.
func (s *Server) Users() *Directory {
	return s.users
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes(limiter *RateLimiter) http.Handler {
	r := chi.NewRouter()
	r.Use(RecoveryMiddleware, SecurityHeadersMiddleware, LoggingMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/bank-config", s.handleBankConfig)
	r.Post("/register", s.handleRegister)
	r.With(RateLimitMiddleware(limiter)).Post("/login", s.handleLogin)
	r.Post("/validate-token", s.handleValidateToken)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.tokens))
		r.Post("/logout", s.handleLogout)
		r.Get("/user/{username}", s.handleUser)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	return r
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusOK, "", "UP")
}

func (s *Server) handleBankConfig(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusOK, "", s.bank)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	acct, err := s.users.Register(req)
	switch {
	case errors.Is(err, ErrMissingField):
		writeError(w, http.StatusBadRequest, "Username, email and password are required")
		return
	case errors.Is(err, ErrUsernameTaken):
		writeError(w, http.StatusConflict, "Username already taken")
		return
	case errors.Is(err, ErrEmailTaken):
		writeError(w, http.StatusConflict, "Email already registered")
		return
	case err != nil:
		log.Error().Err(err).Msg("registering user")
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	log.Info().Str("event", "USER_REGISTERED").Int64("user_id", acct.ID).Msg("user registered")
	writeOK(w, http.StatusCreated, "User registered successfully", acct.User)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.UsernameOrEmailOrMobile) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	acct, err := s.users.Authenticate(req.UsernameOrEmailOrMobile, req.Password)
	if err != nil {
		log.Warn().Str("event", "LOGIN_FAILED").Str("ip", GetClientIP(r)).Msg("login failed")
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	signed, claims, err := s.tokens.Issue(acct)
	if err != nil {
		log.Error().Err(err).Msg("issuing token")
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	log.Info().Str("event", "LOGIN_SUCCESS").Int64("user_id", acct.ID).Msg("user signed in")
	writeOK(w, http.StatusOK, "Login successful", api.LoginResponse{
		Token:             signed,
		TokenType:         "Bearer",
		UserID:            acct.ID,
		Username:          acct.Username,
		Email:             acct.Email,
		MobileNumber:      acct.MobileNumber,
		Roles:             claims.Roles,
		PreferredLanguage: acct.PreferredLanguage,
		PreferredCurrency: acct.PreferredCurrency,
		LoginTime:         claims.IssuedAt.Time.UTC().Format(time.RFC3339),
		ExpiresIn:         s.tokens.TTL().Milliseconds(),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	s.tokens.Revoke(claims)
	log.Info().Str("event", "LOGOUT").Int64("user_id", claims.UserID).Msg("user signed out")
	writeOK(w, http.StatusOK, "Logged out successfully", nil)
}

func (s *Server) handleValidateToken(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxRequestBodySize))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}

	verdict := func(v bool) *bool { return &v }
	claims, err := s.tokens.Verify(strings.TrimSpace(string(body)))
	if err != nil {
		writeOK(w, http.StatusOK, "", api.TokenValidation{Valid: verdict(false), Message: "Invalid or expired token"})
		return
	}
	writeOK(w, http.StatusOK, "", api.TokenValidation{
		Valid:    verdict(true),
		Username: claims.Username,
		UserID:   claims.UserID,
		Roles:    claims.Roles,
	})
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	acct, ok := s.users.Lookup(chi.URLParam(r, "username"))
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeOK(w, http.StatusOK, "", acct.User)
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// ListenAndServe listens on the configured address.
func (s *Server) ListenAndServe() error {
	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(l)
}

// Serve accepts connections on l until Shutdown.
func (s *Server) Serve(l net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	log.Info().Str("addr", l.Addr().String()).Msg("SERVER_START")
	if err := srv.Serve(l); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	log.Info().Msg("SERVER_SHUTDOWN")
	return srv.Shutdown(ctx)
}

// ============================================================================
// HELPERS
// ============================================================================

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBodySize))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return false
	}
	return true
}

func writeOK(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, api.Envelope[interface{}]{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, api.Envelope[interface{}]{Success: false, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("writing response")
	}
}
