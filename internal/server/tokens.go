// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/credexa/credexa-tui/internal/clock"
)

// ErrTokenRevoked is returned by Verify for a token that was logged out.
var ErrTokenRevoked = errors.New("token has been revoked")

// Claims are the JWT claims issued at login.
type Claims struct {
	Username string   `json:"username"`
	UserID   int64    `json:"userId"`
	Roles    []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens and tracks revocations.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock

	mu      sync.Mutex
	revoked map[string]time.Time // jti -> expiry
}

// NewTokenIssuer creates an issuer. A nil secret is replaced by 32 random bytes.
func NewTokenIssuer(secret []byte, ttl time.Duration, clk clock.Clock) (*TokenIssuer, error) {
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate signing key: %w", err)
		}
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &TokenIssuer{
		secret:  secret,
		ttl:     ttl,
		clock:   clk,
		revoked: make(map[string]time.Time),
	}, nil
}

// TTL is the lifetime of issued tokens.
func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

// Issue signs a token for user.
func (t *TokenIssuer) Issue(user Account) (string, *Claims, error) {
	now := t.clock.Now()
	claims := &Claims{
		Username: user.Username,
		UserID:   user.ID,
		Roles:    user.RoleNames(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.Username,
			Issuer:    "credexa-dev",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Verify checks the signature, expiry and revocation list.
func (t *TokenIssuer) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (interface{}, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	_, revoked := t.revoked[claims.ID]
	t.mu.Unlock()
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Revoke invalidates the token until it would have expired anyway.
func (t *TokenIssuer) Revoke(c *Claims) {
	now := t.clock.Now()

	t.mu.Lock()
	defer t.mu.Unlock()
	for id, exp := range t.revoked {
		if !now.Before(exp) {
			delete(t.revoked, id)
		}
	}
	if c.ExpiresAt != nil {
		t.revoked[c.ID] = c.ExpiresAt.Time
	}
}
