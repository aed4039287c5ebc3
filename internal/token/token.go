// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package token

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotJWT indicates the token is opaque or malformed.
var ErrNotJWT = errors.New("token is not a readable JWT")

// Info is what the client can learn from a token without verifying it.
type Info struct {
	Subject   string
	Username  string
	UserID    int64
	Roles     []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Inspect decodes raw's claims without checking the signature.
func Inspect(raw string) (*Info, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(raw), claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}

	info := &Info{}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}

	info.Username = stringClaim(claims, "username")
	if info.Username == "" {
		info.Username = info.Subject
	}
	if id, ok := claims["userId"].(float64); ok {
		info.UserID = int64(id)
	}
	info.Roles = roleClaim(claims)
	return info, nil
}

// HasExpiry reports whether the token carries an exp claim.
func (i *Info) HasExpiry() bool {
	return !i.ExpiresAt.IsZero()
}

// Expired reports whether the token's exp is at or before now.
func (i *Info) Expired(now time.Time) bool {
	return i.HasExpiry() && !now.Before(i.ExpiresAt)
}

// Remaining returns the time left before expiry, zero when expired or unknown.
func (i *Info) Remaining(now time.Time) time.Duration {
	if !i.HasExpiry() || i.Expired(now) {
		return 0
	}
	return i.ExpiresAt.Sub(now)
}

func stringClaim(claims jwt.MapClaims, name string) string {
	if s, ok := claims[name].(string); ok {
		return s
	}
	return ""
}

// roleClaim accepts "roles" or "authorities" as a list or a comma-separated string.
func roleClaim(claims jwt.MapClaims) []string {
	var roles []string
	for _, name := range []string{"roles", "authorities"} {
		switch v := claims[name].(type) {
		case []any:
			for _, r := range v {
				if s, ok := r.(string); ok && s != "" {
					roles = append(roles, s)
				}
			}
		case string:
			for _, r := range strings.Split(v, ",") {
				if r = strings.TrimSpace(r); r != "" {
					roles = append(roles, r)
				}
			}
		}
		if len(roles) > 0 {
			break
		}
	}
	sort.Strings(roles)
	return roles
}
