// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"strings"

	"github.com/credexa/credexa-tui/internal/locale"
)

// Envelope is the common response wrapper.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

// =============================================================================
// REQUESTS
// =============================================================================

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	UsernameOrEmailOrMobile string `json:"usernameOrEmailOrMobile"`
	Password                string `json:"password"`
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Username          string `json:"username"`
	Password          string `json:"password"`
	Email             string `json:"email"`
	MobileNumber      string `json:"mobileNumber"`
	PreferredLanguage string `json:"preferredLanguage"`
	PreferredCurrency string `json:"preferredCurrency"`
}

// NewRegisterRequest builds a registration from the signup form. The username
// is the trimmed full name, or the local part of the email when no name is given.
func NewRegisterRequest(fullName, email, phone, password string, l locale.Locale, c locale.Currency) RegisterRequest {
	email = strings.TrimSpace(email)
	username := strings.TrimSpace(fullName)
	if username == "" {
		username, _, _ = strings.Cut(email, "@")
	}
	return RegisterRequest{
		Username:          username,
		Password:          password,
		Email:             email,
		MobileNumber:      strings.TrimSpace(phone),
		PreferredLanguage: string(l),
		PreferredCurrency: string(c),
	}
}

// =============================================================================
// RESPONSES
// =============================================================================

// LoginResponse is the data of a successful login.
type LoginResponse struct {
	Token             string   `json:"token"`
	TokenType         string   `json:"tokenType,omitempty"`
	UserID            int64    `json:"userId,omitempty"`
	Username          string   `json:"username,omitempty"`
	Email             string   `json:"email,omitempty"`
	MobileNumber      string   `json:"mobileNumber,omitempty"`
	Roles             []string `json:"roles,omitempty"`
	PreferredLanguage string   `json:"preferredLanguage,omitempty"`
	PreferredCurrency string   `json:"preferredCurrency,omitempty"`
	LoginTime         string   `json:"loginTime,omitempty"`
	// ExpiresIn is the token lifetime in milliseconds.
	ExpiresIn int64 `json:"expiresIn,omitempty"`
}

// TokenValidation is the data of POST /validate-token.
type TokenValidation struct {
	Valid    *bool    `json:"valid"`
	Username string   `json:"username,omitempty"`
	UserID   int64    `json:"userId,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// IsValid reports the server's verdict.
func (v TokenValidation) IsValid() bool {
	return v.Valid != nil && *v.Valid
}

// BankConfig is the data of GET /bank-config.
type BankConfig struct {
	BankName              string `json:"bankName"`
	LogoURL               string `json:"logoUrl,omitempty"`
	DefaultLanguage       string `json:"defaultLanguage,omitempty"`
	DefaultCurrency       string `json:"defaultCurrency,omitempty"`
	CurrencyDecimalPlaces int    `json:"currencyDecimalPlaces"`
}

// Role is a role as embedded in a user record.
type Role struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// User is a registered user as returned by /register and /user/{username}.
type User struct {
	ID                int64  `json:"id"`
	Username          string `json:"username"`
	Email             string `json:"email,omitempty"`
	MobileNumber      string `json:"mobileNumber,omitempty"`
	PreferredLanguage string `json:"preferredLanguage,omitempty"`
	PreferredCurrency string `json:"preferredCurrency,omitempty"`
	Roles             []Role `json:"roles,omitempty"`
}
