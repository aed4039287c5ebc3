// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/credexa/credexa-tui/internal/api"
)

var (
	ErrMissingField       = errors.New("missing required field")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// DefaultRole is granted to every registered user.
const DefaultRole = "ROLE_USER"

// Account is a registered user without the password hash.
type Account struct {
	api.User
}

// RoleNames returns the account's role names.
func (a Account) RoleNames() []string {
	names := make([]string, len(a.Roles))
	for i, r := range a.Roles {
		names[i] = r.Name
	}
	return names
}

type account struct {
	Account
	hash []byte
}

// Directory is an in-memory user registry with bcrypt password hashes.
type Directory struct {
	cost int

	mu     sync.RWMutex
	nextID int64
	users  []*account
}

// NewDirectory creates an empty registry hashing with the given bcrypt cost.
func NewDirectory(cost int) *Directory {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Directory{cost: cost, nextID: 1}
}

// Register creates an account.
func (d *Directory) Register(req api.RegisterRequest) (Account, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	switch {
	case username == "":
		return Account{}, fmt.Errorf("%w: username", ErrMissingField)
	case email == "":
		return Account{}, fmt.Errorf("%w: email", ErrMissingField)
	case req.Password == "":
		return Account{}, fmt.Errorf("%w: password", ErrMissingField)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), d.cost)
	if err != nil {
		return Account{}, fmt.Errorf("hash password: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if strings.EqualFold(u.Username, username) {
			return Account{}, ErrUsernameTaken
		}
		if strings.EqualFold(u.Email, email) {
			return Account{}, ErrEmailTaken
		}
	}

	rec := &account{
		Account: Account{User: api.User{
			ID:                d.nextID,
			Username:          username,
			Email:             email,
			MobileNumber:      strings.TrimSpace(req.MobileNumber),
			PreferredLanguage: req.PreferredLanguage,
			PreferredCurrency: req.PreferredCurrency,
			Roles:             []api.Role{{Name: DefaultRole, Description: "Standard customer"}},
		}},
		hash: hash,
	}
	d.nextID++
	d.users = append(d.users, rec)
	return rec.Account, nil
}

// Authenticate matches identifier against username, email or mobile number
// and checks the password.
func (d *Directory) Authenticate(identifier, password string) (Account, error) {
	identifier = strings.TrimSpace(identifier)

	d.mu.RLock()
	var found *account
	for _, u := range d.users {
		if strings.EqualFold(u.Username, identifier) ||
			strings.EqualFold(u.Email, identifier) ||
			(u.MobileNumber != "" && u.MobileNumber == identifier) {
			found = u
			break
		}
	}
	d.mu.RUnlock()

	if found == nil {
		return Account{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(found.hash, []byte(password)); err != nil {
		return Account{}, ErrInvalidCredentials
	}
	return found.Account, nil
}

// Lookup finds an account by username.
func (d *Directory) Lookup(username string) (Account, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if strings.EqualFold(u.Username, username) {
			return u.Account, true
		}
	}
	return Account{}, false
}
