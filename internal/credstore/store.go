// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package credstore

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/credexa/credexa-tui/internal/locale"
	"github.com/rs/zerolog/log"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrBackend wraps any failure of the underlying storage.
	ErrBackend = errors.New("credential store backend error")
	// ErrUnknownBackend is returned by Open for an unrecognised backend name.
	ErrUnknownBackend = errors.New("unknown credential store backend")
	// ErrInvalidPreference is returned when a preference value is not supported.
	ErrInvalidPreference = errors.New("invalid preference")
	// ErrSealed indicates a sealed token could not be opened.
	ErrSealed = errors.New("sealed token cannot be opened")
)

// =============================================================================
// KEYS
// =============================================================================

// Storage keys. These names are shared with other clients of the same store.
const (
	KeyToken    = "credexa_token"
	KeyLocale   = "credexa_lang"
	KeyCurrency = "credexa_currency"
)

// PreferenceKind selects a stored preference.
type PreferenceKind string

const (
	PrefLocale   PreferenceKind = "lang"
	PrefCurrency PreferenceKind = "currency"
)

// ParsePreferenceKind accepts "lang", "language", "locale" or "currency".
func ParsePreferenceKind(s string) (PreferenceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lang", "language", "locale":
		return PrefLocale, nil
	case "currency":
		return PrefCurrency, nil
	default:
		return "", fmt.Errorf("%w: unknown preference %q", ErrInvalidPreference, s)
	}
}

func (k PreferenceKind) key() string {
	if k == PrefCurrency {
		return KeyCurrency
	}
	return KeyLocale
}

// =============================================================================
// STORE
// =============================================================================

// Store is the single owner of the persisted session token and preferences.
type Store struct {
	mu      sync.Mutex
	backend Backend
	sealer  Sealer
}

// Option configures a Store.
type Option func(*Store)

// WithSealer seals the token at rest.
func WithSealer(s Sealer) Option {
	return func(st *Store) { st.sealer = s }
}

// New wraps backend.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{backend: backend}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file, or "" for in-memory stores.
func (s *Store) Path() string {
	return s.backend.Path()
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// SetSession persists token. An empty token clears the session.
func (s *Store) SetSession(token string) error {
	if token == "" {
		return s.ClearSession()
	}

	value := token
	if s.sealer != nil {
		sealed, err := s.sealer.Seal(token)
		if err != nil {
			return fmt.Errorf("%w: seal token: %v", ErrBackend, err)
		}
		value = sealed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Put(KeyToken, value)
}

// Session returns the stored token. A read failure is logged and reported as
// absent.
func (s *Store) Session() (string, bool) {
	s.mu.Lock()
	value, ok, err := s.backend.Get(KeyToken)
	s.mu.Unlock()
	if err != nil {
		log.Warn().Err(err).Msg("reading session token")
		return "", false
	}
	if !ok || value == "" {
		return "", false
	}

	if !IsSealed(value) {
		return value, true
	}
	if s.sealer == nil {
		log.Warn().Err(ErrSealed).Msg("token is sealed but sealing is disabled")
		return "", false
	}
	token, err := s.sealer.Open(value)
	if err != nil {
		log.Warn().Err(err).Msg("opening sealed session token")
		return "", false
	}
	return token, true
}

// HasSession reports whether a token is stored.
func (s *Store) HasSession() bool {
	_, ok := s.Session()
	return ok
}

// ClearSession removes the token. Clearing an absent session succeeds.
func (s *Store) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Delete(KeyToken)
}

// =============================================================================
// PREFERENCES
// =============================================================================

// SetPreference validates and stores a preference value.
func (s *Store) SetPreference(kind PreferenceKind, value string) error {
	normalized, err := normalizePreference(kind, value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Put(kind.key(), normalized)
}

// Preference returns the stored value, or the default when it is absent,
// unreadable or no longer supported.
func (s *Store) Preference(kind PreferenceKind) string {
	if value, ok := s.storedPreference(kind); ok {
		return value
	}
	if kind == PrefCurrency {
		return string(locale.DefaultCurrency)
	}
	return string(locale.DefaultLocale)
}

// HasPreference reports whether the user has stored a valid value for kind.
func (s *Store) HasPreference(kind PreferenceKind) bool {
	_, ok := s.storedPreference(kind)
	return ok
}

func (s *Store) storedPreference(kind PreferenceKind) (string, bool) {
	s.mu.Lock()
	value, ok, err := s.backend.Get(kind.key())
	s.mu.Unlock()
	if err != nil {
		log.Warn().Err(err).Str("preference", string(kind)).Msg("reading preference")
		return "", false
	}
	if !ok {
		return "", false
	}
	normalized, err := normalizePreference(kind, value)
	if err != nil {
		return "", false
	}
	return normalized, true
}

func normalizePreference(kind PreferenceKind, value string) (string, error) {
	switch kind {
	case PrefLocale:
		l, err := locale.ParseLocale(value)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidPreference, err)
		}
		return string(l), nil
	case PrefCurrency:
		c, err := locale.ParseCurrency(value)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidPreference, err)
		}
		return string(c), nil
	default:
		return "", fmt.Errorf("%w: unknown preference %q", ErrInvalidPreference, kind)
	}
}

// SetLocale stores the display language.
func (s *Store) SetLocale(l locale.Locale) error {
	return s.SetPreference(PrefLocale, string(l))
}

// Locale returns the display language, defaulting to English.
func (s *Store) Locale() locale.Locale {
	return locale.Locale(s.Preference(PrefLocale))
}

// SetCurrency stores the display currency.
func (s *Store) SetCurrency(c locale.Currency) error {
	return s.SetPreference(PrefCurrency, string(c))
}

// Currency returns the display currency, defaulting to INR.
func (s *Store) Currency() locale.Currency {
	return locale.Currency(s.Preference(PrefCurrency))
}
