// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package credstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/credexa/credexa-tui/internal/locale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingBackend fails every operation.
type failingBackend struct{}

var errDisk = errors.New("disk on fire")

func (failingBackend) Get(string) (string, bool, error) { return "", false, errDisk }
func (failingBackend) Put(string, string) error         { return errDisk }
func (failingBackend) Delete(string) error              { return errDisk }
func (failingBackend) Path() string                     { return "" }
func (failingBackend) Close() error                     { return nil }

func openBackends(t *testing.T) map[string]func() Backend {
	t.Helper()
	dir := t.TempDir()
	return map[string]func() Backend{
		BackendMemory: func() Backend { return NewMemoryBackend() },
		BackendSQLite: func() Backend {
			b, err := Open(BackendSQLite, filepath.Join(dir, "store.db"))
			require.NoError(t, err)
			return b
		},
		BackendBolt: func() Backend {
			b, err := Open(BackendBolt, filepath.Join(dir, "store.bolt"))
			require.NoError(t, err)
			return b
		},
	}
}

func TestSessionLifecycle(t *testing.T) {
	for name, open := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			s := New(open())
			defer s.Close()

			_, ok := s.Session()
			assert.False(t, ok)
			assert.False(t, s.HasSession())

			require.NoError(t, s.SetSession("abc"))
			token, ok := s.Session()
			assert.True(t, ok)
			assert.Equal(t, "abc", token)

			require.NoError(t, s.SetSession("def"))
			token, _ = s.Session()
			assert.Equal(t, "def", token)

			require.NoError(t, s.ClearSession())
			assert.False(t, s.HasSession())
		})
	}
}

func TestClearSessionIdempotent(t *testing.T) {
	for name, open := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			s := New(open())
			defer s.Close()

			require.NoError(t, s.ClearSession())
			require.NoError(t, s.SetSession("abc"))
			require.NoError(t, s.ClearSession())
			require.NoError(t, s.ClearSession())
			assert.False(t, s.HasSession())
		})
	}
}

func TestSetEmptySessionClears(t *testing.T) {
	s := New(NewMemoryBackend())
	require.NoError(t, s.SetSession("abc"))
	require.NoError(t, s.SetSession(""))
	assert.False(t, s.HasSession())
}

func TestPreferenceDefaults(t *testing.T) {
	s := New(NewMemoryBackend())

	assert.Equal(t, locale.English, s.Locale())
	assert.Equal(t, locale.INR, s.Currency())
	assert.False(t, s.HasPreference(PrefLocale))
	assert.False(t, s.HasPreference(PrefCurrency))
}

func TestPreferenceRoundTrip(t *testing.T) {
	s := New(NewMemoryBackend())

	require.NoError(t, s.SetCurrency(locale.KWD))
	require.NoError(t, s.SetLocale(locale.Japanese))

	assert.Equal(t, locale.KWD, s.Currency())
	assert.Equal(t, locale.Japanese, s.Locale())
	assert.True(t, s.HasPreference(PrefCurrency))

	require.NoError(t, s.SetPreference(PrefCurrency, "jpy"))
	assert.Equal(t, "JPY", s.Preference(PrefCurrency))
}

func TestPreferenceRejectsInvalid(t *testing.T) {
	s := New(NewMemoryBackend())

	assert.ErrorIs(t, s.SetPreference(PrefCurrency, "USD"), ErrInvalidPreference)
	assert.ErrorIs(t, s.SetPreference(PrefLocale, "!!"), ErrInvalidPreference)
	assert.ErrorIs(t, s.SetPreference("theme", "dark"), ErrInvalidPreference)
	assert.Equal(t, locale.INR, s.Currency())
}

func TestUnsupportedStoredValueFallsBack(t *testing.T) {
	b := NewMemoryBackend()
	require.NoError(t, b.Put(KeyCurrency, "EUR"))
	s := New(b)

	assert.Equal(t, locale.INR, s.Currency())
	assert.False(t, s.HasPreference(PrefCurrency))
}

func TestPersistsAcrossRestart(t *testing.T) {
	for _, kind := range []string{BackendSQLite, BackendBolt} {
		t.Run(kind, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "store")

			b, err := Open(kind, path)
			require.NoError(t, err)
			s := New(b)
			require.NoError(t, s.SetCurrency(locale.JPY))
			require.NoError(t, s.SetSession("abc"))
			require.NoError(t, s.Close())

			b, err = Open(kind, path)
			require.NoError(t, err)
			s = New(b)
			defer s.Close()

			assert.Equal(t, locale.JPY, s.Currency())
			token, ok := s.Session()
			assert.True(t, ok)
			assert.Equal(t, "abc", token)
			assert.Equal(t, path, s.Path())
		})
	}
}

func TestBackendFailures(t *testing.T) {
	s := New(failingBackend{})

	assert.ErrorIs(t, s.SetSession("abc"), errDisk)
	assert.ErrorIs(t, s.ClearSession(), errDisk)
	assert.ErrorIs(t, s.SetCurrency(locale.JPY), errDisk)

	// Reads degrade to absent/defaults.
	assert.False(t, s.HasSession())
	assert.Equal(t, locale.INR, s.Currency())
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open("etcd", filepath.Join(t.TempDir(), "x"))
	assert.ErrorIs(t, err, ErrUnknownBackend)

	_, err = Open(BackendSQLite, "")
	assert.ErrorIs(t, err, ErrBackend)
}

func TestParsePreferenceKind(t *testing.T) {
	k, err := ParsePreferenceKind("Language")
	require.NoError(t, err)
	assert.Equal(t, PrefLocale, k)

	k, err = ParsePreferenceKind("currency")
	require.NoError(t, err)
	assert.Equal(t, PrefCurrency, k)

	_, err = ParsePreferenceKind("theme")
	assert.ErrorIs(t, err, ErrInvalidPreference)
}

func TestWatchFileSignalsWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0600))

	w, err := WatchFile(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path+"-wal", []byte("b"), 0600))

	select {
	case <-w.Changes():
	case <-time.After(3 * time.Second):
		t.Fatal("no change signalled")
	}

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}

func TestWatchMemoryStore(t *testing.T) {
	_, err := New(NewMemoryBackend()).Watch()
	assert.ErrorIs(t, err, ErrBackend)
}
