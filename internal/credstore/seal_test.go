// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package credstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSealer(t *testing.T) *AESSealer {
	t.Helper()
	s, err := NewAESSealer([]byte("secret"), []byte("salt"), 1000)
	require.NoError(t, err)
	return s
}

func TestSealRoundTrip(t *testing.T) {
	s := newTestSealer(t)

	sealed, err := s.Seal("abc")
	require.NoError(t, err)
	assert.True(t, IsSealed(sealed))
	assert.NotContains(t, sealed, "abc")

	again, err := s.Seal("abc")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce must differ")

	plain, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "abc", plain)

	plain, err = s.Open("legacy-plain")
	require.NoError(t, err)
	assert.Equal(t, "legacy-plain", plain)
}

func TestOpenTampered(t *testing.T) {
	s := newTestSealer(t)
	sealed, err := s.Seal("abc")
	require.NoError(t, err)

	tampered := sealed[:len(sealed)-4] + "AAAA"
	_, err = s.Open(tampered)
	assert.ErrorIs(t, err, ErrSealed)

	_, err = s.Open(SealedPrefix + "!!!")
	assert.ErrorIs(t, err, ErrSealed)

	_, err = s.Open(SealedPrefix + "AAAA")
	assert.ErrorIs(t, err, ErrSealed)
}

func TestStoreWithSealer(t *testing.T) {
	b := NewMemoryBackend()
	s := New(b, WithSealer(newTestSealer(t)))

	require.NoError(t, s.SetSession("abc"))
	raw, ok, err := b.Get(KeyToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(raw, SealedPrefix))

	token, ok := s.Session()
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	// Without the sealer the stored value is unusable.
	assert.False(t, New(b).HasSession())

	other, err := NewAESSealer([]byte("other"), []byte("salt"), 1000)
	require.NoError(t, err)
	assert.False(t, New(b, WithSealer(other)).HasSession())
}

func TestLoadSealerCreatesSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret")

	first, err := LoadSealer(path)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	sealed, err := first.Seal("abc")
	require.NoError(t, err)

	second, err := LoadSealer(path)
	require.NoError(t, err)
	plain, err := second.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "abc", plain)

	require.NoError(t, os.WriteFile(path, []byte("short"), 0600))
	_, err = LoadSealer(path)
	assert.ErrorIs(t, err, ErrSealed)
}

func TestNewAESSealerRequiresInput(t *testing.T) {
	_, err := NewAESSealer(nil, []byte("salt"), 1)
	assert.Error(t, err)
}
