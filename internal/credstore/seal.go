// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package credstore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/credexa/credexa-tui/internal/util"
	"golang.org/x/crypto/pbkdf2"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// SealedPrefix marks a sealed value (format: ENC:base64(nonce|ciphertext|tag)).
const SealedPrefix = "ENC:"

const (
	keySize    = 32
	saltSize   = 32
	secretSize = 32

	// DefaultIterations is the PBKDF2-SHA-256 work factor.
	DefaultIterations = 600000
)

// Sealer encrypts and decrypts the token at rest.
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

// IsSealed reports whether value carries the sealed prefix.
func IsSealed(value string) bool {
	return strings.HasPrefix(value, SealedPrefix)
}

// =============================================================================
// AES-GCM SEALER
// =============================================================================

// AESSealer seals values with AES-256-GCM using a PBKDF2-derived key.
type AESSealer struct {
	aead cipher.AEAD
}

// NewAESSealer derives a key from secret and salt.
func NewAESSealer(secret, salt []byte, iterations int) (*AESSealer, error) {
	if len(secret) == 0 || len(salt) == 0 {
		return nil, errors.New("secret and salt are required")
	}
	if iterations <= 0 {
		iterations = DefaultIterations
	}

	key := pbkdf2.Key(secret, salt, iterations, keySize, sha256.New)
	defer zeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return &AESSealer{aead: aead}, nil
}

// LoadSealer reads the install secret at path, generating it on first use.
// The file holds base64(secret|salt) with 0600 permissions.
func LoadSealer(path string) (*AESSealer, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		raw := make([]byte, secretSize+saltSize)
		if _, err := io.ReadFull(rand.Reader, raw); err != nil {
			return nil, fmt.Errorf("generate secret: %w", err)
		}
		data = []byte(base64.StdEncoding.EncodeToString(raw))
		zeroBytes(raw)
		if err := util.AtomicWriteFile(path, data, 0600); err != nil {
			return nil, fmt.Errorf("write secret: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("read secret: %w", err)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
	if err != nil || len(raw) != secretSize+saltSize {
		return nil, fmt.Errorf("%w: malformed secret file %s", ErrSealed, path)
	}
	defer zeroBytes(raw)
	return NewAESSealer(raw[:secretSize], raw[secretSize:], DefaultIterations)
}

// Seal encrypts plaintext with a fresh random nonce.
func (s *AESSealer) Seal(plaintext string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	out := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return SealedPrefix + base64.StdEncoding.EncodeToString(out), nil
}

// Open reverses Seal. Values without the prefix are returned unchanged.
func (s *AESSealer) Open(sealed string) (string, error) {
	if !IsSealed(sealed) {
		return sealed, nil
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(sealed, SealedPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSealed, err)
	}
	ns := s.aead.NonceSize()
	if len(data) < ns+s.aead.Overhead() {
		return "", fmt.Errorf("%w: ciphertext too short", ErrSealed)
	}
	plain, err := s.aead.Open(nil, data[:ns], data[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: authentication failed", ErrSealed)
	}
	return string(plain), nil
}

// zeroBytes clears key material.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
