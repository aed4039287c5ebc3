// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package credstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// =============================================================================
// BACKEND
// =============================================================================

// Backend is a durable string key-value map.
type Backend interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	// Put stores value under key, replacing any previous value.
	Put(key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
	// Path is the file backing the store, or "" for in-memory backends.
	Path() string
	Close() error
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
	BackendMemory = "memory"
)

// Open opens the named backend at path, creating parent directories as needed.
func Open(kind, path string) (Backend, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == BackendMemory {
		return NewMemoryBackend(), nil
	}
	if path == "" {
		return nil, fmt.Errorf("%w: %s backend needs a path", ErrBackend, kind)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("%w: create store directory: %v", ErrBackend, err)
	}

	switch kind {
	case "", BackendSQLite:
		return OpenSQLite(path)
	case BackendBolt:
		return OpenBolt(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, kind)
	}
}

// =============================================================================
// MEMORY BACKEND
// =============================================================================

// MemoryBackend keeps values in a map.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string]string)}
}

func (m *MemoryBackend) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryBackend) Put(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryBackend) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemoryBackend) Path() string { return "" }

func (m *MemoryBackend) Close() error { return nil }
