// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package credstore persists the client session token and the user's display
// preferences in a small key-value file that survives restarts.
//
// Three backends are available:
//   - sqlite: a single kv table in a WAL-mode database (default)
//   - bolt:   one bucket in a bbolt file
//   - memory: process-local, for tests and ephemeral runs
//
// The token can optionally be sealed at rest with AES-256-GCM. Clearing the
// session is idempotent, so the API client and the timeout controller may both
// clear it without coordinating.
package credstore
