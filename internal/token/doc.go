// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package token reads display information out of a session token.
//
// The signature is NOT verified: the server remains the authority on token
// validity. This package only extracts the subject, roles and expiry so the
// client can show who is signed in.
package token
