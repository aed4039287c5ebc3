// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the Credexa authentication service.
//
// Every request carries the stored bearer token when one exists. A 401 from
// the server clears the stored session before the error is returned, so
// callers only need to route the user back to sign-in. Login stores the
// returned token; Logout clears it.
//
// All responses use the envelope {success, message, data}. Successful bodies
// are decoded into typed structs per endpoint; a body that does not match
// fails with ErrUnrecognizedShape. Requests are never retried.
package api
