// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server is an in-memory implementation of the Credexa
// authentication API for local development and end-to-end tests.
//
// Endpoints:
//   - GET  /health            - service status ("UP")
//   - GET  /bank-config       - branding and defaults
//   - POST /register          - create an account
//   - POST /login             - issue a bearer token (rate limited per IP)
//   - POST /validate-token    - check a token sent as the plain-text body
//   - POST /logout            - revoke the caller's token
//   - GET  /user/{username}   - look up an account
//
// Responses use the {success, message, data} envelope. Passwords are stored
// as bcrypt hashes and tokens are HS256 JWTs. Nothing is persisted.
package server
