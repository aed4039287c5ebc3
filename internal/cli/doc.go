// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli wires configuration, logging, the credential store and the API
// client together and exposes them as the credexa command tree.
//
// Running credexa with no subcommand starts the TUI. The subcommands drive the
// same store and client from scripts:
//
//	credexa login -u asha --password-stdin < pw.txt
//	credexa whoami
//	credexa prefs set currency JPY
//	credexa logout
//
// Global flags:
//   - --config: configuration file (default ~/.credexa/config.toml)
//   - --api-url: overrides api.base_url
//   - --store: overrides store.backend (sqlite, bolt, memory)
//   - --verbose: mirror log output to stderr
//   - --json: machine-readable output where supported
package cli
