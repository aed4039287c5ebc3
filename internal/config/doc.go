// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and saves the credexa client configuration.
//
// Supports both TOML and JSON configuration formats, with defaults,
// environment variable overrides, and validation.
//
// # Configuration Precedence
//
//   - Command-line flags (applied by the caller)
//   - Environment variables (CREDEXA_*)
//   - ~/.credexa/config.toml, then ~/.credexa/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	quiet := cfg.IdleTimeout()
//
// There is no package-level instance; the loaded *Config is passed to the
// components that need it.
package config
