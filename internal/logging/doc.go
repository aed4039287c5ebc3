// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the process-wide zerolog logger.
//
// The TUI owns the terminal, so logs go to a JSON-lines file by default.
// CLI commands run with --verbose additionally get a console writer on stderr.
package logging
