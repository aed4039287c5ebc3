// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across credexa.
//
//   - AtomicWriteFile: crash-safe file writes for config and secrets
//   - DisplayWidth, TruncateWidth, PadCenter: terminal-cell aware string
//     helpers for mixed-script labels (₹, د.ك, 日本語)
package util
