// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package locale holds the user-facing preference types (display language and
// currency) together with the pre-translated UI strings and amount formatting.
//
// Translations are served from an x/text message catalog; every key used by
// the UI exists in both English and Japanese.
package locale
