// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package idle detects periods without user activity.
//
// A Monitor is armed with a quiet duration and raises its idle callback once
// that much time passes without Activity. Activity is debounced: within the
// debounce window only the first call re-arms the timer, later calls just
// record the timestamp, and a timer that fires early re-arms for the
// remaining time instead of raising idle.
package idle
