// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package clock abstracts wall-clock time and one-shot timers.
//
// The idle monitor and the session timeout controller never call time.Now or
// time.AfterFunc directly. They take a Clock so that production code runs on
// Real while tests drive every tick deterministically with a Manual clock:
//
//	clk := clock.NewManual(time.Unix(0, 0))
//	clk.AfterFunc(time.Second, fire)
//	clk.Advance(time.Second) // fire runs synchronously here
package clock
