// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package idle

import (
	"sync"
	"time"

	"github.com/credexa/credexa-tui/internal/clock"
	"golang.org/x/time/rate"
)

// DefaultDebounce collapses bursts of input events.
const DefaultDebounce = 500 * time.Millisecond

// Options configures a Monitor.
type Options struct {
	// Debounce is the window within which activity signals collapse into one
	// re-arm. Zero disables debouncing.
	Debounce time.Duration
}

// =============================================================================
// MONITOR
// =============================================================================

// Monitor raises a callback after a quiet period with no activity.
type Monitor struct {
	clk     clock.Clock
	limiter *rate.Limiter

	mu           sync.Mutex
	running      bool
	fired        bool
	quiet        time.Duration
	onIdle       func()
	lastActivity time.Time
	timer        clock.Timer
	gen          uint64
}

// New creates a stopped monitor.
func New(clk clock.Clock, opts Options) *Monitor {
	limit := rate.Inf
	if opts.Debounce > 0 {
		limit = rate.Every(opts.Debounce)
	}
	return &Monitor{
		clk:     clk,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Start arms the monitor. onIdle runs at most once per idle period, on the
// clock's timer goroutine and never under the monitor's lock. Starting a
// running monitor replaces its callback and re-arms it.
func (m *Monitor) Start(onIdle func(), quiet time.Duration) {
	if quiet < 0 {
		quiet = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.running = true
	m.fired = false
	m.quiet = quiet
	m.onIdle = onIdle
	m.lastActivity = m.clk.Now()
	m.armLocked(quiet)
}

// Activity records user input. After idle has fired it re-arms a new period.
func (m *Monitor) Activity() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}

	now := m.clk.Now()
	m.lastActivity = now

	if m.fired {
		m.fired = false
		m.armLocked(m.quiet)
		return
	}
	if m.limiter.AllowN(now, 1) {
		m.armLocked(m.quiet)
	}
}

// Reset restarts the quiet period immediately, bypassing the debounce.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.fired = false
	m.lastActivity = m.clk.Now()
	m.armLocked(m.quiet)
}

// Stop disarms the monitor. Safe to call more than once.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = false
	m.gen++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// Running reports whether the monitor is armed.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// armLocked replaces the pending timer. Callers hold m.mu.
func (m *Monitor) armLocked(d time.Duration) {
	if m.timer != nil {
		m.timer.Stop()
	}
	m.gen++
	gen := m.gen
	m.timer = m.clk.AfterFunc(d, func() { m.expire(gen) })
}

func (m *Monitor) expire(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || !m.running || m.fired {
		m.mu.Unlock()
		return
	}

	// Debounced activity may have landed after this timer was armed.
	if idleFor := m.clk.Now().Sub(m.lastActivity); idleFor < m.quiet {
		m.armLocked(m.quiet - idleFor)
		m.mu.Unlock()
		return
	}

	m.fired = true
	m.timer = nil
	cb := m.onIdle
	m.mu.Unlock()

	if cb != nil {
		cb()
	}
}
