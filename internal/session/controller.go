// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"math"
	"sync"
	"time"

	"github.com/credexa/credexa-tui/internal/clock"
	"github.com/credexa/credexa-tui/internal/idle"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// =============================================================================
// STATE
// =============================================================================

// Phase is the controller's position in the timeout state machine.
type Phase int

const (
	// Active: the user is considered present.
	Active Phase = iota
	// Warning: the countdown modal is visible.
	Warning
	// Expired: the session was cleared and logout was requested.
	Expired
)

// String returns a string representation of the Phase.
func (p Phase) String() string {
	switch p {
	case Active:
		return "active"
	case Warning:
		return "warning"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// State is a snapshot of the controller. SecondsRemaining is only meaningful
// in Warning.
type State struct {
	Phase            Phase
	SecondsRemaining int
}

// =============================================================================
// CONFIG
// =============================================================================

// Config holds the timeout policy.
type Config struct {
	// QuietDuration is the total allowed inactivity before logout.
	QuietDuration time.Duration
	// WarningLead is the tail of QuietDuration shown as a countdown.
	WarningLead time.Duration
	// Debounce collapses bursts of activity signals.
	Debounce time.Duration
}

// DefaultConfig returns a 5 minute policy with a 30 second warning.
func DefaultConfig() Config {
	return Config{
		QuietDuration: 5 * time.Minute,
		WarningLead:   30 * time.Second,
		Debounce:      idle.DefaultDebounce,
	}
}

// IdleThreshold is how long the user may be inactive before the warning.
func (c Config) IdleThreshold() time.Duration {
	if d := c.QuietDuration - c.WarningLead; d > 0 {
		return d
	}
	return 0
}

// leadSeconds is the countdown start value, at least 1.
func (c Config) leadSeconds() int {
	n := int(math.Ceil(c.WarningLead.Seconds()))
	if n < 1 {
		return 1
	}
	return n
}

// SessionStore is the part of the credential store the controller needs.
type SessionStore interface {
	HasSession() bool
	ClearSession() error
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller runs the idle timeout state machine.
type Controller struct {
	id      string
	clk     clock.Clock
	store   SessionStore
	cfg     Config
	monitor *idle.Monitor

	mu        sync.Mutex
	state     State
	countdown clock.Timer
	gen       uint64
	started   bool
	tornDown  bool
	onLogout  func()
	observers []func(State)
}

// New creates a controller in Active. Nothing is armed until Start.
func New(clk clock.Clock, store SessionStore, cfg Config) *Controller {
	return &Controller{
		id:      uuid.NewString(),
		clk:     clk,
		store:   store,
		cfg:     cfg,
		monitor: idle.New(clk, idle.Options{Debounce: cfg.Debounce}),
		state:   State{Phase: Active},
	}
}

// Start creates a controller and starts it.
func Start(clk clock.Clock, store SessionStore, cfg Config, onLogout func()) *Controller {
	c := New(clk, store, cfg)
	c.Start(onLogout)
	return c
}

// OnChange registers fn to receive every state change. fn runs outside the
// controller's lock and may call back into it.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Start arms idle tracking. Without a stored session the controller stays
// inert. Calling Start more than once has no effect.
func (c *Controller) Start(onLogout func()) {
	c.mu.Lock()
	if c.started || c.tornDown {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.onLogout = onLogout
	c.mu.Unlock()

	if !c.store.HasSession() {
		c.event("SESSION_IDLE_SKIPPED").Str("reason", "no_session").Msg("session")
		return
	}

	c.monitor.Start(c.handleIdle, c.cfg.IdleThreshold())
	c.event("SESSION_IDLE_ARMED").
		Dur("quiet", c.cfg.QuietDuration).
		Dur("lead", c.cfg.WarningLead).
		Msg("session")
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Activity forwards a user-activity signal. Ignored outside Active so the
// warning can only be dismissed explicitly.
func (c *Controller) Activity() {
	c.mu.Lock()
	active := c.state.Phase == Active && !c.tornDown
	c.mu.Unlock()
	if active {
		c.monitor.Activity()
	}
}

// Stay dismisses the warning and restarts the idle period. No effect outside
// Warning.
func (c *Controller) Stay() {
	c.mu.Lock()
	if c.state.Phase != Warning || c.tornDown {
		c.mu.Unlock()
		return
	}
	remaining := c.state.SecondsRemaining
	c.cancelCountdownLocked()
	c.state = State{Phase: Active}
	snapshot := c.state
	observers := c.observers
	c.mu.Unlock()

	c.monitor.Reset()
	c.event("SESSION_EXTENDED").Int("seconds_remaining", remaining).Msg("session")
	notify(observers, snapshot)
}

// Teardown cancels every outstanding timer. Safe to call more than once.
func (c *Controller) Teardown() {
	c.mu.Lock()
	if c.tornDown {
		c.mu.Unlock()
		return
	}
	c.tornDown = true
	c.cancelCountdownLocked()
	phase := c.state.Phase
	c.mu.Unlock()

	c.monitor.Stop()
	c.event("SESSION_TEARDOWN").Stringer("phase", phase).Msg("session")
}

// =============================================================================
// TRANSITIONS
// =============================================================================

func (c *Controller) handleIdle() {
	if !c.store.HasSession() {
		// Cleared elsewhere (401 or another process): log out now.
		c.mu.Lock()
		if c.state.Phase != Active || c.tornDown {
			c.mu.Unlock()
			return
		}
		c.expireLocked("no_session")
		return
	}

	c.mu.Lock()
	if c.state.Phase != Active || c.tornDown {
		c.mu.Unlock()
		return
	}
	c.state = State{Phase: Warning, SecondsRemaining: c.cfg.leadSeconds()}
	c.scheduleTickLocked()
	snapshot := c.state
	observers := c.observers
	c.mu.Unlock()

	c.event("SESSION_WARNING").Int("expires_in", snapshot.SecondsRemaining).Msg("session")
	notify(observers, snapshot)
}

func (c *Controller) tick(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.state.Phase != Warning || c.tornDown {
		c.mu.Unlock()
		return
	}

	c.state.SecondsRemaining--
	if c.state.SecondsRemaining <= 0 {
		c.expireLocked("countdown")
		return
	}
	c.scheduleTickLocked()
	snapshot := c.state
	observers := c.observers
	c.mu.Unlock()

	notify(observers, snapshot)
}

// expireLocked enters Expired. Called with c.mu held; it releases the lock.
func (c *Controller) expireLocked(reason string) {
	c.cancelCountdownLocked()
	c.state = State{Phase: Expired}
	snapshot := c.state
	observers := c.observers
	onLogout := c.onLogout
	c.onLogout = nil
	c.mu.Unlock()

	if err := c.store.ClearSession(); err != nil {
		log.Err(err).Str("controller", c.id).Msg("clearing session on expiry")
	}
	c.monitor.Stop()
	c.event("SESSION_EXPIRED").Str("reason", reason).Msg("session")

	notify(observers, snapshot)
	if onLogout != nil {
		onLogout()
	}
}

// scheduleTickLocked arms the next one second tick under the current generation.
func (c *Controller) scheduleTickLocked() {
	if c.countdown != nil {
		c.countdown.Stop()
	}
	gen := c.gen
	c.countdown = c.clk.AfterFunc(time.Second, func() { c.tick(gen) })
}

// cancelCountdownLocked invalidates any queued tick.
func (c *Controller) cancelCountdownLocked() {
	c.gen++
	if c.countdown != nil {
		c.countdown.Stop()
		c.countdown = nil
	}
}

func (c *Controller) event(eventType string) *zerolog.Event {
	return log.Info().Str("event", eventType).Str("controller", c.id)
}

func notify(observers []func(State), s State) {
	for _, fn := range observers {
		fn(s)
	}
}
