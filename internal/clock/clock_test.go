// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManual_FiresInDueOrder(t *testing.T) {
	clk := NewManual(time.Unix(0, 0))
	var order []string

	clk.AfterFunc(3*time.Second, func() { order = append(order, "c") })
	clk.AfterFunc(1*time.Second, func() { order = append(order, "a") })
	clk.AfterFunc(2*time.Second, func() { order = append(order, "b") })

	clk.Advance(2 * time.Second)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, 1, clk.Pending())

	clk.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, 0, clk.Pending())
}

func TestManual_NowTracksFiringTime(t *testing.T) {
	start := time.Unix(100, 0)
	clk := NewManual(start)
	var seen time.Time

	clk.AfterFunc(1500*time.Millisecond, func() { seen = clk.Now() })
	clk.Advance(5 * time.Second)

	assert.Equal(t, start.Add(1500*time.Millisecond), seen)
	assert.Equal(t, start.Add(5*time.Second), clk.Now())
}

func TestManual_CallbackSchedulesWithinWindow(t *testing.T) {
	clk := NewManual(time.Unix(0, 0))
	ticks := 0

	var tick func()
	tick = func() {
		ticks++
		clk.AfterFunc(time.Second, tick)
	}
	clk.AfterFunc(time.Second, tick)

	clk.Advance(5 * time.Second)
	assert.Equal(t, 5, ticks)
	assert.Equal(t, 1, clk.Pending())
}

func TestManual_Stop(t *testing.T) {
	clk := NewManual(time.Unix(0, 0))
	fired := false

	timer := clk.AfterFunc(time.Second, func() { fired = true })
	require.True(t, timer.Stop())
	require.False(t, timer.Stop(), "second Stop must report already stopped")

	clk.Advance(2 * time.Second)
	assert.False(t, fired)
}

func TestReal_AfterFunc(t *testing.T) {
	done := make(chan struct{})
	Real().AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("real timer did not fire")
	}
}
