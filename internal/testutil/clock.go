// Package testutil provides deterministic helpers for engine and harness
// tests: a manual wall clock and canned test-module stubs.
package testutil

import (
	"sync"
	"time"
)

// ManualClock is a deterministic wall-clock source for tests.
//
// Each call to Now returns the current instant and then advances the
// clock by a fixed step, so code that measures a duration with two Now
// calls observes exactly one step. This makes module timings in test runs
// reproducible down to the millisecond.
//
// Thread-safety: all methods are safe for concurrent use.
type ManualClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewManualClock creates a clock at start that advances by step per Now call.
func NewManualClock(start time.Time, step time.Duration) *ManualClock {
	return &ManualClock{now: start, step: step}
}

// Now returns the current instant and advances the clock by one step.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Advance moves the clock forward by d without consuming a step.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
