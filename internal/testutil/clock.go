// Package testutil provides deterministic collaborators for tests.
package testutil

import "sync"

// DeterministicClock provides a thread-safe monotonic clock for tests.
//
// Each call to Now advances the clock by step, starting from start, so
// update_time values are predictable and strictly increasing.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu    sync.Mutex
	start int64
	step  int64
	ticks int64
}

// NewDeterministicClock creates a clock whose first Now() returns start+step.
func NewDeterministicClock(start, step int64) *DeterministicClock {
	return &DeterministicClock{start: start, step: step}
}

// Now advances the clock and returns the new time.
func (c *DeterministicClock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks++
	return c.start + c.ticks*c.step
}

// Current returns the last value handed out without advancing.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.start + c.ticks*c.step
}

// Reset rewinds the clock so the next Now() returns start+step again.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks = 0
}
