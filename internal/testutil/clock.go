// Package testutil provides deterministic helpers for tests.
package testutil

import (
	"sync"
	"time"
)

// DeterministicClock is a clock that advances by a fixed step on every
// read, so journal timestamps are reproducible across test runs.
//
// Thread-safety: all methods are safe for concurrent use via an
// internal mutex, although the console loop itself is single-threaded.
type DeterministicClock struct {
	mu    sync.Mutex
	start time.Time
	step  time.Duration
	reads int
}

// NewDeterministicClock returns a clock whose first Now() is start and
// whose subsequent reads advance by step.
func NewDeterministicClock(start time.Time, step time.Duration) *DeterministicClock {
	return &DeterministicClock{start: start, step: step}
}

// Now returns the next timestamp in the sequence.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.start.Add(time.Duration(c.reads) * c.step)
	c.reads++
	return t
}

// Reset rewinds the clock so the next Now() returns start again.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads = 0
}
