package testutil

import (
	"sync"
	"time"
)

// StepClock is a wall clock for tests that advances by a fixed step on every
// call to Now.
//
// Rows ordered by created_at come back in insertion order, and the same test
// produces the same timestamps on every run.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type StepClock struct {
	mu    sync.Mutex
	start time.Time
	step  time.Duration
	n     int64
}

// NewStepClock creates a clock whose first Now() returns start.
func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{start: start.UTC(), step: step}
}

// Now returns the next timestamp.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.start.Add(time.Duration(c.n) * c.step)
	c.n++
	return t
}

// Calls returns how many times Now was called.
func (c *StepClock) Calls() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// Reset rewinds the clock so the next Now() returns start again.
func (c *StepClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n = 0
}
