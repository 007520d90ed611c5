// Package clock provides time utilities for the application
package clock

import (
	"sync"
	"time"
)

// Clock provides time functionality
type Clock interface {
	Now() time.Time
}

// Real implements Clock using actual system time
type Real struct{}

// Now returns the current time in UTC
func (c *Real) Now() time.Time {
	return time.Now().UTC()
}

// New returns a new real clock
func New() Clock {
	return &Real{}
}

// Stepping is a deterministic clock for tests. Every call to Now advances
// it by Step so timestamps stay strictly ordered.
type Stepping struct {
	mu   sync.Mutex
	now  time.Time
	Step time.Duration
}

// NewStepping returns a clock starting at start
func NewStepping(start time.Time, step time.Duration) *Stepping {
	return &Stepping{now: start, Step: step}
}

// Now returns the current instant and advances the clock
func (c *Stepping) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.Step)
	return t
}
