package mock

import (
	"sync"
	"time"
)

// Clock is a manually advanced time source. Pass Clock.Now wherever a
// func() time.Time is accepted to test session expiry without sleeping.
type Clock struct {
	mu      sync.RWMutex
	current time.Time
}

// NewClock creates a clock starting at t, or at the current time if t is zero.
func NewClock(t time.Time) *Clock {
	if t.IsZero() {
		t = time.Now()
	}
	return &Clock{current: t}
}

// Now returns the clock's current time.
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	c.mu.Unlock()
}
