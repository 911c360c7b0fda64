package testutil

import (
	"context"
	"sync"
	"time"
)

// StubClock is a TimeProvider pinned to a settable instant. Sleep advances
// the clock instead of blocking, so accrual intervals can be simulated
// without real waiting.
type StubClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewStubClock creates a clock pinned to t
func NewStubClock(t time.Time) *StubClock {
	return &StubClock{now: t}
}

// Now returns the pinned instant
func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set pins the clock to t
func (c *StubClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d
func (c *StubClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Since reports the duration between the pinned instant and t
func (c *StubClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// Sleep advances the clock by d without blocking
func (c *StubClock) Sleep(d time.Duration) {
	c.Advance(d)
}

// WithTimeout delegates to the standard context timeout
func (c *StubClock) WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}
