// Package budget meters external oracle calls against a periodic ceiling.
package budget

import (
	"fmt"
	"sync"
	"time"

	"github.com/starford/raido/internal/apperr"
)

// Counter is an increment-and-check guard for metered external calls.
// Take must be called before every outbound call; once the ceiling is
// reached within the current window it fails with apperr.ErrQuotaExceeded
// and the caller must not issue the call.
//
// A window of zero disables the periodic reset (the ceiling then covers
// the whole process lifetime).
type Counter struct {
	mu       sync.Mutex
	ceiling  int
	window   time.Duration
	used     int
	windowAt time.Time

	now func() time.Time // overridable in tests
}

// NewCounter creates a counter allowing ceiling calls per window.
func NewCounter(ceiling int, window time.Duration) *Counter {
	return &Counter{
		ceiling:  ceiling,
		window:   window,
		windowAt: time.Now(),
		now:      time.Now,
	}
}

// Take consumes one call from the budget. It returns an error wrapping
// apperr.ErrQuotaExceeded when the ceiling for the current window has
// already been reached.
func (c *Counter) Take() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.window > 0 && c.now().Sub(c.windowAt) >= c.window {
		c.used = 0
		c.windowAt = c.now()
	}
	if c.used >= c.ceiling {
		return fmt.Errorf("budget: %d of %d calls used: %w", c.used, c.ceiling, apperr.ErrQuotaExceeded)
	}
	c.used++
	return nil
}

// Used returns the number of calls consumed in the current window.
func (c *Counter) Used() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used
}

// Remaining returns how many calls are left in the current window.
func (c *Counter) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.used >= c.ceiling {
		return 0
	}
	return c.ceiling - c.used
}
