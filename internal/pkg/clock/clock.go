// Package clock provides the time source used by retry loops
package clock

import (
	"context"
	"time"
)

// Clock provides time functionality
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, whichever comes first
	Sleep(ctx context.Context, d time.Duration) error
}

// Real implements Clock using actual system time
type Real struct{}

// Now returns the current time
func (c *Real) Now() time.Time {
	return time.Now()
}

// Sleep waits for d unless ctx ends first
func (c *Real) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// New returns a new real clock
func New() Clock {
	return &Real{}
}

// Fake is a manual clock for tests. Sleep advances the clock instantly.
type Fake struct {
	now    time.Time
	Sleeps []time.Duration
}

// NewFake returns a fake clock starting at start
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the fake time
func (c *Fake) Now() time.Time {
	return c.now
}

// Sleep records d and advances the clock without blocking
func (c *Fake) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.Sleeps = append(c.Sleeps, d)
	c.now = c.now.Add(d)
	return nil
}
