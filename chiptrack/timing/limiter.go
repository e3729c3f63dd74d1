// Package timing paces the timer interrupt loop.
package timing

import "time"

// Limiter controls how often the tick loop runs.
type Limiter interface {
	// WaitForNextTick blocks until the next interrupt is due.
	// Returns immediately if timing is behind schedule.
	WaitForNextTick()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextTick() {}
func (n *noOpLimiter) Reset()           {}

// TickRate is the player's interrupt rate in Hz.
const TickRate = 50

// TickDuration returns the period of a timer running at rate Hz.
// Non-positive rates fall back to TickRate.
func TickDuration(rate int) time.Duration {
	if rate <= 0 {
		rate = TickRate
	}
	return time.Second / time.Duration(rate)
}

// New returns the limiter named kind ("adaptive", "ticker" or "none") for period.
func New(kind string, period time.Duration) Limiter {
	switch kind {
	case "ticker":
		return NewTickerLimiter(period)
	case "none":
		return NewNoOpLimiter()
	default:
		return NewAdaptiveLimiter(period)
	}
}
