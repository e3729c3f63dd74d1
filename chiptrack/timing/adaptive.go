package timing

import (
	"log/slog"
	"time"
)

// driftCheckInterval is how many ticks pass between drift corrections, one second at 50 Hz.
const driftCheckInterval = TickRate

// AdaptiveLimiter uses precise timing with drift compensation.
// Combines sleep for efficiency with busy-waiting for accuracy.
type AdaptiveLimiter struct {
	period      time.Duration
	start       time.Time
	nextTick    time.Time
	tickCounter int64
}

func NewAdaptiveLimiter(period time.Duration) *AdaptiveLimiter {
	now := time.Now()
	return &AdaptiveLimiter{
		period:   period,
		start:    now,
		nextTick: now,
	}
}

func (a *AdaptiveLimiter) WaitForNextTick() {
	now := time.Now()
	sleepTime := a.nextTick.Sub(now)

	if sleepTime > 0 {
		if sleepTime >= 2*time.Millisecond {
			time.Sleep(sleepTime - time.Millisecond)
		}
		for time.Now().Before(a.nextTick) {
			// busy-wait the last stretch, higher accuracy.
		}
	} else if sleepTime < -5*time.Millisecond {
		// too far behind, skip the missed ticks instead of bursting
		a.nextTick = now
	}

	a.nextTick = a.nextTick.Add(a.period)
	a.tickCounter++

	if a.tickCounter%driftCheckInterval == 0 {
		drift := time.Now().Sub(a.nextTick)
		if drift.Abs() > 10*time.Millisecond {
			a.nextTick = a.nextTick.Add(drift / 10)
			elapsed := time.Since(a.start)
			slog.Debug("Tick timing drift correction",
				"drift_ms", drift.Milliseconds(),
				"rate_hz", float64(a.tickCounter)*float64(time.Second)/float64(elapsed))
		}
	}
}

func (a *AdaptiveLimiter) Reset() {
	now := time.Now()
	a.start = now
	a.nextTick = now
	a.tickCounter = 0
}
