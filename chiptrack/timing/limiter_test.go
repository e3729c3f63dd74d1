package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickDuration(t *testing.T) {
	assert.Equal(t, 20*time.Millisecond, TickDuration(TickRate))
	assert.Equal(t, 10*time.Millisecond, TickDuration(100))
	assert.Equal(t, 20*time.Millisecond, TickDuration(0))
	assert.Equal(t, 20*time.Millisecond, TickDuration(-5))
}

func TestNew(t *testing.T) {
	assert.IsType(t, &AdaptiveLimiter{}, New("adaptive", time.Millisecond))
	assert.IsType(t, &AdaptiveLimiter{}, New("", time.Millisecond))
	assert.IsType(t, &noOpLimiter{}, New("none", time.Millisecond))

	ticker := New("ticker", time.Millisecond)
	assert.IsType(t, &TickerLimiter{}, ticker)
	ticker.(*TickerLimiter).Stop()
}

func TestNoOpLimiterDoesNotBlock(t *testing.T) {
	l := NewNoOpLimiter()
	start := time.Now()
	for i := 0; i < 1000; i++ {
		l.WaitForNextTick()
	}
	l.Reset()
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestAdaptiveLimiterPaces(t *testing.T) {
	const period = 2 * time.Millisecond
	l := NewAdaptiveLimiter(period)

	start := time.Now()
	for i := 0; i < 10; i++ {
		l.WaitForNextTick()
	}
	// the first wait returns immediately, the other nine wait a period each
	assert.GreaterOrEqual(t, time.Since(start), 8*period)
}

func TestTickerLimiterPaces(t *testing.T) {
	const period = 2 * time.Millisecond
	l := NewTickerLimiter(period)
	defer l.Stop()

	start := time.Now()
	for i := 0; i < 5; i++ {
		l.WaitForNextTick()
	}
	assert.GreaterOrEqual(t, time.Since(start), 4*period)
}
