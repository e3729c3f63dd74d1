package render

import (
	"context"
	"log/slog"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogBufferWrapsNewestFirst(t *testing.T) {
	lb := NewLogBuffer(3)
	for _, msg := range []string{"a", "b", "c", "d"} {
		lb.Add(LogEntry{Level: slog.LevelInfo, Message: msg})
	}

	assert.Equal(t, 3, lb.Len())
	recent := lb.Recent(0, slog.LevelDebug)
	require.Len(t, recent, 3)
	assert.Equal(t, "d", recent[0].Message)
	assert.Equal(t, "b", recent[2].Message)

	assert.Len(t, lb.Recent(2, slog.LevelDebug), 2)

	lb.Clear()
	assert.Empty(t, lb.Recent(0, slog.LevelDebug))
}

func TestLogBufferFiltersLevel(t *testing.T) {
	lb := NewLogBuffer(10)
	lb.Add(LogEntry{Level: slog.LevelDebug, Message: "dbg"})
	lb.Add(LogEntry{Level: slog.LevelWarn, Message: "warn"})
	lb.Add(LogEntry{Level: slog.LevelInfo, Message: "info"})

	recent := lb.Recent(0, slog.LevelInfo)
	require.Len(t, recent, 2)
	assert.Equal(t, "info", recent[0].Message)
	assert.Equal(t, "warn", recent[1].Message)
}

func TestLogBufferHandler(t *testing.T) {
	lb := NewLogBuffer(10)
	logger := slog.New(NewLogBufferHandler(lb, slog.LevelInfo))

	logger.Debug("hidden")
	logger.With("voice", 2).WithGroup("reg").Info("write", "value", 7)

	recent := lb.Recent(0, slog.LevelDebug)
	require.Len(t, recent, 1)
	assert.Equal(t, "write voice=2 reg.value=7", recent[0].Message)
	assert.True(t, NewLogBufferHandler(lb, slog.LevelWarn).Enabled(context.Background(), slog.LevelError))
}

func TestFormatLogEntry(t *testing.T) {
	ts := time.Date(2024, 1, 1, 12, 30, 45, 0, time.UTC)
	assert.Equal(t, "12:30:45 [WRN] careful", FormatLogEntry(LogEntry{Time: ts, Level: slog.LevelWarn, Message: "careful"}))
	assert.Equal(t, "12:30:45 [DBG] x", FormatLogEntry(LogEntry{Time: ts, Level: slog.LevelDebug - 4, Message: "x"}))
}

func TestMeter(t *testing.T) {
	assert.Equal(t, "····", Meter(0, 4))
	assert.Equal(t, "████", Meter(255, 4))
	assert.Equal(t, "██··", Meter(128, 4))
	assert.Equal(t, 10, utf8.RuneCountInString(Meter(77, 10)))
	assert.Empty(t, Meter(200, 0))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc...", Truncate("abcdefghij", 6))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
	assert.Equal(t, "", Truncate("abc", 0))
}
