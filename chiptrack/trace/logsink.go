// Package trace provides taps on the register write stream.
package trace

import (
	"context"
	"log/slog"

	"github.com/valerio/go-chiptrack/chiptrack/addr"
)

// Bus is anything that accepts voice register writes.
type Bus interface {
	WriteRegister(voice int, reg addr.Register, value uint32)
}

// LogSink logs every register write and forwards it to the next bus, if any.
// Handy for following a song write by write.
type LogSink struct {
	next   Bus
	logger *slog.Logger
	level  slog.Level
	count  uint64
}

type LogSinkOption func(*LogSink)

// WithLogger sets the destination logger.
func WithLogger(l *slog.Logger) LogSinkOption { return func(s *LogSink) { s.logger = l } }

// WithLevel sets the level writes are logged at. The default is debug.
func WithLevel(level slog.Level) LogSinkOption { return func(s *LogSink) { s.level = level } }

// NewLogSink creates a logging tap in front of next. next may be nil.
func NewLogSink(next Bus, opts ...LogSinkOption) *LogSink {
	s := &LogSink{
		next:   next,
		logger: slog.Default(),
		level:  slog.LevelDebug,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LogSink) WriteRegister(voice int, reg addr.Register, value uint32) {
	s.count++
	if s.logger.Enabled(context.Background(), s.level) {
		s.logger.Log(context.Background(), s.level, "register write",
			"voice", voice,
			"reg", reg.String(),
			"value", value)
	}
	if s.next != nil {
		s.next.WriteRegister(voice, reg, value)
	}
}

// Count returns the number of writes seen.
func (s *LogSink) Count() uint64 { return s.count }
