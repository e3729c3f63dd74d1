package render

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// LogEntry is one player log record, flattened to the single line shown under the voice meters.
type LogEntry struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

// LogBuffer keeps the most recent player log lines. The tick loop and the UI
// loop log from different goroutines, so it is safe for concurrent use.
type LogBuffer struct {
	mu   sync.RWMutex
	ring []LogEntry
	next int // slot the next entry goes into
	n    int // number of valid entries
}

// NewLogBuffer holds up to size lines, at least one.
func NewLogBuffer(size int) *LogBuffer {
	return &LogBuffer{ring: make([]LogEntry, max(size, 1))}
}

// Add appends entry, overwriting the oldest one once the buffer is full.
func (lb *LogBuffer) Add(entry LogEntry) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	lb.ring[lb.next] = entry
	lb.next = (lb.next + 1) % len(lb.ring)
	lb.n = min(lb.n+1, len(lb.ring))
}

func (lb *LogBuffer) Len() int {
	lb.mu.RLock()
	defer lb.mu.RUnlock()
	return lb.n
}

// Recent returns up to maxCount entries at or above minLevel, newest first.
// maxCount <= 0 returns every matching entry.
func (lb *LogBuffer) Recent(maxCount int, minLevel slog.Level) []LogEntry {
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	var out []LogEntry
	for i := 1; i <= lb.n; i++ {
		entry := lb.ring[(lb.next-i+len(lb.ring))%len(lb.ring)]
		if entry.Level < minLevel {
			continue
		}
		out = append(out, entry)
		if len(out) == maxCount {
			break
		}
	}
	return out
}

func (lb *LogBuffer) Clear() {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.next, lb.n = 0, 0
}

// LogBufferHandler is the default slog handler while the terminal owns the
// screen: song loads, transport changes, effect triggers and register writes
// land in a LogBuffer instead of stderr.
type LogBufferHandler struct {
	buffer *LogBuffer
	level  slog.Leveler
	prefix string // pre-rendered attributes from WithAttrs
	group  string
}

// NewLogBufferHandler captures records at or above level. The pane applies its
// own, adjustable, filter on top.
func NewLogBufferHandler(buffer *LogBuffer, level slog.Leveler) *LogBufferHandler {
	return &LogBufferHandler{
		buffer: buffer,
		level:  level,
	}
}

func (h *LogBufferHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle renders the message followed by key=value pairs, e.g.
// "Position jump from=3 to=0".
func (h *LogBufferHandler) Handle(_ context.Context, record slog.Record) error {
	var sb strings.Builder
	sb.WriteString(record.Message)
	sb.WriteString(h.prefix)
	record.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&sb, a)
		return true
	})

	h.buffer.Add(LogEntry{
		Time:    record.Time,
		Level:   record.Level,
		Message: sb.String(),
	})
	return nil
}

// WithAttrs pre-renders attrs once, for loggers built with With.
func (h *LogBufferHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var sb strings.Builder
	sb.WriteString(h.prefix)
	for _, a := range attrs {
		h.writeAttr(&sb, a)
	}
	clone := *h
	clone.prefix = sb.String()
	return &clone
}

// WithGroup prefixes later keys with name and a dot.
func (h *LogBufferHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if clone.group != "" {
		clone.group += "."
	}
	clone.group += name
	return &clone
}

func (h *LogBufferHandler) writeAttr(sb *strings.Builder, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if h.group != "" {
		key = h.group + "." + key
	}
	fmt.Fprintf(sb, " %s=%v", key, a.Value.Resolve())
}

// FormatLogEntry renders entry as "15:04:05 [INF] message".
func FormatLogEntry(entry LogEntry) string {
	return fmt.Sprintf("%s [%s] %s", entry.Time.Format("15:04:05"), levelTag(entry.Level), entry.Message)
}

func levelTag(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERR"
	case level >= slog.LevelWarn:
		return "WRN"
	case level >= slog.LevelInfo:
		return "INF"
	}
	return "DBG"
}
