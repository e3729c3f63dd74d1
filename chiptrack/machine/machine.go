// Package machine wires a player to a simulated peripheral and drives it from
// a paced interrupt loop.
package machine

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/valerio/go-chiptrack/chiptrack/audio"
	"github.com/valerio/go-chiptrack/chiptrack/debug"
	"github.com/valerio/go-chiptrack/chiptrack/player"
	"github.com/valerio/go-chiptrack/chiptrack/song"
	"github.com/valerio/go-chiptrack/chiptrack/timing"
	"github.com/valerio/go-chiptrack/chiptrack/trace"
)

// ErrNoRecorder is returned by Dump when register recording is off.
var ErrNoRecorder = errors.New("register recording is not enabled")

// Cue triggers an effect bar when the tick counter reaches Tick.
type Cue struct {
	Tick uint64
	Bar  int
}

// Machine is one player plus its peripheral.
//
// mu stands in for masking the timer interrupt: the tick loop holds it for the
// whole of every tick, and every foreground call takes it too, so no call
// ever observes or mutates the player mid tick.
type Machine struct {
	mu sync.Mutex

	player   *player.Player
	periph   *audio.Peripheral
	recorder *trace.Recorder
	logger   *slog.Logger

	ticks uint64
	cues  []Cue
	next  int // index of the first cue not yet fired

	recordCapacity int
	logWrites      bool
	writeLevel     slog.Level
}

type Option func(*Machine)

// WithLogger sets the logger for the machine and its player.
func WithLogger(l *slog.Logger) Option { return func(m *Machine) { m.logger = l } }

// WithRecorder keeps every register write in memory, see Dump.
func WithRecorder(capacity int) Option {
	return func(m *Machine) { m.recordCapacity = max(capacity, 1) }
}

// WithWriteLogging logs every register write at level.
func WithWriteLogging(level slog.Level) Option {
	return func(m *Machine) {
		m.logWrites = true
		m.writeLevel = level
	}
}

// WithCues schedules effect triggers by tick.
func WithCues(cues ...Cue) Option {
	return func(m *Machine) { m.cues = append(m.cues, cues...) }
}

func New(opts ...Option) *Machine {
	m := &Machine{
		periph: audio.New(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	slices.SortStableFunc(m.cues, func(a, b Cue) int { return cmp.Compare(a.Tick, b.Tick) })

	var bus player.Bus = m.periph
	if m.recordCapacity > 0 {
		m.recorder = trace.NewRecorder(bus, m.recordCapacity)
		bus = m.recorder
	}
	if m.logWrites {
		bus = trace.NewLogSink(bus, trace.WithLogger(m.logger), trace.WithLevel(m.writeLevel))
	}
	m.player = player.New(bus, player.WithLogger(m.logger))
	return m
}

// Load validates s and hands it to the player.
func (m *Machine) Load(s *song.Song) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("failed to load song: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.player.Load(s)
	return nil
}

func (m *Machine) Start(pos int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.player.Start(pos)
}

func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.player.Stop()
}

// TogglePlayback stops a playing song, or resumes a stopped one at its current position.
func (m *Machine) TogglePlayback() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.player.Playing() {
		m.player.Stop()
		return
	}
	m.player.Start(m.player.Transport().SongPos)
}

// Seek restarts playback delta positions away from the current one.
func (m *Machine) Seek(delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.player.Start(m.player.Transport().SongPos + delta)
}

func (m *Machine) TriggerEffect(bar int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.player.TriggerEffect(bar)
}

// Peripheral exposes the simulated synthesizer, for mute controls and master volume.
func (m *Machine) Peripheral() *audio.Peripheral { return m.periph }

// Ticks returns the number of interrupts run so far.
func (m *Machine) Ticks() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ticks
}

// Snapshot captures player and peripheral state between two ticks.
func (m *Machine) Snapshot() *debug.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := debug.Take(m.ticks, m.player, m.periph, m.periph)
	snap.Writes = m.periph.Writes()
	return snap
}

// Dump writes the recorded register writes. It fails without WithRecorder.
func (m *Machine) Dump(w io.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recorder == nil {
		return ErrNoRecorder
	}
	return m.recorder.Dump(w)
}

// RunTicks runs n interrupts back to back.
func (m *Machine) RunTicks(n int) {
	for i := 0; i < n; i++ {
		m.interrupt()
	}
}

// Run fires the interrupt at the limiter's pace until ctx is cancelled.
func (m *Machine) Run(ctx context.Context, limiter timing.Limiter) error {
	limiter.Reset()
	m.logger.Info("Tick loop started")
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Tick loop stopped", "ticks", m.Ticks())
			return nil
		default:
		}
		limiter.WaitForNextTick()
		m.interrupt()
	}
}

func (m *Machine) interrupt() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ticks++
	if m.recorder != nil {
		m.recorder.Mark(m.ticks)
	}
	for m.next < len(m.cues) && m.cues[m.next].Tick <= m.ticks {
		m.player.TriggerEffect(m.cues[m.next].Bar)
		m.next++
	}
	m.player.Tick()
}
