// Package player is the sequencer engine: it turns a song into register writes,
// one Tick per timer interrupt.
package player

import (
	"log/slog"

	"github.com/valerio/go-chiptrack/chiptrack/addr"
	"github.com/valerio/go-chiptrack/chiptrack/song"
)

const (
	// EffectChannel is the voice reserved for one-shot effect overlays.
	// Main song playback only drives the voices below it.
	EffectChannel = song.Channels - 1

	// DefaultTicksPerDiv is the row length before any song is loaded.
	DefaultTicksPerDiv = 6

	noJump = -1
)

// Bus receives the register writes produced by the player.
type Bus interface {
	WriteRegister(voice int, reg addr.Register, value uint32)
}

// Transport is the global playback state.
type Transport struct {
	Active       bool // gates row dispatch on the main channels
	TicksPerDiv  int
	TickDivCount int // ticks since the last row boundary
	SongPos      int
	SongRow      int // -1 until the first row is decoded

	// NextPosOverride is the song position announced by a jump effect, applied
	// at the next row boundary. -1 when no jump is pending.
	NextPosOverride int

	SoundFXBar int
	SoundFXRow int // the overlay is idle once this reaches the song's rows per bar
}

// Channel is the runtime state of one voice.
type Channel struct {
	Note       song.Note // remembered instrument, pitch and effect
	NoteOnTime int       // ticks since the last pitch trigger
	Volume     uint8
}

// Player owns the transport and channel state for one song.
// It is not safe for concurrent use; Tick must never overlap another call.
type Player struct {
	bus    Bus
	logger *slog.Logger

	song      *song.Song
	transport Transport
	channels  [song.Channels]Channel
}

type Option func(*Player)

// WithLogger sets the logger used for lifecycle and transport events.
func WithLogger(l *slog.Logger) Option { return func(p *Player) { p.logger = l } }

// New creates an idle player writing to bus.
func New(bus Bus, opts ...Option) *Player {
	if bus == nil {
		panic("player: nil bus")
	}
	p := &Player{
		bus:    bus,
		logger: slog.Default(),
		transport: Transport{
			TicksPerDiv:     DefaultTicksPerDiv,
			SongRow:         -1,
			NextPosOverride: noJump,
			SoundFXRow:      song.BarRows,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load resets the transport and every channel for s and starts playback from position 0.
// The first Tick after Load decodes row 0. An overlay already in progress keeps playing.
func (p *Player) Load(s *song.Song) {
	p.song = s
	t := &p.transport
	t.SongPos = 0
	t.SongRow = -1
	t.NextPosOverride = noJump
	t.TicksPerDiv = s.TicksPerDiv
	t.TickDivCount = t.TicksPerDiv
	t.Active = true
	for i := range p.channels {
		p.channels[i] = Channel{}
	}

	p.logger.Info("Song loaded",
		"name", s.Name,
		"length", s.SongLength,
		"rows_per_bar", s.RowsPerBar,
		"ticks_per_div", s.TicksPerDiv)
}

// Start resumes main playback at song position pos, wrapped to the song length.
// Sounding notes are not retriggered.
func (p *Player) Start(pos int) {
	if p.song == nil {
		return
	}
	t := &p.transport
	t.SongPos = wrap(pos, p.song.SongLength)
	t.SongRow = -1
	t.NextPosOverride = noJump
	t.Active = true

	p.logger.Info("Playback started", "position", t.SongPos)
}

// Stop halts row dispatch on the main channels. Envelopes, effects and the
// overlay keep running.
func (p *Player) Stop() {
	p.transport.Active = false
	p.logger.Info("Playback stopped", "position", p.transport.SongPos, "row", p.transport.SongRow)
}

// TriggerEffect plays bar (mod 256) once on the effect channel, restarting any
// overlay already in progress.
func (p *Player) TriggerEffect(bar int) {
	p.transport.SoundFXBar = int(uint8(bar))
	p.transport.SoundFXRow = 0
	p.logger.Debug("Effect triggered", "bar", p.transport.SoundFXBar)
}

// Tick advances playback by one timer interrupt. It does nothing before Load.
func (p *Player) Tick() {
	if p.song == nil {
		return
	}

	t := &p.transport
	t.TickDivCount++
	if t.TickDivCount < t.TicksPerDiv {
		for ch := range p.channels {
			p.tickChannel(ch)
		}
		return
	}

	t.TickDivCount = 0
	t.SongRow++
	if t.SongRow >= p.song.RowsPerBar {
		t.SongRow = 0
		t.SongPos++
		if t.SongPos >= p.song.SongLength {
			t.SongPos = 0
		}
	}

	if t.NextPosOverride != noJump {
		from := t.SongPos
		t.SongPos = wrap(t.NextPosOverride, p.song.SongLength)
		t.SongRow = 0
		t.NextPosOverride = noJump
		p.logger.Debug("Position jump", "from", from, "to", t.SongPos)
	}

	p.dispatchRow()
}

// dispatchRow decodes the current row on the main channels and the next overlay row.
func (p *Player) dispatchRow() {
	t := &p.transport
	if t.Active {
		for ch := 0; ch < EffectChannel; ch++ {
			p.decode(ch, p.song.BarAt(t.SongPos, ch).Notes[t.SongRow])
		}
	}

	if t.SoundFXRow < p.song.RowsPerBar {
		p.decode(EffectChannel, p.song.Bars[t.SoundFXBar].Notes[t.SoundFXRow])
		t.SoundFXRow++
	}
}

// Song returns the loaded song, or nil.
func (p *Player) Song() *song.Song { return p.song }

// Transport returns a copy of the transport state.
func (p *Player) Transport() Transport { return p.transport }

// Channel returns a copy of the runtime state of channel i (mod 4).
func (p *Player) Channel(i int) Channel { return p.channels[wrap(i, song.Channels)] }

// Playing reports whether main row dispatch is active.
func (p *Player) Playing() bool { return p.transport.Active }

// EffectActive reports whether an overlay is still playing.
func (p *Player) EffectActive() bool {
	return p.song != nil && p.transport.SoundFXRow < p.song.RowsPerBar
}

func wrap(n, size int) int {
	n %= size
	if n < 0 {
		n += size
	}
	return n
}
