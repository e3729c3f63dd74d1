package song

import (
	"errors"
	"fmt"
)

// Fixed table sizes of a song asset.
const (
	MaxInstruments = 16
	MaxPositions   = 256
	MaxBars        = 256
	MaxPatterns    = 256
	BarRows        = 16
	Channels       = 4
)

// Reserved instrument indices. Instrument 0 means "no instrument" and 1-4 are
// the built-in percussion voices; user instruments start at FirstUserInstrument.
const (
	NoInstrument        = 0
	Kick                = 1
	ClosedHiHat         = 2
	OpenHiHat           = 3
	Snare               = 4
	FirstUserInstrument = 5
)

var (
	// ErrInvalidSong wraps every validation failure.
	ErrInvalidSong = errors.New("invalid song")
	// ErrUnknownSong is returned when a built-in song name is not known.
	ErrUnknownSong = errors.New("unknown song")
)

// Envelope is a volume contour indexed by ticks since the note was triggered.
type Envelope struct {
	Points []uint8
}

// Len returns the number of breakpoints.
func (e *Envelope) Len() int {
	if e == nil {
		return 0
	}
	return len(e.Points)
}

// At returns the breakpoint for tick t, pinned to the last point once exhausted.
func (e *Envelope) At(t int) uint8 {
	if t >= len(e.Points) {
		t = len(e.Points) - 1
	}
	if t < 0 {
		t = 0
	}
	return e.Points[t]
}

// Instrument describes how a voice is configured when a note is played with it.
type Instrument struct {
	Name           string
	Waveform       uint32 // addr.Wave* bits
	PulseWidth     uint32 // 12 bits
	DefaultVolume  uint8
	EnvelopeEnable bool
	Envelope       *Envelope // shared, owned by the song
}

// EnvelopeEnabled reports whether volume should follow the envelope.
func (i *Instrument) EnvelopeEnabled() bool {
	return i.EnvelopeEnable && i.Envelope.Len() > 0
}

// IsPercussion reports whether index names one of the built-in drum voices.
func IsPercussion(index int) bool {
	return index >= Kick && index <= Snare
}

// Bar is a fixed sequence of BarRows notes.
type Bar struct {
	Notes [BarRows]Note
}

// IsEmpty reports whether every row of the bar is empty.
func (b *Bar) IsEmpty() bool {
	for _, n := range b.Notes {
		if !n.IsEmpty() {
			return false
		}
	}
	return true
}

// Pattern selects one bar per channel.
type Pattern struct {
	Bar [Channels]uint8
}

// Song is an immutable song asset.
type Song struct {
	Name        string
	RowsPerBar  int
	SongLength  int
	TicksPerDiv int

	Instruments [MaxInstruments]Instrument
	PatternMap  [MaxPositions]uint8
	Bars        [MaxBars]Bar
	Patterns    [MaxPatterns]Pattern
}

// PatternAt returns the pattern played at song position pos.
func (s *Song) PatternAt(pos int) *Pattern {
	return &s.Patterns[s.PatternMap[pos%MaxPositions]]
}

// BarAt returns the bar played on channel ch at song position pos.
func (s *Song) BarAt(pos, ch int) *Bar {
	return &s.Bars[s.PatternAt(pos).Bar[ch%Channels]]
}

// Validate checks the song against the bounds the player relies on.
// All failures are reported together, each wrapping ErrInvalidSong.
// Pattern and bar references are uint8 and always index the 256-entry tables.
func (s *Song) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil song", ErrInvalidSong)
	}

	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidSong}, args...)...))
	}

	if s.RowsPerBar < 1 || s.RowsPerBar > BarRows {
		invalid("rows_per_bar %d out of range [1, %d]", s.RowsPerBar, BarRows)
	}
	if s.SongLength < 1 || s.SongLength > MaxPositions {
		invalid("song_length %d out of range [1, %d]", s.SongLength, MaxPositions)
	}
	if s.TicksPerDiv < 1 {
		invalid("ticks_per_div %d must be positive", s.TicksPerDiv)
	}

	for i := range s.Instruments {
		inst := &s.Instruments[i]
		if inst.EnvelopeEnable && inst.Envelope.Len() == 0 {
			invalid("instrument %d enables an empty envelope", i)
		}
		if inst.PulseWidth > 0xFFF {
			invalid("instrument %d pulse width %d exceeds 12 bits", i, inst.PulseWidth)
		}
		if inst.Waveform > 0xF {
			invalid("instrument %d waveform %#x exceeds 4 bits", i, inst.Waveform)
		}
	}

	for b := range s.Bars {
		for r, n := range s.Bars[b].Notes {
			if int(n.Instrument) >= MaxInstruments {
				invalid("bar %d row %d uses instrument %d", b, r, n.Instrument)
			}
		}
	}

	return errors.Join(errs...)
}
