package song

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/valerio/go-chiptrack/chiptrack/bit"
	"github.com/valerio/go-chiptrack/chiptrack/freq"
)

// Effect is the 4-bit effect code of a note.
type Effect uint8

const (
	EffectNone      Effect = 0x0
	EffectSlideUp   Effect = 0x1 // raise pitch by param semitones per tick
	EffectSlideDown Effect = 0x2 // lower pitch by param semitones per tick
	EffectJump      Effect = 0xB // continue at song position param from the next row
	EffectSetVolume Effect = 0xC // hold volume at param
)

// Packed note layout, low bit first.
const (
	instrumentShift = 0
	instrumentWidth = 5
	pitchShift      = 5
	pitchWidth      = 7
	effectShift     = 12
	effectWidth     = 4
	paramShift      = 16
	paramWidth      = 8
)

// Note is one row of one channel. Instrument and Pitch use 0 for "keep the previous value";
// the effect is applied on every row, including EffectNone.
type Note struct {
	Instrument uint8 // 5 bits
	Pitch      uint8 // 7 bits, index into freq.Table
	Effect     Effect
	Param      uint8
}

// NewNote builds a note, truncating each field to its packed width.
func NewNote(instrument, pitch int, effect Effect, param int) Note {
	return Unpack(Note{
		Instrument: uint8(instrument),
		Pitch:      uint8(pitch),
		Effect:     effect,
		Param:      uint8(param),
	}.Pack())
}

// Pack encodes the note into its 24-bit wire form.
func (n Note) Pack() uint32 {
	var raw uint32
	raw = bit.InsertBits(raw, instrumentShift, instrumentWidth, uint32(n.Instrument))
	raw = bit.InsertBits(raw, pitchShift, pitchWidth, uint32(n.Pitch))
	raw = bit.InsertBits(raw, effectShift, effectWidth, uint32(n.Effect))
	raw = bit.InsertBits(raw, paramShift, paramWidth, uint32(n.Param))
	return raw
}

// Unpack decodes a 24-bit wire note. Bits above bit 23 are ignored.
func Unpack(raw uint32) Note {
	return Note{
		Instrument: uint8(bit.ExtractBits(raw, instrumentShift, instrumentWidth)),
		Pitch:      uint8(bit.ExtractBits(raw, pitchShift, pitchWidth)),
		Effect:     Effect(bit.ExtractBits(raw, effectShift, effectWidth)),
		Param:      uint8(bit.ExtractBits(raw, paramShift, paramWidth)),
	}
}

// IsEmpty reports whether the note changes nothing.
func (n Note) IsEmpty() bool {
	return n == Note{}
}

// String formats the note as a tracker cell, e.g. "C-2 05 C40".
func (n Note) String() string {
	inst := ".."
	if n.Instrument != NoInstrument {
		inst = fmt.Sprintf("%02X", n.Instrument)
	}
	fx := "..."
	if n.Effect != EffectNone || n.Param != 0 {
		fx = fmt.Sprintf("%X%02X", uint8(n.Effect), n.Param)
	}
	return freq.NoteName(int(n.Pitch)) + " " + inst + " " + fx
}

// ParseCell parses the tracker cell text produced by Note.String.
// Trailing fields may be omitted: "C-2 05" and "C-2" are accepted.
func ParseCell(s string) (Note, error) {
	fields := strings.Fields(s)
	if len(fields) > 3 {
		return Note{}, fmt.Errorf("cell %q: too many fields", s)
	}
	var n Note
	if len(fields) > 0 {
		pitch, err := freq.ParseNote(fields[0])
		if err != nil {
			return Note{}, fmt.Errorf("cell %q: %w", s, err)
		}
		n.Pitch = uint8(pitch)
	}
	if len(fields) > 1 && !isBlank(fields[1]) {
		inst, err := strconv.ParseUint(fields[1], 16, instrumentWidth)
		if err != nil {
			return Note{}, fmt.Errorf("cell %q: instrument: %w", s, err)
		}
		n.Instrument = uint8(inst)
	}
	if len(fields) > 2 && !isBlank(fields[2]) {
		if len(fields[2]) != 3 {
			return Note{}, fmt.Errorf("cell %q: effect must be 3 hex digits", s)
		}
		fx, err := strconv.ParseUint(fields[2][:1], 16, effectWidth)
		if err != nil {
			return Note{}, fmt.Errorf("cell %q: effect: %w", s, err)
		}
		param, err := strconv.ParseUint(fields[2][1:], 16, paramWidth)
		if err != nil {
			return Note{}, fmt.Errorf("cell %q: effect parameter: %w", s, err)
		}
		n.Effect = Effect(fx)
		n.Param = uint8(param)
	}
	return n, nil
}

func isBlank(field string) bool {
	return strings.Trim(field, ".-") == ""
}
