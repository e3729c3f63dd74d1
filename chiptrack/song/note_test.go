package song

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotePackLayout(t *testing.T) {
	n := Note{Instrument: 5, Pitch: 37, Effect: EffectSetVolume, Param: 0x40}
	raw := n.Pack()

	assert.Equal(t, uint32(5), raw&0x1F, "instrument in bits 0-4")
	assert.Equal(t, uint32(37), (raw>>5)&0x7F, "note in bits 5-11")
	assert.Equal(t, uint32(0xC), (raw>>12)&0xF, "effect in bits 12-15")
	assert.Equal(t, uint32(0x40), (raw>>16)&0xFF, "parameter in bits 16-23")
	assert.Zero(t, raw>>24, "nothing above bit 23")
	assert.Equal(t, n, Unpack(raw))
}

func TestNewNoteTruncatesFields(t *testing.T) {
	n := NewNote(0x25, 0x85, Effect(0x1B), 0x1FF)
	assert.Equal(t, uint8(0x05), n.Instrument)
	assert.Equal(t, uint8(0x05), n.Pitch)
	assert.Equal(t, EffectJump, n.Effect)
	assert.Equal(t, uint8(0xFF), n.Param)
}

func TestUnpackIgnoresHighBits(t *testing.T) {
	assert.Equal(t, Note{}, Unpack(0xFF000000))
}

func TestNoteIsEmpty(t *testing.T) {
	assert.True(t, Note{}.IsEmpty())
	assert.False(t, NewNote(0, 0, EffectNone, 1).IsEmpty())
	assert.False(t, NewNote(0, 0, EffectSlideUp, 0).IsEmpty())
}

func TestNoteCells(t *testing.T) {
	tests := []struct {
		cell string
		note Note
	}{
		{"--- .. ...", Note{}},
		{"C-2 05 ...", NewNote(5, 37, EffectNone, 0)},
		{"G-5 06 201", NewNote(6, 80, EffectSlideDown, 1)},
		{"--- .. C00", NewNote(0, 0, EffectSetVolume, 0)},
		{"--- .. B03", NewNote(0, 0, EffectJump, 3)},
		{"011 04 ...", NewNote(4, 11, EffectNone, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			assert.Equal(t, tt.cell, tt.note.String())
			n, err := ParseCell(tt.cell)
			require.NoError(t, err)
			assert.Equal(t, tt.note, n)
		})
	}
}

func TestParseCellShortForms(t *testing.T) {
	n, err := ParseCell("C-2")
	require.NoError(t, err)
	assert.Equal(t, NewNote(0, 37, EffectNone, 0), n)

	n, err = ParseCell("D#2 0a")
	require.NoError(t, err)
	assert.Equal(t, NewNote(10, 40, EffectNone, 0), n)

	n, err = ParseCell("")
	require.NoError(t, err)
	assert.True(t, n.IsEmpty())
}

func TestParseCellErrors(t *testing.T) {
	for _, cell := range []string{
		"X-2 05 ...",
		"C-2 40 ...",
		"C-2 05 C4",
		"C-2 05 G00",
		"C-2 05 CZZ",
		"C-2 05 C00 extra",
	} {
		_, err := ParseCell(cell)
		assert.Error(t, err, "expected %q to fail", cell)
	}
}
