package debug

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chiptrack/chiptrack/addr"
	"github.com/valerio/go-chiptrack/chiptrack/audio"
	"github.com/valerio/go-chiptrack/chiptrack/freq"
	"github.com/valerio/go-chiptrack/chiptrack/player"
	"github.com/valerio/go-chiptrack/chiptrack/song"
)

func TestWaveName(t *testing.T) {
	tests := []struct {
		bits uint32
		want string
	}{
		{0, "off"},
		{addr.WaveNoise, "noise"},
		{addr.WaveSawtooth | addr.WaveTriangle, "saw+tri"},
		{addr.WaveNoise | addr.WaveTriangle, "noise+tri"},
		{0xF, "noise+square+saw+tri"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, WaveName(tt.bits))
		})
	}
}

func TestExtractChannels(t *testing.T) {
	p := audio.New()
	p.WriteRegister(1, addr.Freq, freq.Table[37])
	p.WriteRegister(1, addr.WaveSelect, addr.WaveEnable|addr.WaveSquare<<addr.WaveShift)
	p.WriteRegister(1, addr.PulseWidth, 2048)
	p.WriteRegister(1, addr.Volume, 99)
	p.WriteRegister(2, addr.WaveSelect, addr.WaveEnable)
	p.MuteChannel(2, true)

	chans := ExtractChannels(p, p)

	c := chans[1]
	assert.True(t, c.Enabled)
	assert.False(t, c.Muted)
	assert.Equal(t, "square", c.WaveName())
	assert.Equal(t, "C-2", c.Note)
	assert.InDelta(t, 65.4, c.Frequency, 0.1)
	assert.Equal(t, uint32(2048), c.PulseWidth)
	assert.Equal(t, uint8(99), c.Volume)
	assert.Equal(t, uint8(99), c.Level)

	assert.True(t, chans[2].Muted)
	assert.Zero(t, chans[2].Level, "muted voices are silent")
	assert.False(t, chans[0].Enabled)
	assert.Equal(t, "---", chans[0].Note)

	noStatus := ExtractChannels(p, nil)
	assert.False(t, noStatus[2].Muted)
	assert.Equal(t, uint8(99), noStatus[1].Level)

	p.SetGlobalVolume(51)
	assert.Equal(t, uint8(19), ExtractChannels(p, p)[1].Level, "master volume scales the level")
}

func TestTake(t *testing.T) {
	s := &song.Song{Name: "demo", RowsPerBar: 16, SongLength: 3, TicksPerDiv: 2}
	s.Instruments[5] = song.Instrument{Waveform: addr.WaveSawtooth, DefaultVolume: 80}
	s.Patterns[0].Bar = [song.Channels]uint8{1, 0, 0, 0}
	s.Bars[1].Notes[0] = song.NewNote(5, 49, song.EffectSetVolume, 0x30)
	require.NoError(t, s.Validate())

	periph := audio.New()
	pl := player.New(periph, player.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	empty := Take(0, pl, periph, periph)
	assert.Empty(t, empty.SongName)
	assert.Equal(t, -1, empty.Transport.SongRow)

	pl.Load(s)
	pl.TriggerEffect(4)
	pl.Tick()
	pl.Tick()

	snap := Take(2, pl, periph, periph)
	assert.Equal(t, uint64(2), snap.Tick)
	assert.Equal(t, "demo", snap.SongName)
	assert.Equal(t, 3, snap.SongLength)
	assert.Equal(t, 0, snap.Transport.SongRow)
	assert.Equal(t, 1, snap.Transport.TickDivCount)
	assert.True(t, snap.EffectActive)
	assert.Equal(t, uint8(255), snap.GlobalVolume)

	c := snap.Channels[0]
	assert.Equal(t, "C-3", c.Note)
	assert.Equal(t, "saw", c.WaveName())
	assert.Equal(t, uint8(0x30), c.Volume)
	assert.Equal(t, uint8(5), c.Instrument)
	assert.Equal(t, song.EffectSetVolume, c.Effect)
	assert.Equal(t, uint8(0x30), c.Param)
	assert.Equal(t, 1, c.NoteOnTime)
}
