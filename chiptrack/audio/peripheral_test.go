package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-chiptrack/chiptrack/addr"
	"github.com/valerio/go-chiptrack/chiptrack/freq"
)

func TestPowerOnState(t *testing.T) {
	p := New()

	assert.Equal(t, uint8(255), p.GlobalVolume())
	for i := 0; i < addr.Voices; i++ {
		assert.Equal(t, VoiceState{}, p.Voice(i))
	}
	assert.Zero(t, p.Writes())
}

func TestVoiceDecode(t *testing.T) {
	p := New()

	p.WriteRegister(2, addr.Freq, freq.Table[70])
	p.WriteRegister(2, addr.PulseWidth, 0x1800)
	p.WriteRegister(2, addr.WaveSelect, addr.WaveEnable|(addr.WaveSawtooth|addr.WaveTriangle)<<addr.WaveShift)
	p.WriteRegister(2, addr.Volume, 0x1c0)

	v := p.Voice(2)
	assert.True(t, v.Enabled)
	assert.Equal(t, addr.WaveSawtooth|addr.WaveTriangle, v.Waveform)
	assert.Equal(t, freq.Table[70], v.Divider)
	assert.InDelta(t, 440.0, v.Frequency, 0.5)
	assert.Equal(t, uint32(0x800), v.PulseWidth, "pulse width is 12 bits")
	assert.Equal(t, uint8(0xc0), v.Volume, "volume is 8 bits")
	assert.Equal(t, uint64(4), p.Writes())

	assert.Equal(t, freq.Table[70], p.ReadRegister(addr.Offset(2, addr.Freq)))
	assert.Equal(t, uint32(0x800), p.ReadRegister(addr.Offset(2, addr.PulseWidth)))
}

func TestWaveSelectWithoutEnable(t *testing.T) {
	p := New()
	p.WriteRegister(0, addr.WaveSelect, addr.WaveNoise<<addr.WaveShift)

	v := p.Voice(0)
	assert.False(t, v.Enabled)
	assert.Equal(t, addr.WaveNoise, v.Waveform)
}

func TestOutOfRangeWritesIgnored(t *testing.T) {
	p := New()

	p.WriteRegister(4, addr.Freq, 1)
	p.WriteRegister(-1, addr.Freq, 1)
	p.WriteRegister(0, addr.Register(4), 1)
	p.WriteWord(addr.RegisterCount, 1)

	assert.Zero(t, p.Writes())
	assert.Zero(t, p.ReadRegister(addr.RegisterCount))
	assert.Equal(t, VoiceState{}, p.Voice(9))
}

func TestGlobalVolume(t *testing.T) {
	p := New()

	p.SetGlobalVolume(1000)
	assert.Equal(t, uint8(255), p.GlobalVolume())

	p.SetGlobalVolume(51)
	assert.Equal(t, uint8(51), p.GlobalVolume())

	p.WriteRegister(1, addr.WaveSelect, addr.WaveEnable)
	p.WriteRegister(1, addr.Volume, 200)
	assert.Equal(t, uint8(40), p.Level(1))
}

func TestMuting(t *testing.T) {
	p := New()
	for i := 0; i < addr.Voices; i++ {
		p.WriteRegister(i, addr.WaveSelect, addr.WaveEnable|addr.WaveSquare<<addr.WaveShift)
		p.WriteRegister(i, addr.Volume, uint32(10*(i+1)))
	}

	t.Run("toggle", func(t *testing.T) {
		p.ToggleChannel(1)
		_, ch1, _, _ := p.GetChannelStatus()
		assert.False(t, ch1)
		assert.Zero(t, p.Level(1))

		p.ToggleChannel(1)
		_, ch1, _, _ = p.GetChannelStatus()
		assert.True(t, ch1)
	})

	t.Run("solo", func(t *testing.T) {
		p.SoloChannel(3)
		ch0, ch1, ch2, ch3 := p.GetChannelStatus()
		assert.Equal(t, []bool{false, false, false, true}, []bool{ch0, ch1, ch2, ch3})
	})

	t.Run("unmute all", func(t *testing.T) {
		p.UnmuteAll()
		ch0, ch1, ch2, ch3 := p.GetChannelStatus()
		assert.Equal(t, []bool{true, true, true, true}, []bool{ch0, ch1, ch2, ch3})
	})

	t.Run("mute ignores bad channel", func(t *testing.T) {
		p.MuteChannel(7, true)
		p.ToggleChannel(-1)
		ch0, ch1, ch2, ch3 := p.GetChannelStatus()
		assert.Equal(t, []bool{true, true, true, true}, []bool{ch0, ch1, ch2, ch3})
	})

	t.Run("volumes follow muting and master volume", func(t *testing.T) {
		p.MuteChannel(0, true)
		v0, v1, v2, v3 := p.GetChannelVolumes()
		assert.Equal(t, []uint8{0, 20, 30, 40}, []uint8{v0, v1, v2, v3})

		p.SetGlobalVolume(51)
		v0, v1, v2, v3 = p.GetChannelVolumes()
		assert.Equal(t, []uint8{0, 4, 6, 8}, []uint8{v0, v1, v2, v3})
		p.SetGlobalVolume(255)
	})
}

func TestReset(t *testing.T) {
	p := New()
	p.WriteRegister(0, addr.Volume, 5)
	p.SetGlobalVolume(3)
	p.MuteChannel(0, true)

	p.Reset()
	assert.Zero(t, p.Writes())
	assert.Equal(t, uint8(255), p.GlobalVolume())
	assert.Equal(t, VoiceState{}, p.Voice(0))
}
