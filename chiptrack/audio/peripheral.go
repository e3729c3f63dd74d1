// Package audio simulates the synthesizer peripheral's register file.
package audio

import (
	"sync"

	"github.com/valerio/go-chiptrack/chiptrack/addr"
	"github.com/valerio/go-chiptrack/chiptrack/bit"
	"github.com/valerio/go-chiptrack/chiptrack/freq"
)

// VoiceState is the decoded view of one voice's registers.
type VoiceState struct {
	Enabled    bool
	Waveform   uint32 // addr.Wave* bits
	Divider    uint32
	Frequency  float64 // Hz
	PulseWidth uint32
	Volume     uint8
	Muted      bool
}

// Peripheral is a register-accurate stand in for the synthesizer.
// It decodes writes into voice state; it does not produce samples.
type Peripheral struct {
	// mu guards everything below; the player writes from the tick loop while
	// front ends read from their own goroutine.
	mu sync.Mutex

	registers [addr.RegisterCount]uint32
	voices    [addr.Voices]VoiceState
	writes    uint64
}

// New creates a peripheral in its power-on state: all voices off, full global volume.
func New() *Peripheral {
	p := &Peripheral{}
	p.initRegisters()
	return p
}

func (p *Peripheral) initRegisters() {
	p.registers = [addr.RegisterCount]uint32{}
	p.registers[addr.GlobalVolume] = addr.MaxVolume
	for i := range p.voices {
		p.voices[i] = VoiceState{}
	}
}

// WriteRegister stores a voice register write. Writes outside the register file are ignored.
func (p *Peripheral) WriteRegister(voice int, reg addr.Register, value uint32) {
	if voice < 0 || voice >= addr.Voices || reg >= addr.VoiceStride {
		return
	}
	p.WriteWord(addr.Offset(voice, reg), value)
}

// WriteWord stores a write to the word at offset from addr.Base.
func (p *Peripheral) WriteWord(offset uint32, value uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if offset >= addr.RegisterCount {
		return
	}
	p.writes++

	if offset == addr.GlobalVolume {
		p.registers[offset] = min(value, addr.MaxVolume)
		return
	}

	v := &p.voices[offset/addr.VoiceStride]
	switch addr.Register(offset % addr.VoiceStride) {
	case addr.Freq:
		v.Divider = value
		v.Frequency = freq.DividerToHz(value)
	case addr.PulseWidth:
		value &= addr.MaxPulseWidth
		v.PulseWidth = value
	case addr.WaveSelect:
		v.Enabled = bit.IsSet(addr.WaveEnableBit, value)
		v.Waveform = bit.ExtractBits(value, addr.WaveShift, addr.WaveWidth)
	case addr.Volume:
		value &= addr.MaxVolume
		v.Volume = uint8(value)
	}
	p.registers[offset] = value
}

// ReadRegister returns the word at offset from addr.Base, or 0 outside the register file.
func (p *Peripheral) ReadRegister(offset uint32) uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if offset >= addr.RegisterCount {
		return 0
	}
	return p.registers[offset]
}

// SetGlobalVolume writes the master volume register, clamped to 255.
func (p *Peripheral) SetGlobalVolume(volume uint32) {
	p.WriteWord(addr.GlobalVolume, volume)
}

// GlobalVolume returns the master volume.
func (p *Peripheral) GlobalVolume() uint8 {
	return uint8(p.ReadRegister(addr.GlobalVolume))
}

// Voice returns the decoded state of voice i. Out of range voices read as zero.
func (p *Peripheral) Voice(i int) VoiceState {
	p.mu.Lock()
	defer p.mu.Unlock()

	if i < 0 || i >= addr.Voices {
		return VoiceState{}
	}
	return p.voices[i]
}

// Level returns the audible volume of voice i after muting and the master volume.
func (p *Peripheral) Level(i int) uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if i < 0 || i >= addr.Voices {
		return 0
	}
	return p.level(i)
}

func (p *Peripheral) level(i int) uint8 {
	v := p.voices[i]
	if !v.Enabled || v.Muted {
		return 0
	}
	return uint8(uint32(v.Volume) * p.registers[addr.GlobalVolume] / addr.MaxVolume)
}

// Writes returns the number of accepted writes since the last Reset.
func (p *Peripheral) Writes() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writes
}

// Reset returns the peripheral to its power-on state. Mute settings are cleared too.
func (p *Peripheral) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.writes = 0
	p.initRegisters()
}

// MuteChannel mutes or unmutes voice channel (0-3) for debugging.
func (p *Peripheral) MuteChannel(channel int, muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if channel >= 0 && channel < addr.Voices {
		p.voices[channel].Muted = muted
	}
}

// ToggleChannel toggles muting for a voice.
func (p *Peripheral) ToggleChannel(channel int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if channel >= 0 && channel < addr.Voices {
		p.voices[channel].Muted = !p.voices[channel].Muted
	}
}

// SoloChannel mutes every voice except channel.
func (p *Peripheral) SoloChannel(channel int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.voices {
		p.voices[i].Muted = i != channel
	}
}

// UnmuteAll unmutes every voice.
func (p *Peripheral) UnmuteAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.voices {
		p.voices[i].Muted = false
	}
}

// GetChannelStatus reports, per voice, whether it is enabled and not muted.
func (p *Peripheral) GetChannelStatus() (ch0, ch1, ch2, ch3 bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	on := func(i int) bool { return p.voices[i].Enabled && !p.voices[i].Muted }
	return on(0), on(1), on(2), on(3)
}

// GetChannelVolumes returns the audible level of every voice, see Level.
func (p *Peripheral) GetChannelVolumes() (ch0, ch1, ch2, ch3 uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.level(0), p.level(1), p.level(2), p.level(3)
}
