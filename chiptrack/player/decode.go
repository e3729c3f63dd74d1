package player

import (
	"github.com/valerio/go-chiptrack/chiptrack/addr"
	"github.com/valerio/go-chiptrack/chiptrack/freq"
	"github.com/valerio/go-chiptrack/chiptrack/song"
)

// Fixed percussion voicing.
const (
	kickPitch  = 90
	hiHatPitch = 100
	snarePitch = 50

	kickSweepStart = 40 // first per-tick kick pitch
	kickSweepStep  = 4
	kickSweepFloor = 27 // at or below this the sweep settles on kickSweepEnd
	kickSweepEnd   = 26
	kickPulseWidth = 2048

	noiseWave = addr.WaveEnable | addr.WaveNoise<<addr.WaveShift
	snareWave = addr.WaveEnable | (addr.WaveTriangle|addr.WaveNoise)<<addr.WaveShift
	kickWave  = addr.WaveEnable | addr.WaveSquare<<addr.WaveShift
)

func (p *Player) instrument(index uint8) *song.Instrument {
	return &p.song.Instruments[int(index)%song.MaxInstruments]
}

// decode applies one row of one channel.
func (p *Player) decode(ch int, n song.Note) {
	c := &p.channels[ch]

	// effects latch even on empty rows so volume and jump fire on silent rows
	c.Note.Effect = n.Effect
	c.Note.Param = n.Param

	if n.Instrument != song.NoInstrument {
		c.Note.Instrument = n.Instrument
		if !song.IsPercussion(int(n.Instrument)) {
			inst := p.instrument(n.Instrument)
			p.bus.WriteRegister(ch, addr.WaveSelect, addr.WaveEnable|(inst.Waveform&0xF)<<addr.WaveShift)
			p.bus.WriteRegister(ch, addr.PulseWidth, inst.PulseWidth&addr.MaxPulseWidth)
		}
	}

	if n.Pitch != 0 {
		c.Note.Pitch = n.Pitch
		c.NoteOnTime = 0
		p.trigger(ch)
	}

	switch n.Effect {
	case song.EffectSlideUp:
		if n.Pitch == 0 {
			p.slide(ch, int(n.Param))
		}
	case song.EffectSlideDown:
		if n.Pitch == 0 {
			p.slide(ch, -int(n.Param))
		}
	case song.EffectSetVolume:
		c.Volume = n.Param
		p.bus.WriteRegister(ch, addr.Volume, uint32(c.Volume))
	case song.EffectJump:
		if ch != EffectChannel {
			p.transport.NextPosOverride = int(n.Param)
		}
	}
}

// trigger starts the remembered pitch with the remembered instrument.
func (p *Player) trigger(ch int) {
	c := &p.channels[ch]

	switch c.Note.Instrument {
	case song.Kick:
		p.bus.WriteRegister(ch, addr.Freq, freq.Lookup(kickPitch))
		p.bus.WriteRegister(ch, addr.WaveSelect, noiseWave)
	case song.ClosedHiHat, song.OpenHiHat:
		p.bus.WriteRegister(ch, addr.Freq, freq.Lookup(hiHatPitch))
		p.bus.WriteRegister(ch, addr.WaveSelect, noiseWave)
	case song.Snare:
		p.bus.WriteRegister(ch, addr.Freq, freq.Lookup(snarePitch))
		p.bus.WriteRegister(ch, addr.WaveSelect, snareWave)
	default:
		p.bus.WriteRegister(ch, addr.Freq, freq.Lookup(int(c.Note.Pitch)))
	}

	inst := p.instrument(c.Note.Instrument)
	if inst.EnvelopeEnabled() {
		c.Volume = inst.Envelope.At(0)
	} else {
		c.Volume = inst.DefaultVolume
	}
	p.bus.WriteRegister(ch, addr.Volume, uint32(c.Volume))
}

// slide moves the remembered pitch by delta semitones, clamped to the playable range.
func (p *Player) slide(ch int, delta int) {
	c := &p.channels[ch]
	c.Note.Pitch = uint8(freq.Clamp(int(c.Note.Pitch) + delta))
	p.bus.WriteRegister(ch, addr.Freq, freq.Lookup(int(c.Note.Pitch)))
}

// tickChannel runs envelope, percussion and continuous effects for one tick.
// The note clock runs on every channel; a channel that has never been given a
// note writes no registers.
func (p *Player) tickChannel(ch int) {
	c := &p.channels[ch]
	c.NoteOnTime++
	if c.Note.IsEmpty() {
		return
	}

	inst := p.instrument(c.Note.Instrument)
	if inst.EnvelopeEnabled() {
		c.Volume = inst.Envelope.At(c.NoteOnTime)
	}
	if c.Note.Effect == song.EffectSetVolume {
		c.Volume = c.Note.Param
	}
	p.bus.WriteRegister(ch, addr.Volume, uint32(c.Volume))

	if c.Note.Instrument == song.Kick {
		pitch := kickSweepStart - kickSweepStep*c.NoteOnTime
		if pitch <= kickSweepFloor {
			pitch = kickSweepEnd
		}
		p.bus.WriteRegister(ch, addr.PulseWidth, kickPulseWidth)
		p.bus.WriteRegister(ch, addr.Freq, freq.Lookup(pitch))
		p.bus.WriteRegister(ch, addr.WaveSelect, kickWave)
	}

	switch c.Note.Effect {
	case song.EffectSlideUp:
		p.slide(ch, int(c.Note.Param))
	case song.EffectSlideDown:
		p.slide(ch, -int(c.Note.Param))
	}
}
