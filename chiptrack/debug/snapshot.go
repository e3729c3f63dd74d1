// Package debug builds read-only views of the player and peripheral for front ends.
package debug

import (
	"strings"

	"github.com/valerio/go-chiptrack/chiptrack/addr"
	"github.com/valerio/go-chiptrack/chiptrack/bit"
	"github.com/valerio/go-chiptrack/chiptrack/freq"
	"github.com/valerio/go-chiptrack/chiptrack/player"
	"github.com/valerio/go-chiptrack/chiptrack/song"
)

type ChannelStatus struct {
	Enabled    bool
	Muted      bool
	Waveform   uint32
	Frequency  float64
	Note       string
	PulseWidth uint32
	Volume     uint8
	Level      uint8 // audible volume after muting and the master volume

	// sequencer side
	Instrument uint8
	Effect     song.Effect
	Param      uint8
	NoteOnTime int
}

// WaveName returns the waveform bits as text, e.g. "saw+tri", or "off".
func (c ChannelStatus) WaveName() string { return WaveName(c.Waveform) }

type Snapshot struct {
	Tick         uint64
	SongName     string
	SongLength   int
	Transport    player.Transport
	EffectActive bool
	GlobalVolume uint8
	Writes       uint64
	Channels     [addr.Voices]ChannelStatus
}

// RegisterReader reads peripheral words by offset from addr.Base.
type RegisterReader interface {
	ReadRegister(offset uint32) uint32
}

// StatusProvider reports which voices are audible and how loud.
type StatusProvider interface {
	GetChannelStatus() (ch0, ch1, ch2, ch3 bool)
	GetChannelVolumes() (ch0, ch1, ch2, ch3 uint8)
}

// ExtractChannels decodes the voice registers. status may be nil, in which case
// nothing is reported as muted and the level of an enabled voice is its volume.
func ExtractChannels(reader RegisterReader, status StatusProvider) [addr.Voices]ChannelStatus {
	var out [addr.Voices]ChannelStatus
	for v := range out {
		extractChannel(reader, v, &out[v])
		if out[v].Enabled {
			out[v].Level = out[v].Volume
		}
	}
	if status != nil {
		ch0, ch1, ch2, ch3 := status.GetChannelStatus()
		lv0, lv1, lv2, lv3 := status.GetChannelVolumes()
		levels := []uint8{lv0, lv1, lv2, lv3}
		for v, on := range []bool{ch0, ch1, ch2, ch3} {
			out[v].Muted = out[v].Enabled && !on
			out[v].Level = levels[v]
		}
	}
	return out
}

func extractChannel(reader RegisterReader, v int, ch *ChannelStatus) {
	wave := reader.ReadRegister(addr.Offset(v, addr.WaveSelect))
	ch.Enabled = bit.IsSet(addr.WaveEnableBit, wave)
	ch.Waveform = bit.ExtractBits(wave, addr.WaveShift, addr.WaveWidth)

	divider := reader.ReadRegister(addr.Offset(v, addr.Freq))
	ch.Frequency = freq.DividerToHz(divider)
	ch.Note = dividerToNote(divider)

	ch.PulseWidth = reader.ReadRegister(addr.Offset(v, addr.PulseWidth)) & addr.MaxPulseWidth
	ch.Volume = uint8(reader.ReadRegister(addr.Offset(v, addr.Volume)))
}

// Take assembles a full snapshot. The caller must hold off ticks while it runs.
func Take(tick uint64, p *player.Player, reader RegisterReader, status StatusProvider) *Snapshot {
	s := &Snapshot{
		Tick:         tick,
		Transport:    p.Transport(),
		EffectActive: p.EffectActive(),
		GlobalVolume: uint8(reader.ReadRegister(addr.GlobalVolume)),
		Channels:     ExtractChannels(reader, status),
	}
	if sng := p.Song(); sng != nil {
		s.SongName = sng.Name
		s.SongLength = sng.SongLength
	}
	for v := range s.Channels {
		c := p.Channel(v)
		s.Channels[v].Instrument = c.Note.Instrument
		s.Channels[v].Effect = c.Note.Effect
		s.Channels[v].Param = c.Note.Param
		s.Channels[v].NoteOnTime = c.NoteOnTime
	}
	return s
}

// dividerToNote names the closest table note, or "---" for silence.
func dividerToNote(divider uint32) string {
	if divider == 0 {
		return "---"
	}
	return freq.NoteName(freq.Nearest(divider))
}

var waveNames = []struct {
	bits uint32
	name string
}{
	{addr.WaveNoise, "noise"},
	{addr.WaveSquare, "square"},
	{addr.WaveSawtooth, "saw"},
	{addr.WaveTriangle, "tri"},
}

func WaveName(bits uint32) string {
	var parts []string
	for _, w := range waveNames {
		if bits&w.bits != 0 {
			parts = append(parts, w.name)
		}
	}
	if len(parts) == 0 {
		return "off"
	}
	return strings.Join(parts, "+")
}
