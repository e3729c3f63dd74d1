package song

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/valerio/go-chiptrack/chiptrack/addr"
	"gopkg.in/yaml.v3"
)

// songFile is the on-disk YAML layout of a song.
type songFile struct {
	Name        string             `yaml:"name,omitempty"`
	RowsPerBar  int                `yaml:"rows_per_bar"`
	SongLength  int                `yaml:"song_length"`
	TicksPerDiv int                `yaml:"ticks_per_div"`
	Envelopes   map[string][]uint8 `yaml:"envelopes,omitempty"`
	Instruments []instrumentFile   `yaml:"instruments"`
	PatternMap  []uint8            `yaml:"pattern_map,flow"`
	Patterns    [][Channels]uint8  `yaml:"patterns,flow"`
	Bars        []barFile          `yaml:"bars"`
}

type instrumentFile struct {
	Index         int      `yaml:"index"`
	Name          string   `yaml:"name,omitempty"`
	Waveform      []string `yaml:"waveform,flow,omitempty"`
	PulseWidth    uint32   `yaml:"pulse_width,omitempty"`
	DefaultVolume uint8    `yaml:"default_volume,omitempty"`
	Envelope      string   `yaml:"envelope,omitempty"`
	UseEnvelope   bool     `yaml:"use_envelope,omitempty"`
}

type barFile struct {
	Index int      `yaml:"index"`
	Notes []string `yaml:"notes"`
}

var waveNames = []struct {
	name string
	bits uint32
}{
	{"noise", addr.WaveNoise},
	{"square", addr.WaveSquare},
	{"saw", addr.WaveSawtooth},
	{"triangle", addr.WaveTriangle},
}

func parseWaveform(names []string) (uint32, error) {
	var bits uint32
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "sawtooth" {
			name = "saw"
		}
		found := false
		for _, w := range waveNames {
			if w.name == name {
				bits |= w.bits
				found = true
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown waveform %q", name)
		}
	}
	return bits, nil
}

func formatWaveform(bits uint32) []string {
	var names []string
	for _, w := range waveNames {
		if bits&w.bits != 0 {
			names = append(names, w.name)
		}
	}
	return names
}

// Parse decodes a YAML song and validates it.
func Parse(data []byte) (*Song, error) {
	var f songFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode song: %w", err)
	}

	s := &Song{
		Name:        f.Name,
		RowsPerBar:  f.RowsPerBar,
		SongLength:  f.SongLength,
		TicksPerDiv: f.TicksPerDiv,
	}

	envelopes := make(map[string]*Envelope, len(f.Envelopes))
	for name, points := range f.Envelopes {
		envelopes[name] = &Envelope{Points: points}
	}

	for _, fi := range f.Instruments {
		if fi.Index < 0 || fi.Index >= MaxInstruments {
			return nil, fmt.Errorf("%w: instrument index %d out of range", ErrInvalidSong, fi.Index)
		}
		wave, err := parseWaveform(fi.Waveform)
		if err != nil {
			return nil, fmt.Errorf("%w: instrument %d: %v", ErrInvalidSong, fi.Index, err)
		}
		inst := Instrument{
			Name:           fi.Name,
			Waveform:       wave,
			PulseWidth:     fi.PulseWidth,
			DefaultVolume:  fi.DefaultVolume,
			EnvelopeEnable: fi.UseEnvelope,
		}
		if fi.Envelope != "" {
			env, ok := envelopes[fi.Envelope]
			if !ok {
				return nil, fmt.Errorf("%w: instrument %d: unknown envelope %q", ErrInvalidSong, fi.Index, fi.Envelope)
			}
			inst.Envelope = env
		}
		s.Instruments[fi.Index] = inst
	}

	if len(f.PatternMap) > MaxPositions {
		return nil, fmt.Errorf("%w: pattern_map has %d entries", ErrInvalidSong, len(f.PatternMap))
	}
	copy(s.PatternMap[:], f.PatternMap)

	if len(f.Patterns) > MaxPatterns {
		return nil, fmt.Errorf("%w: %d patterns", ErrInvalidSong, len(f.Patterns))
	}
	for i, p := range f.Patterns {
		s.Patterns[i].Bar = p
	}

	for _, fb := range f.Bars {
		if fb.Index < 0 || fb.Index >= MaxBars {
			return nil, fmt.Errorf("%w: bar index %d out of range", ErrInvalidSong, fb.Index)
		}
		if len(fb.Notes) > BarRows {
			return nil, fmt.Errorf("%w: bar %d has %d rows", ErrInvalidSong, fb.Index, len(fb.Notes))
		}
		for row, cell := range fb.Notes {
			n, err := ParseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("%w: bar %d row %d: %v", ErrInvalidSong, fb.Index, row, err)
			}
			s.Bars[fb.Index].Notes[row] = n
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads and parses a YAML song file.
func Load(path string) (*Song, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read song: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Marshal encodes a song as YAML. Shared envelopes keep a single named entry.
// Empty instruments and bars are omitted, and patterns are written up to the last one
// the pattern map uses.
func Marshal(s *Song) ([]byte, error) {
	f := songFile{
		Name:        s.Name,
		RowsPerBar:  s.RowsPerBar,
		SongLength:  s.SongLength,
		TicksPerDiv: s.TicksPerDiv,
		Envelopes:   map[string][]uint8{},
	}

	names := map[*Envelope]string{}
	for i := range s.Instruments {
		inst := &s.Instruments[i]
		if *inst == (Instrument{}) {
			continue
		}
		fi := instrumentFile{
			Index:         i,
			Name:          inst.Name,
			Waveform:      formatWaveform(inst.Waveform),
			PulseWidth:    inst.PulseWidth,
			DefaultVolume: inst.DefaultVolume,
			UseEnvelope:   inst.EnvelopeEnable,
		}
		if inst.Envelope != nil {
			name, ok := names[inst.Envelope]
			if !ok {
				name = fmt.Sprintf("env%d", len(names))
				names[inst.Envelope] = name
				f.Envelopes[name] = slices.Clone(inst.Envelope.Points)
			}
			fi.Envelope = name
		}
		f.Instruments = append(f.Instruments, fi)
	}

	length := min(max(s.SongLength, 0), MaxPositions)
	f.PatternMap = slices.Clone(s.PatternMap[:length])
	lastPattern := -1
	for _, p := range f.PatternMap {
		lastPattern = max(lastPattern, int(p))
	}
	for i := 0; i <= lastPattern; i++ {
		f.Patterns = append(f.Patterns, s.Patterns[i].Bar)
	}

	for i := range s.Bars {
		if s.Bars[i].IsEmpty() {
			continue
		}
		fb := barFile{Index: i}
		for _, n := range s.Bars[i].Notes {
			fb.Notes = append(fb.Notes, n.String())
		}
		f.Bars = append(f.Bars, fb)
	}

	out, err := yaml.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("failed to encode song: %w", err)
	}
	return out, nil
}
