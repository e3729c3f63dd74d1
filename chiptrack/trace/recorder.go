package trace

import (
	"bufio"
	"fmt"
	"io"

	"github.com/valerio/go-chiptrack/chiptrack/addr"
)

// Write is one recorded register write.
type Write struct {
	Tick  uint64
	Voice int
	Reg   addr.Register
	Value uint32
}

func (w Write) String() string {
	return fmt.Sprintf("%8d v%d %-10s 0x%08x", w.Tick, w.Voice, w.Reg, w.Value)
}

// Recorder keeps every write in memory, stamped with the current tick.
type Recorder struct {
	next   Bus
	writes []Write
	tick   uint64
	last   [addr.Voices][addr.VoiceStride]lastWrite
}

type lastWrite struct {
	value uint32
	ok    bool
}

// NewRecorder creates a recorder forwarding to next (which may be nil),
// with room for capacity writes before it grows.
func NewRecorder(next Bus, capacity int) *Recorder {
	return &Recorder{
		next:   next,
		writes: make([]Write, 0, capacity),
	}
}

func (r *Recorder) WriteRegister(voice int, reg addr.Register, value uint32) {
	r.writes = append(r.writes, Write{Tick: r.tick, Voice: voice, Reg: reg, Value: value})
	if voice >= 0 && voice < addr.Voices && reg < addr.VoiceStride {
		r.last[voice][reg] = lastWrite{value: value, ok: true}
	}
	if r.next != nil {
		r.next.WriteRegister(voice, reg, value)
	}
}

// Mark stamps subsequent writes with tick.
func (r *Recorder) Mark(tick uint64) { r.tick = tick }

// Writes returns the recorded writes. The slice is owned by the recorder.
func (r *Recorder) Writes() []Write { return r.writes }

// WritesAt returns the writes stamped with tick.
func (r *Recorder) WritesAt(tick uint64) []Write {
	var out []Write
	for _, w := range r.writes {
		if w.Tick == tick {
			out = append(out, w)
		}
	}
	return out
}

// Values returns the values written to one register, oldest first.
func (r *Recorder) Values(voice int, reg addr.Register) []uint32 {
	var out []uint32
	for _, w := range r.writes {
		if w.Voice == voice && w.Reg == reg {
			out = append(out, w.Value)
		}
	}
	return out
}

// Last returns the most recent value written to a register, if any.
func (r *Recorder) Last(voice int, reg addr.Register) (uint32, bool) {
	if voice < 0 || voice >= addr.Voices || reg >= addr.VoiceStride {
		return 0, false
	}
	l := r.last[voice][reg]
	return l.value, l.ok
}

// Reset drops all recorded writes, keeping the allocated capacity and the current tick.
func (r *Recorder) Reset() {
	r.writes = r.writes[:0]
	r.last = [addr.Voices][addr.VoiceStride]lastWrite{}
}

// Dump writes one line per recorded write.
func (r *Recorder) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %d register writes\n", len(r.writes))
	for _, wr := range r.writes {
		fmt.Fprintln(bw, wr.String())
	}
	return bw.Flush()
}
