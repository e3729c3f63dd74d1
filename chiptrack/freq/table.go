package freq

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Pitch range of the table. Index 0 is silence.
const (
	MinNote = 1
	MaxNote = len(Table) - 1
)

// ErrBadNote is returned when a note cannot be parsed.
var ErrBadNote = errors.New("invalid note")

// Table maps a note index to the peripheral's frequency divider.
// Index 37 is C-2 (65.4 Hz); each row below is one octave, named the way NoteName prints it.
var Table = [128]uint32{
	0x00000, // silence
	0x00089, 0x00091, 0x00099, 0x000a3, 0x000ac, 0x000b7, 0x000c1, 0x000cd, 0x000d9, 0x000e6, 0x000f4, 0x00102, // octave -1
	0x00112, 0x00122, 0x00133, 0x00146, 0x00159, 0x0016e, 0x00183, 0x0019b, 0x001b3, 0x001cd, 0x001e8, 0x00205, // octave 0
	0x00224, 0x00245, 0x00267, 0x0028c, 0x002b3, 0x002dc, 0x00307, 0x00336, 0x00366, 0x0039a, 0x003d1, 0x0040b, // octave 1
	0x00449, 0x0048a, 0x004cf, 0x00518, 0x00566, 0x005b8, 0x0060f, 0x0066c, 0x006cd, 0x00735, 0x007a3, 0x00817, // octave 2
	0x00892, 0x00915, 0x0099f, 0x00a31, 0x00acd, 0x00b71, 0x00c1f, 0x00cd8, 0x00d9b, 0x00e6a, 0x00f46, 0x0102e, // octave 3
	0x01125, 0x0122a, 0x0133e, 0x01463, 0x0159a, 0x016e2, 0x0183f, 0x019b0, 0x01b37, 0x01cd5, 0x01e8c, 0x0205d, // octave 4
	0x0224a, 0x02454, 0x0267d, 0x028c7, 0x02b34, 0x02dc5, 0x0307e, 0x03360, 0x0366f, 0x039ab, 0x03d19, 0x040bb, // octave 5
	0x04495, 0x048a8, 0x04cfb, 0x0518e, 0x05668, 0x05b8b, 0x060fd, 0x066c1, 0x06cde, 0x07357, 0x07a33, 0x08177, // octave 6
	0x0892a, 0x09151, 0x099f6, 0x0a31d, 0x0acd0, 0x0b717, 0x0c1fa, 0x0cd83, 0x0d9bc, 0x0e6ae, 0x0f466, 0x102ee, // octave 7
	0x11254, 0x122a3, 0x133ec, 0x1463b, 0x159a1, 0x16e2f, 0x183f5, 0x19b07, 0x1b378, 0x1cd5c, 0x1e8cc, 0x205dc, // octave 8
	0x224a8, 0x24547, 0x267d8, 0x28c77, 0x2b343, 0x2dc5e, 0x307ea, // octave 9
}

// Lookup returns the divider for note n, clamping n into the table.
func Lookup(n int) uint32 {
	if n < 0 {
		n = 0
	} else if n > MaxNote {
		n = MaxNote
	}
	return Table[n]
}

// Clamp bounds a pitch into the playable range [MinNote, MaxNote].
func Clamp(n int) int {
	if n < MinNote {
		return MinNote
	}
	if n > MaxNote {
		return MaxNote
	}
	return n
}

// HzToDivider converts a frequency in Hz to the fixed-point divider.
func HzToDivider(hz float64) uint32 {
	if hz <= 0 {
		return 0
	}
	return uint32(hz * 16777216 / 1000000)
}

// DividerToHz converts a divider back to Hz.
func DividerToHz(d uint32) float64 {
	return float64(d) * 1000000 / 16777216
}

// Nearest returns the table index whose divider is closest to d. A zero divider maps to 0.
func Nearest(d uint32) int {
	if d == 0 {
		return 0
	}
	best, bestDist := MinNote, uint32(0xFFFFFFFF)
	for n := MinNote; n <= MaxNote; n++ {
		var dist uint32
		if Table[n] > d {
			dist = Table[n] - d
		} else {
			dist = d - Table[n]
		}
		if dist < bestDist {
			best, bestDist = n, dist
		}
	}
	return best
}

var noteNames = []string{"C-", "C#", "D-", "D#", "E-", "F-", "F#", "G-", "G#", "A-", "A#", "B-"}

// NoteName formats a note index as tracker text, e.g. "C-2" or "F#5".
// Index 0 prints as "---"; indices below octave 0 print as their decimal value.
func NoteName(n int) string {
	if n <= 0 {
		return "---"
	}
	if n > MaxNote {
		n = MaxNote
	}
	octave := (n-1)/12 - 1
	if octave < 0 {
		return fmt.Sprintf("%03d", n)
	}
	return noteNames[(n-1)%12] + strconv.Itoa(octave)
}

// ParseNote parses tracker note text: a name such as "C-2" or "c#3", "---" for no note,
// or a decimal table index such as "011".
func ParseNote(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "---" || s == "..." {
		return 0, nil
	}
	if s[0] >= '0' && s[0] <= '9' {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 || n > MaxNote {
			return 0, fmt.Errorf("%w: %q", ErrBadNote, s)
		}
		return n, nil
	}
	if len(s) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrBadNote, s)
	}
	name := strings.ToUpper(s[:2])
	semitone := -1
	for i, nn := range noteNames {
		if nn == name {
			semitone = i
			break
		}
	}
	if semitone < 0 || s[2] < '0' || s[2] > '9' {
		return 0, fmt.Errorf("%w: %q", ErrBadNote, s)
	}
	n := 1 + (int(s[2]-'0')+1)*12 + semitone
	if n > MaxNote {
		return 0, fmt.Errorf("%w: %q out of range", ErrBadNote, s)
	}
	return n, nil
}
