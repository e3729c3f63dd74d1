package song

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinNames(t *testing.T) {
	assert.Equal(t, []string{"pacman", "petergun"}, BuiltinNames())
}

func TestBuiltinSongs(t *testing.T) {
	for _, name := range BuiltinNames() {
		t.Run(name, func(t *testing.T) {
			s, err := Builtin(name)
			require.NoError(t, err)
			assert.Equal(t, name, s.Name)
			require.NoError(t, s.Validate())

			// every position resolves to a pattern whose bars exist
			for p := 0; p < s.SongLength; p++ {
				pat := int(s.PatternMap[p])
				require.Less(t, pat, MaxPatterns)
				for _, b := range s.Patterns[pat].Bar {
					assert.Less(t, int(b), MaxBars)
				}
			}
		})
	}
}

func TestBuiltinPacman(t *testing.T) {
	s, err := Builtin("pacman")
	require.NoError(t, err)

	assert.Equal(t, 8, s.SongLength)
	assert.Equal(t, 4, s.TicksPerDiv)
	assert.Equal(t, "waka", s.Instruments[8].Name)
	assert.Equal(t, uint8(128), s.Instruments[8].DefaultVolume)
	assert.Equal(t, NewNote(6, 80, EffectSlideDown, 1), s.Bars[8].Notes[0], "death effect starts on G-5")
	assert.Equal(t, NewNote(0, 0, EffectSetVolume, 0), s.Bars[8].Notes[15])
}

func TestBuiltinUnknown(t *testing.T) {
	_, err := Builtin("nope")
	assert.ErrorIs(t, err, ErrUnknownSong)
}

func TestOpen(t *testing.T) {
	s, err := Open("petergun")
	require.NoError(t, err)
	assert.Equal(t, 24, s.SongLength)

	_, err = Open("/nonexistent/song.yaml")
	assert.Error(t, err)
}
