package addr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffset(t *testing.T) {
	assert.Equal(t, uint32(0), Offset(0, Freq))
	assert.Equal(t, uint32(3), Offset(0, Volume))
	assert.Equal(t, uint32(6), Offset(1, WaveSelect))
	assert.Equal(t, uint32(12), Offset(3, Freq))
	assert.Equal(t, uint32(15), Offset(3, Volume))
	assert.Equal(t, uint32(16), GlobalVolume, "global volume follows the last voice block")
}

func TestRegisterString(t *testing.T) {
	assert.Equal(t, "freq", Freq.String())
	assert.Equal(t, "pulsewidth", PulseWidth.String())
	assert.Equal(t, "wave", WaveSelect.String())
	assert.Equal(t, "volume", Volume.String())
	assert.Equal(t, "unknown", Register(9).String())
}
