package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chiptrack.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 50, cfg.TickRateHz)
	assert.Equal(t, 255, cfg.GlobalVolume)
	assert.Equal(t, LimiterAdaptive, cfg.Limiter)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
song = "petergun"
tick_rate_hz = 60
mute = [1, 3]
limiter = "ticker"

[headless]
ticks = 500
dump = "writes.txt"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "petergun", cfg.Song)
	assert.Equal(t, 60, cfg.TickRateHz)
	assert.Equal(t, 255, cfg.GlobalVolume, "unset keys keep their defaults")
	assert.Equal(t, []int{1, 3}, cfg.Mute)
	assert.Equal(t, LimiterTicker, cfg.Limiter)
	assert.Equal(t, 500, cfg.Headless.Ticks)
	assert.Equal(t, "writes.txt", cfg.Headless.Dump)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", `song = `},
		{"unknown key", "song = \"pacman\"\nvolume = 3\n"},
		{"bad limiter", `limiter = "sleep"`},
		{"bad mute", `mute = [4]`},
		{"bad volume", `global_volume = 300`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestValidateAggregates(t *testing.T) {
	cfg := Default()
	cfg.Song = ""
	cfg.TickRateHz = 0
	cfg.StartPosition = -1
	cfg.FirstEffectBar = 256
	cfg.Headless.Ticks = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	for _, want := range []string{"song", "tick_rate_hz", "start_position", "first_effect_bar", "headless.ticks"} {
		assert.Contains(t, err.Error(), want)
	}
}
