// Package config loads player settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/valerio/go-chiptrack/chiptrack/addr"
	"github.com/valerio/go-chiptrack/chiptrack/timing"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Limiter kinds.
const (
	LimiterAdaptive = "adaptive"
	LimiterTicker   = "ticker"
)

type Config struct {
	Song          string `toml:"song"`
	TickRateHz    int    `toml:"tick_rate_hz"`
	GlobalVolume  int    `toml:"global_volume"`
	StartPosition int    `toml:"start_position"`
	Mute          []int  `toml:"mute"`
	Limiter       string `toml:"limiter"`

	// FirstEffectBar is the bar the first effect key plays.
	FirstEffectBar int `toml:"first_effect_bar"`

	Headless Headless `toml:"headless"`
}

type Headless struct {
	Ticks int    `toml:"ticks"`
	Dump  string `toml:"dump"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Song:           "pacman",
		TickRateHz:     timing.TickRate,
		GlobalVolume:   int(addr.MaxVolume),
		Limiter:        LimiterAdaptive,
		FirstEffectBar: 8,
		Headless: Headless{
			Ticks: 30 * timing.TickRate,
		},
	}
}

// Load reads path on top of the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("%w: %s: unknown keys %s", ErrInvalidConfig, path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every out of range setting.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Song == "" {
		invalid("song is required")
	}
	if c.TickRateHz < 1 || c.TickRateHz > 1000 {
		invalid("tick_rate_hz %d out of range [1, 1000]", c.TickRateHz)
	}
	if c.GlobalVolume < 0 || c.GlobalVolume > int(addr.MaxVolume) {
		invalid("global_volume %d out of range [0, %d]", c.GlobalVolume, addr.MaxVolume)
	}
	if c.StartPosition < 0 {
		invalid("start_position %d must not be negative", c.StartPosition)
	}
	for _, v := range c.Mute {
		if v < 0 || v >= addr.Voices {
			invalid("mute voice %d out of range [0, %d]", v, addr.Voices-1)
		}
	}
	switch c.Limiter {
	case LimiterAdaptive, LimiterTicker:
	default:
		invalid("limiter %q must be %q or %q", c.Limiter, LimiterAdaptive, LimiterTicker)
	}
	if c.FirstEffectBar < 0 || c.FirstEffectBar > 255 {
		invalid("first_effect_bar %d out of range [0, 255]", c.FirstEffectBar)
	}
	if c.Headless.Ticks < 1 {
		invalid("headless.ticks %d must be positive", c.Headless.Ticks)
	}
	return errors.Join(errs...)
}
