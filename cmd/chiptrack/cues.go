package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/valerio/go-chiptrack/chiptrack/machine"
)

// parseCues parses --fx values of the form BAR@TICK.
func parseCues(values []string) ([]machine.Cue, error) {
	cues := make([]machine.Cue, 0, len(values))
	for _, v := range values {
		barStr, tickStr, ok := strings.Cut(v, "@")
		if !ok {
			return nil, fmt.Errorf("invalid --fx %q: want BAR@TICK", v)
		}
		bar, err := strconv.ParseUint(strings.TrimSpace(barStr), 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid --fx %q: bar must be 0-255: %w", v, err)
		}
		tick, err := strconv.ParseUint(strings.TrimSpace(tickStr), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --fx %q: bad tick: %w", v, err)
		}
		cues = append(cues, machine.Cue{Tick: tick, Bar: int(bar)})
	}
	return cues, nil
}
