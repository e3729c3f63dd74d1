package headless

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/valerio/go-chiptrack/chiptrack/backend"
	"github.com/valerio/go-chiptrack/chiptrack/debug"
	"github.com/valerio/go-chiptrack/chiptrack/input/action"
)

// progressInterval is how often progress is logged, one second at 50 Hz.
const progressInterval = 50

// Dumper writes a register write log.
type Dumper interface {
	Dump(w io.Writer) error
}

// DumpConfig holds configuration for the register dump written at the end of the run
type DumpConfig struct {
	Path   string // empty disables the dump
	Source Dumper
}

// Backend implements the Backend interface for automated testing and batch processing
type Backend struct {
	config     backend.Config
	tickCount  int
	maxTicks   int
	dumpConfig DumpConfig
	logger     *slog.Logger
}

func New(maxTicks int, dumpConfig DumpConfig) *Backend {
	return &Backend{
		maxTicks:   maxTicks,
		dumpConfig: dumpConfig,
		logger:     slog.Default(),
	}
}

func (h *Backend) Init(config backend.Config) error {
	h.config = config
	h.logger = slog.Default()

	if h.dumpConfig.Path != "" && h.dumpConfig.Source == nil {
		return fmt.Errorf("register dump to %s has no source", h.dumpConfig.Path)
	}

	h.logger.Info("Running headless mode",
		"title", config.Title,
		"ticks", h.maxTicks,
		"dump", h.dumpConfig.Path)
	return nil
}

// Update counts one tick worth of playback and signals quit once the run is complete.
func (h *Backend) Update(snap *debug.Snapshot) ([]backend.Event, error) {
	h.tickCount++

	// Log progress periodically
	if h.tickCount%progressInterval == 0 {
		h.logger.Info("Tick progress",
			"completed", h.tickCount,
			"total", h.maxTicks,
			"position", snap.Transport.SongPos,
			"row", snap.Transport.SongRow,
			"effect", snap.EffectActive)
	}

	if h.tickCount < h.maxTicks {
		return nil, nil
	}

	if h.dumpConfig.Path != "" {
		if err := h.writeDump(); err != nil {
			return nil, err
		}
		h.logger.Info("Headless execution completed", "ticks", h.tickCount, "writes", snap.Writes, "dump", h.dumpConfig.Path)
	} else {
		h.logger.Info("Headless execution completed", "ticks", h.tickCount, "writes", snap.Writes)
	}

	// Signal completion via quit event
	return []backend.Event{{Action: action.Quit}}, nil
}

func (h *Backend) Cleanup() error {
	return nil
}

func (h *Backend) writeDump() error {
	f, err := os.Create(h.dumpConfig.Path)
	if err != nil {
		return fmt.Errorf("failed to create register dump: %w", err)
	}
	if err := h.dumpConfig.Source.Dump(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write register dump: %w", err)
	}
	return f.Close()
}
