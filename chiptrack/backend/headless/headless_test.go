package headless_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chiptrack/chiptrack/backend"
	"github.com/valerio/go-chiptrack/chiptrack/backend/headless"
	"github.com/valerio/go-chiptrack/chiptrack/debug"
	"github.com/valerio/go-chiptrack/chiptrack/input/action"
)

type dumper struct {
	text string
	err  error
}

func (d dumper) Dump(w io.Writer) error {
	if d.err != nil {
		return d.err
	}
	_, err := io.WriteString(w, d.text)
	return err
}

func TestHeadlessBackend(t *testing.T) {
	t.Run("normal operation", func(t *testing.T) {
		// Create headless backend for 3 ticks
		h := headless.New(3, headless.DumpConfig{})

		err := h.Init(backend.Config{Title: "Test"})
		assert.NoError(t, err)

		snap := &debug.Snapshot{}
		for i := 0; i < 3; i++ {
			events, err := h.Update(snap)
			assert.NoError(t, err)

			if i < 2 {
				// Should not quit before reaching max ticks
				assert.Empty(t, events)
			} else {
				// Should send quit event on last tick
				require.Len(t, events, 1)
				assert.Equal(t, action.Quit, events[0].Action)
			}
		}

		assert.NoError(t, h.Cleanup())
	})

	t.Run("writes dump", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "writes.txt")
		h := headless.New(2, headless.DumpConfig{Path: path, Source: dumper{text: "# 0 register writes\n"}})
		require.NoError(t, h.Init(backend.Config{}))

		_, err := h.Update(&debug.Snapshot{})
		require.NoError(t, err)
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err), "dump is written at the end")

		events, err := h.Update(&debug.Snapshot{})
		require.NoError(t, err)
		assert.Len(t, events, 1)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "# 0 register writes\n", string(data))
	})

	t.Run("dump failure", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "writes.txt")
		h := headless.New(1, headless.DumpConfig{Path: path, Source: dumper{err: errors.New("boom")}})
		require.NoError(t, h.Init(backend.Config{}))

		_, err := h.Update(&debug.Snapshot{})
		assert.ErrorContains(t, err, "boom")
	})

	t.Run("dump without source", func(t *testing.T) {
		h := headless.New(1, headless.DumpConfig{Path: "x"})
		assert.Error(t, h.Init(backend.Config{}))
	})
}

func TestHeadlessImplementsBackend(t *testing.T) {
	// Compile-time check that headless.Backend implements backend.Backend
	var _ backend.Backend = (*headless.Backend)(nil)
}
