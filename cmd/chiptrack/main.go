package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/valerio/go-chiptrack/chiptrack/audio"
	"github.com/valerio/go-chiptrack/chiptrack/backend"
	"github.com/valerio/go-chiptrack/chiptrack/backend/headless"
	"github.com/valerio/go-chiptrack/chiptrack/backend/terminal"
	"github.com/valerio/go-chiptrack/chiptrack/config"
	"github.com/valerio/go-chiptrack/chiptrack/input"
	"github.com/valerio/go-chiptrack/chiptrack/input/action"
	"github.com/valerio/go-chiptrack/chiptrack/machine"
	"github.com/valerio/go-chiptrack/chiptrack/song"
	"github.com/valerio/go-chiptrack/chiptrack/timing"
)

const (
	uiFrameTime    = time.Second / 30
	recordCapacity = 1 << 14
)

func main() {
	app := cli.NewApp()
	app.Name = "chiptrack"
	app.Description = "A tracker song player for a four voice synthesizer"
	app.Usage = "chiptrack [options] [song]"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "Path to a TOML config file",
		},
		cli.StringFlag{
			Name:  "song",
			Usage: "Built-in song name or path to a YAML song file",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without the terminal UI (default when stdout is not a terminal)",
		},
		cli.IntFlag{
			Name:  "ticks",
			Usage: "Number of ticks to run in headless mode",
		},
		cli.StringFlag{
			Name:  "dump",
			Usage: "Write every register write to this file when a headless run ends",
		},
		cli.StringSliceFlag{
			Name:  "fx",
			Usage: "Play an effect bar at a tick, as BAR@TICK (repeatable)",
		},
		cli.IntFlag{
			Name:  "position",
			Usage: "Song position to start from",
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging, including every register write",
		},
		cli.BoolFlag{
			Name:  "list",
			Usage: "List the built-in songs and exit",
		},
	}
	app.Action = runPlayer

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running player", "error", err)
		os.Exit(1)
	}
}

func runPlayer(c *cli.Context) error {
	if c.Bool("list") {
		for _, name := range song.BuiltinNames() {
			fmt.Println(name)
		}
		return nil
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	cues, err := parseCues(c.StringSlice("fx"))
	if err != nil {
		return err
	}
	s, err := song.Open(cfg.Song)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run := session{
		cfg:     cfg,
		song:    s,
		cues:    cues,
		verbose: c.Bool("verbose"),
	}

	if c.Bool("headless") {
		return run.headless(ctx)
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		slog.Info("stdout is not a terminal, running headless")
		return run.headless(ctx)
	}
	return run.terminal(ctx)
}

// loadConfig reads --config, then applies the command line overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	if name := c.String("song"); name != "" {
		cfg.Song = name
	} else if c.NArg() > 0 {
		cfg.Song = c.Args().First()
	}
	if c.IsSet("position") {
		cfg.StartPosition = c.Int("position")
	}
	if c.IsSet("ticks") {
		cfg.Headless.Ticks = c.Int("ticks")
	}
	if dump := c.String("dump"); dump != "" {
		cfg.Headless.Dump = dump
	}

	return cfg, cfg.Validate()
}

// session wires one machine to one front end.
type session struct {
	cfg     config.Config
	song    *song.Song
	cues    []machine.Cue
	verbose bool
}

// newMachine builds the machine against the current default logger, so it must
// be called once the front end owns logging.
func (s *session) newMachine(opts ...machine.Option) (*machine.Machine, error) {
	opts = append(opts, machine.WithLogger(slog.Default()), machine.WithCues(s.cues...))
	if s.verbose {
		opts = append(opts, machine.WithWriteLogging(slog.LevelDebug))
	}
	m := machine.New(opts...)
	if err := m.Load(s.song); err != nil {
		return nil, err
	}

	periph := m.Peripheral()
	periph.SetGlobalVolume(uint32(s.cfg.GlobalVolume))
	for _, v := range s.cfg.Mute {
		periph.MuteChannel(v, true)
	}

	m.Start(s.cfg.StartPosition)
	return m, nil
}

// controls binds the player actions to m. The returned func reports whether quit was requested.
func (s *session) controls(m *machine.Machine) (*input.Manager, func() bool) {
	mgr := input.NewManager()
	var voices audio.Controls = m.Peripheral()
	quit := false

	mgr.On(action.PlaybackToggle, func(int) { m.TogglePlayback() })
	mgr.On(action.PlaybackRestart, func(int) { m.Start(0) })
	mgr.On(action.PositionNext, func(int) { m.Seek(1) })
	mgr.On(action.PositionPrev, func(int) { m.Seek(-1) })
	mgr.On(action.EffectTrigger, m.TriggerEffect)
	mgr.On(action.VoiceToggle, voices.ToggleChannel)
	mgr.On(action.VoiceSolo, voices.SoloChannel)
	mgr.On(action.VoiceUnmuteAll, func(int) { voices.UnmuteAll() })
	mgr.On(action.Quit, func(int) { quit = true })

	return mgr, func() bool { return quit }
}

func (s *session) backendConfig() backend.Config {
	return backend.Config{
		Title:          "chiptrack",
		FirstEffectBar: s.cfg.FirstEffectBar,
		Verbose:        s.verbose,
	}
}

// headless runs the song tick by tick, as fast as possible, until the backend quits.
func (s *session) headless(ctx context.Context) error {
	// Set up logging for headless mode
	level := slog.LevelInfo
	if s.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var opts []machine.Option
	if s.cfg.Headless.Dump != "" {
		opts = append(opts, machine.WithRecorder(recordCapacity))
	}
	m, err := s.newMachine(opts...)
	if err != nil {
		return err
	}

	dump := headless.DumpConfig{Path: s.cfg.Headless.Dump}
	if dump.Path != "" {
		dump.Source = m
	}
	be := headless.New(s.cfg.Headless.Ticks, dump)
	if err := be.Init(s.backendConfig()); err != nil {
		return err
	}
	defer be.Cleanup()

	mgr, quit := s.controls(m)
	for ctx.Err() == nil && !quit() {
		m.RunTicks(1)
		events, err := be.Update(m.Snapshot())
		if err != nil {
			return err
		}
		mgr.Dispatch(events)
	}
	return nil
}

// terminal runs the tick loop in real time next to the UI loop.
func (s *session) terminal(ctx context.Context) error {
	be := terminal.New()
	if err := be.Init(s.backendConfig()); err != nil {
		return err
	}
	defer be.Cleanup()

	m, err := s.newMachine()
	if err != nil {
		return err
	}

	limiter := timing.New(s.cfg.Limiter, timing.TickDuration(s.cfg.TickRateHz))
	if t, ok := limiter.(*timing.TickerLimiter); ok {
		defer t.Stop()
	}

	mgr, quit := s.controls(m)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return m.Run(ctx, limiter)
	})
	g.Go(func() error {
		// Quitting the UI stops the tick loop
		defer cancel()

		ticker := time.NewTicker(uiFrameTime)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}

			events, err := be.Update(m.Snapshot())
			if err != nil {
				return err
			}
			mgr.Dispatch(events)
			if quit() {
				return nil
			}
		}
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
