package terminal

import (
	"fmt"
	"log/slog"
	"slices"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-chiptrack/chiptrack/backend"
	"github.com/valerio/go-chiptrack/chiptrack/backend/terminal/render"
	"github.com/valerio/go-chiptrack/chiptrack/debug"
	"github.com/valerio/go-chiptrack/chiptrack/input"
	"github.com/valerio/go-chiptrack/chiptrack/input/action"
)

const (
	minTermWidth  = 60
	minTermHeight = 16
	logCapacity   = 200
	meterWidth    = 16

	transportY = 1
	voicesY    = 4
	helpY      = voicesY + 5
	logsY      = helpY + 2
)

const helpText = "space play/stop  r restart  ←/→ seek  1-0 fx  F1-F4 mute  F5-F8 solo  u unmute  +/- logs  q quit"

// Backend implements the Backend interface using tcell for terminal rendering
type Backend struct {
	screen     tcell.Screen
	logBuffer  *render.LogBuffer
	logLevel   slog.Level
	config     backend.Config
	eventQueue []backend.Event
}

// New creates a new terminal backend
func New() *Backend {
	return &Backend{logLevel: slog.LevelInfo}
}

// NewWithScreen creates a backend drawing on screen, e.g. a tcell simulation screen.
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{screen: screen, logLevel: slog.LevelInfo}
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.Config) error {
	t.config = config
	t.eventQueue = nil

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to initialize terminal: %w", err)
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}

	// Logs go to the log pane, stderr is hidden behind the screen
	t.logBuffer = render.NewLogBuffer(logCapacity)
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, slog.LevelDebug)))

	if config.Verbose {
		t.logLevel = slog.LevelDebug
	}
	slog.Info("Terminal backend initialized", "title", config.Title)

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()
	return nil
}

// Update renders snap and returns the actions requested since the last call.
// Log filter changes are handled locally and never returned.
func (t *Backend) Update(snap *debug.Snapshot) ([]backend.Event, error) {
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	events := t.eventQueue
	t.eventQueue = nil

	t.render(snap)
	t.screen.Show()

	return events, nil
}

// Cleanup cleans up terminal resources
func (t *Backend) Cleanup() error {
	if t.screen != nil {
		slog.Info("Cleaning up terminal backend")
		t.screen.Fini()
	}
	return nil
}

// LogLevel returns the minimum level shown in the log pane.
func (t *Backend) LogLevel() slog.Level { return t.logLevel }

// tcellKeyNameMap converts tcell keys to key names used in default mappings
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyLeft:   "Left",
	tcell.KeyRight:  "Right",
	tcell.KeyEscape: "Escape",
	tcell.KeyF1:     "F1",
	tcell.KeyF2:     "F2",
	tcell.KeyF3:     "F3",
	tcell.KeyF4:     "F4",
	tcell.KeyF5:     "F5",
	tcell.KeyF6:     "F6",
	tcell.KeyF7:     "F7",
	tcell.KeyF8:     "F8",
}

// buildKeyMapping creates the key mapping from default mappings
func buildKeyMapping() map[tcell.Key]input.Binding {
	mapping := make(map[tcell.Key]input.Binding)

	for key, keyName := range tcellKeyNameMap {
		if b, ok := input.GetDefaultMapping(keyName); ok {
			mapping[key] = b
		}
	}

	mapping[tcell.KeyCtrlC] = input.Binding{Action: action.Quit}

	return mapping
}

// buildRuneMapping maps every single-character key name, plus the space bar
func buildRuneMapping() map[rune]input.Binding {
	mapping := make(map[rune]input.Binding)

	for keyName, b := range input.DefaultKeyMap {
		if utf8.RuneCountInString(keyName) == 1 {
			r, _ := utf8.DecodeRuneInString(keyName)
			mapping[r] = b
		}
	}
	if b, ok := input.GetDefaultMapping("Space"); ok {
		mapping[' '] = b
	}

	return mapping
}

// keyMapping maps tcell keys to actions
var keyMapping = buildKeyMapping()

// runeMapping maps runes to actions
var runeMapping = buildRuneMapping()

func (t *Backend) processKeyEvent(ev *tcell.EventKey) {
	b, ok := keyMapping[ev.Key()]
	if !ok && ev.Key() == tcell.KeyRune {
		b, ok = runeMapping[ev.Rune()]
	}
	if !ok {
		return
	}

	switch b.Action {
	case action.LogLevelIncrease:
		t.changeLogLevel(1)
		return
	case action.LogLevelDecrease:
		t.changeLogLevel(-1)
		return
	case action.EffectTrigger:
		b.Value += t.config.FirstEffectBar
	}

	slog.Debug("Key event", "action", b.Action, "value", b.Value)
	t.eventQueue = append(t.eventQueue, backend.Event{Action: b.Action, Value: b.Value})
}

// logLevels are the log pane filters, from most to least verbose.
var logLevels = []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}

// changeLogLevel moves the log pane filter; positive shows more output.
func (t *Backend) changeLogLevel(direction int) {
	idx := slices.Index(logLevels, t.logLevel)
	if idx < 0 {
		idx = 1
	}
	idx = min(max(idx-direction, 0), len(logLevels)-1)
	if logLevels[idx] == t.logLevel {
		return
	}
	oldLevel := t.logLevel
	t.logLevel = logLevels[idx]
	slog.Warn("Log filter changed", "from", oldLevel, "to", t.logLevel)
}

func (t *Backend) render(snap *debug.Snapshot) {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, style)
		return
	}

	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	t.drawText(1, 0, termWidth-1, fmt.Sprintf(" %s: %s ", t.config.Title, snap.SongName), titleStyle)
	t.drawTransport(snap, termWidth)
	t.drawRule(voicesY-1, termWidth, borderStyle)
	for v := range snap.Channels {
		t.drawVoice(v, snap, termWidth)
	}
	t.drawRule(helpY-1, termWidth, borderStyle)
	t.drawText(0, helpY, termWidth, helpText, tcell.StyleDefault.Foreground(tcell.ColorGray))
	t.drawRule(logsY-1, termWidth, borderStyle)
	t.drawLogs(0, logsY, termWidth, termHeight)
}

func (t *Backend) drawTransport(snap *debug.Snapshot, width int) {
	state, stateStyle := "STOPPED", tcell.StyleDefault.Foreground(tcell.ColorRed)
	if snap.Transport.Active {
		state, stateStyle = "PLAYING", tcell.StyleDefault.Foreground(tcell.ColorGreen)
	}
	t.drawText(0, transportY, width, state, stateStyle.Bold(true))

	row := "--"
	if snap.Transport.SongRow >= 0 {
		row = fmt.Sprintf("%02d", snap.Transport.SongRow)
	}
	line := fmt.Sprintf("pos %02d/%02d  row %s  speed %d  tick %d  writes %d  master %d",
		snap.Transport.SongPos, snap.SongLength, row, snap.Transport.TicksPerDiv,
		snap.Tick, snap.Writes, snap.GlobalVolume)
	t.drawText(9, transportY, width-9, line, tcell.StyleDefault)

	fx := "fx idle"
	fxStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	if snap.EffectActive {
		fx = fmt.Sprintf("fx bar %d row %02d", snap.Transport.SoundFXBar, snap.Transport.SoundFXRow)
		fxStyle = tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
	}
	t.drawText(0, transportY+1, width, fx, fxStyle)
}

func (t *Backend) drawVoice(v int, snap *debug.Snapshot, width int) {
	ch := snap.Channels[v]

	style := tcell.StyleDefault
	status := ""
	switch {
	case !ch.Enabled:
		style = style.Foreground(tcell.ColorGray)
	case ch.Muted:
		style = style.Foreground(tcell.ColorGray)
		status = " MUTE"
	}

	line := fmt.Sprintf("V%d %-4s %-18s pw %4d ins %2d fx %X%02X %s %3d%s",
		v+1, ch.Note, ch.WaveName(), ch.PulseWidth, ch.Instrument, uint8(ch.Effect), ch.Param,
		render.Meter(ch.Level, meterWidth), ch.Volume, status)
	t.drawText(0, voicesY+v, width, line, style)
}

func (t *Backend) drawRule(y, width int, style tcell.Style) {
	for x := 0; x < width; x++ {
		t.screen.SetContent(x, y, '─', nil, style)
	}
}

func (t *Backend) drawText(x, y, width int, text string, style tcell.Style) {
	for _, ch := range render.Truncate(text, width) {
		t.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}

func (t *Backend) drawLogs(startX, startY, width, termHeight int) {
	availableHeight := termHeight - startY
	if width <= 0 || availableHeight <= 0 {
		return
	}

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	for i, logEntry := range t.logBuffer.Recent(availableHeight, t.logLevel) {
		style := infoStyle
		switch {
		case logEntry.Level >= slog.LevelError:
			style = errStyle
		case logEntry.Level >= slog.LevelWarn:
			style = warnStyle
		case logEntry.Level < slog.LevelInfo:
			style = debugStyle
		}
		t.drawText(startX, startY+i, width, render.FormatLogEntry(logEntry), style)
	}
}
