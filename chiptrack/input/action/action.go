package action

// Action represents input actions that can be performed on the player
type Action int

const (
	// Transport
	PlaybackToggle Action = iota
	PlaybackRestart
	PositionNext
	PositionPrev
	EffectTrigger // Value is the bar to play

	// Peripheral debugging, Value is the voice
	VoiceToggle
	VoiceSolo
	VoiceUnmuteAll

	// Front end
	LogLevelIncrease
	LogLevelDecrease
	Quit
)

// Info describes an action for logs and help screens.
type Info struct {
	Name        string
	Description string
	// Debounce marks toggles that flap when a key is held down.
	Debounce bool
}

var infos = map[Action]Info{
	PlaybackToggle:   {"playback-toggle", "Start or stop the song", true},
	PlaybackRestart:  {"playback-restart", "Restart the song from position 0", true},
	PositionNext:     {"position-next", "Skip to the next song position", false},
	PositionPrev:     {"position-prev", "Go back one song position", false},
	EffectTrigger:    {"effect-trigger", "Play a bar on the effect channel", false},
	VoiceToggle:      {"voice-toggle", "Mute or unmute a voice", true},
	VoiceSolo:        {"voice-solo", "Mute every other voice", true},
	VoiceUnmuteAll:   {"voice-unmute-all", "Unmute every voice", false},
	LogLevelIncrease: {"log-more", "Show more log output", false},
	LogLevelDecrease: {"log-less", "Show less log output", false},
	Quit:             {"quit", "Exit the player", false},
}

// GetInfo returns the description of act.
func GetInfo(act Action) Info {
	if info, ok := infos[act]; ok {
		return info
	}
	return Info{Name: "unknown", Description: "Unknown action"}
}

func (a Action) String() string { return GetInfo(a).Name }
