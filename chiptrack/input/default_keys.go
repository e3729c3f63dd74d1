package input

import "github.com/valerio/go-chiptrack/chiptrack/input/action"

// Binding is the action a key performs. For action.EffectTrigger, Value is an
// offset added to the front end's first effect bar.
type Binding struct {
	Action action.Action
	Value  int
}

// DefaultKeyMap provides default key mappings that work across backends.
var DefaultKeyMap = map[string]Binding{
	"Space": {Action: action.PlaybackToggle},
	"p":     {Action: action.PlaybackToggle},
	"r":     {Action: action.PlaybackRestart},
	"Right": {Action: action.PositionNext},
	"Left":  {Action: action.PositionPrev},

	"1": {Action: action.EffectTrigger, Value: 0},
	"2": {Action: action.EffectTrigger, Value: 1},
	"3": {Action: action.EffectTrigger, Value: 2},
	"4": {Action: action.EffectTrigger, Value: 3},
	"5": {Action: action.EffectTrigger, Value: 4},
	"6": {Action: action.EffectTrigger, Value: 5},
	"7": {Action: action.EffectTrigger, Value: 6},
	"8": {Action: action.EffectTrigger, Value: 7},
	"9": {Action: action.EffectTrigger, Value: 8},
	"0": {Action: action.EffectTrigger, Value: 9},

	"F1": {Action: action.VoiceToggle, Value: 0},
	"F2": {Action: action.VoiceToggle, Value: 1},
	"F3": {Action: action.VoiceToggle, Value: 2},
	"F4": {Action: action.VoiceToggle, Value: 3},
	"F5": {Action: action.VoiceSolo, Value: 0},
	"F6": {Action: action.VoiceSolo, Value: 1},
	"F7": {Action: action.VoiceSolo, Value: 2},
	"F8": {Action: action.VoiceSolo, Value: 3},
	"u":  {Action: action.VoiceUnmuteAll},

	"+": {Action: action.LogLevelIncrease},
	"=": {Action: action.LogLevelIncrease}, // Alternative without shift
	"-": {Action: action.LogLevelDecrease},
	"_": {Action: action.LogLevelDecrease}, // Alternative with shift

	"Escape": {Action: action.Quit},
	"q":      {Action: action.Quit},
}

// GetDefaultMapping returns the default binding for a key, if one exists
func GetDefaultMapping(key string) (Binding, bool) {
	b, ok := DefaultKeyMap[key]
	return b, ok
}
