package song

import (
	"embed"
	"fmt"
	"path"
	"slices"
	"strings"
)

//go:embed songs/*.yaml
var builtinFS embed.FS

// Builtin returns one of the songs shipped with the player, parsed fresh on each call.
func Builtin(name string) (*Song, error) {
	data, err := builtinFS.ReadFile(path.Join("songs", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSong, name)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("built-in song %q: %w", name, err)
	}
	return s, nil
}

// BuiltinNames lists the shipped songs in alphabetical order.
func BuiltinNames() []string {
	entries, err := builtinFS.ReadDir("songs")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	slices.Sort(names)
	return names
}

// Open resolves a song reference: a built-in name, or a path to a YAML file.
func Open(ref string) (*Song, error) {
	if slices.Contains(BuiltinNames(), ref) {
		return Builtin(ref)
	}
	return Load(ref)
}
