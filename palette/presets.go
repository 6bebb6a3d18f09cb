package palette

import (
	"sort"
	"strings"
)

var presets = map[string]Palette{
	"grass":   {0x0f, 0x19, 0x29, 0x39},
	"city":    {0x0f, 0x11, 0x21, 0x31},
	"sunset":  {0x0f, 0x06, 0x16, 0x26},
	"ocean":   {0x0f, 0x02, 0x12, 0x22},
	"lava":    {0x0f, 0x07, 0x17, 0x27},
	"neutral": {0x0f, 0x10, 0x20, 0x30},
}

// Section is one named palette used by a game
type Section struct {
	Name    string
	Palette Palette
}

// Approximations of palettes used by well known games, in the order the
// game loads them
var games = map[string][]Section{
	"smb": {
		{"scenery", Palette{0x0f, 0x21, 0x31, 0x30}},
		{"player", Palette{0x0f, 0x16, 0x27, 0x18}},
		{"enemy", Palette{0x0f, 0x17, 0x27, 0x30}},
	},
	"zelda": {
		{"scenery", Palette{0x0f, 0x16, 0x26, 0x30}},
		{"player", Palette{0x0f, 0x19, 0x29, 0x39}},
		{"dungeon", Palette{0x0f, 0x05, 0x15, 0x25}},
	},
	"metroid": {
		{"scenery", Palette{0x0f, 0x07, 0x17, 0x27}},
		{"player", Palette{0x0f, 0x16, 0x26, 0x37}},
		{"cavern", Palette{0x0f, 0x06, 0x16, 0x36}},
	},
	"megaman2": {
		{"scenery", Palette{0x0f, 0x12, 0x22, 0x32}},
		{"player", Palette{0x0f, 0x21, 0x31, 0x30}},
		{"boss", Palette{0x0f, 0x07, 0x17, 0x27}},
	},
	"castlevania": {
		{"scenery", Palette{0x0f, 0x06, 0x16, 0x26}},
		{"player", Palette{0x0f, 0x17, 0x27, 0x37}},
		{"enemy", Palette{0x0f, 0x07, 0x17, 0x27}},
	},
	"duckhunt": {
		{"sky", Palette{0x0f, 0x21, 0x30, 0x37}},
		{"duck", Palette{0x0f, 0x17, 0x27, 0x30}},
		{"dog", Palette{0x0f, 0x06, 0x16, 0x26}},
	},
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Preset returns the named demo palette
func Preset(name string) (Palette, bool) {
	p, ok := presets[strings.ToLower(name)]
	return p, ok
}

// Presets returns the names of the demo palettes in sorted order
func Presets() []string {
	return sortedKeys(presets)
}

// Game returns the palette sections of the named game
func Game(name string) ([]Section, bool) {
	s, ok := games[strings.ToLower(name)]
	return append([]Section(nil), s...), ok
}

// Games returns the names of the known games in sorted order
func Games() []string {
	return sortedKeys(games)
}

// GameBank returns a Subpalettes bank built from the sections of the named
// game. Unused selections repeat the first section.
func GameBank(name string) (*Bank, bool) {
	sections, ok := games[strings.ToLower(name)]
	if !ok || len(sections) == 0 {
		return nil, false
	}

	var p [Colors]Palette
	for i := range p {
		p[i] = sections[0].Palette
		if i < len(sections) {
			p[i] = sections[i].Palette
		}
	}
	return NewSubpaletteBank(p), true
}
