package layout

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

var (
	// ErrUnknownKind is returned for an unrecognised strategy or theme
	ErrUnknownKind = errors.New("layout: unknown strategy")
	// ErrStaticSize is returned when a strategy produces grids of the wrong
	// dimensions
	ErrStaticSize = errors.New("layout: grid does not match requested size")
)

// Strategy synthesizes background grids. Implementations must return the
// same grids for the same dimensions.
type Strategy interface {
	NameTable(width, height int) *NameTable
	AttributeTable(width, height int) *AttributeTable
}

// Kind selects a Strategy implementation
type Kind int

const (
	KindWeave Kind = iota
	KindBanded
	KindBordered
	KindRandom
	KindStatic
)

var kindNames = [...]string{"weave", "banded", "bordered", "random", "static"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind returns the Kind with the given name
func ParseKind(s string) (Kind, error) {
	for i, n := range kindNames {
		if strings.EqualFold(s, n) {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Theme selects the scene drawn by the banded strategy
type Theme int

const (
	ThemeOverworld Theme = iota
	ThemeCavern
)

var themeNames = [...]string{"overworld", "cavern"}

func (t Theme) String() string {
	if t < 0 || int(t) >= len(themeNames) {
		return "unknown"
	}
	return themeNames[t]
}

// ParseTheme returns the Theme with the given name
func ParseTheme(s string) (Theme, error) {
	for i, n := range themeNames {
		if strings.EqualFold(s, n) {
			return Theme(i), nil
		}
	}
	return 0, fmt.Errorf("%w: theme %q", ErrUnknownKind, s)
}

// Config describes which Strategy to build
type Config struct {
	Kind  Kind
	Theme Theme
	// Seed is used by KindRandom
	Seed uint64
	// Tiles is the tile count KindWeave spreads references over, 256 if
	// zero
	Tiles int
	// Names and Attributes are the caller-supplied grids for KindStatic
	Names      *NameTable
	Attributes *AttributeTable
}

// New returns the Strategy described by c
func New(c Config) (Strategy, error) {
	switch c.Kind {
	case KindWeave:
		n := c.Tiles
		if n <= 0 {
			n = 256
		}
		return Weave{Tiles: n}, nil
	case KindBanded:
		if c.Theme != ThemeOverworld && c.Theme != ThemeCavern {
			return nil, fmt.Errorf("%w: theme %d", ErrUnknownKind, c.Theme)
		}
		return Banded{Theme: c.Theme}, nil
	case KindBordered:
		return Bordered{}, nil
	case KindRandom:
		return Random{Seed: c.Seed}, nil
	case KindStatic:
		if c.Names == nil || c.Attributes == nil {
			return nil, errors.New("layout: static strategy needs both grids")
		}
		return &Static{names: c.Names.clone(), attrs: c.Attributes.clone()}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownKind, c.Kind)
}

// Build runs s for a width by height name table and checks the grids it
// returns have the right dimensions.
func Build(s Strategy, width, height int) (*NameTable, *AttributeTable, error) {
	nt := s.NameTable(width, height)
	if nt == nil || nt.Width != width || nt.Height != height {
		return nil, nil, ErrStaticSize
	}
	at := s.AttributeTable(width, height)
	aw, ah := AttributeSize(width, height)
	if at == nil || at.Width != aw || at.Height != ah {
		return nil, nil, ErrStaticSize
	}
	return nt, at, nil
}

// diagonal fills the attribute table with (x + 2y) mod 4
func diagonal(width, height int) *AttributeTable {
	at := NewAttributeTable(width, height)
	for y := 0; y < at.Height; y++ {
		for x := 0; x < at.Width; x++ {
			at.Set(x, y, uint8((x+y*2)%4))
		}
	}
	return at
}

// Weave spreads references over the whole tile set with a fixed arithmetic
// pattern
type Weave struct {
	Tiles int
}

func (w Weave) NameTable(width, height int) *NameTable {
	nt := NewNameTable(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			base := (x*11 + y*7) % w.Tiles
			nt.Set(x, y, (base+(x^y)*2)%w.Tiles)
		}
	}
	return nt
}

func (Weave) AttributeTable(width, height int) *AttributeTable {
	return diagonal(width, height)
}

// Banded draws horizontal regions, sky above ground
type Banded struct {
	Theme Theme
}

func (b Banded) NameTable(width, height int) *NameTable {
	nt := NewNameTable(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			nt.Set(x, y, b.tile(x, y, height))
		}
	}
	return nt
}

func (b Banded) tile(x, y, height int) int {
	switch b.Theme {
	case ThemeCavern:
		switch {
		case y >= height-4:
			return 96 + x%8
		case (x*y)%11 == 0:
			return 72
		}
		return 40
	default:
		switch {
		case y >= height-4: // ground
			return 80 + x%4
		case y >= height-9: // bricks
			return 64 + (x/2)%4
		case y == height/3 && x%8 == 0: // clouds
			return 100
		}
		return 0
	}
}

func (Banded) AttributeTable(width, height int) *AttributeTable {
	return diagonal(width, height)
}

// Bordered draws a walled room with scattered obstacles
type Bordered struct{}

func (Bordered) NameTable(width, height int) *NameTable {
	nt := NewNameTable(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			switch {
			case y == 0 || y == height-1 || x == 0 || x == width-1:
				nt.Set(x, y, 32)
			case (x+y)%7 == 0:
				nt.Set(x, y, 48)
			default:
				nt.Set(x, y, 16)
			}
		}
	}
	return nt
}

func (Bordered) AttributeTable(width, height int) *AttributeTable {
	return diagonal(width, height)
}

const randomTiles = 128

// Random references tiles uniformly from the first 128, seeded so the same
// seed always gives the same grids
type Random struct {
	Seed uint64
}

func (r Random) rand() *rand.Rand {
	return rand.New(rand.NewPCG(r.Seed, r.Seed^0x9e3779b97f4a7c15))
}

func (r Random) NameTable(width, height int) *NameTable {
	rng := r.rand()
	nt := NewNameTable(width, height)
	for i := range nt.cells {
		nt.cells[i] = rng.IntN(randomTiles)
	}
	return nt
}

func (r Random) AttributeTable(width, height int) *AttributeTable {
	rng := r.rand()
	at := NewAttributeTable(width, height)
	for i := range at.cells {
		at.cells[i] = uint8(rng.IntN(4))
	}
	return at
}

// Static returns caller-supplied grids
type Static struct {
	names *NameTable
	attrs *AttributeTable
}

// NameTable returns a copy of the supplied name table. The dimensions are
// those of the supplied grid, Build rejects a mismatch.
func (s *Static) NameTable(width, height int) *NameTable {
	return s.names.clone()
}

func (s *Static) AttributeTable(width, height int) *AttributeTable {
	return s.attrs.clone()
}
