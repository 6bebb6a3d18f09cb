package sprite

import (
	"math/rand/v2"
)

// List is an ordered set of sprites together with the seeded generator that
// moves them. It is not safe for concurrent use; only the frame advance may
// mutate it.
type List struct {
	sprites []Sprite
	rng     *rand.Rand
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xda942042e4dd58b5))
}

// NewList returns a List holding a copy of sprites, moved by a generator
// seeded with seed.
func NewList(seed uint64, sprites ...Sprite) *List {
	return &List{
		sprites: append([]Sprite(nil), sprites...),
		rng:     newRand(seed),
	}
}

// Scatter returns a List of n sprites placed within a width by height
// canvas. Tiles are chosen from the first tiles entries of the tile set and
// each sprite gets a random palette selection.
func Scatter(seed uint64, n, tiles, width, height int) *List {
	l := NewList(seed)
	if tiles <= 0 {
		tiles = 1
	}
	for i := 0; i < n; i++ {
		l.sprites = append(l.sprites, Sprite{
			Tile: l.rng.IntN(tiles),
			X:    l.rng.IntN(span(width, Width)),
			Y:    l.rng.IntN(span(height, Height)),
			Attr: NewAttributes(uint8(l.rng.IntN(4)), false, false, false),
		})
	}
	return l
}

// Number of valid top-left positions on an axis, at least 1
func span(dim, size int) int {
	if n := dim - size; n > 0 {
		return n
	}
	return 1
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Len returns the number of sprites
func (l *List) Len() int {
	return len(l.sprites)
}

// Sprites returns a copy of the sprites in drawing order
func (l *List) Sprites() []Sprite {
	return append([]Sprite(nil), l.sprites...)
}

// Advance moves every sprite by -1, 0 or +1 pixels on each axis and wraps
// its position so the whole footprint stays within a width by height
// canvas.
func (l *List) Advance(width, height int) {
	w, h := span(width, Width), span(height, Height)
	for i := range l.sprites {
		s := &l.sprites[i]
		s.X = wrap(s.X+l.rng.IntN(3)-1, w)
		s.Y = wrap(s.Y+l.rng.IntN(3)-1, h)
	}
}
