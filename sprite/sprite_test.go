package sprite

import (
	"testing"

	"github.com/bodgit/nesppu/chr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributes(t *testing.T) {
	a := Attributes(0xe3)
	assert.Equal(t, uint8(3), a.Palette())
	assert.True(t, a.Behind())
	assert.True(t, a.FlipH())
	assert.True(t, a.FlipV())

	assert.Equal(t, Attributes(0x41), NewAttributes(1, false, true, false))
	assert.Equal(t, Attributes(0xa2), NewAttributes(6, true, false, true))
}

func TestParseOAM(t *testing.T) {
	sprites, err := ParseOAM([]byte{
		0x10, 0x05, 0x42, 0x20,
		0xef, 0xff, 0xff, 0x00,
	})
	require.NoError(t, err)
	require.Len(t, sprites, 2)

	assert.Equal(t, Sprite{Tile: 5, X: 0x20, Y: 0x10, Attr: NewAttributes(2, false, true, false)}, sprites[0])
	// Unimplemented bits read back as zero
	assert.Equal(t, Attributes(0xe3), sprites[1].Attr)

	_, err = ParseOAM([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestPixelFlip(t *testing.T) {
	var tile chr.Tile
	tile[0][0] = 1
	tile[0][7] = 2
	tile[7][0] = 3

	s := Sprite{}
	assert.Equal(t, uint8(1), s.Pixel(tile, 0, 0))

	s.Attr = NewAttributes(0, false, true, false)
	assert.Equal(t, uint8(2), s.Pixel(tile, 0, 0))
	assert.Equal(t, uint8(1), s.Pixel(tile, 7, 0))

	s.Attr = NewAttributes(0, false, false, true)
	assert.Equal(t, uint8(3), s.Pixel(tile, 0, 0))

	s.Attr = NewAttributes(0, false, true, true)
	assert.Equal(t, uint8(1), s.Pixel(tile, 7, 7))
}

func TestScatter(t *testing.T) {
	a := Scatter(7, 16, 512, 256, 240)
	b := Scatter(7, 16, 512, 256, 240)
	require.Equal(t, 16, a.Len())
	assert.Equal(t, a.Sprites(), b.Sprites())

	for _, s := range a.Sprites() {
		assert.GreaterOrEqual(t, s.X, 0)
		assert.Less(t, s.X, 248)
		assert.GreaterOrEqual(t, s.Y, 0)
		assert.Less(t, s.Y, 232)
		assert.Less(t, s.Tile, 512)
		assert.Less(t, s.Attr.Palette(), uint8(4))
	}
}

func TestAdvance(t *testing.T) {
	a := Scatter(3, 8, 256, 256, 240)
	b := Scatter(3, 8, 256, 256, 240)

	for i := 0; i < 100; i++ {
		before := a.Sprites()
		a.Advance(256, 240)
		b.Advance(256, 240)
		assert.Equal(t, a.Sprites(), b.Sprites())

		for j, s := range a.Sprites() {
			assert.GreaterOrEqual(t, s.X, 0)
			assert.Less(t, s.X, 248)
			assert.GreaterOrEqual(t, s.Y, 0)
			assert.Less(t, s.Y, 232)

			dx := wrap(s.X-before[j].X+1, 248)
			dy := wrap(s.Y-before[j].Y+1, 232)
			assert.LessOrEqual(t, dx, 2)
			assert.LessOrEqual(t, dy, 2)
			assert.Equal(t, before[j].Tile, s.Tile)
		}
	}
}

func TestAdvanceWraps(t *testing.T) {
	l := NewList(1, Sprite{X: 0, Y: 0}, Sprite{X: 247, Y: 231})
	for i := 0; i < 50; i++ {
		l.Advance(256, 240)
		for _, s := range l.Sprites() {
			assert.True(t, s.X >= 0 && s.X < 248)
			assert.True(t, s.Y >= 0 && s.Y < 232)
		}
	}
}

func TestSpritesCopy(t *testing.T) {
	l := NewList(1, Sprite{X: 4})
	s := l.Sprites()
	s[0].X = 100
	assert.Equal(t, 4, l.Sprites()[0].X)
}
