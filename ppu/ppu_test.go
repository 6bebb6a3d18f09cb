package ppu

import (
	"image"
	"testing"

	"github.com/bodgit/nesppu/chr"
	"github.com/bodgit/nesppu/layout"
	"github.com/bodgit/nesppu/palette"
	"github.com/bodgit/nesppu/sprite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = palette.Palette{0x0f, 0x16, 0x2a, 0x30}

func solid(v uint8) (t chr.Tile) {
	for y := range t {
		for x := range t[y] {
			t[y][x] = v
		}
	}
	return
}

// A tile whose pixel value depends on position
func gradient() (t chr.Tile) {
	for y := range t {
		for x := range t[y] {
			t[y][x] = uint8((x + y) % 4)
		}
	}
	return
}

func weave(t *testing.T, tiles *chr.TileSet, w, h int) *Compositor {
	t.Helper()
	s, err := layout.New(layout.Config{Kind: layout.KindWeave, Tiles: tiles.Len()})
	require.NoError(t, err)
	nt, at, err := layout.Build(s, w, h)
	require.NoError(t, err)
	c, err := New(tiles, nt, at, palette.NewBank(base))
	require.NoError(t, err)
	return c
}

func TestAllZeroTile(t *testing.T) {
	tiles := chr.NewTileSet([]chr.Tile{solid(0)})
	nt := layout.NewNameTable(32, 30)
	at := layout.NewAttributeTable(32, 30)

	c, err := New(tiles, nt, at, palette.NewBank(base))
	require.NoError(t, err)

	v, _ := c.Render(nil, image.Point{})
	for _, px := range v.Pix {
		assert.Equal(t, base[0], px)
	}
}

func TestBackgroundPalette(t *testing.T) {
	tiles := chr.NewTileSet([]chr.Tile{solid(1)})
	nt := layout.NewNameTable(32, 30)
	at := layout.NewAttributeTable(32, 30)
	at.Set(1, 0, 2)

	c, err := New(tiles, nt, at, palette.NewBank(base))
	require.NoError(t, err)

	canvas := c.NewCanvas()
	c.DrawBackground(canvas)

	// Cell (0, 0) uses selection 0, cells (2, 0) and (3, 1) use selection 2
	assert.Equal(t, base[1], canvas.ColorIndexAt(0, 0))
	assert.Equal(t, base.Rotate(2)[1], canvas.ColorIndexAt(16, 0))
	assert.Equal(t, base[3], canvas.ColorIndexAt(31, 15))
	assert.Equal(t, base[1], canvas.ColorIndexAt(32, 0))
}

func TestTileReferenceWraps(t *testing.T) {
	tiles := chr.NewTileSet([]chr.Tile{solid(0), solid(3)})
	nt := layout.NewNameTable(32, 30)
	nt.Set(0, 0, 5)
	nt.Set(1, 0, -2)
	at := layout.NewAttributeTable(32, 30)

	c, err := New(tiles, nt, at, palette.NewBank(base))
	require.NoError(t, err)

	canvas := c.Compose(nil)
	assert.Equal(t, base[3], canvas.ColorIndexAt(0, 0))
	assert.Equal(t, base[0], canvas.ColorIndexAt(8, 0))
}

func TestSpriteTransparency(t *testing.T) {
	tiles := chr.NewTileSet([]chr.Tile{gradient()})
	c := weave(t, tiles, 32, 30)

	bg := c.Compose(nil)
	s := sprite.Sprite{X: 37, Y: 51, Attr: sprite.NewAttributes(1, false, false, false)}
	canvas := c.Compose([]sprite.Sprite{s})

	tile := tiles.Tile(0)
	p := palette.NewBank(base).For(1)
	for y := 0; y < sprite.Height; y++ {
		for x := 0; x < sprite.Width; x++ {
			got := canvas.ColorIndexAt(s.X+x, s.Y+y)
			if v := tile[y][x]; v == 0 {
				assert.Equal(t, bg.ColorIndexAt(s.X+x, s.Y+y), got)
			} else {
				assert.Equal(t, p[v], got)
			}
		}
	}

	// Nothing outside the footprint changes
	assert.Equal(t, bg.ColorIndexAt(36, 51), canvas.ColorIndexAt(36, 51))
	assert.Equal(t, bg.ColorIndexAt(45, 59), canvas.ColorIndexAt(45, 59))
}

func TestSpriteFlip(t *testing.T) {
	var tile chr.Tile
	tile[0][0] = 1
	tiles := chr.NewTileSet([]chr.Tile{solid(0), tile})
	nt := layout.NewNameTable(32, 30)
	at := layout.NewAttributeTable(32, 30)

	c, err := New(tiles, nt, at, palette.NewBank(base))
	require.NoError(t, err)

	tests := []struct {
		flipH, flipV bool
		x, y         int
	}{
		{false, false, 0, 0},
		{true, false, 7, 0},
		{false, true, 0, 7},
		{true, true, 7, 7},
	}
	for _, tc := range tests {
		s := sprite.Sprite{Tile: 1, X: 16, Y: 16, Attr: sprite.NewAttributes(0, false, tc.flipH, tc.flipV)}
		canvas := c.Compose([]sprite.Sprite{s})
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				want := base[0]
				if x == tc.x && y == tc.y {
					want = base[1]
				}
				assert.Equal(t, want, canvas.ColorIndexAt(16+x, 16+y))
			}
		}
	}
}

func TestSpriteOrderAndClipping(t *testing.T) {
	tiles := chr.NewTileSet([]chr.Tile{solid(0), solid(1), solid(2)})
	nt := layout.NewNameTable(32, 30)
	at := layout.NewAttributeTable(32, 30)

	c, err := New(tiles, nt, at, palette.NewBank(base))
	require.NoError(t, err)

	canvas := c.Compose([]sprite.Sprite{
		{Tile: 1, X: 0, Y: 0},
		// Priority does not change drawing order
		{Tile: 2, X: 4, Y: 4, Attr: sprite.NewAttributes(0, true, false, false)},
		{Tile: 1, X: 252, Y: 236},
		{Tile: 1, X: -4, Y: -4},
	})
	assert.Equal(t, base[1], canvas.ColorIndexAt(0, 0))
	assert.Equal(t, base[2], canvas.ColorIndexAt(4, 4))
	assert.Equal(t, base[2], canvas.ColorIndexAt(7, 7))
	assert.Equal(t, base[1], canvas.ColorIndexAt(255, 239))
}

func TestViewportOrigin(t *testing.T) {
	c := weave(t, chr.Placeholder(), 64, 60)
	canvas := c.Compose(nil)

	v, p, err := Viewport(canvas, image.Point{})
	require.NoError(t, err)
	assert.Equal(t, image.Point{}, p)
	assert.Equal(t, image.Rect(0, 0, ViewportWidth, ViewportHeight), v.Bounds())
	for y := 0; y < ViewportHeight; y++ {
		for x := 0; x < ViewportWidth; x++ {
			require.Equal(t, canvas.ColorIndexAt(x, y), v.ColorIndexAt(x, y))
		}
	}
}

func TestViewportShift(t *testing.T) {
	c := weave(t, chr.Placeholder(), 64, 60)
	canvas := c.Compose(nil)

	for _, off := range []image.Point{{1, 1}, {13, 200}, {256, 240}, {100, 0}} {
		v, p, err := Viewport(canvas, off)
		require.NoError(t, err)
		assert.Equal(t, off, p)
		for y := 0; y < ViewportHeight; y += 7 {
			for x := 0; x < ViewportWidth; x += 5 {
				require.Equal(t, canvas.ColorIndexAt(x+off.X, y+off.Y), v.ColorIndexAt(x, y))
			}
		}
	}
}

func TestClamp(t *testing.T) {
	size := image.Pt(512, 480)
	tests := []struct {
		in, out image.Point
	}{
		{image.Pt(0, 0), image.Pt(0, 0)},
		{image.Pt(-10, -1), image.Pt(0, 0)},
		{image.Pt(300, 500), image.Pt(256, 240)},
		{image.Pt(100, 239), image.Pt(100, 239)},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.out, Clamp(tc.in, size))
	}

	c := weave(t, chr.Placeholder(), 64, 60)
	assert.Equal(t, image.Pt(256, 240), c.MaxScroll())
	_, p := c.Render(nil, image.Pt(1000, -5))
	assert.Equal(t, image.Pt(256, 0), p)
}

func TestMinimumCanvas(t *testing.T) {
	c := weave(t, chr.Placeholder(), 32, 30)
	assert.Equal(t, image.Pt(256, 240), c.Size())

	canvas := c.Compose(nil)
	v, p, err := Viewport(canvas, image.Point{})
	require.NoError(t, err)
	assert.Equal(t, image.Point{}, p)
	assert.Equal(t, canvas.Pix, v.Pix)

	v2, p, err := Viewport(canvas, image.Pt(3, 9))
	require.NoError(t, err)
	assert.Equal(t, image.Point{}, p)
	assert.Equal(t, v.Pix, v2.Pix)

	for _, pt := range []image.Point{{}, {-1, -1}, {1 << 20, 1 << 20}} {
		assert.NotPanics(t, func() {
			m, p := c.Render(nil, pt)
			assert.Equal(t, image.Point{}, p)
			assert.Equal(t, canvas.Pix, m.Pix)
		})
	}
}

func TestCanvasTooSmall(t *testing.T) {
	tiles := chr.Placeholder()
	for _, size := range []image.Point{{31, 30}, {32, 29}, {1, 1}} {
		nt := layout.NewNameTable(size.X, size.Y)
		at := layout.NewAttributeTable(size.X, size.Y)
		_, err := New(tiles, nt, at, palette.NewBank(base))
		assert.ErrorIs(t, err, ErrCanvasTooSmall)
	}

	small := image.NewPaletted(image.Rect(0, 0, 255, 240), palette.Master)
	_, _, err := Viewport(small, image.Point{})
	assert.ErrorIs(t, err, ErrCanvasTooSmall)
}

func TestNewErrors(t *testing.T) {
	nt := layout.NewNameTable(32, 30)
	_, err := New(chr.Placeholder(), nt, layout.NewAttributeTable(30, 30), palette.NewBank(base))
	assert.ErrorIs(t, err, ErrAttributeSize)

	_, err = New(chr.NewTileSet(nil), nt, layout.NewAttributeTable(32, 30), palette.NewBank(base))
	assert.Error(t, err)
}

func TestRenderIdempotent(t *testing.T) {
	c := weave(t, chr.Placeholder(), 40, 32)
	sprites := sprite.Scatter(9, 12, 512, 320, 256).Sprites()

	a, pa := c.Render(sprites, image.Pt(30, 8))
	b, pb := c.Render(sprites, image.Pt(30, 8))
	assert.Equal(t, pa, pb)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestPixelsInMasterRange(t *testing.T) {
	c := weave(t, chr.Placeholder(), 32, 30)
	v, _ := c.Render(sprite.Scatter(1, 8, 512, 256, 240).Sprites(), image.Point{})
	for _, px := range v.Pix {
		require.Less(t, int(px), palette.Size)
	}
}
