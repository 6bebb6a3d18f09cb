/*
Package ppu composites a background and sprites into a canvas and extracts
the visible viewport from it.

A frame is built in two passes. The background pass resolves every name
table cell to a tile and its attribute block to a palette, then writes the
tile into the canvas. The sprite pass draws each sprite in list order,
leaving the background untouched wherever the sprite pixel value is 0.

Canvas pixels are indices into palette.Master so a canvas can be encoded
directly as a paletted PNG.
*/
package ppu

import (
	"errors"
	"fmt"
	"image"

	"github.com/bodgit/nesppu/chr"
	"github.com/bodgit/nesppu/layout"
	"github.com/bodgit/nesppu/palette"
	"github.com/bodgit/nesppu/sprite"
)

const (
	// ViewportWidth and ViewportHeight are the size of the visible screen
	ViewportWidth  = 256
	ViewportHeight = 240
)

var (
	// ErrCanvasTooSmall is returned when the canvas cannot contain a viewport
	ErrCanvasTooSmall = errors.New("ppu: canvas smaller than viewport")
	// ErrAttributeSize is returned when the attribute table does not cover
	// the name table
	ErrAttributeSize = errors.New("ppu: attribute table does not match name table")

	errNoTiles = errors.New("ppu: empty tile set")
)

// Compositor renders frames from a fixed background description. It holds
// no per-frame state and is safe for concurrent use.
type Compositor struct {
	tiles  *chr.TileSet
	names  *layout.NameTable
	attrs  *layout.AttributeTable
	bank   *palette.Bank
	width  int
	height int
}

// New returns a Compositor for the given background. It fails with
// ErrCanvasTooSmall if the name table describes a canvas smaller than the
// viewport on either axis.
func New(tiles *chr.TileSet, names *layout.NameTable, attrs *layout.AttributeTable, bank *palette.Bank) (*Compositor, error) {
	if tiles == nil || tiles.Len() == 0 {
		return nil, errNoTiles
	}

	aw, ah := layout.AttributeSize(names.Width, names.Height)
	if attrs.Width != aw || attrs.Height != ah {
		return nil, fmt.Errorf("%w: got %dx%d, want %dx%d", ErrAttributeSize, attrs.Width, attrs.Height, aw, ah)
	}

	c := &Compositor{
		tiles:  tiles,
		names:  names,
		attrs:  attrs,
		bank:   bank,
		width:  names.Width * chr.TileWidth,
		height: names.Height * chr.TileHeight,
	}

	if c.width < ViewportWidth || c.height < ViewportHeight {
		return nil, fmt.Errorf("%w: %dx%d", ErrCanvasTooSmall, c.width, c.height)
	}

	return c, nil
}

// Size returns the canvas dimensions in pixels
func (c *Compositor) Size() image.Point {
	return image.Pt(c.width, c.height)
}

// MaxScroll returns the largest valid scroll offset on each axis
func (c *Compositor) MaxScroll() image.Point {
	return image.Pt(c.width-ViewportWidth, c.height-ViewportHeight)
}

// Tiles returns the tile set used for the background and sprites
func (c *Compositor) Tiles() *chr.TileSet {
	return c.tiles
}

// NewCanvas returns a blank canvas of the right size
func (c *Compositor) NewCanvas() *image.Paletted {
	return image.NewPaletted(image.Rect(0, 0, c.width, c.height), palette.Master)
}

// DrawBackground writes every name table cell into canvas
func (c *Compositor) DrawBackground(canvas *image.Paletted) {
	for cy := 0; cy < c.names.Height; cy++ {
		for cx := 0; cx < c.names.Width; cx++ {
			t := c.tiles.Tile(c.names.At(cx, cy))
			p := c.bank.For(c.attrs.ForCell(cx, cy))
			for y := 0; y < chr.TileHeight; y++ {
				o := canvas.PixOffset(cx*chr.TileWidth, cy*chr.TileHeight+y)
				for x := 0; x < chr.TileWidth; x++ {
					canvas.Pix[o+x] = p[t[y][x]]
				}
			}
		}
	}
}

// DrawSprites draws sprites over canvas in order. Pixels with value 0 and
// pixels falling outside the canvas are skipped.
func (c *Compositor) DrawSprites(canvas *image.Paletted, sprites []sprite.Sprite) {
	b := canvas.Bounds()
	for _, s := range sprites {
		t := c.tiles.Tile(s.Tile)
		p := c.bank.For(s.Attr.Palette())
		for y := 0; y < sprite.Height; y++ {
			py := s.Y + y
			if py < b.Min.Y || py >= b.Max.Y {
				continue
			}
			for x := 0; x < sprite.Width; x++ {
				px := s.X + x
				if px < b.Min.X || px >= b.Max.X {
					continue
				}
				v := s.Pixel(t, x, y)
				if v == 0 {
					continue
				}
				canvas.Pix[canvas.PixOffset(px, py)] = p[v]
			}
		}
	}
}

// Compose returns a new canvas with the background and sprites drawn
func (c *Compositor) Compose(sprites []sprite.Sprite) *image.Paletted {
	canvas := c.NewCanvas()
	c.DrawBackground(canvas)
	c.DrawSprites(canvas, sprites)
	return canvas
}

// Clamp limits p to the valid scroll range for this canvas
func (c *Compositor) Clamp(p image.Point) image.Point {
	return Clamp(p, c.Size())
}

// Clamp limits p to [0, size - viewport] on each axis
func Clamp(p, size image.Point) image.Point {
	return image.Pt(clamp(p.X, size.X-ViewportWidth), clamp(p.Y, size.Y-ViewportHeight))
}

func clamp(v, hi int) int {
	switch {
	case v < 0 || hi < 0:
		return 0
	case v > hi:
		return hi
	}
	return v
}

// Viewport copies the visible window of canvas at scroll offset p. The
// offset is clamped first and the offset actually used is returned. The
// canvas must be at least as large as the viewport.
func Viewport(canvas *image.Paletted, p image.Point) (*image.Paletted, image.Point, error) {
	b := canvas.Bounds()
	if b.Dx() < ViewportWidth || b.Dy() < ViewportHeight {
		return nil, image.Point{}, fmt.Errorf("%w: %dx%d", ErrCanvasTooSmall, b.Dx(), b.Dy())
	}

	p = Clamp(p, b.Size())

	v := image.NewPaletted(image.Rect(0, 0, ViewportWidth, ViewportHeight), canvas.Palette)
	for y := 0; y < ViewportHeight; y++ {
		o := canvas.PixOffset(b.Min.X+p.X, b.Min.Y+p.Y+y)
		copy(v.Pix[y*v.Stride:y*v.Stride+ViewportWidth], canvas.Pix[o:o+ViewportWidth])
	}

	return v, p, nil
}

// Render composes a full frame and returns the viewport at scroll offset p
// together with the clamped offset.
func (c *Compositor) Render(sprites []sprite.Sprite, p image.Point) (*image.Paletted, image.Point) {
	v, p, err := Viewport(c.Compose(sprites), p)
	if err != nil {
		// New rejects canvases smaller than the viewport
		panic(err)
	}
	return v, p
}
