package chr

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"io"
	"sort"

	"github.com/ericpauley/go-quantize/quantize"
)

// ErrImageSize is returned when an image cannot be split into whole tiles
var ErrImageSize = errors.New("chr: image dimensions must be a multiple of 8")

// EncodeTile returns the 16 byte record for t. It is the inverse of decoding,
// pixel values are masked to 2 bits.
func EncodeTile(t Tile) (b [TileBytes]byte) {
	for y := 0; y < TileHeight; y++ {
		var lo, hi byte
		for x := 0; x < TileWidth; x++ {
			p := t[y][x] & 0x03
			lo = lo<<1 | p&1
			hi = hi<<1 | p>>1
		}
		b[y], b[planeBytes+y] = lo, hi
	}
	return
}

func luminance(c color.Color) uint32 {
	r, g, b, _ := c.RGBA()
	return 299*r + 587*g + 114*b
}

type encoder struct {
	w io.Writer
}

func (e *encoder) encode(m *image.Paletted) error {
	b := m.Bounds()
	for ty := 0; ty < b.Dy()/TileHeight; ty++ {
		for tx := 0; tx < b.Dx()/TileWidth; tx++ {
			var t Tile
			for y := 0; y < TileHeight; y++ {
				for x := 0; x < TileWidth; x++ {
					t[y][x] = m.ColorIndexAt(tx*TileWidth+x, ty*TileHeight+y)
				}
			}
			rec := EncodeTile(t)
			if _, err := e.w.Write(rec[:]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Encode writes the Image m to w as CHR tile records, left to right and top
// to bottom. A paletted image with no more than four colors keeps its color
// indices, anything else is quantized to four colors ordered from darkest to
// lightest.
func Encode(w io.Writer, m image.Image) error {
	b := m.Bounds()
	if b.Dx()%TileWidth != 0 || b.Dy()%TileHeight != 0 {
		return ErrImageSize
	}

	pm, _ := m.(*image.Paletted)
	if pm == nil || len(pm.Palette) > colors {
		q := quantize.MedianCutQuantizer{}
		p := q.Quantize(make(color.Palette, 0, colors), m)
		sort.SliceStable(p, func(i, j int) bool {
			return luminance(p[i]) < luminance(p[j])
		})
		pm = image.NewPaletted(b, p)
		draw.Draw(pm, b, m, b.Min, draw.Src)
	}

	// Adjust image so that top-left corner is at (0, 0)
	if pm.Rect.Min != (image.Point{}) {
		dup := *pm
		dup.Rect = dup.Rect.Sub(dup.Rect.Min)
		pm = &dup
	}

	e := encoder{w: w}

	return e.encode(pm)
}
