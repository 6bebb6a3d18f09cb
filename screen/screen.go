// Package screen post-processes rendered frames for display.
package screen

import (
	"image"
	"image/color"

	"github.com/disintegration/gift"
	"golang.org/x/image/draw"
)

// Scale returns m enlarged by factor using nearest-neighbour sampling so
// pixel edges stay sharp. A factor below 2 returns m unchanged.
func Scale(m image.Image, factor int) image.Image {
	if factor < 2 {
		return m
	}

	b := m.Bounds()
	r := image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor)

	var dst draw.Image
	if p, ok := m.(*image.Paletted); ok {
		dst = image.NewPaletted(r, p.Palette)
	} else {
		dst = image.NewRGBA(r)
	}
	draw.NearestNeighbor.Scale(dst, r, m, b, draw.Src, nil)

	return dst
}

// CRT approximates the look of a television
type CRT struct {
	// Intensity darkens every other row, 0 leaves them alone and 1 blacks
	// them out
	Intensity float64
	// Saturation is the percentage change in colour saturation
	Saturation float32
	// Blur is the gaussian blur sigma, 0 disables it
	Blur float32
}

// DefaultCRT returns the default effect settings
func DefaultCRT() CRT {
	return CRT{
		Intensity:  0.25,
		Saturation: 20,
		Blur:       0.6,
	}
}

func scanlines(m *image.RGBA, intensity float64) {
	if intensity <= 0 {
		return
	}
	if intensity > 1 {
		intensity = 1
	}
	k := 1 - intensity
	b := m.Bounds()
	for y := b.Min.Y + 1; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := m.PixOffset(x, y)
			for j := 0; j < 3; j++ {
				m.Pix[i+j] = uint8(float64(m.Pix[i+j]) * k)
			}
		}
	}
}

// Apply returns a copy of m with the effect applied
func (c CRT) Apply(m image.Image) *image.RGBA {
	src := image.NewRGBA(image.Rect(0, 0, m.Bounds().Dx(), m.Bounds().Dy()))
	draw.Draw(src, src.Bounds(), m, m.Bounds().Min, draw.Src)
	scanlines(src, c.Intensity)

	var filters []gift.Filter
	if c.Saturation != 0 {
		filters = append(filters, gift.Saturation(c.Saturation))
	}
	if c.Blur > 0 {
		filters = append(filters, gift.GaussianBlur(c.Blur))
	}
	if len(filters) == 0 {
		return src
	}

	g := gift.New(filters...)
	dst := image.NewRGBA(g.Bounds(src.Bounds()))
	g.Draw(dst, src)

	return dst
}

// Luma returns the perceived brightness of c in the range 0-255
func Luma(c color.Color) uint8 {
	r, g, b, _ := c.RGBA()
	return uint8((299*r + 587*g + 114*b) / 1000 >> 8)
}
