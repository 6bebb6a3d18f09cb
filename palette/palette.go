/*
Package palette implements the NES master color table and the four color
working palettes selected from it.

The master table has 64 entries. A working palette is four indices into it;
pixel value 0 selects the first entry, value 3 the last.
*/
package palette

import (
	"errors"
	"fmt"
	"image/color"
)

const (
	// Size is the number of entries in the master table
	Size = 64
	// Colors is the number of entries in a working palette
	Colors = 4
)

var (
	// ErrIndex is returned for a master table index outside 0-63
	ErrIndex = errors.New("palette: index out of range")
	// ErrLength is returned when a palette does not have four entries
	ErrLength = errors.New("palette: wrong number of entries")
)

// Master is the 64 entry NTSC master color table. It must not be modified.
var Master = color.Palette{
	color.RGBA{124, 124, 124, 0xff}, color.RGBA{0, 0, 252, 0xff}, color.RGBA{0, 0, 188, 0xff}, color.RGBA{68, 40, 188, 0xff},
	color.RGBA{148, 0, 132, 0xff}, color.RGBA{168, 0, 32, 0xff}, color.RGBA{168, 16, 0, 0xff}, color.RGBA{136, 20, 0, 0xff},
	color.RGBA{80, 48, 0, 0xff}, color.RGBA{0, 120, 0, 0xff}, color.RGBA{0, 104, 0, 0xff}, color.RGBA{0, 88, 0, 0xff},
	color.RGBA{0, 64, 88, 0xff}, color.RGBA{0, 0, 0, 0xff}, color.RGBA{0, 0, 0, 0xff}, color.RGBA{0, 0, 0, 0xff},

	color.RGBA{188, 188, 188, 0xff}, color.RGBA{0, 120, 248, 0xff}, color.RGBA{0, 88, 248, 0xff}, color.RGBA{104, 68, 252, 0xff},
	color.RGBA{216, 0, 204, 0xff}, color.RGBA{228, 0, 88, 0xff}, color.RGBA{248, 56, 0, 0xff}, color.RGBA{228, 92, 16, 0xff},
	color.RGBA{172, 124, 0, 0xff}, color.RGBA{0, 184, 0, 0xff}, color.RGBA{0, 168, 0, 0xff}, color.RGBA{0, 168, 68, 0xff},
	color.RGBA{0, 136, 136, 0xff}, color.RGBA{0, 0, 0, 0xff}, color.RGBA{0, 0, 0, 0xff}, color.RGBA{0, 0, 0, 0xff},

	color.RGBA{248, 248, 248, 0xff}, color.RGBA{60, 188, 252, 0xff}, color.RGBA{104, 136, 252, 0xff}, color.RGBA{152, 120, 248, 0xff},
	color.RGBA{248, 120, 248, 0xff}, color.RGBA{248, 88, 152, 0xff}, color.RGBA{248, 120, 88, 0xff}, color.RGBA{252, 160, 68, 0xff},
	color.RGBA{248, 184, 0, 0xff}, color.RGBA{184, 248, 24, 0xff}, color.RGBA{88, 216, 84, 0xff}, color.RGBA{88, 248, 152, 0xff},
	color.RGBA{0, 232, 216, 0xff}, color.RGBA{120, 120, 120, 0xff}, color.RGBA{0, 0, 0, 0xff}, color.RGBA{0, 0, 0, 0xff},

	color.RGBA{252, 252, 252, 0xff}, color.RGBA{164, 228, 252, 0xff}, color.RGBA{184, 184, 248, 0xff}, color.RGBA{216, 184, 248, 0xff},
	color.RGBA{248, 184, 248, 0xff}, color.RGBA{248, 164, 192, 0xff}, color.RGBA{240, 208, 176, 0xff}, color.RGBA{252, 224, 168, 0xff},
	color.RGBA{248, 216, 120, 0xff}, color.RGBA{216, 248, 120, 0xff}, color.RGBA{184, 248, 184, 0xff}, color.RGBA{184, 248, 216, 0xff},
	color.RGBA{0, 252, 252, 0xff}, color.RGBA{248, 216, 248, 0xff}, color.RGBA{0, 0, 0, 0xff}, color.RGBA{0, 0, 0, 0xff},
}

// Palette is a working palette of four master table indices
type Palette [Colors]uint8

// New returns the palette made from the four master table indices.
func New(indices ...int) (Palette, error) {
	var p Palette
	if len(indices) != Colors {
		return p, ErrLength
	}
	for i, v := range indices {
		if v < 0 || v >= Size {
			return p, fmt.Errorf("%w: %#02x", ErrIndex, v)
		}
		p[i] = uint8(v)
	}
	return p, nil
}

// Validate checks every entry of p is a master table index
func (p Palette) Validate() error {
	for _, v := range p {
		if int(v) >= Size {
			return fmt.Errorf("%w: %#02x", ErrIndex, v)
		}
	}
	return nil
}

// Rotate returns p cyclically shifted right by n places so that entry i of
// the result is entry i-n of p.
func (p Palette) Rotate(n int) (r Palette) {
	for i := range p {
		r[i] = p[((i-n)%Colors+Colors)%Colors]
	}
	return
}

// Color returns the RGB color used for pixel value v
func (p Palette) Color(v uint8) color.RGBA {
	return Master[p[v&0x03]].(color.RGBA)
}

// Colors returns p as a four entry color.Palette
func (p Palette) Colors() color.Palette {
	c := make(color.Palette, Colors)
	for i := range p {
		c[i] = p.Color(uint8(i))
	}
	return c
}

func (p Palette) String() string {
	return fmt.Sprintf("%02X %02X %02X %02X", p[0], p[1], p[2], p[3])
}
