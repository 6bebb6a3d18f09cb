/*
Package sprite implements movable foreground objects drawn over the
background.

Attributes follow the OAM byte layout:

	76543210
	||||||||
	||||||++- Palette selection
	|||+++--- Unimplemented (read 0)
	||+------ Priority (0: in front of background; 1: behind background)
	|+------- Flip sprite horizontally
	+-------- Flip sprite vertically

Priority is decoded but does not change drawing; sprites are drawn in list
order over the background.
*/
package sprite

import (
	"errors"

	"github.com/bodgit/nesppu/chr"
)

const (
	// Width and Height are the size of a sprite in pixels
	Width  = chr.TileWidth
	Height = chr.TileHeight

	// OAMBytes is the size of a sprite record in object attribute memory
	OAMBytes = 4
)

const (
	attrPalette  = 0x03
	attrPriority = 0x20
	attrFlipH    = 0x40
	attrFlipV    = 0x80
)

var errOAMLength = errors.New("sprite: OAM data is not a multiple of 4 bytes")

// Attributes is a sprite attribute byte
type Attributes uint8

// NewAttributes returns the attribute byte for the given fields
func NewAttributes(palette uint8, behind, flipH, flipV bool) Attributes {
	a := Attributes(palette & attrPalette)
	if behind {
		a |= attrPriority
	}
	if flipH {
		a |= attrFlipH
	}
	if flipV {
		a |= attrFlipV
	}
	return a
}

// Palette returns the palette selection 0-3
func (a Attributes) Palette() uint8 { return uint8(a & attrPalette) }

// Behind reports whether the priority bit asks for the sprite to be drawn
// behind the background
func (a Attributes) Behind() bool { return a&attrPriority != 0 }

// FlipH reports whether the sprite is mirrored left to right
func (a Attributes) FlipH() bool { return a&attrFlipH != 0 }

// FlipV reports whether the sprite is mirrored top to bottom
func (a Attributes) FlipV() bool { return a&attrFlipV != 0 }

// Sprite is a tile drawn at a canvas position
type Sprite struct {
	Tile int
	X, Y int
	Attr Attributes
}

// Pixel returns the pixel value of the sprite at (x, y) within its 8 by 8
// footprint, given t as its tile. Flips are applied to the row and column
// before the tile is read.
func (s Sprite) Pixel(t chr.Tile, x, y int) uint8 {
	if s.Attr.FlipH() {
		x = Width - 1 - x
	}
	if s.Attr.FlipV() {
		y = Height - 1 - y
	}
	return t[y][x]
}

// ParseOAM decodes consecutive 4 byte OAM records of Y, tile, attributes and
// X.
func ParseOAM(b []byte) ([]Sprite, error) {
	if len(b)%OAMBytes != 0 {
		return nil, errOAMLength
	}
	sprites := make([]Sprite, 0, len(b)/OAMBytes)
	for i := 0; i < len(b); i += OAMBytes {
		sprites = append(sprites, Sprite{
			Y:    int(b[i]),
			Tile: int(b[i+1]),
			Attr: Attributes(b[i+2] & (attrPalette | attrPriority | attrFlipH | attrFlipV)),
			X:    int(b[i+3]),
		})
	}
	return sprites, nil
}
