package chr

import (
	"image"
	"image/color"
)

const minPerRow = 8

// Sheet lays every tile in ts out as a mosaic, perRow tiles across, and
// returns it as an image using p for the four pixel values. perRow is raised
// to 8 if smaller.
func Sheet(ts *TileSet, perRow int, p color.Palette) *image.Paletted {
	if perRow < minPerRow {
		perRow = minPerRow
	}
	rows := (ts.Len() + perRow - 1) / perRow

	m := image.NewPaletted(image.Rect(0, 0, perRow*TileWidth, rows*TileHeight), p)
	for i, t := range ts.tiles {
		ox, oy := i%perRow*TileWidth, i/perRow*TileHeight
		for y := 0; y < TileHeight; y++ {
			off := m.PixOffset(ox, oy+y)
			copy(m.Pix[off:off+TileWidth], t[y][:])
		}
	}
	return m
}
