/*
Package chr implements a decoder and encoder for NES CHR pattern data.

Pattern data is a sequence of 16 byte tile records. Each record describes an 8
by 8 tile with two bitplanes; the first 8 bytes hold the low bit of each pixel,
one byte per row, and the next 8 bytes hold the high bit. Bit 7 of each byte is
the leftmost pixel so every pixel is a value between 0 and 3.

Cartridges that ship CHR-RAM instead of CHR-ROM have no pattern data at all, in
which case the decoder substitutes a fixed set of placeholder tiles.
*/
package chr

const (
	// TileWidth is the width of a tile in pixels
	TileWidth = 8
	// TileHeight is the height of a tile in pixels
	TileHeight = TileWidth
	// TileBytes is the size of a single tile record
	TileBytes = TileHeight * 2

	planeBytes = TileHeight

	// PlaceholderTiles is the number of tiles generated when there is no
	// pattern data, matching 8 KiB of CHR-RAM
	PlaceholderTiles = 512
	placeholderBytes = PlaceholderTiles * TileBytes

	colors = 4
)
