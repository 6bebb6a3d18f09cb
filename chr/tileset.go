package chr

// Tile is an immutable 8 by 8 matrix of pixel values, indexed [y][x]. Each
// value is between 0 and 3.
type Tile [TileHeight][TileWidth]uint8

// Opaque reports whether the pixel at (x, y) is not transparent.
func (t Tile) Opaque(x, y int) bool {
	return t[y][x] > 0
}

// TileSet is an ordered, read-only sequence of tiles. It is safe for
// concurrent use once decoded.
type TileSet struct {
	tiles       []Tile
	placeholder bool
}

// NewTileSet returns a TileSet containing a copy of tiles.
func NewTileSet(tiles []Tile) *TileSet {
	return &TileSet{
		tiles: append([]Tile(nil), tiles...),
	}
}

// Len returns the number of tiles in the set
func (ts *TileSet) Len() int {
	return len(ts.tiles)
}

// Placeholder reports whether the set was generated rather than decoded
func (ts *TileSet) Placeholder() bool {
	return ts.placeholder
}

// Index returns the position in the set that id resolves to, which is id
// modulo the number of tiles with negative ids wrapping from the end.
func (ts *TileSet) Index(id int) int {
	n := len(ts.tiles)
	i := id % n
	if i < 0 {
		i += n
	}
	return i
}

// Tile returns the tile at Index(id) so any integer resolves to a tile.
// Tile panics if the set is empty; a buffer shorter than one record decodes
// to an empty set.
func (ts *TileSet) Tile(id int) Tile {
	return ts.tiles[ts.Index(id)]
}
