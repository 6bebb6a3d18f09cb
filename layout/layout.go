/*
Package layout implements the background grids of the PPU: the name table,
which selects a tile for every 8 by 8 cell, and the attribute table, which
selects a palette for every 2 by 2 block of cells.

There is no background layout in pattern data, so grids are synthesized by a
Strategy. Every strategy is deterministic for the same dimensions and
configuration.
*/
package layout

// NameTable is a grid of tile references, Width by Height cells
type NameTable struct {
	Width, Height int
	cells         []int
}

// NewNameTable returns a NameTable with every cell referencing tile 0
func NewNameTable(width, height int) *NameTable {
	return &NameTable{
		Width:  width,
		Height: height,
		cells:  make([]int, width*height),
	}
}

// At returns the tile reference of cell (x, y)
func (nt *NameTable) At(x, y int) int {
	return nt.cells[y*nt.Width+x]
}

// Set stores tile reference id in cell (x, y)
func (nt *NameTable) Set(x, y, id int) {
	nt.cells[y*nt.Width+x] = id
}

func (nt *NameTable) clone() *NameTable {
	dup := *nt
	dup.cells = append([]int(nil), nt.cells...)
	return &dup
}

// AttributeTable is a grid of palette selections, one per 2 by 2 block of
// name table cells
type AttributeTable struct {
	Width, Height int
	cells         []uint8
}

// AttributeSize returns the attribute table dimensions for a name table of
// width by height cells.
func AttributeSize(width, height int) (int, int) {
	return (width + 1) / 2, (height + 1) / 2
}

// NewAttributeTable returns an AttributeTable sized for a name table of
// width by height cells, with every block selecting palette 0.
func NewAttributeTable(width, height int) *AttributeTable {
	w, h := AttributeSize(width, height)
	return &AttributeTable{
		Width:  w,
		Height: h,
		cells:  make([]uint8, w*h),
	}
}

// At returns the palette selection of block (x, y)
func (at *AttributeTable) At(x, y int) uint8 {
	return at.cells[y*at.Width+x]
}

// Set stores palette selection v, masked to 0-3, in block (x, y)
func (at *AttributeTable) Set(x, y int, v uint8) {
	at.cells[y*at.Width+x] = v & 0x03
}

// ForCell returns the palette selection covering name table cell (x, y)
func (at *AttributeTable) ForCell(x, y int) uint8 {
	return at.At(x/2, y/2)
}

func (at *AttributeTable) clone() *AttributeTable {
	dup := *at
	dup.cells = append([]uint8(nil), at.cells...)
	return &dup
}
