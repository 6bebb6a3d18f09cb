package palette

// Mode selects how a Bank resolves a palette selection
type Mode int

const (
	// Rotate derives every selection from one base palette by rotating it
	Rotate Mode = iota
	// Subpalettes indexes four independent palettes, as the hardware does
	Subpalettes
)

func (m Mode) String() string {
	switch m {
	case Rotate:
		return "rotate"
	case Subpalettes:
		return "subpalettes"
	}
	return "unknown"
}

// Bank resolves a palette selection value 0-3 into a working palette
type Bank struct {
	mode     Mode
	palettes [Colors]Palette
}

// NewBank returns a Bank in Rotate mode where selection s yields base rotated
// by s places.
func NewBank(base Palette) *Bank {
	b := &Bank{mode: Rotate}
	for s := range b.palettes {
		b.palettes[s] = base.Rotate(s)
	}
	return b
}

// NewSubpaletteBank returns a Bank in Subpalettes mode where selection s
// yields p[s] unchanged.
func NewSubpaletteBank(p [Colors]Palette) *Bank {
	return &Bank{
		mode:     Subpalettes,
		palettes: p,
	}
}

// Mode returns the selection mode of the bank
func (b *Bank) Mode() Mode {
	return b.mode
}

// For returns the palette for selection s. Only the low two bits of s are
// used.
func (b *Bank) For(s uint8) Palette {
	return b.palettes[s&0x03]
}
