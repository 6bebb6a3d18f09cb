/*
Package ines reads cartridge images in the iNES container format.

The 16 byte header starts with "NES\x1a" followed by the PRG ROM size in 16
KiB units and the CHR ROM size in 8 KiB units. Flags 6 and 7 carry the
mapper number, mirroring and whether a 512 byte trainer precedes the PRG
ROM.
*/
package ines

import (
	"bytes"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

const (
	headerSize  = 16
	trainerSize = 512

	// PRGUnit and CHRUnit are the sizes the header counts are measured in
	PRGUnit = 16 << 10
	CHRUnit = 8 << 10
)

var (
	signature = []byte{'N', 'E', 'S', 0x1a}

	// ErrTooSmall is returned for data shorter than the header
	ErrTooSmall = errors.New("ines: file is too small to be a valid ROM")
	// ErrSignature is returned when the header signature is missing
	ErrSignature = errors.New("ines: missing iNES signature")
)

// Mirroring is the name table arrangement wired by the cartridge
type Mirroring int

const (
	Horizontal Mirroring = iota
	Vertical
	FourScreen
)

func (m Mirroring) String() string {
	switch m {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case FourScreen:
		return "four-screen"
	}
	return "unknown"
}

// Cartridge is a parsed ROM image. PRG and CHR hold the bytes actually
// present in the file, which may be fewer than the header declares.
type Cartridge struct {
	PRG        []byte
	CHR        []byte
	PRGSize    int
	CHRSize    int
	Mapper     int
	Mirroring  Mirroring
	Trainer    bool
	BatteryRAM bool
	// CRC is the CRC-32 of everything after the header, as used by ROM
	// databases to identify a dump
	CRC string
}

// CHRRAM reports whether the cartridge has no CHR ROM and builds its tiles
// at run time.
func (c *Cartridge) CHRRAM() bool {
	return c.CHRSize == 0
}

// Truncated reports whether the file holds fewer bytes than the header
// declares.
func (c *Cartridge) Truncated() bool {
	return len(c.PRG) < c.PRGSize || len(c.CHR) < c.CHRSize
}

func region(b []byte, offset, size int) []byte {
	if offset >= len(b) {
		return []byte{}
	}
	end := offset + size
	if end > len(b) {
		end = len(b)
	}
	return append([]byte(nil), b[offset:end]...)
}

// Parse parses the ROM image in b
func Parse(b []byte) (*Cartridge, error) {
	if len(b) < headerSize {
		return nil, ErrTooSmall
	}

	if !bytes.Equal(b[:len(signature)], signature) {
		return nil, ErrSignature
	}

	c := &Cartridge{
		PRGSize:    int(b[4]) * PRGUnit,
		CHRSize:    int(b[5]) * CHRUnit,
		Mapper:     int(b[6]>>4 | b[7]&0xf0),
		Trainer:    b[6]&0x04 != 0,
		BatteryRAM: b[6]&0x02 != 0,
	}

	switch {
	case b[6]&0x08 != 0:
		c.Mirroring = FourScreen
	case b[6]&0x01 != 0:
		c.Mirroring = Vertical
	default:
		c.Mirroring = Horizontal
	}

	offset := headerSize
	if c.Trainer {
		offset += trainerSize
	}

	c.PRG = region(b, offset, c.PRGSize)
	c.CHR = region(b, offset+c.PRGSize, c.CHRSize)

	c.CRC = fmt.Sprintf("%.*X", crc32.Size<<1, crc32.ChecksumIEEE(b[headerSize:]))

	return c, nil
}

// Read parses a ROM image from r
func Read(r io.Reader) (*Cartridge, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Open parses the ROM image in file
func Open(file string) (*Cartridge, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f)
}
