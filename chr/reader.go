package chr

import (
	"bytes"
	"io"
)

func readFull(r io.Reader, b []byte) (int, error) {
	n, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return n, err
}

// Combine bit (7 - x) of both planes into a pixel value
func pixel(lo, hi byte, x int) uint8 {
	bit := 7 - uint(x)
	return (lo>>bit)&1 | (hi>>bit)&1<<1
}

func decodeTile(b []byte) (t Tile) {
	for y := 0; y < TileHeight; y++ {
		lo, hi := b[y], b[planeBytes+y]
		for x := 0; x < TileWidth; x++ {
			t[y][x] = pixel(lo, hi, x)
		}
	}
	return
}

type decoder struct {
	r io.Reader

	tiles    []Tile
	trailing int

	tmp [TileBytes]byte
}

func (d *decoder) decode(r io.Reader) error {
	d.r = r

	for {
		n, err := readFull(d.r, d.tmp[:])
		switch err {
		case nil:
			d.tiles = append(d.tiles, decodeTile(d.tmp[:]))
		case io.ErrUnexpectedEOF:
			// Any partial record is dropped
			d.trailing = n
			return nil
		default:
			return err
		}
	}
}

// Decode reads tile records from r until EOF and returns them as a TileSet.
// A trailing partial record is discarded. If r yields no bytes at all, the
// placeholder set is returned instead.
func Decode(r io.Reader) (*TileSet, error) {
	var d decoder
	if err := d.decode(r); err != nil {
		return nil, err
	}
	if len(d.tiles) == 0 && d.trailing == 0 {
		return Placeholder(), nil
	}
	return &TileSet{tiles: d.tiles}, nil
}

// DecodeBytes decodes b into len(b)/16 tiles. It never fails; an empty b
// yields the placeholder set.
func DecodeBytes(b []byte) *TileSet {
	ts, _ := Decode(bytes.NewReader(b))
	return ts
}

// Trailing returns the number of bytes in b that do not form a whole record
// and are therefore ignored by the decoder.
func Trailing(b []byte) int {
	return len(b) % TileBytes
}

func placeholderData() []byte {
	b := make([]byte, placeholderBytes)
	for i := 0; i < PlaceholderTiles; i++ {
		t := i % 256
		rec := b[i*TileBytes : (i+1)*TileBytes]
		for j := 0; j < planeBytes; j++ {
			rec[j] = byte(t >> uint(j))
			rec[planeBytes+j] = byte(^t >> uint(j))
		}
	}
	return b
}

// Placeholder returns the tiles substituted for missing pattern data. Tile i
// is decoded from a record whose low plane row j is (i mod 256) >> j and
// whose high plane row j is the complement of (i mod 256), arithmetically
// shifted right by j. The result is identical on every call.
func Placeholder() *TileSet {
	b := placeholderData()
	ts := &TileSet{
		tiles:       make([]Tile, 0, PlaceholderTiles),
		placeholder: true,
	}
	for i := 0; i < len(b); i += TileBytes {
		ts.tiles = append(ts.tiles, decodeTile(b[i:i+TileBytes]))
	}
	return ts
}
