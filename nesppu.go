/*
Package nesppu is a library for reconstructing NES background and sprite
graphics from cartridge pattern data.

Pattern data is decoded into tiles, a layout strategy arranges them into a
background, and sprites are composited on top. Frames are produced one at a
time through a Session which owns all mutable state.
*/
package nesppu

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"

	"github.com/bodgit/nesppu/chr"
	"github.com/bodgit/nesppu/layout"
	"github.com/bodgit/nesppu/palette"
	"github.com/bodgit/nesppu/ppu"
)

var errConfig = errors.New("nesppu: invalid configuration")

// Config describes the scene built by a Lab
type Config struct {
	// Width and Height are the name table size in tiles
	Width, Height int
	Layout        layout.Config
	// Palette is the base palette used in palette.Rotate mode
	Palette palette.Palette
	Mode    palette.Mode
	// Subpalettes are used in palette.Subpalettes mode
	Subpalettes [palette.Colors]palette.Palette
	// Sprites is the number of sprites scattered by a new Session
	Sprites int
	// Velocity is how far the scroll cursor moves each frame
	Velocity image.Point
}

// DefaultConfig returns a single screen scene with the neutral palette
func DefaultConfig() Config {
	p, _ := palette.Preset("neutral")
	return Config{
		Width:   ppu.ViewportWidth / chr.TileWidth,
		Height:  ppu.ViewportHeight / chr.TileHeight,
		Layout:  layout.Config{Kind: layout.KindWeave},
		Palette: p,
		Mode:    palette.Rotate,
		Sprites: 8,
	}
}

// Validate checks c for values that can never produce a frame
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: name table size %dx%d", errConfig, c.Width, c.Height)
	case c.Sprites < 0:
		return fmt.Errorf("%w: sprite count %d", errConfig, c.Sprites)
	case c.Mode != palette.Rotate && c.Mode != palette.Subpalettes:
		return fmt.Errorf("%w: palette mode %d", errConfig, c.Mode)
	}

	if c.Mode == palette.Subpalettes {
		for i, p := range c.Subpalettes {
			if err := p.Validate(); err != nil {
				return fmt.Errorf("subpalette %d: %w", i, err)
			}
		}
		return nil
	}

	return c.Palette.Validate()
}

func (c Config) bank() *palette.Bank {
	if c.Mode == palette.Subpalettes {
		return palette.NewSubpaletteBank(c.Subpalettes)
	}
	return palette.NewBank(c.Palette)
}

// Lab holds everything derived from the pattern data and configuration. It
// is read-only once created and may be shared by any number of sessions.
type Lab struct {
	cfg        Config
	tiles      *chr.TileSet
	compositor *ppu.Compositor
	logger     *log.Logger
}

// New decodes data and builds the scene described by cfg. Empty or
// unusable pattern data is replaced with placeholder tiles. It fails with
// ppu.ErrCanvasTooSmall if the scene is smaller than the viewport.
func New(data []byte, cfg Config, logger *log.Logger) (*Lab, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tiles := chr.DecodeBytes(data)
	if n := chr.Trailing(data); n > 0 {
		logger.Printf("Ignoring %d trailing bytes of pattern data\n", n)
	}
	if tiles.Len() == 0 {
		tiles = chr.Placeholder()
	}
	if tiles.Placeholder() {
		logger.Printf("No pattern data, using %d placeholder tiles\n", tiles.Len())
	}

	lc := cfg.Layout
	if lc.Tiles == 0 {
		lc.Tiles = tiles.Len()
	}
	strategy, err := layout.New(lc)
	if err != nil {
		return nil, err
	}

	names, attrs, err := layout.Build(strategy, cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}

	compositor, err := ppu.New(tiles, names, attrs, cfg.bank())
	if err != nil {
		return nil, err
	}

	return &Lab{
		cfg:        cfg,
		tiles:      tiles,
		compositor: compositor,
		logger:     logger,
	}, nil
}

// Config returns the configuration the Lab was built with
func (l *Lab) Config() Config {
	return l.cfg
}

// Tiles returns the decoded tile set
func (l *Lab) Tiles() *chr.TileSet {
	return l.tiles
}

// Compositor returns the compositor for the scene
func (l *Lab) Compositor() *ppu.Compositor {
	return l.compositor
}
