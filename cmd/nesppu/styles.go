package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/bodgit/nesppu/chr"
	"github.com/bodgit/nesppu/palette"
	"github.com/bodgit/nesppu/screen"
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	heading lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	warning lipgloss.Style
}

func newStyles() styles {
	return styles{
		heading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(6)),
		label:   lipgloss.NewStyle().Width(14).Foreground(lipgloss.ANSIColor(8)),
		value:   lipgloss.NewStyle().Bold(true),
		warning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(0)).Background(lipgloss.ANSIColor(3)),
	}
}

func (s styles) field(label string, v interface{}) string {
	return s.label.Render(label) + s.value.Render(fmt.Sprint(v))
}

func hex(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// swatch renders each palette entry as a block labelled with its index
func swatch(p palette.Palette) string {
	blocks := make([]string, 0, len(p))
	for i := range p {
		c := p.Color(uint8(i))
		fg := lipgloss.Color("#000000")
		if screen.Luma(c) < 0x80 {
			fg = lipgloss.Color("#ffffff")
		}
		blocks = append(blocks, lipgloss.NewStyle().Background(hex(c)).Foreground(fg).Padding(0, 1).Render(fmt.Sprintf("%02X", p[i])))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

// tile renders t using two terminal cells per pixel
func tile(t chr.Tile, p palette.Palette) string {
	var rows []string
	for y := 0; y < chr.TileHeight; y++ {
		var b strings.Builder
		for x := 0; x < chr.TileWidth; x++ {
			b.WriteString(lipgloss.NewStyle().Background(hex(p.Color(t[y][x]))).Render("  "))
		}
		rows = append(rows, b.String())
	}
	return lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
