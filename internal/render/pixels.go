// Package render turns palette-indexed cell buffers into RGBA pixels.
package render

import "image/color"

// PaletteProvider is implemented by sims whose cells are palette indices.
type PaletteProvider interface {
	Palette() []color.RGBA
}

// fallbackPalette maps 0 to black and every other value to white.
var fallbackPalette = []color.RGBA{
	{A: 255},
	{R: 255, G: 255, B: 255, A: 255},
}

// fillPaletteRGBA converts cell values into RGBA pixels using a palette.
// Values past the end of the palette use its last colour. An empty palette
// falls back to black and white.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		palette = fallbackPalette
	}
	last := len(palette) - 1
	for i, c := range cells {
		col := palette[min(int(c), last)]
		base := i * 4
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}
