package ui

import (
	"image/color"
	"math"
	"strings"

	"atmos-ca/internal/core"
)

const maskAlpha = 140.0

// fillMaskRGBA tints buf by mask intensity; zero cells stay transparent.
func fillMaskRGBA(buf []byte, mask []float32, tint color.RGBA) {
	for i, v := range mask {
		base := i * 4
		intensity := clamp01(float64(v))
		if intensity == 0 {
			buf[base+0], buf[base+1], buf[base+2], buf[base+3] = 0, 0, 0, 0
			continue
		}
		glow := 0.35 + 0.65*math.Sqrt(intensity)
		buf[base+0] = scaleColorComponent(tint.R, glow)
		buf[base+1] = scaleColorComponent(tint.G, glow)
		buf[base+2] = scaleColorComponent(tint.B, glow)
		buf[base+3] = uint8(math.Round(maskAlpha * math.Pow(intensity, 0.75)))
	}
}

// windSpacing picks the sample stride so a grid gets roughly 360 arrows.
func windSpacing(size core.Size) int {
	const target = 360.0
	spacing := int(math.Sqrt(float64(size.W*size.H) / target))
	return min(max(spacing, 3), 20)
}

func windColor(t float64) color.RGBA {
	t = clamp01(t)
	return color.RGBA{
		R: uint8(math.Round(80 + 70*t)),
		G: uint8(math.Round(170 + 70*t)),
		B: uint8(math.Round(230 + 20*t)),
		A: uint8(math.Round(150 + 90*t)),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func scaleColorComponent(value uint8, factor float64) uint8 {
	scaled := math.Round(float64(value) * factor)
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}

// wrapText splits s on spaces into lines of at most width characters. Words
// longer than width get a line of their own.
func wrapText(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	var (
		lines []string
		line  strings.Builder
	)
	for _, word := range strings.Fields(s) {
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
