package render

import (
	"image/color"
	"testing"
)

func TestFillPaletteRGBA(t *testing.T) {
	palette := []color.RGBA{{R: 1, A: 255}, {G: 2, A: 255}, {B: 3, A: 128}}
	buf := make([]byte, 4*4)
	fillPaletteRGBA(buf, []uint8{0, 1, 2, 200}, palette)

	want := []byte{
		1, 0, 0, 255,
		0, 2, 0, 255,
		0, 0, 3, 128,
		0, 0, 3, 128,
	}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("byte %d = %d, want %d (buf %v)", i, buf[i], want[i], buf)
		}
	}
}

func TestFillPaletteRGBAFallback(t *testing.T) {
	buf := make([]byte, 8)
	fillPaletteRGBA(buf, []uint8{0, 5}, nil)
	if buf[0] != 0 || buf[3] != 255 || buf[4] != 255 || buf[7] != 255 {
		t.Fatalf("unexpected fallback pixels %v", buf)
	}
}
