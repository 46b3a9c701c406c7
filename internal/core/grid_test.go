package core

import "testing"

func TestByteGridBounds(t *testing.T) {
	g := NewByteGrid(3, 2)
	g.Set(2, 1, 7)
	g.Set(3, 1, 9)
	g.Set(-1, 0, 9)
	if g.At(2, 1) != 7 {
		t.Fatalf("At(2,1) = %d, want 7", g.At(2, 1))
	}
	if g.At(3, 1) != 0 || g.At(0, -1) != 0 {
		t.Fatal("out of bounds reads should be zero")
	}
	for i, v := range g.Cells() {
		if i != g.Index(2, 1) && v != 0 {
			t.Fatalf("cell %d written by an out of bounds Set", i)
		}
	}
}

func TestByteGridFillAndDefaults(t *testing.T) {
	g := NewByteGrid(0, -4)
	if g.W != 1 || g.H != 1 {
		t.Fatalf("degenerate grid %dx%d, want 1x1", g.W, g.H)
	}
	g = NewByteGrid(4, 4)
	g.Fill(3)
	for i, v := range g.Cells() {
		if v != 3 {
			t.Fatalf("cell %d = %d after fill", i, v)
		}
	}
}
