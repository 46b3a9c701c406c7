package rng

import "testing"

func TestSameSeedSameSequence(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 64; i++ {
		if x, y := a.IntN(1000), b.IntN(1000); x != y {
			t.Fatalf("draw %d: %d != %d", i, x, y)
		}
	}
}

func TestRangeBounds(t *testing.T) {
	r := New(7)
	for i := 0; i < 500; i++ {
		v := r.Range(3, 9)
		if v < 3 || v > 9 {
			t.Fatalf("value %d outside [3,9]", v)
		}
		if w := r.Range(9, 3); w < 3 || w > 9 {
			t.Fatalf("reversed bounds gave %d", w)
		}
	}
	if r.Range(5, 5) != 5 {
		t.Fatal("degenerate range")
	}
}

func TestIntNNonPositive(t *testing.T) {
	r := New(1)
	if r.IntN(0) != 0 || r.IntN(-3) != 0 {
		t.Fatal("non-positive n should yield 0")
	}
}
