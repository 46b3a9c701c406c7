package atmos

import (
	"testing"

	"atmos-ca/internal/grid"
)

func TestCursorCycle(t *testing.T) {
	var c Cursor
	seen := make(map[int]bool, PhaseCount)
	for i := 0; i < PhaseCount; i++ {
		idx := c.Index()
		if seen[idx] {
			t.Fatalf("phase %d visited twice", idx)
		}
		seen[idx] = true
		c.Advance()
	}
	if len(seen) != PhaseCount {
		t.Fatalf("visited %d phases, want %d", len(seen), PhaseCount)
	}
	if c != (Cursor{}) {
		t.Fatalf("cursor should wrap to 0,0, got %+v", c)
	}
}

func TestCursorRowMajor(t *testing.T) {
	var c Cursor
	c.Advance()
	if c != (Cursor{X: 1}) {
		t.Fatalf("got %+v", c)
	}
	c = Cursor{X: 3}
	c.Advance()
	if c != (Cursor{Y: 1}) {
		t.Fatalf("got %+v", c)
	}
}

func TestBucketsPartitionTiles(t *testing.T) {
	s := grid.NewTileGrid(9, 7, 0)
	b := buildBuckets(s, grid.KindTile)

	total := 0
	for idx, handles := range b {
		for _, h := range handles {
			u := s.Update(h)
			if got := int(u.PhaseY)*4 + int(u.PhaseX); got != idx {
				t.Fatalf("handle %d in bucket %d, belongs to %d", h, idx, got)
			}
		}
		total += len(handles)
	}
	if total != 9*7 {
		t.Fatalf("buckets hold %d tiles, want %d", total, 9*7)
	}
}
