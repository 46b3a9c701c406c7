package grid

import (
	"testing"

	"atmos-ca/internal/gas"
)

func TestNewTileGridAdjacency(t *testing.T) {
	s := NewTileGrid(3, 2, 7)
	if s.Len() != 6 {
		t.Fatalf("expected 6 records, got %d", s.Len())
	}
	corner := s.At(0, 0)
	n := s.Neighbors(corner)
	if n[DirLeft] != NoHandle || n[DirUp] != NoHandle {
		t.Fatalf("corner has out of bounds neighbours: %v", n)
	}
	if n[DirRight] != s.At(1, 0) || n[DirDown] != s.At(0, 1) {
		t.Fatalf("corner neighbours wrong: %v", n)
	}
	mid := s.At(1, 1)
	for _, d := range Dirs {
		nb := s.Neighbor(mid, d)
		if nb == NoHandle {
			continue
		}
		if back := s.Neighbor(nb, d.Opposite()); back != mid {
			t.Fatalf("adjacency not symmetric in direction %d", d)
		}
	}
	if s.Tile(mid).Pos.Region != 7 {
		t.Fatalf("region not stored")
	}
	if s.State(mid) != Dormant {
		t.Fatalf("records must start dormant")
	}
	if s.At(-1, 0) != NoHandle || s.At(3, 0) != NoHandle {
		t.Fatalf("out of bounds lookup returned a handle")
	}
}

func TestPhaseIndependentSet(t *testing.T) {
	// Two distinct tiles in the same phase never share a neighbour and are
	// never neighbours of each other, including across the origin.
	type key struct{ x, y int }
	byPhase := map[[2]uint8][]key{}
	for y := -9; y <= 9; y++ {
		for x := -9; x <= 9; x++ {
			px, py := PhaseOf(x, y)
			byPhase[[2]uint8{px, py}] = append(byPhase[[2]uint8{px, py}], key{x, y})
		}
	}
	if len(byPhase) != 16 {
		t.Fatalf("expected 16 phases, got %d", len(byPhase))
	}
	for phase, tiles := range byPhase {
		for i := range tiles {
			for j := i + 1; j < len(tiles); j++ {
				dx := tiles[i].x - tiles[j].x
				dy := tiles[i].y - tiles[j].y
				if dx < 0 {
					dx = -dx
				}
				if dy < 0 {
					dy = -dy
				}
				if dx+dy <= 2 {
					t.Fatalf("phase %v: %v and %v can touch the same tile", phase, tiles[i], tiles[j])
				}
			}
		}
	}
}

func TestTileMaskPredicates(t *testing.T) {
	tile := Tile{Occupied: OccupiedFull}
	if !tile.IsIsolated() || tile.IsSolid() {
		t.Fatal("full mask must be isolated and not solid")
	}
	tile.Occupied = OccupiedSolid
	if !tile.IsSolid() || tile.IsIsolated() {
		t.Fatal("solid mask must be solid and not isolated")
	}
	tile.Occupied = OccupiedLeft
	if !tile.Blocks(DirLeft) || tile.Blocks(DirRight) {
		t.Fatal("left mask must only block left")
	}
	if DirUp.Opposite() != DirDown || DirRight.Opposite() != DirLeft {
		t.Fatal("opposite directions wrong")
	}
}

func TestConnectPipes(t *testing.T) {
	s := NewStore(0, 0)
	a, err := s.AddPipe(Pos{X: 0, Y: 0}, 1)
	if err != nil {
		t.Fatalf("add pipe: %v", err)
	}
	b, _ := s.AddPipe(Pos{X: 1, Y: 0}, 1)
	c, _ := s.AddPipe(Pos{X: 3, Y: 0}, 1)
	if _, err := s.AddPipe(Pos{X: 1, Y: 0}, 1); err == nil {
		t.Fatal("expected duplicate pipe to fail")
	}

	if err := s.ConnectPipes(a, b); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if s.Neighbor(a, DirRight) != b || s.Neighbor(b, DirLeft) != a {
		t.Fatalf("pipes not linked both ways")
	}
	if err := s.ConnectPipes(b, c); err == nil {
		t.Fatal("expected non-adjacent pipes to fail")
	}
	st := s.AddStorage(10, 300)
	if err := s.ConnectPipes(a, st); err == nil {
		t.Fatal("expected storage connection to fail")
	}
	if s.PipeAt(Pos{X: 3}) != c {
		t.Fatal("pipe lookup failed")
	}
}

func TestBatchApply(t *testing.T) {
	s := NewTileGrid(2, 1, 0)
	var b Batch
	b.Wake(0)
	b.Wake(1)
	b.Sleep(1)
	b.Wake(0)
	woken, slept := b.Apply(s)
	if woken != 2 || slept != 1 {
		t.Fatalf("unexpected counts: woken=%d slept=%d", woken, slept)
	}
	if s.State(0) != Active || s.State(1) != Dormant {
		t.Fatalf("last transition must win: %v %v", s.State(0), s.State(1))
	}
	if b.Len() != 0 {
		t.Fatal("apply must empty the batch")
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	s := NewTileGrid(2, 2, 0)
	h := s.At(1, 1)
	s.SetGas(h, 320, gas.Entry{Species: gas.Oxygen, Moles: 12, MolarHeatCapacity: 20})
	s.Wake(h)
	s.Tile(h).Occupied = OccupiedSolid

	records := make([]Record, s.Len())
	for i := range records {
		records[i] = s.Record(Handle(i))
	}
	restored, err := FromRecords(2, 2, records)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.At(1, 1) != h {
		t.Fatalf("tile lookup not rebuilt")
	}
	if restored.Species(h).Moles(gas.Oxygen) != 12 || restored.Mix(h).Temperature != 320 {
		t.Fatalf("gas state lost: %+v", restored.Mix(h))
	}
	if !restored.Tile(h).IsSolid() || !restored.Active(h) {
		t.Fatalf("tile state lost")
	}

	records[0].Neighbors[0] = 99
	if _, err := FromRecords(2, 2, records); err == nil {
		t.Fatal("expected out of range neighbour to fail")
	}
}
