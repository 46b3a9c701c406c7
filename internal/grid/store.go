package grid

import (
	"fmt"

	"atmos-ca/internal/gas"
)

// Default solid properties for new tiles.
const (
	DefaultThermalConductivity = 0.5
	DefaultHeatCapacity        = 200
)

// Store is the arena backing every tile, pipe and storage record. Records are
// laid out as parallel slices indexed by Handle. Accessors panic on an
// invalid handle the same way a slice index would.
type Store struct {
	w, h int

	kinds     []Kind
	tiles     []Tile
	mixes     []gas.Mix
	lists     []gas.List
	conds     []Conductivity
	updates   []Update
	states    []State
	neighbors [][4]Handle

	tileAt []Handle
	pipeAt map[Pos]Handle
}

// NewStore returns an empty arena with a w×h tile lookup.
func NewStore(w, h int) *Store {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	s := &Store{w: w, h: h, tileAt: make([]Handle, w*h), pipeAt: map[Pos]Handle{}}
	for i := range s.tileAt {
		s.tileAt[i] = NoHandle
	}
	return s
}

// NewTileGrid builds a w×h grid of empty room tiles in region with
// 4-neighbour adjacency. Out of bounds slots stay NoHandle.
func NewTileGrid(w, h, region int) *Store {
	s := NewStore(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			s.addTile(Pos{X: x, Y: y, Region: region})
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			hd := s.tileAt[y*w+x]
			for _, d := range Dirs {
				dx, dy := d.Offset()
				s.neighbors[hd][d] = s.At(x+dx, y+dy)
			}
		}
	}
	return s
}

func (s *Store) add(kind Kind, tile Tile, mix gas.Mix, cond Conductivity) Handle {
	hd := Handle(len(s.kinds))
	px, py := PhaseOf(tile.Pos.X, tile.Pos.Y)
	s.kinds = append(s.kinds, kind)
	s.tiles = append(s.tiles, tile)
	s.mixes = append(s.mixes, mix)
	s.lists = append(s.lists, gas.List{})
	s.conds = append(s.conds, cond)
	s.updates = append(s.updates, Update{PhaseX: px, PhaseY: py})
	s.states = append(s.states, Dormant)
	s.neighbors = append(s.neighbors, [4]Handle{NoHandle, NoHandle, NoHandle, NoHandle})
	return hd
}

func (s *Store) addTile(pos Pos) Handle {
	var empty gas.List
	hd := s.add(KindTile, Tile{Pos: pos, Node: NodeRoom}, gas.DefaultMix(&empty), Conductivity{
		Temperature:         gas.DefaultTemperature,
		ThermalConductivity: DefaultThermalConductivity,
		HeatCapacity:        DefaultHeatCapacity,
	})
	if s.inBounds(pos.X, pos.Y) {
		s.tileAt[pos.Y*s.w+pos.X] = hd
	}
	return hd
}

// AddPipe adds a pipe segment at pos with the given volume. Pipes are not
// connected until ConnectPipes links them.
func (s *Store) AddPipe(pos Pos, volume float32) (Handle, error) {
	if _, ok := s.pipeAt[pos]; ok {
		return NoHandle, fmt.Errorf("pipe already at %d,%d", pos.X, pos.Y)
	}
	var empty gas.List
	hd := s.add(KindPipe, Tile{Pos: pos, Node: NodeRoom}, gas.NewMix(&empty, 0, volume, gas.DefaultTemperature), Conductivity{})
	s.pipeAt[pos] = hd
	return hd, nil
}

// ConnectPipes links two grid-adjacent pipes in both directions.
func (s *Store) ConnectPipes(a, b Handle) error {
	if !s.Valid(a) || !s.Valid(b) {
		return fmt.Errorf("connect pipes: invalid handle %d/%d", a, b)
	}
	if s.kinds[a] != KindPipe || s.kinds[b] != KindPipe {
		return fmt.Errorf("connect pipes: %d and %d must both be pipes", a, b)
	}
	pa, pb := s.tiles[a].Pos, s.tiles[b].Pos
	if pa.Region != pb.Region {
		return fmt.Errorf("connect pipes: regions differ (%d, %d)", pa.Region, pb.Region)
	}
	for _, d := range Dirs {
		dx, dy := d.Offset()
		if pa.X+dx == pb.X && pa.Y+dy == pb.Y {
			s.neighbors[a][d] = b
			s.neighbors[b][d.Opposite()] = a
			return nil
		}
	}
	return fmt.Errorf("connect pipes: %d,%d and %d,%d are not adjacent", pa.X, pa.Y, pb.X, pb.Y)
}

// AddStorage adds a standalone vessel. Storage has no neighbours and is only
// reached through the vessel API.
func (s *Store) AddStorage(volume, temperature float32) Handle {
	var empty gas.List
	return s.add(KindStorage, Tile{Node: NodeNone}, gas.NewMix(&empty, 0, volume, temperature), Conductivity{})
}

// Len returns the number of records.
func (s *Store) Len() int { return len(s.kinds) }

// Width returns the tile lookup width.
func (s *Store) Width() int { return s.w }

// Height returns the tile lookup height.
func (s *Store) Height() int { return s.h }

// Valid reports whether h addresses a record.
func (s *Store) Valid(h Handle) bool { return h >= 0 && int(h) < len(s.kinds) }

// At returns the tile at x,y or NoHandle when out of bounds.
func (s *Store) At(x, y int) Handle {
	if !s.inBounds(x, y) {
		return NoHandle
	}
	return s.tileAt[y*s.w+x]
}

// PipeAt returns the pipe at pos or NoHandle.
func (s *Store) PipeAt(pos Pos) Handle {
	if hd, ok := s.pipeAt[pos]; ok {
		return hd
	}
	return NoHandle
}

func (s *Store) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < s.w && y < s.h
}

// Record accessors. The pointer results alias arena storage.

func (s *Store) Kind(h Handle) Kind { return s.kinds[h] }

func (s *Store) Tile(h Handle) *Tile { return &s.tiles[h] }

func (s *Store) Mix(h Handle) *gas.Mix { return &s.mixes[h] }

func (s *Store) Species(h Handle) *gas.List { return &s.lists[h] }

func (s *Store) Conductivity(h Handle) *Conductivity { return &s.conds[h] }

func (s *Store) Update(h Handle) *Update { return &s.updates[h] }

func (s *Store) State(h Handle) State { return s.states[h] }

func (s *Store) SetState(h Handle, state State) { s.states[h] = state }

func (s *Store) Active(h Handle) bool { return s.states[h] == Active }

// Neighbors returns a copy of the adjacency slots of h.
func (s *Store) Neighbors(h Handle) [4]Handle { return s.neighbors[h] }

func (s *Store) Neighbor(h Handle, d Dir) Handle { return s.neighbors[h][d] }

// Handles returns every handle of the given kind in creation order.
func (s *Store) Handles(kind Kind) []Handle {
	var out []Handle
	for i, k := range s.kinds {
		if k == kind {
			out = append(out, Handle(i))
		}
	}
	return out
}

// Wake marks h Active outside a tick. Setup and vessel writes use it.
func (s *Store) Wake(h Handle) { s.states[h] = Active }

// SetGas replaces the composition of h and refreshes its aggregates.
func (s *Store) SetGas(h Handle, temperature float32, entries ...gas.Entry) {
	s.lists[h] = gas.NewList(entries...)
	s.mixes[h].SetTemperature(&s.lists[h], temperature)
}

// Record is the full serialisable state of one record.
type Record struct {
	Kind         Kind         `json:"kind"`
	Tile         Tile         `json:"tile"`
	Mix          gas.Mix      `json:"mix"`
	Species      []gas.Entry  `json:"species,omitempty"`
	Conductivity Conductivity `json:"conductivity"`
	Update       Update       `json:"update"`
	State        State        `json:"state"`
	Neighbors    [4]Handle    `json:"neighbors"`
}

// Record copies the state of h.
func (s *Store) Record(h Handle) Record {
	return Record{
		Kind:         s.kinds[h],
		Tile:         s.tiles[h],
		Mix:          s.mixes[h],
		Species:      append([]gas.Entry(nil), s.lists[h].Entries()...),
		Conductivity: s.conds[h],
		Update:       s.updates[h],
		State:        s.states[h],
		Neighbors:    s.neighbors[h],
	}
}

// FromRecords rebuilds an arena from records produced by Record. Handles are
// preserved, so records must be in handle order.
func FromRecords(w, h int, records []Record) (*Store, error) {
	s := NewStore(w, h)
	for i, rec := range records {
		for _, n := range rec.Neighbors {
			if n != NoHandle && (n < 0 || int(n) >= len(records)) {
				return nil, fmt.Errorf("record %d: neighbour %d out of range", i, n)
			}
		}
		hd := s.add(rec.Kind, rec.Tile, rec.Mix, rec.Conductivity)
		s.lists[hd] = gas.NewList(rec.Species...)
		s.updates[hd] = rec.Update
		s.states[hd] = rec.State
		s.neighbors[hd] = rec.Neighbors
		switch rec.Kind {
		case KindTile:
			if s.inBounds(rec.Tile.Pos.X, rec.Tile.Pos.Y) {
				s.tileAt[rec.Tile.Pos.Y*s.w+rec.Tile.Pos.X] = hd
			}
		case KindPipe:
			s.pipeAt[rec.Tile.Pos] = hd
		}
	}
	return s, nil
}
