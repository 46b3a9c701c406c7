package station

import (
	"fmt"
	"sort"

	"atmos-ca/internal/gas"
	"atmos-ca/internal/grid"
	"atmos-ca/pkg/rng"
)

// layout is a freshly built store plus the scripted pieces a scenario drives
// between ticks.
type layout struct {
	store *grid.Store
	doors []grid.Handle
	pump  *pump
}

// pump moves gas from a pipe into a storage tank once per tick.
type pump struct {
	from grid.Handle
	to   grid.Handle
}

type scenarioFunc func(cfg Config, r *rng.RNG) (*layout, error)

var scenarios = map[string]scenarioFunc{
	"breach": buildBreach,
	"mix":    buildMix,
	"fire":   buildFire,
	"rooms":  buildRooms,
	"pipes":  buildPipes,
}

// Scenarios lists the registered scenario names.
func Scenarios() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var registry = gas.DefaultRegistry()

func entry(sp gas.Species, n float64) gas.Entry {
	return gas.Entry{Species: sp, Moles: float32(n), MolarHeatCapacity: registry.MolarHeatCapacity(sp)}
}

func fillAir(s *grid.Store, h grid.Handle, p Params, scale float64) {
	n := p.FillMoles * scale
	s.SetGas(h, gas.DefaultTemperature,
		entry(gas.Oxygen, n*p.OxygenRatio),
		entry(gas.Nitrogen, n*(1-p.OxygenRatio)),
	)
}

func makeWall(s *grid.Store, h grid.Handle) {
	s.Tile(h).Occupied = grid.OccupiedSolid
	s.Species(h).Clear()
	s.Mix(h).RecalculatePressure(s.Species(h))
}

func makeSpace(s *grid.Store, h grid.Handle) {
	s.Tile(h).Node = grid.NodeSpace
	s.Tile(h).Occupied = 0
	s.Mix(h).Void(s.Species(h))
}

func openTile(s *grid.Store, h grid.Handle) {
	s.Tile(h).Occupied = 0
}

func wakeAll(s *grid.Store) {
	for i := 0; i < s.Len(); i++ {
		s.Wake(grid.Handle(i))
	}
}

// enclosed builds a grid with a wall ring and air inside.
func enclosed(cfg Config, minW, minH int) (*grid.Store, error) {
	w, h := cfg.Width, cfg.Height
	if w < minW || h < minH {
		return nil, fmt.Errorf("%s needs at least %dx%d tiles, got %dx%d", cfg.Params.Scenario, minW, minH, w, h)
	}
	s := grid.NewTileGrid(w, h, 0)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			hd := s.At(x, y)
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				makeWall(s, hd)
				continue
			}
			fillAir(s, hd, cfg.Params, 1)
		}
	}
	return s, nil
}

// buildBreach seals a pressurised room against a column of space and knocks
// a hole in the wall between them.
func buildBreach(cfg Config, _ *rng.RNG) (*layout, error) {
	s, err := enclosed(cfg, 5, 4)
	if err != nil {
		return nil, err
	}
	w, h := cfg.Width, cfg.Height
	for y := 0; y < h; y++ {
		makeSpace(s, s.At(w-1, y))
		makeWall(s, s.At(w-2, y))
	}
	size := cfg.Params.BreachSize
	start := h/2 - size/2
	for y := start; y < start+size; y++ {
		if y <= 0 || y >= h-1 {
			continue
		}
		openTile(s, s.At(w-2, y))
	}
	wakeAll(s)
	return &layout{store: s}, nil
}

// buildMix splits the room with a wall. The left half holds air, the right
// half carbon dioxide, and the door in the middle opens later.
func buildMix(cfg Config, _ *rng.RNG) (*layout, error) {
	s, err := enclosed(cfg, 5, 3)
	if err != nil {
		return nil, err
	}
	w, h := cfg.Width, cfg.Height
	mid := w / 2
	for y := 1; y < h-1; y++ {
		for x := mid + 1; x < w-1; x++ {
			s.SetGas(s.At(x, y), gas.DefaultTemperature, entry(gas.CarbonDioxide, cfg.Params.FillMoles/2))
		}
		makeWall(s, s.At(mid, y))
	}

	var doors []grid.Handle
	size := max(cfg.Params.BreachSize, 1)
	start := h/2 - size/2
	for y := start; y < start+size; y++ {
		if y <= 0 || y >= h-1 {
			continue
		}
		doors = append(doors, s.At(mid, y))
	}
	wakeAll(s)
	return &layout{store: s, doors: doors}, nil
}

// buildFire heats the inner face of the left wall and leaves a plasma
// pocket next to it.
func buildFire(cfg Config, _ *rng.RNG) (*layout, error) {
	s, err := enclosed(cfg, 6, 3)
	if err != nil {
		return nil, err
	}
	w, h := cfg.Width, cfg.Height
	for y := 1; y < h-1; y++ {
		hd := s.At(1, y)
		makeWall(s, hd)
		c := s.Conductivity(hd)
		c.Temperature = float32(cfg.Params.FireTemperature)
		c.StartingSuperconduct = true
	}
	if cfg.Params.FirePlasma > 0 {
		for y := 1; y < h-1; y++ {
			for x := 2; x < min(5, w-1); x++ {
				hd := s.At(x, y)
				list := s.Species(hd)
				list.Add(gas.Plasma, float32(cfg.Params.FirePlasma), registry.MolarHeatCapacity(gas.Plasma))
				s.Mix(hd).RecalculatePressure(list)
			}
		}
	}
	wakeAll(s)
	return &layout{store: s}, nil
}

// buildRooms scatters walled rooms with a single doorway over an empty deck.
func buildRooms(cfg Config, r *rng.RNG) (*layout, error) {
	w, h := cfg.Width, cfg.Height
	if w < 3 || h < 3 {
		return nil, fmt.Errorf("rooms needs at least 3x3 tiles, got %dx%d", w, h)
	}
	s := grid.NewTileGrid(w, h, 0)
	p := cfg.Params
	for i := 0; i < p.RoomCount; i++ {
		rw := min(r.Range(p.RoomSizeMin, p.RoomSizeMax), w)
		rh := min(r.Range(p.RoomSizeMin, p.RoomSizeMax), h)
		x0 := r.IntN(w - rw + 1)
		y0 := r.IntN(h - rh + 1)
		scale := 0.5 + r.Float64()
		for y := y0; y < y0+rh; y++ {
			for x := x0; x < x0+rw; x++ {
				hd := s.At(x, y)
				if x == x0 || y == y0 || x == x0+rw-1 || y == y0+rh-1 {
					makeWall(s, hd)
					continue
				}
				openTile(s, hd)
				fillAir(s, hd, p, scale)
			}
		}
		if rw > 2 {
			dx := x0 + 1 + r.IntN(rw-2)
			dy := y0
			if r.Bool() {
				dy = y0 + rh - 1
			}
			openTile(s, s.At(dx, dy))
		}
	}
	wakeAll(s)
	return &layout{store: s}, nil
}

// buildPipes lays a square pipe loop over a pressurised room. The top run
// is charged with nitrogen and the corner after it feeds a storage tank.
func buildPipes(cfg Config, _ *rng.RNG) (*layout, error) {
	s, err := enclosed(cfg, 4, 4)
	if err != nil {
		return nil, err
	}
	p := cfg.Params
	side := min(p.PipeLength, cfg.Width-2, cfg.Height-2)
	if side < 2 {
		return nil, fmt.Errorf("pipes: loop side %d too short", side)
	}

	var ring []grid.Pos
	x0, y0 := 1, 1
	for i := 0; i < side-1; i++ {
		ring = append(ring, grid.Pos{X: x0 + i, Y: y0, Region: 1})
	}
	for i := 0; i < side-1; i++ {
		ring = append(ring, grid.Pos{X: x0 + side - 1, Y: y0 + i, Region: 1})
	}
	for i := 0; i < side-1; i++ {
		ring = append(ring, grid.Pos{X: x0 + side - 1 - i, Y: y0 + side - 1, Region: 1})
	}
	for i := 0; i < side-1; i++ {
		ring = append(ring, grid.Pos{X: x0, Y: y0 + side - 1 - i, Region: 1})
	}

	handles := make([]grid.Handle, len(ring))
	for i, pos := range ring {
		hd, err := s.AddPipe(pos, gas.TileVolume)
		if err != nil {
			return nil, fmt.Errorf("pipes: %w", err)
		}
		handles[i] = hd
	}
	for i := range handles {
		if err := s.ConnectPipes(handles[i], handles[(i+1)%len(handles)]); err != nil {
			return nil, fmt.Errorf("pipes: %w", err)
		}
	}
	for _, hd := range handles[:side-1] {
		s.SetGas(hd, gas.DefaultTemperature, entry(gas.Nitrogen, p.FillMoles))
	}

	tank := s.AddStorage(float32(p.TankVolume), gas.DefaultTemperature)
	wakeAll(s)
	return &layout{store: s, pump: &pump{from: handles[side-1], to: tank}}, nil
}
