package atmos

import "atmos-ca/internal/grid"

// Snapshot is a read-only copy of the tile layer, laid out row-major over the
// store's width and height. Cells without a tile stay zero.
type Snapshot struct {
	Tick   uint64
	Phase  Cursor
	Width  int
	Height int

	Moles            []float32
	Pressure         []float32
	Temperature      []float32
	SolidTemperature []float32
	Updated          []bool
	Tried            []bool
	Active           []bool
	Solid            []bool
	Space            []bool
	Wind             []Wind
}

// Snapshot copies the tile layer. It is safe to call while another goroutine
// drives ticks.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := e.store
	w, h := s.Width(), s.Height()
	n := w * h
	snap := Snapshot{
		Tick:             e.tick,
		Phase:            e.cursor,
		Width:            w,
		Height:           h,
		Moles:            make([]float32, n),
		Pressure:         make([]float32, n),
		Temperature:      make([]float32, n),
		SolidTemperature: make([]float32, n),
		Updated:          make([]bool, n),
		Tried:            make([]bool, n),
		Active:           make([]bool, n),
		Solid:            make([]bool, n),
		Space:            make([]bool, n),
		Wind:             make([]Wind, n),
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			hd := s.At(x, y)
			if hd == grid.NoHandle {
				continue
			}
			i := y*w + x
			mix := s.Mix(hd)
			u := s.Update(hd)
			t := s.Tile(hd)
			snap.Moles[i] = mix.Moles
			snap.Pressure[i] = mix.Pressure
			snap.Temperature[i] = mix.Temperature
			snap.SolidTemperature[i] = s.Conductivity(hd).Temperature
			snap.Updated[i] = u.Updated
			snap.Tried[i] = u.TriedToUpdate
			snap.Active[i] = s.Active(hd)
			snap.Solid[i] = t.IsSolid()
			snap.Space[i] = t.IsSpace()
			snap.Wind[i] = e.wind[hd]
		}
	}
	return snap
}

// Index returns the slice index of x,y or -1 when out of bounds.
func (s *Snapshot) Index(x, y int) int {
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return -1
	}
	return y*s.Width + x
}

// Totals sums moles over the tile layer.
func (s *Snapshot) Totals() (moles float32, active int) {
	for i := range s.Moles {
		moles += s.Moles[i]
		if s.Active[i] {
			active++
		}
	}
	return moles, active
}
