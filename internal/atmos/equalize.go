package atmos

import (
	"atmos-ca/internal/gas"
	"atmos-ca/internal/grid"
)

// equalizeTile pools a phase tile with its eligible neighbours and writes the
// even share back to every participant.
func (e *Engine) equalizeTile(h grid.Handle, b *grid.Batch) {
	s := e.store
	if !s.Active(h) {
		return
	}
	s.Update(h).TriedToUpdate = true

	t := s.Tile(h)
	if t.IsIsolated() || t.IsSolid() {
		return
	}

	neighbors := s.Neighbors(h)
	var eligible [4]bool
	open := false
	for _, d := range grid.Dirs {
		n := neighbors[d]
		if n == grid.NoHandle {
			continue
		}
		eligible[d] = canShare(t, s.Tile(n), d)
		open = open || eligible[d]
	}
	if !open {
		return
	}

	changed, wind := e.pressureCheck(h, neighbors, eligible)
	e.wind[h] = wind
	if !changed {
		return
	}
	e.poolShare(h, neighbors, eligible, b)
}

// equalizePipe is the pipe variant: every connection takes part and a pipe
// with nothing to even out goes to sleep straight away.
func (e *Engine) equalizePipe(h grid.Handle, b *grid.Batch) {
	s := e.store
	if !s.Active(h) {
		return
	}
	s.Update(h).TriedToUpdate = true

	neighbors := s.Neighbors(h)
	var eligible [4]bool
	open := false
	for d, n := range neighbors {
		eligible[d] = n != grid.NoHandle
		open = open || eligible[d]
	}
	if !open {
		b.Sleep(h)
		return
	}

	changed, _ := e.pressureCheck(h, neighbors, eligible)
	if !changed {
		b.Sleep(h)
		return
	}
	e.poolShare(h, neighbors, eligible, b)
}

// canShare reports whether gas may pass from t towards n in direction d.
// Blocking is checked from both sides.
func canShare(t, n *grid.Tile, d grid.Dir) bool {
	if n.IsIsolated() || n.IsSolid() {
		return false
	}
	return !t.Blocks(d) && !n.Blocks(d.Opposite())
}

// pressureCheck reports whether h differs from any eligible neighbour by
// more than the pressure threshold or by any species' moles. The wind vector
// points from higher towards lower pressure and never into a blocked side.
func (e *Engine) pressureCheck(h grid.Handle, neighbors [4]grid.Handle, eligible [4]bool) (bool, Wind) {
	s := e.store
	mix := s.Mix(h)
	list := s.Species(h)
	threshold := e.params.MinPressureDifference

	var windX, windY, clampX, clampY int
	changed := false
	for _, d := range grid.Dirs {
		if !eligible[d] {
			continue
		}
		n := neighbors[d]
		diff := mix.Pressure - s.Mix(n).Pressure
		if abs32(diff) > threshold {
			changed = true
			dx, dy := d.Offset()
			if diff > 0 {
				windX += dx
				windY += dy
			} else if diff < 0 {
				windX -= dx
				windY -= dy
			}
			clampX -= dx
			clampY -= dy
			continue
		}
		if !changed && speciesDiffer(list, s.Species(n), threshold) {
			changed = true
		}
	}

	wind := Wind{
		X: int8(clampInt(windX, lowBound(clampX), highBound(clampX))),
		Y: int8(clampInt(windY, lowBound(clampY), highBound(clampY))),
	}
	return changed, wind
}

func lowBound(c int) int {
	if c < 0 {
		return 0
	}
	return -1
}

func highBound(c int) int {
	if c > 0 {
		return 0
	}
	return 1
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// speciesDiffer compares every species present on either side.
func speciesDiffer(a, b *gas.List, threshold float32) bool {
	for _, entry := range a.Entries() {
		if abs32(entry.Moles-b.Moles(entry.Species)) > threshold {
			return true
		}
	}
	for _, entry := range b.Entries() {
		if abs32(entry.Moles-a.Moles(entry.Species)) > threshold {
			return true
		}
	}
	return false
}

// poolShare merges the eligible neighbours into h, divides the result evenly and
// copies it back. Space participants are voided instead.
func (e *Engine) poolShare(h grid.Handle, neighbors [4]grid.Handle, eligible [4]bool, b *grid.Batch) {
	s := e.store
	list := s.Species(h)
	pooled := *s.Mix(h)

	dividing := 1
	for _, d := range grid.Dirs {
		if !eligible[d] {
			continue
		}
		n := neighbors[d]
		dividing++
		pooled.Volume += s.Mix(n).Volume
		gas.Pool(list, &pooled, s.Species(n), s.Mix(n))
	}
	if dividing == 1 {
		return
	}

	count := float32(dividing)
	pooled.Volume /= count
	list.DivideAll(count)
	pooled.RecalculatePressure(list)

	for _, d := range grid.Dirs {
		if !eligible[d] {
			continue
		}
		n := neighbors[d]
		s.Update(n).Updated = true
		b.Wake(n)
		e.writeShare(n, list, pooled)
	}

	s.Update(h).Updated = true
	if s.Tile(h).IsSpace() {
		s.Mix(h).Void(list)
		return
	}
	*s.Mix(h) = pooled
}

func (e *Engine) writeShare(n grid.Handle, list *gas.List, pooled gas.Mix) {
	s := e.store
	if s.Tile(n).IsSpace() {
		s.Mix(n).Void(s.Species(n))
		return
	}
	s.Species(n).CopyFrom(list)
	*s.Mix(n) = pooled
}
