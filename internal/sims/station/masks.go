package station

// WindVectorAt returns the last wind vector of the tile under (x, y).
func (w *World) WindVectorAt(x, y float64) (float64, float64) {
	i := w.snap.Index(int(x), int(y))
	if i < 0 || i >= len(w.snap.Wind) {
		return 0, 0
	}
	wind := w.snap.Wind[i]
	return float64(wind.X), float64(wind.Y)
}

// TriedMask is 1 where a tile attempted to equalize this tick.
func (w *World) TriedMask() []float32 { return boolMask(w.snap.Tried) }

// UpdatedMask is 1 where a tile changed this cycle.
func (w *World) UpdatedMask() []float32 { return boolMask(w.snap.Updated) }

// DormantMask is 1 where a tile is asleep.
func (w *World) DormantMask() []float32 {
	mask := make([]float32, len(w.snap.Active))
	for i, active := range w.snap.Active {
		if !active && !w.snap.Space[i] && !w.snap.Solid[i] {
			mask[i] = 1
		}
	}
	return mask
}

func boolMask(src []bool) []float32 {
	mask := make([]float32, len(src))
	for i, v := range src {
		if v {
			mask[i] = 1
		}
	}
	return mask
}
