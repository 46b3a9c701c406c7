package gas

// Entry is one species row in a composition list.
type Entry struct {
	Species           Species `json:"species"`
	Moles             float32 `json:"moles"`
	MolarHeatCapacity float32 `json:"molar_heat_capacity"`
}

// List is the sparse per-species composition of a mix. It never holds
// duplicate species and never stores an entry at or below
// MinPressureDifference moles.
type List struct {
	entries []Entry
}

// NewList builds a list from entries, folding duplicates and dropping
// entries that fall under the removal threshold.
func NewList(entries ...Entry) List {
	var l List
	for _, e := range entries {
		l.Add(e.Species, e.Moles, e.MolarHeatCapacity)
	}
	return l
}

// Len returns the number of species present.
func (l *List) Len() int { return len(l.entries) }

// Entries exposes the rows for read-only iteration.
func (l *List) Entries() []Entry { return l.entries }

func (l *List) index(sp Species) int {
	for i := range l.entries {
		if l.entries[i].Species == sp {
			return i
		}
	}
	return -1
}

// Has reports whether sp is present.
func (l *List) Has(sp Species) bool { return l.index(sp) >= 0 }

// Moles returns the moles of sp, or 0 when absent.
func (l *List) Moles(sp Species) float32 {
	if i := l.index(sp); i >= 0 {
		return l.entries[i].Moles
	}
	return 0
}

// Total sums the moles of every species.
func (l *List) Total() float32 {
	var total float32
	for _, e := range l.entries {
		total += e.Moles
	}
	return total
}

// HeatCapacity sums moles × molar heat capacity.
func (l *List) HeatCapacity() float32 {
	var total float32
	for _, e := range l.entries {
		total += e.Moles * e.MolarHeatCapacity
	}
	return total
}

// Change adds delta moles of sp. New species get DefaultMolarHeatCapacity.
func (l *List) Change(sp Species, delta float32) {
	l.write(sp, delta, DefaultMolarHeatCapacity, true)
}

// Set replaces the moles of sp.
func (l *List) Set(sp Species, moles float32) {
	l.write(sp, moles, DefaultMolarHeatCapacity, false)
}

// Add adds delta moles of sp, using molarHeatCapacity if the species is new.
func (l *List) Add(sp Species, delta, molarHeatCapacity float32) {
	l.write(sp, delta, molarHeatCapacity, true)
}

// Multiply scales the moles of sp by factor.
func (l *List) Multiply(sp Species, factor float32) {
	if i := l.index(sp); i >= 0 {
		l.Set(sp, l.entries[i].Moles*factor)
	}
}

// Divide divides the moles of sp by factor. A factor of approximately zero
// is ignored.
func (l *List) Divide(sp Species, factor float32) {
	if Approx(factor, 0) {
		return
	}
	if i := l.index(sp); i >= 0 {
		l.Set(sp, l.entries[i].Moles/factor)
	}
}

// MultiplyAll scales every species by factor.
func (l *List) MultiplyAll(factor float32) {
	for i := len(l.entries) - 1; i >= 0; i-- {
		l.Multiply(l.entries[i].Species, factor)
	}
}

// DivideAll divides every species by factor. A factor of approximately
// zero is ignored.
func (l *List) DivideAll(factor float32) {
	if Approx(factor, 0) {
		return
	}
	for i := len(l.entries) - 1; i >= 0; i-- {
		l.Divide(l.entries[i].Species, factor)
	}
}

// Merge adds every species of other into l. other is left untouched.
func (l *List) Merge(other *List) {
	for i := len(other.entries) - 1; i >= 0; i-- {
		e := other.entries[i]
		l.Add(e.Species, e.Moles, e.MolarHeatCapacity)
	}
}

// CopyFrom overwrites l with the rows of other, reusing l's storage.
func (l *List) CopyFrom(other *List) {
	l.entries = append(l.entries[:0], other.entries...)
}

// Clone returns an independent copy.
func (l *List) Clone() List {
	return List{entries: append([]Entry(nil), l.entries...)}
}

// Clear removes every species.
func (l *List) Clear() {
	l.entries = l.entries[:0]
}

func (l *List) write(sp Species, moles, molarHeatCapacity float32, isChange bool) {
	if i := l.index(sp); i >= 0 {
		value := moles
		if isChange {
			value += l.entries[i].Moles
		}
		if value <= MinPressureDifference {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return
		}
		l.entries[i].Moles = value
		return
	}

	if moles < 0 {
		return
	}
	if Approx(moles, 0) || moles <= MinPressureDifference {
		return
	}
	if molarHeatCapacity <= 0 {
		molarHeatCapacity = DefaultMolarHeatCapacity
	}
	l.entries = append(l.entries, Entry{Species: sp, Moles: moles, MolarHeatCapacity: molarHeatCapacity})
}
