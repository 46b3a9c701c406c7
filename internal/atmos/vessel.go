package atmos

import (
	"atmos-ca/internal/gas"
	"atmos-ca/internal/grid"
)

// Vessel is a handle-bound view over one record's gas for code outside the
// tick: machines, canisters, scenario setup. Every mutation recalculates the
// mix and wakes the record.
type Vessel struct {
	e *Engine
	h grid.Handle
}

// Vessel returns the vessel view of h. It panics on an invalid handle.
func (e *Engine) Vessel(h grid.Handle) *Vessel {
	if !e.store.Valid(h) {
		panic("atmos: invalid vessel handle")
	}
	return &Vessel{e: e, h: h}
}

// Handle returns the record the vessel is bound to.
func (v *Vessel) Handle() grid.Handle { return v.h }

func (v *Vessel) mix() *gas.Mix   { return v.e.store.Mix(v.h) }
func (v *Vessel) list() *gas.List { return v.e.store.Species(v.h) }

func (v *Vessel) read(fn func(m *gas.Mix, l *gas.List) float32) float32 {
	v.e.mu.RLock()
	defer v.e.mu.RUnlock()
	return fn(v.mix(), v.list())
}

func (v *Vessel) write(fn func(m *gas.Mix, l *gas.List)) {
	v.e.mu.Lock()
	defer v.e.mu.Unlock()
	fn(v.mix(), v.list())
	v.e.store.Wake(v.h)
}

func (v *Vessel) Temperature() float32 {
	return v.read(func(m *gas.Mix, _ *gas.List) float32 { return m.Temperature })
}

func (v *Vessel) Pressure() float32 {
	return v.read(func(m *gas.Mix, _ *gas.List) float32 { return m.Pressure })
}

func (v *Vessel) Volume() float32 {
	return v.read(func(m *gas.Mix, _ *gas.List) float32 { return m.Volume })
}

func (v *Vessel) Moles() float32 {
	return v.read(func(m *gas.Mix, _ *gas.List) float32 { return m.Moles })
}

func (v *Vessel) WholeHeatCapacity() float32 {
	return v.read(func(m *gas.Mix, _ *gas.List) float32 { return m.WholeHeatCapacity })
}

func (v *Vessel) InternalEnergy() float32 {
	return v.read(func(m *gas.Mix, _ *gas.List) float32 { return m.InternalEnergy })
}

// MolesOf returns the moles of a single species.
func (v *Vessel) MolesOf(sp gas.Species) float32 {
	return v.read(func(_ *gas.Mix, l *gas.List) float32 { return l.Moles(sp) })
}

// GasCount returns the number of species present.
func (v *Vessel) GasCount() int {
	return int(v.read(func(_ *gas.Mix, l *gas.List) float32 { return float32(l.Len()) }))
}

// PartialPressure returns the share of the pressure exerted by sp.
func (v *Vessel) PartialPressure(sp gas.Species) float32 {
	return v.read(func(m *gas.Mix, l *gas.List) float32 {
		if gas.Approx(m.Moles, 0) {
			return 0
		}
		return m.Pressure * l.Moles(sp) / m.Moles
	})
}

// SetTemperature sets the temperature, clamped to the space floor.
func (v *Vessel) SetTemperature(t float32) {
	v.write(func(m *gas.Mix, l *gas.List) { m.SetTemperature(l, t) })
}

// SetInternalEnergy sets the temperature that yields energy. It does nothing
// for an empty vessel.
func (v *Vessel) SetInternalEnergy(energy float32) {
	v.write(func(m *gas.Mix, l *gas.List) {
		m.Recalculate(l)
		if gas.Approx(m.WholeHeatCapacity, 0) {
			return
		}
		m.SetTemperature(l, energy/m.WholeHeatCapacity)
	})
}

// AddGas adds n moles of sp. Negative amounts are ignored.
func (v *Vessel) AddGas(sp gas.Species, n float32) {
	if n < 0 {
		return
	}
	v.write(func(m *gas.Mix, l *gas.List) {
		v.e.registry.AddMoles(l, sp, n)
		m.RecalculatePressure(l)
	})
}

// RemoveGas removes n moles of sp. Negative amounts are ignored.
func (v *Vessel) RemoveGas(sp gas.Species, n float32) {
	if n < 0 {
		return
	}
	v.write(func(m *gas.Mix, l *gas.List) {
		l.Change(sp, -n)
		m.RecalculatePressure(l)
	})
}

// RemoveMoles removes n moles, draining species in list order. Asking for
// at least everything empties the vessel.
func (v *Vessel) RemoveMoles(n float32) {
	if n <= 0 {
		return
	}
	v.write(func(m *gas.Mix, l *gas.List) {
		if n >= l.Total() {
			l.Clear()
			m.RecalculatePressure(l)
			return
		}
		entries := append([]gas.Entry(nil), l.Entries()...)
		for _, entry := range entries {
			if n <= 0 {
				break
			}
			take := min(n, entry.Moles)
			l.Change(entry.Species, -take)
			n -= take
		}
		m.RecalculatePressure(l)
	})
}

// MultiplyGases scales every species by f. The temperature is kept.
func (v *Vessel) MultiplyGases(f float32) {
	v.write(func(m *gas.Mix, l *gas.List) {
		l.MultiplyAll(f)
		m.RecalculatePressure(l)
	})
}

// DivideGases divides every species by f. A factor of about zero is ignored.
func (v *Vessel) DivideGases(f float32) {
	if gas.Approx(f, 0) {
		return
	}
	v.write(func(m *gas.Mix, l *gas.List) {
		l.DivideAll(f)
		m.RecalculatePressure(l)
	})
}

// Clear empties the vessel, keeping its volume and temperature.
func (v *Vessel) Clear() {
	v.write(func(m *gas.Mix, l *gas.List) {
		l.Clear()
		m.RecalculatePressure(l)
	})
}

// TransferGases moves n moles to target, every species in proportion. It
// returns the moles moved. Both vessels must belong to the same engine.
func (v *Vessel) TransferGases(target *Vessel, n float32) float32 {
	var moved float32
	v.pair(target, func(src, dst *gas.Mix, srcList, dstList *gas.List) {
		moved = gas.Transfer(dstList, dst, srcList, src, n)
	})
	return moved
}

// TransferSpecifiedTo moves up to n moles of sp to target and returns what
// was moved. Both vessels must belong to the same engine.
func (v *Vessel) TransferSpecifiedTo(target *Vessel, sp gas.Species, n float32) float32 {
	var moved float32
	v.pair(target, func(src, dst *gas.Mix, srcList, dstList *gas.List) {
		moved = gas.TransferSpecified(dstList, dst, srcList, src, sp, n)
	})
	return moved
}

// MergeGasVessel spreads the contents of both vessels by volume and settles
// them at one temperature.
func (v *Vessel) MergeGasVessel(other *Vessel) {
	v.pair(other, func(a, b *gas.Mix, aList, bList *gas.List) {
		gas.Merge(aList, a, bList, b)
	})
}

func (v *Vessel) pair(other *Vessel, fn func(a, b *gas.Mix, aList, bList *gas.List)) {
	if other.e != v.e {
		panic("atmos: vessels belong to different engines")
	}
	if other.h == v.h {
		return
	}
	v.e.mu.Lock()
	defer v.e.mu.Unlock()
	s := v.e.store
	fn(s.Mix(v.h), s.Mix(other.h), s.Species(v.h), s.Species(other.h))
	s.Wake(v.h)
	s.Wake(other.h)
}
