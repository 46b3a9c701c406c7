package gas

// Pool merges every species of src into dst. The pooled temperature is the
// mole-weighted mean of both sides unless they already match, in which case
// only the pressure is refreshed. src is left untouched.
func Pool(dst *List, dstMix *Mix, src *List, srcMix *Mix) {
	dstMoles := dstMix.Moles
	srcMoles := srcMix.Moles

	dst.Merge(src)
	dstMix.Recalculate(dst)

	if Approx(dstMix.Temperature, srcMix.Temperature) {
		dstMix.CalcPressure()
		return
	}
	total := dstMoles + srcMoles
	if total > 0 {
		dstMix.Temperature = (dstMix.Temperature*dstMoles + srcMix.Temperature*srcMoles) / total
	}
	dstMix.RecalculatePressure(dst)
}

// Transfer moves n moles from src to dst, taking every species in proportion
// to its share of src. dst ends at the energy-weighted temperature of what it
// held and what it received. It returns the moles actually moved.
func Transfer(dst *List, dstMix *Mix, src *List, srcMix *Mix, n float32) float32 {
	if n <= 0 || srcMix.Moles <= 0 {
		return 0
	}
	ratio := n / srcMix.Moles
	if ratio > 1 {
		ratio = 1
	}

	var moved, movedHeat float32
	for i := len(src.entries) - 1; i >= 0; i-- {
		e := src.entries[i]
		amount := e.Moles * ratio
		dst.Add(e.Species, amount, e.MolarHeatCapacity)
		src.Change(e.Species, -amount)
		moved += amount
		movedHeat += amount * e.MolarHeatCapacity
	}
	absorb(dstMix, movedHeat, srcMix.Temperature)
	dstMix.RecalculatePressure(dst)
	srcMix.RecalculatePressure(src)
	return moved
}

// TransferSpecified moves up to n moles of a single species from src to dst.
// It returns the moles actually moved.
func TransferSpecified(dst *List, dstMix *Mix, src *List, srcMix *Mix, sp Species, n float32) float32 {
	if n <= 0 {
		return 0
	}
	i := src.index(sp)
	if i < 0 {
		return 0
	}
	e := src.entries[i]
	if n > e.Moles {
		n = e.Moles
	}
	dst.Add(sp, n, e.MolarHeatCapacity)
	src.Change(sp, -n)

	absorb(dstMix, n*e.MolarHeatCapacity, srcMix.Temperature)
	dstMix.RecalculatePressure(dst)
	srcMix.RecalculatePressure(src)
	return n
}

// Merge spreads the combined contents of a and b across both in proportion to
// their volumes and settles both at the energy-weighted temperature.
func Merge(a *List, aMix *Mix, b *List, bMix *Mix) {
	totalVolume := aMix.Volume + bMix.Volume
	if totalVolume <= 0 {
		return
	}
	aMix.Recalculate(a)
	bMix.Recalculate(b)

	heat := aMix.WholeHeatCapacity + bMix.WholeHeatCapacity
	energy := aMix.InternalEnergy + bMix.InternalEnergy
	temperature := aMix.Temperature
	if heat > 0 {
		temperature = energy / heat
	}

	combined := a.Clone()
	combined.Merge(b)

	a.Clear()
	b.Clear()
	aShare := aMix.Volume / totalVolume
	bShare := bMix.Volume / totalVolume
	for _, e := range combined.entries {
		a.Add(e.Species, e.Moles*aShare, e.MolarHeatCapacity)
		b.Add(e.Species, e.Moles*bShare, e.MolarHeatCapacity)
	}

	aMix.SetTemperature(a, temperature)
	bMix.SetTemperature(b, temperature)
}

// absorb blends heat capacity arriving at temperature t into m, which must
// still carry its pre-transfer aggregates.
func absorb(m *Mix, heat, t float32) {
	total := m.WholeHeatCapacity + heat
	if total <= 0 {
		return
	}
	m.Temperature = (m.WholeHeatCapacity*m.Temperature + heat*t) / total
}
