package gas

import "math"

// Mix holds the aggregate thermodynamic state of a tile, pipe or vessel.
// Moles, WholeHeatCapacity and InternalEnergy are derived from the owning
// List and are only trustworthy after Recalculate.
type Mix struct {
	// Moles in mol.
	Moles float32 `json:"moles"`
	// Pressure in kPa.
	Pressure float32 `json:"pressure"`
	// Volume in m³.
	Volume float32 `json:"volume"`
	// Temperature in K.
	Temperature float32 `json:"temperature"`
	// WholeHeatCapacity in J/K.
	WholeHeatCapacity float32 `json:"whole_heat_capacity"`
	// InternalEnergy in J.
	InternalEnergy float32 `json:"internal_energy"`
}

// NewMix builds a mix for list with the given pressure, volume and
// temperature, deriving the aggregates from the list.
func NewMix(list *List, pressure, volume, temperature float32) Mix {
	m := Mix{Pressure: pressure, Volume: volume, Temperature: temperature}
	m.Recalculate(list)
	return m
}

// DefaultMix is an empty room-temperature tile mix.
func DefaultMix(list *List) Mix {
	return NewMix(list, 0, TileVolume, DefaultTemperature)
}

// Recalculate rebuilds Moles, WholeHeatCapacity and InternalEnergy from list.
func (m *Mix) Recalculate(list *List) {
	m.Moles = 0
	m.WholeHeatCapacity = 0
	m.InternalEnergy = 0

	if list != nil {
		for _, e := range list.entries {
			m.Moles += e.Moles
			m.WholeHeatCapacity += e.MolarHeatCapacity * e.Moles
		}
	}
	if isNaN32(m.Moles) {
		m.Moles = 0
	}
	m.InternalEnergy = m.WholeHeatCapacity * m.Temperature
}

// RecalculatePressure rebuilds the aggregates and then the pressure.
func (m *Mix) RecalculatePressure(list *List) {
	m.Recalculate(list)
	m.CalcPressure()
}

// CalcPressure derives Pressure from volume, moles and temperature.
func (m *Mix) CalcPressure() {
	m.Pressure = CalcPressure(m.Volume, m.Moles, m.Temperature)
}

// CalcVolume derives Volume from pressure, moles and temperature.
func (m *Mix) CalcVolume() {
	m.Volume = CalcVolume(m.Pressure, m.Moles, m.Temperature)
}

// CalcMoles derives Moles from pressure, volume and temperature.
func (m *Mix) CalcMoles() {
	m.Moles = CalcMoles(m.Pressure, m.Volume, m.Temperature)
}

// CalcTemperature derives Temperature from pressure, volume and moles.
func (m *Mix) CalcTemperature() {
	m.Temperature = CalcTemperature(m.Pressure, m.Volume, m.Moles)
}

// SetTemperature stores t, never below SpaceTemperature, and refreshes the
// energy and pressure.
func (m *Mix) SetTemperature(list *List, t float32) {
	if t < SpaceTemperature || isNaN32(t) {
		t = SpaceTemperature
	}
	m.Temperature = t
	m.RecalculatePressure(list)
}

// SetPressure stores p and derives the temperature from it.
func (m *Mix) SetPressure(list *List, p float32) {
	m.Recalculate(list)
	m.Pressure = p
	m.CalcTemperature()
	m.InternalEnergy = m.WholeHeatCapacity * m.Temperature
}

// Void empties list and resets the mix to vacuum.
func (m *Mix) Void(list *List) {
	list.Clear()
	*m = NewMix(list, 0, 0, SpaceTemperature)
}

// CalcPressure returns n·R·T/V in kPa, or 0 when any operand is not positive.
func CalcPressure(volume, moles, temperature float32) float32 {
	if temperature > 0 && moles > 0 && volume > 0 {
		return moles * R * temperature / volume / 1000
	}
	return 0
}

// CalcVolume returns n·R·T/P in m³ for P in kPa, or 0 when any operand is
// not positive.
func CalcVolume(pressure, moles, temperature float32) float32 {
	if temperature > 0 && pressure > 0 && moles > 0 {
		return moles * R * temperature / pressure / 1000
	}
	return 0
}

// CalcMoles returns P·V/(R·T), or 0 when any operand is not positive.
func CalcMoles(pressure, volume, temperature float32) float32 {
	if temperature > 0 && pressure > 0 && volume > 0 {
		return pressure * volume / (R * temperature) * 1000
	}
	return 0
}

// CalcTemperature returns P·V/(R·n), or SpaceTemperature when any operand
// is not positive.
func CalcTemperature(pressure, volume, moles float32) float32 {
	if volume > 0 && pressure > 0 && moles > 0 {
		return pressure * volume / (R * moles) * 1000
	}
	return SpaceTemperature
}

// HarmonicWeight returns a·b/(a+b), the damping factor used for every heat
// exchange. It returns 0 when the sum is not positive.
func HarmonicWeight(a, b float32) float32 {
	sum := a + b
	if sum <= 0 {
		return 0
	}
	return a * b / sum
}

func isNaN32(v float32) bool {
	return math.IsNaN(float64(v))
}
