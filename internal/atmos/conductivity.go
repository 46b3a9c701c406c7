package atmos

import (
	"atmos-ca/internal/gas"
	"atmos-ca/internal/grid"
)

// conductSolid runs the solid network pass for one phase tile: radiation to
// space, solid to solid exchange and the superconduction cascade.
func (e *Engine) conductSolid(h grid.Handle, b *grid.Batch) {
	s := e.store
	if !s.Active(h) {
		return
	}
	p := &e.params
	c := s.Conductivity(h)
	if !c.Conducting() {
		return
	}

	threshold := p.MinTempForSuperconduction
	if c.StartingSuperconduct {
		threshold = p.MinTempStartSuperconduction
	}
	if c.Temperature < threshold {
		c.StartingSuperconduct = false
		c.AllowedToSuperconduct = false
		return
	}
	if c.HeatCapacity < p.MCellWithRatio {
		return
	}
	c.AllowedToSuperconduct = true

	for _, n := range s.Neighbors(h) {
		if n == grid.NoHandle {
			continue
		}
		if s.Tile(n).IsSpace() {
			e.radiateToSpace(c)
			continue
		}
		nc := s.Conductivity(n)
		if e.conductBetween(c, nc) && nc.Temperature >= p.MinTempStartSuperconduction {
			nc.AllowedToSuperconduct = true
			b.Wake(n)
		}
	}

	if c.Temperature < p.MinTempForSuperconduction {
		c.StartingSuperconduct = false
		c.AllowedToSuperconduct = false
	}
}

// radiateToSpace bleeds heat from a warm solid into the space sink.
func (e *Engine) radiateToSpace(c *grid.Conductivity) {
	p := &e.params
	if c.Temperature <= gas.ZeroCelsius {
		return
	}
	if c.HeatCapacity <= 0 {
		return
	}
	delta := c.Temperature - p.SpaceTemperature
	if abs32(delta) <= p.MinTempDelta {
		return
	}
	heat := c.ThermalConductivity * delta * gas.HarmonicWeight(c.HeatCapacity, p.SpaceHeatCapacity)
	c.Temperature -= heat / c.HeatCapacity
}

// conductBetween moves heat from a to b, weighted by b's conductivity. It
// reports whether any heat moved.
func (e *Engine) conductBetween(a, b *grid.Conductivity) bool {
	p := &e.params
	delta := a.Temperature - b.Temperature
	if abs32(delta) <= p.MinTempDelta {
		return false
	}
	if a.HeatCapacity <= 0 || b.HeatCapacity <= 0 {
		return false
	}
	heat := b.ThermalConductivity * delta * gas.HarmonicWeight(a.HeatCapacity, b.HeatCapacity)
	a.Temperature -= heat / a.HeatCapacity
	b.Temperature += heat / b.HeatCapacity
	return true
}

// conductTile exchanges heat between a tile's solid state and its own gas.
func (e *Engine) conductTile(h grid.Handle, _ *grid.Batch) {
	s := e.store
	if !s.Active(h) {
		return
	}
	t := s.Tile(h)
	if t.IsSolid() && !t.IsIsolated() {
		return
	}
	p := &e.params
	c := s.Conductivity(h)
	mix := s.Mix(h)

	delta := c.Temperature - mix.Temperature
	if abs32(delta) <= p.MinTempDelta {
		return
	}
	if mix.WholeHeatCapacity <= p.MinimumHeatCapacity || c.HeatCapacity <= p.MinimumHeatCapacity {
		return
	}

	heat := c.ThermalConductivity * delta * gas.HarmonicWeight(c.HeatCapacity, mix.WholeHeatCapacity)
	c.Temperature = max(c.Temperature-heat/c.HeatCapacity, p.SpaceTemperature)
	mix.SetTemperature(s.Species(h), max(mix.Temperature+heat/mix.WholeHeatCapacity, p.SpaceTemperature))

	if c.Temperature >= p.MinTempStartSuperconduction && !c.AllowedToSuperconduct {
		c.AllowedToSuperconduct = true
		c.StartingSuperconduct = true
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
