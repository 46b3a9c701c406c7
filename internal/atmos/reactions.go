package atmos

import (
	"math"
	"sync"

	"atmos-ca/internal/gas"
	"atmos-ca/internal/grid"
)

// Reaction mutates a tile's gas once its rule bounds hold.
type Reaction interface {
	React(registry *gas.Registry, tile *grid.Tile, mix *gas.Mix, list *gas.List)
}

// ReactionFunc adapts a function to Reaction.
type ReactionFunc func(registry *gas.Registry, tile *grid.Tile, mix *gas.Mix, list *gas.List)

// React calls f.
func (f ReactionFunc) React(registry *gas.Registry, tile *grid.Tile, mix *gas.Mix, list *gas.List) {
	f(registry, tile, mix, list)
}

// ReactionRule gates a Reaction on the tile's composition and state.
type ReactionRule struct {
	Name string
	// MinimumMoles lists the species that must be present and how much.
	MinimumMoles map[gas.Species]float32

	MinTemperature float32
	MaxTemperature float32
	MinPressure    float32
	MaxPressure    float32
	MinMoles       float32
	MaxMoles       float32

	Reaction Reaction
}

// Unbounded is the upper bound to use when a rule has no limit.
const Unbounded = math.MaxFloat32

// Applies reports whether every bound of r holds for the mix.
func (r *ReactionRule) Applies(mix *gas.Mix, list *gas.List) bool {
	if mix.Temperature < r.MinTemperature || mix.Temperature > r.MaxTemperature {
		return false
	}
	if mix.Pressure < r.MinPressure || mix.Pressure > r.MaxPressure {
		return false
	}
	if mix.Moles < r.MinMoles || mix.Moles > r.MaxMoles {
		return false
	}
	for sp, need := range r.MinimumMoles {
		if list.Moles(sp) < need {
			return false
		}
	}
	return true
}

// Reactions is the set of rules the reaction stage runs. Rules registered
// as base survive Reset.
type Reactions struct {
	mu    sync.RWMutex
	rules []ReactionRule
	base  []ReactionRule
}

// NewReactions returns an empty set.
func NewReactions() *Reactions { return &Reactions{} }

// DefaultReactions returns a set holding Combustion as a base rule.
func DefaultReactions() *Reactions {
	r := NewReactions()
	r.Add(Combustion(), true)
	return r
}

// Add appends rule. With base set it is also restored by Reset.
func (r *Reactions) Add(rule ReactionRule, base bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule)
	if base {
		r.base = append(r.base, rule)
	}
}

// Remove drops the rule named name and reports whether it was present.
func (r *Reactions) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rules {
		if r.rules[i].Name == name {
			r.rules = append(r.rules[:i], r.rules[i+1:]...)
			return true
		}
	}
	return false
}

// Reset drops every rule added at runtime and restores the base set.
func (r *Reactions) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules[:0], r.base...)
}

// All returns a copy of the current rules.
func (r *Reactions) All() []ReactionRule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]ReactionRule(nil), r.rules...)
}

// Len returns the number of current rules.
func (r *Reactions) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

// Plasma fire constants.
const (
	PlasmaMinimumBurnTemperature = gas.ZeroCelsius + 100
	PlasmaUpperBurnTemperature   = gas.ZeroCelsius + 1370
	OxygenBurnRate               = 1.4
	PlasmaBurnRateDelta          = 9
	PlasmaEnergyReleased         = 3000000
)

// Combustion burns plasma with oxygen into carbon dioxide and heats the mix
// with the released energy.
func Combustion() ReactionRule {
	return ReactionRule{
		Name: "combustion",
		MinimumMoles: map[gas.Species]float32{
			gas.Plasma: 0.01,
			gas.Oxygen: 0.01,
		},
		MinTemperature: PlasmaMinimumBurnTemperature,
		MaxTemperature: Unbounded,
		MaxPressure:    Unbounded,
		MaxMoles:       Unbounded,
		Reaction:       ReactionFunc(burnPlasma),
	}
}

func burnPlasma(registry *gas.Registry, _ *grid.Tile, mix *gas.Mix, list *gas.List) {
	scale := (mix.Temperature - PlasmaMinimumBurnTemperature) / (PlasmaUpperBurnTemperature - PlasmaMinimumBurnTemperature)
	scale = min(max(scale, 0), 1)
	if scale <= 0 {
		return
	}
	plasma := list.Moles(gas.Plasma)
	oxygen := list.Moles(gas.Oxygen)
	burned := min(plasma, oxygen/OxygenBurnRate) * scale / PlasmaBurnRateDelta
	if burned <= gas.MinPressureDifference {
		return
	}

	mix.Recalculate(list)
	energy := mix.InternalEnergy + burned*PlasmaEnergyReleased

	list.Change(gas.Plasma, -burned)
	list.Change(gas.Oxygen, -burned*OxygenBurnRate)
	registry.AddMoles(list, gas.CarbonDioxide, burned)

	mix.Recalculate(list)
	if mix.WholeHeatCapacity > 0 {
		mix.SetTemperature(list, energy/mix.WholeHeatCapacity)
		return
	}
	mix.RecalculatePressure(list)
}

// reactTile runs every applicable rule on an active, non-solid phase tile.
func (e *Engine) reactTile(h grid.Handle, b *grid.Batch) {
	s := e.store
	if !s.Active(h) {
		return
	}
	t := s.Tile(h)
	if t.IsSolid() {
		return
	}
	mix := s.Mix(h)
	list := s.Species(h)
	reacted := false
	for i := range e.rules {
		rule := &e.rules[i]
		if rule.Reaction == nil || !rule.Applies(mix, list) {
			continue
		}
		rule.Reaction.React(e.registry, t, mix, list)
		reacted = true
	}
	if reacted {
		b.Wake(h)
	}
}
