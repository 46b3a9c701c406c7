package gas

import (
	"sort"
	"strconv"
	"strings"
)

// Species identifies a gas type.
type Species uint8

const (
	Oxygen Species = iota
	Nitrogen
	CarbonDioxide
	Plasma
	WaterVapor
	NitrousOxide
)

// Info carries the per-species constants used when a species enters a mix.
type Info struct {
	ID   Species
	Name string

	// MolarHeatCapacity is the energy needed to raise one mole by one Kelvin (J/K/mol).
	MolarHeatCapacity float32
	// MolarMass is the mass of one mole in grams.
	MolarMass float32
	// FusionPower weights the species in fusion reactions.
	FusionPower int
}

// Registry maps species ids to their Info. It is written during setup and
// only read while ticks run.
type Registry struct {
	infos map[Species]Info
}

// NewRegistry returns a registry holding the provided species.
func NewRegistry(infos ...Info) *Registry {
	r := &Registry{infos: make(map[Species]Info, len(infos))}
	for _, info := range infos {
		r.Register(info)
	}
	return r
}

// DefaultRegistry returns the standard station gases.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Info{ID: Oxygen, Name: "oxygen", MolarHeatCapacity: 20, MolarMass: 32},
		Info{ID: Nitrogen, Name: "nitrogen", MolarHeatCapacity: 20, MolarMass: 28},
		Info{ID: CarbonDioxide, Name: "carbon_dioxide", MolarHeatCapacity: 30, MolarMass: 44, FusionPower: 3},
		Info{ID: Plasma, Name: "plasma", MolarHeatCapacity: 200, MolarMass: 40},
		Info{ID: WaterVapor, Name: "water_vapor", MolarHeatCapacity: 40, MolarMass: 18, FusionPower: 8},
		Info{ID: NitrousOxide, Name: "nitrous_oxide", MolarHeatCapacity: 40, MolarMass: 44, FusionPower: 10},
	)
}

// Register adds or replaces a species.
func (r *Registry) Register(info Info) {
	if r.infos == nil {
		r.infos = map[Species]Info{}
	}
	r.infos[info.ID] = info
}

// Lookup returns the Info for id.
func (r *Registry) Lookup(id Species) (Info, bool) {
	if r == nil {
		return Info{}, false
	}
	info, ok := r.infos[id]
	return info, ok
}

// ByName finds a species by its case-insensitive name.
func (r *Registry) ByName(name string) (Info, bool) {
	if r == nil {
		return Info{}, false
	}
	for _, info := range r.infos {
		if strings.EqualFold(info.Name, name) {
			return info, true
		}
	}
	return Info{}, false
}

// MolarHeatCapacity returns the heat capacity for id, falling back to
// DefaultMolarHeatCapacity for unknown species.
func (r *Registry) MolarHeatCapacity(id Species) float32 {
	if info, ok := r.Lookup(id); ok && info.MolarHeatCapacity > 0 {
		return info.MolarHeatCapacity
	}
	return DefaultMolarHeatCapacity
}

// All returns every registered species ordered by id.
func (r *Registry) All() []Info {
	if r == nil {
		return nil
	}
	out := make([]Info, 0, len(r.infos))
	for _, info := range r.infos {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Name returns the registered name for id or a numeric placeholder.
func (r *Registry) Name(id Species) string {
	if info, ok := r.Lookup(id); ok && info.Name != "" {
		return info.Name
	}
	return "gas_" + strconv.Itoa(int(id))
}

// AddMoles adds n moles of id to list using the registered heat capacity.
func (r *Registry) AddMoles(list *List, id Species, n float32) {
	list.Add(id, n, r.MolarHeatCapacity(id))
}
