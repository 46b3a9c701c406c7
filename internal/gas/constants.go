package gas

// Physical constants and thresholds shared by the mix engine and the tick
// passes. Units: kPa, m³, K, J/K.
const (
	// R is the ideal gas constant in J/(K·mol).
	R = 8.3144598

	// ZeroCelsius is 0°C expressed in Kelvin.
	ZeroCelsius = 273.15

	// TileVolume is the volume of a single open tile.
	TileVolume = 2.5

	// MinPressureDifference is both the pressure delta that counts as a
	// change and the mole count at or below which a species is dropped.
	MinPressureDifference = 0.0001

	// MinimumHeatCapacity gates heat exchange between a solid and its gas.
	MinimumHeatCapacity = 0.0003

	// SpaceTemperature is the absolute floor for every temperature.
	SpaceTemperature = 2.7

	// SpaceHeatCapacity is the heat sink a solid radiates into when it
	// borders space.
	SpaceHeatCapacity = 7000

	// MinTempStartSuperconduction is the bar a solid node must clear to
	// start a cascade.
	MinTempStartSuperconduction = ZeroCelsius + 220

	// MinTempForSuperconduction keeps an already conducting node alive.
	MinTempForSuperconduction = ZeroCelsius + 30

	// MinTempDelta is the smallest temperature delta worth exchanging.
	MinTempDelta = 0.5

	// MCellWithRatio is the minimum solid heat capacity that can take part
	// in superconduction.
	MCellWithRatio = 0.52

	// DefaultMolarHeatCapacity is used for species added without registry info.
	DefaultMolarHeatCapacity = 20

	// DefaultTemperature is room temperature (20°C).
	DefaultTemperature = ZeroCelsius + 20
)

const epsilon32 = 1.1920929e-7

// Approx reports whether a and b are equal within a relative tolerance of
// 1e-6 or eight float32 epsilons, whichever is larger.
func Approx(a, b float32) bool {
	diff := abs32(a - b)
	tol := 1e-6 * max(abs32(a), abs32(b))
	if tol < epsilon32*8 {
		tol = epsilon32 * 8
	}
	return diff < tol
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
