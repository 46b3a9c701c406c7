package station

import (
	"image/color"
	"math"
	"strconv"

	"atmos-ca/internal/core"
	"atmos-ca/internal/gas"
)

// View selects which field the display buffer encodes.
type View uint8

const (
	ViewPressure View = iota
	ViewTemperature
	ViewConductivity
	ViewActivity
	viewCount
)

func (v View) String() string {
	switch v {
	case ViewPressure:
		return "pressure"
	case ViewTemperature:
		return "temperature"
	case ViewConductivity:
		return "conductivity"
	case ViewActivity:
		return "activity"
	default:
		return "unknown"
	}
}

const (
	displaySpace    = 1
	displayWall     = 2
	displayDormant  = 3
	displayIdle     = 4
	displayTried    = 5
	displayUpdated  = 6
	displayGradient = 8
	gradientLevels  = 64

	// onePressure is one standard atmosphere in kPa.
	onePressure    = 101.325
	pressureCeil   = 2 * onePressure
	temperatureMax = 2000
)

var stationPalette = buildStationPalette()

// Palette exposes the color palette used for rendering the station.
func (w *World) Palette() []color.RGBA {
	return stationPalette
}

// View returns the field currently shown.
func (w *World) View() View { return w.view }

// SetView switches the displayed field.
func (w *World) SetView(v View) {
	if v >= viewCount {
		v = ViewPressure
	}
	w.view = v
	w.rebuildDisplay()
}

// CycleView advances to the next field and returns its name.
func (w *World) CycleView() string {
	w.SetView((w.view + 1) % viewCount)
	return w.view.String()
}

// Legend names the palette entries used by the current view.
func (w *World) Legend() core.Legend {
	switch w.view {
	case ViewTemperature:
		return core.Legend{Title: "Gas temperature", Entries: append(temperatureEntries(), core.LegendEntry{Index: displayWall, Label: "wall"}, core.LegendEntry{Index: displaySpace, Label: "space"})}
	case ViewConductivity:
		return core.Legend{Title: "Solid temperature", Entries: append(temperatureEntries(), core.LegendEntry{Index: displaySpace, Label: "space"})}
	case ViewActivity:
		return core.Legend{Title: "Activity", Entries: []core.LegendEntry{
			{Index: displayUpdated, Label: "updated"},
			{Index: displayTried, Label: "tried"},
			{Index: displayIdle, Label: "active"},
			{Index: displayDormant, Label: "dormant"},
			{Index: displaySpace, Label: "space"},
		}}
	default:
		return core.Legend{Title: "Pressure", Entries: []core.LegendEntry{
			{Index: gradientIndex(0), Label: "0 kPa"},
			{Index: gradientIndex(0.5), Label: strconv.FormatFloat(onePressure, 'f', 1, 64) + " kPa"},
			{Index: gradientIndex(1), Label: strconv.FormatFloat(pressureCeil, 'f', 1, 64) + "+ kPa"},
			{Index: displayWall, Label: "wall"},
			{Index: displaySpace, Label: "space"},
		}}
	}
}

func temperatureEntries() []core.LegendEntry {
	temps := [...]float32{gas.SpaceTemperature, gas.DefaultTemperature, temperatureMax}
	entries := make([]core.LegendEntry, 0, len(temps))
	for _, t := range temps {
		entries = append(entries, core.LegendEntry{
			Index: gradientIndex(temperatureLevel(t)),
			Label: strconv.FormatFloat(float64(t), 'f', 1, 32) + " K",
		})
	}
	return entries
}

func buildStationPalette() []color.RGBA {
	palette := make([]color.RGBA, displayGradient+gradientLevels)
	palette[0] = color.RGBA{A: 255}
	palette[displaySpace] = color.RGBA{R: 6, G: 6, B: 18, A: 255}
	palette[displayWall] = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	palette[displayDormant] = color.RGBA{R: 24, G: 28, B: 40, A: 255}
	palette[displayIdle] = color.RGBA{R: 40, G: 90, B: 140, A: 255}
	palette[displayTried] = color.RGBA{R: 200, G: 180, B: 60, A: 255}
	palette[displayUpdated] = color.RGBA{R: 240, G: 80, B: 60, A: 255}
	for i := 0; i < gradientLevels; i++ {
		palette[displayGradient+i] = gradientColor(float64(i) / float64(gradientLevels-1))
	}
	return palette
}

// gradientColor runs blue → green → yellow → red over [0, 1].
func gradientColor(t float64) color.RGBA {
	stops := [...]color.RGBA{
		{R: 20, G: 30, B: 120, A: 255},
		{R: 30, G: 160, B: 90, A: 255},
		{R: 230, G: 210, B: 50, A: 255},
		{R: 220, G: 40, B: 30, A: 255},
	}
	if t <= 0 {
		return stops[0]
	}
	if t >= 1 {
		return stops[len(stops)-1]
	}
	pos := t * float64(len(stops)-1)
	i := int(pos)
	f := pos - float64(i)
	a, b := stops[i], stops[i+1]
	return color.RGBA{
		R: uint8(float64(a.R)*(1-f) + float64(b.R)*f + 0.5),
		G: uint8(float64(a.G)*(1-f) + float64(b.G)*f + 0.5),
		B: uint8(float64(a.B)*(1-f) + float64(b.B)*f + 0.5),
		A: 255,
	}
}

func gradientIndex(t float64) uint8 {
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return uint8(displayGradient + int(t*float64(gradientLevels-1)+0.5))
}

// temperatureLevel maps a temperature onto [0, 1] on a log scale so that
// room temperature and a plasma fire are both readable.
func temperatureLevel(t float32) float64 {
	lo := math.Log(gas.SpaceTemperature)
	hi := math.Log(temperatureMax)
	v := math.Log(math.Max(float64(t), gas.SpaceTemperature))
	return (v - lo) / (hi - lo)
}

func (w *World) encodeCell(i int) uint8 {
	s := &w.snap
	if s.Space[i] {
		return displaySpace
	}
	switch w.view {
	case ViewTemperature:
		if s.Solid[i] {
			return displayWall
		}
		return gradientIndex(temperatureLevel(s.Temperature[i]))
	case ViewConductivity:
		return gradientIndex(temperatureLevel(s.SolidTemperature[i]))
	case ViewActivity:
		switch {
		case s.Updated[i]:
			return displayUpdated
		case s.Tried[i]:
			return displayTried
		case s.Active[i]:
			return displayIdle
		default:
			return displayDormant
		}
	default:
		if s.Solid[i] {
			return displayWall
		}
		return gradientIndex(float64(s.Pressure[i]) / pressureCeil)
	}
}

func (w *World) rebuildDisplay() {
	cells := w.display.Cells()
	if len(w.snap.Space) != len(cells) {
		w.display.Fill(0)
		return
	}
	for i := range cells {
		cells[i] = w.encodeCell(i)
	}
}
