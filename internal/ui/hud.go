//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"strings"

	"atmos-ca/internal/core"
	"atmos-ca/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

type parameterProvider interface {
	Parameters() core.ParameterSnapshot
}

var (
	panelColor  = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	headerColor = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	textColor   = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dimColor    = color.RGBA{R: 160, G: 160, B: 170, A: 255}
)

// HUD renders the panel to the right of the simulation view: live readings,
// the adjustable knobs and a legend for the current view.
type HUD struct {
	sim   core.Sim
	width int
	title string

	panel      *ebiten.Image
	pixel      *ebiten.Image
	lastHeight int

	params      parameterProvider
	status      core.StatusProvider
	legend      core.LegendProvider
	palette     render.PaletteProvider
	intSetter   core.IntParameterSetter
	floatSetter core.FloatParameterSetter

	controls     []controlState
	statusLines  []core.StatusLine
	legendNow    core.Legend
	statusRows   int
	panelOffsetX int
}

type controlState struct {
	control  core.ParameterControl
	value    float64
	hasValue bool

	minusRect image.Rectangle
	plusRect  image.Rectangle
}

// NewHUD constructs a HUD for the provided simulation and panel width.
func NewHUD(sim core.Sim, width int) *HUD {
	h := &HUD{sim: sim, width: max(width, 0), title: buildTitle(sim)}
	if h.width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	h.params, _ = sim.(parameterProvider)
	h.status, _ = sim.(core.StatusProvider)
	h.legend, _ = sim.(core.LegendProvider)
	h.palette, _ = sim.(render.PaletteProvider)
	h.intSetter, _ = sim.(core.IntParameterSetter)
	h.floatSetter, _ = sim.(core.FloatParameterSetter)

	if h.status != nil {
		h.statusLines = h.status.Status()
		h.statusRows = h.countStatusRows()
	}
	if provider, ok := sim.(core.ParameterControlsProvider); ok {
		for _, ctrl := range provider.ParameterControls() {
			h.controls = append(h.controls, controlState{control: ctrl})
		}
	}
	h.layoutControls()
	return h
}

// Update refreshes the readings and parameter values, then handles clicks.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.panelOffsetX = panelOffsetX
	if h.status != nil {
		h.statusLines = h.status.Status()
		if rows := h.countStatusRows(); rows != h.statusRows {
			h.statusRows = rows
			h.layoutControls()
		}
	}
	if h.legend != nil {
		h.legendNow = h.legend.Legend()
	}
	if h.params != nil {
		h.refreshControlValues(h.params.Parameters())
	}
	h.handleInput()
}

// Draw paints the HUD panel anchored to the right edge of the simulation view.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	height := h.sim.Size().H * max(scale, 1)
	if height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(panelColor)

	face := basicfont.Face7x13
	text.Draw(h.panel, h.title, face, panelPadding, panelPadding+headerBaseline, headerColor)
	h.drawStatus()
	h.drawControls()
	h.drawLegend()

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func buildTitle(sim core.Sim) string {
	if sim == nil || sim.Name() == "" {
		return "Controls"
	}
	name := sim.Name()
	return strings.ToUpper(name[:1]) + name[1:]
}

func (h *HUD) textWidth() int {
	return (h.width - 2*panelPadding) / 7
}

func (h *HUD) countStatusRows() int {
	rows := 0
	for _, line := range h.statusLines {
		rows += len(statusText(line, h.textWidth()))
	}
	return rows
}

func (h *HUD) refreshControlValues(snap core.ParameterSnapshot) {
	values := map[string]string{}
	for _, group := range snap.Groups {
		for _, param := range group.Params {
			values[param.Key] = param.Value
		}
	}
	for i := range h.controls {
		state := &h.controls[i]
		raw, ok := values[state.control.Key]
		if !ok {
			state.hasValue = false
			continue
		}
		state.value, state.hasValue = parseControlValue(state.control, raw)
	}
}

func (h *HUD) handleInput() {
	if len(h.controls) == 0 || !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return
	}
	pt := image.Pt(mx-h.panelOffsetX, my)
	for i := range h.controls {
		state := &h.controls[i]
		switch {
		case pt.In(state.minusRect):
			h.adjust(state, -1)
			return
		case pt.In(state.plusRect):
			h.adjust(state, 1)
			return
		}
	}
}

func (h *HUD) adjust(state *controlState, direction int) {
	if !h.canAdjust(state, direction) {
		return
	}
	target, _ := controlStep(state.control, state.value, direction)
	var applied bool
	switch state.control.Type {
	case core.ParamTypeInt:
		applied = h.intSetter.SetIntParameter(state.control.Key, int(target))
	case core.ParamTypeFloat:
		applied = h.floatSetter.SetFloatParameter(state.control.Key, target)
	}
	if applied {
		state.value = target
	}
}

func (h *HUD) canAdjust(state *controlState, direction int) bool {
	if !state.hasValue {
		return false
	}
	switch state.control.Type {
	case core.ParamTypeInt:
		if h.intSetter == nil {
			return false
		}
	case core.ParamTypeFloat:
		if h.floatSetter == nil {
			return false
		}
	default:
		return false
	}
	_, moves := controlStep(state.control, state.value, direction)
	return moves
}

func (h *HUD) layoutControls() {
	if h.width <= 0 {
		return
	}
	top := controlsTop(h.statusRows)
	for i := range h.controls {
		rowTop := top + i*lineHeight
		buttonY := rowTop + (lineHeight-buttonSize)/2
		plus := image.Rect(h.width-panelPadding-buttonSize, buttonY, h.width-panelPadding, buttonY+buttonSize)
		minus := image.Rect(plus.Min.X-buttonGap-buttonSize, buttonY, plus.Min.X-buttonGap, buttonY+buttonSize)
		h.controls[i].minusRect = minus
		h.controls[i].plusRect = plus
	}
}

func (h *HUD) drawStatus() {
	face := basicfont.Face7x13
	y := statusTop()
	for _, line := range h.statusLines {
		for _, row := range statusText(line, h.textWidth()) {
			text.Draw(h.panel, row, face, panelPadding, y, dimColor)
			y += statusLine
		}
	}
}

func (h *HUD) drawControls() {
	face := basicfont.Face7x13
	if len(h.controls) == 0 {
		text.Draw(h.panel, "No adjustable parameters", face, panelPadding, controlsTop(h.statusRows)+labelBaseline, dimColor)
		return
	}
	top := controlsTop(h.statusRows)
	for i := range h.controls {
		state := &h.controls[i]
		y := top + i*lineHeight + labelBaseline
		text.Draw(h.panel, state.control.Label, face, panelPadding, y, textColor)

		value, valueColor := "--", dimColor
		if state.hasValue {
			value, valueColor = formatControlValue(state.control, state.value), textColor
		}
		x := state.minusRect.Min.X - buttonGap - text.BoundString(face, value).Dx()
		text.Draw(h.panel, value, face, x, y, valueColor)

		h.drawButton(state.minusRect, "-", h.canAdjust(state, -1))
		h.drawButton(state.plusRect, "+", h.canAdjust(state, 1))
	}
}

// drawLegend shows a swatch per palette entry of the current view.
func (h *HUD) drawLegend() {
	if len(h.legendNow.Entries) == 0 || h.palette == nil {
		return
	}
	palette := h.palette.Palette()
	face := basicfont.Face7x13
	y := legendTop(h.statusRows, len(h.controls))
	text.Draw(h.panel, h.legendNow.Title, face, panelPadding, y, headerColor)
	for _, entry := range h.legendNow.Entries {
		y += statusLine
		if int(entry.Index) < len(palette) {
			swatch := image.Rect(panelPadding, y-swatchSize, panelPadding+swatchSize, y)
			h.fillRect(swatch, palette[entry.Index])
		}
		text.Draw(h.panel, entry.Label, face, panelPadding+swatchSize+buttonGap, y, dimColor)
	}
}

func (h *HUD) fillRect(rect image.Rectangle, c color.Color) {
	if h.pixel == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(c)
	h.panel.DrawImage(h.pixel, op)
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	h.fillRect(rect, bg)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}
