//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"atmos-ca/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type activityMaskProvider interface {
	TriedMask() []float32
	UpdatedMask() []float32
	DormantMask() []float32
}

type windFieldProvider interface {
	WindVectorAt(x, y float64) (float64, float64)
}

// Overlay draws toggleable debugging layers over the tile view:
// 1 wind, 2 tried-to-update, 3 updated, 4 dormant.
type Overlay struct {
	sim   core.Sim
	scale int

	showWind    bool
	showTried   bool
	showUpdated bool
	showDormant bool

	maskImg *ebiten.Image
	maskBuf []byte

	pixel          *ebiten.Image
	windSamples    []windSample
	windCacheW     int
	windCacheH     int
	windCacheScale int
}

type windSample struct {
	cx, cy float64
	sx, sy float64
}

var (
	triedTint   = color.RGBA{R: 255, G: 210, B: 80}
	updatedTint = color.RGBA{R: 90, G: 230, B: 120}
	dormantTint = color.RGBA{R: 70, G: 90, B: 200}
)

// NewOverlay constructs an overlay for sim drawn at scale.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: max(scale, 1)}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles layers from the number keys.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showWind = !o.showWind
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showTried = !o.showTried
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.showUpdated = !o.showUpdated
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit4) {
		o.showDormant = !o.showDormant
	}
}

// Draw renders the enabled layers onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}

	if provider, ok := o.sim.(activityMaskProvider); ok {
		if o.showDormant {
			o.drawMask(screen, provider.DormantMask(), dormantTint)
		}
		if o.showTried {
			o.drawMask(screen, provider.TriedMask(), triedTint)
		}
		if o.showUpdated {
			o.drawMask(screen, provider.UpdatedMask(), updatedTint)
		}
	}
	if o.showWind {
		if provider, ok := o.sim.(windFieldProvider); ok {
			o.drawWind(screen, provider, size)
		}
	}
}

func (o *Overlay) drawWind(screen *ebiten.Image, provider windFieldProvider, size core.Size) {
	o.ensureWindSamples(size)
	span := float64(windSpacing(size) * o.scale)
	length := span * 0.6
	thickness := math.Max(1, float64(o.scale)*0.8)
	for _, s := range o.windSamples {
		vx, vy := provider.WindVectorAt(s.cx, s.cy)
		speed := math.Hypot(vx, vy)
		if speed < 0.05 {
			o.drawPoint(screen, s.sx, s.sy, math.Max(1, float64(o.scale)*0.75), color.RGBA{R: 90, G: 130, B: 170, A: 120})
			continue
		}
		nx, ny := vx/speed, vy/speed
		col := windColor(speed / math.Sqrt2)
		tipX, tipY := s.sx+nx*length*0.5, s.sy+ny*length*0.5
		tailX, tailY := s.sx-nx*length*0.5, s.sy-ny*length*0.5
		o.drawLine(screen, tailX, tailY, tipX, tipY, thickness, col)

		head := length * 0.3
		angle := math.Atan2(ny, nx)
		for _, side := range []float64{math.Pi / 6, -math.Pi / 6} {
			o.drawLine(screen, tipX, tipY,
				tipX-math.Cos(angle+side)*head, tipY-math.Sin(angle+side)*head,
				thickness*0.85, col)
		}
	}
}

func (o *Overlay) ensureWindSamples(size core.Size) {
	if o.windCacheW == size.W && o.windCacheH == size.H && o.windCacheScale == o.scale && len(o.windSamples) > 0 {
		return
	}
	spacing := windSpacing(size)
	o.windSamples = o.windSamples[:0]
	for y := spacing / 2; y < size.H; y += spacing {
		for x := spacing / 2; x < size.W; x += spacing {
			cx, cy := float64(x)+0.5, float64(y)+0.5
			o.windSamples = append(o.windSamples, windSample{
				cx: cx, cy: cy,
				sx: cx * float64(o.scale), sy: cy * float64(o.scale),
			})
		}
	}
	o.windCacheW, o.windCacheH, o.windCacheScale = size.W, size.H, o.scale
}

func (o *Overlay) drawPoint(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x-size*0.5, y-size*0.5)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawMask(screen *ebiten.Image, mask []float32, tint color.RGBA) {
	size := o.sim.Size()
	total := size.W * size.H
	if len(mask) != total {
		return
	}
	if o.maskImg == nil || o.maskImg.Bounds().Dx() != size.W || o.maskImg.Bounds().Dy() != size.H {
		o.maskImg = ebiten.NewImage(size.W, size.H)
		o.maskBuf = make([]byte, 4*total)
	}
	fillMaskRGBA(o.maskBuf, mask, tint)
	o.maskImg.WritePixels(o.maskBuf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(o.scale), float64(o.scale))
	screen.DrawImage(o.maskImg, op)
}
