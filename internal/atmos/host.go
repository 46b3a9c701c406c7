package atmos

import (
	"context"
	"time"

	"atmos-ca/internal/core"
)

// DefaultTickRate is the interval between ticks when none is configured.
const DefaultTickRate = 100 * time.Millisecond

// Host decides when the engine ticks. It gathers frame time and fires a tick
// once a full interval has passed, but only while Active is set.
type Host struct {
	Active bool

	engine *Engine
	timer  *core.FixedStep
}

// NewHost wraps e with a tick-rate gate. The host starts inactive.
func NewHost(e *Engine, tickRate time.Duration) *Host {
	if tickRate < 0 {
		tickRate = DefaultTickRate
	}
	return &Host{engine: e, timer: core.NewInterval(tickRate)}
}

// Engine returns the wrapped engine.
func (h *Host) Engine() *Engine { return h.engine }

// TickRate returns the configured interval.
func (h *Host) TickRate() time.Duration { return h.timer.Step() }

// SetTickRate changes the interval for later updates.
func (h *Host) SetTickRate(d time.Duration) { h.timer.SetStep(d) }

// Update adds dt and runs a tick when the gate opens. It reports whether a
// tick ran.
func (h *Host) Update(ctx context.Context, dt time.Duration) (bool, error) {
	if !h.Active {
		return false, nil
	}
	if !h.timer.Elapse(dt) {
		return false, nil
	}
	if _, err := h.engine.AdvanceTick(ctx); err != nil {
		return false, err
	}
	return true, nil
}
