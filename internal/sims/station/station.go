package station

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"atmos-ca/internal/atmos"
	"atmos-ca/internal/core"
	"atmos-ca/internal/grid"
	"atmos-ca/internal/logging"
	"atmos-ca/pkg/rng"
)

// World runs one atmos engine over a generated station layout and exposes it
// as a core.Sim.
type World struct {
	cfg  Config
	opts []atmos.Option

	w, h int

	engine *atmos.Engine
	host   *atmos.Host
	layout *layout

	doorsOpen bool
	view      View
	snap      atmos.Snapshot
	display   *core.ByteGrid

	logger *slog.Logger
	rng    *rng.RNG
}

// New returns a station simulation with the provided dimensions using defaults.
func New(w, h int) *World {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return NewWithConfig(cfg)
}

// NewWithConfig returns a station world configured from the provided
// options. The engine is built on the first Reset.
func NewWithConfig(cfg Config, opts ...atmos.Option) *World {
	return &World{
		cfg:     cfg,
		opts:    opts,
		w:       cfg.Width,
		h:       cfg.Height,
		display: core.NewByteGrid(cfg.Width, cfg.Height),
		logger:  logging.Discard(),
		rng:     rng.New(cfg.Seed),
	}
}

// SetLogger replaces the logger used for scenario events.
func (w *World) SetLogger(l *slog.Logger) {
	if l != nil {
		w.logger = l
	}
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "atmos" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.w, H: w.h} }

// Cells exposes the current display buffer.
func (w *World) Cells() []uint8 { return w.display.Cells() }

// Config returns the active configuration.
func (w *World) Config() Config { return w.cfg }

// Engine returns the running engine, or nil before the first successful Reset.
func (w *World) Engine() *atmos.Engine { return w.engine }

// Host returns the tick gate.
func (w *World) Host() *atmos.Host { return w.host }

// Snapshot returns the copy taken after the last step.
func (w *World) Snapshot() *atmos.Snapshot { return &w.snap }

// Reset rebuilds the scenario using deterministic randomness.
func (w *World) Reset(seed int64) {
	if err := w.reset(seed); err != nil {
		w.logger.Error("reset failed", "scenario", w.cfg.Params.Scenario, "err", err)
	}
}

func (w *World) reset(seed int64) error {
	if w.w == 0 || w.h == 0 {
		return nil
	}
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	w.rng = rng.New(effective)

	build, ok := scenarios[w.cfg.Params.Scenario]
	if !ok {
		build = buildBreach
	}
	l, err := build(w.cfg, w.rng)
	if err != nil {
		return err
	}

	params := atmos.DefaultParams()
	if w.cfg.Engine != nil {
		params = *w.cfg.Engine
	}
	params.Workers = max(w.cfg.Params.Workers, 1)
	params.Reactions = w.cfg.Params.Reactions
	opts := append([]atmos.Option{atmos.WithLogger(w.logger)}, w.opts...)
	engine, err := atmos.New(l.store, params, opts...)
	if err != nil {
		return err
	}

	w.engine = engine
	w.layout = l
	w.doorsOpen = false
	w.host = atmos.NewHost(engine, w.tickRate())
	w.host.Active = true
	w.refresh()
	w.logger.Info("scenario ready",
		"scenario", w.cfg.Params.Scenario,
		"seed", effective,
		"records", l.store.Len(),
	)
	return nil
}

func (w *World) tickRate() time.Duration {
	return time.Duration(w.cfg.Params.TickRateMS) * time.Millisecond
}

func (w *World) frame() time.Duration {
	return time.Duration(max(w.cfg.Params.FrameMS, 1)) * time.Millisecond
}

// Step feeds one frame of time to the host and runs the scenario scripts
// after every tick.
func (w *World) Step() {
	if w.host == nil {
		return
	}
	ran, err := w.host.Update(context.Background(), w.frame())
	if err != nil {
		w.logger.Error("tick failed", "err", err)
		return
	}
	if !ran {
		return
	}
	w.afterTick()
	w.refresh()
}

// Advance runs n ticks immediately, ignoring the host's tick rate.
func (w *World) Advance(ctx context.Context, n int) error {
	if w.engine == nil {
		return nil
	}
	for i := 0; i < n; i++ {
		if _, err := w.engine.AdvanceTick(ctx); err != nil {
			return err
		}
		w.afterTick()
	}
	w.refresh()
	return nil
}

// Restore loads cp into the running engine. The checkpoint must come from the
// same scenario and size, since the scenario scripts keep their handles.
func (w *World) Restore(cp atmos.Checkpoint) error {
	if w.engine == nil {
		return fmt.Errorf("restore before reset")
	}
	if cp.Width != w.w || cp.Height != w.h {
		return fmt.Errorf("checkpoint is %dx%d, world is %dx%d", cp.Width, cp.Height, w.w, w.h)
	}
	if err := w.engine.Restore(cp); err != nil {
		return err
	}
	w.doorsOpen = len(w.layout.doors) > 0 && cp.Tick >= uint64(w.cfg.Params.DoorOpenTick)
	w.refresh()
	return nil
}

func (w *World) afterTick() {
	l := w.layout
	if !w.doorsOpen && len(l.doors) > 0 && w.engine.Tick() >= uint64(w.cfg.Params.DoorOpenTick) {
		w.engine.Edit(func(s *grid.Store) {
			for _, d := range l.doors {
				openTile(s, d)
				s.Wake(d)
				for _, n := range s.Neighbors(d) {
					if n != grid.NoHandle {
						s.Wake(n)
					}
				}
			}
		})
		w.doorsOpen = true
		w.logger.Info("doors opened", "tick", w.engine.Tick(), "count", len(l.doors))
	}
	if l.pump != nil && w.cfg.Params.PumpRate > 0 {
		from := w.engine.Vessel(l.pump.from)
		to := w.engine.Vessel(l.pump.to)
		from.TransferGases(to, float32(w.cfg.Params.PumpRate))
	}
}

func (w *World) refresh() {
	w.snap = w.engine.Snapshot()
	w.rebuildDisplay()
}

func init() {
	core.Register("atmos", func(cfg map[string]string) core.Sim {
		c := FromMap(cfg)
		return NewWithConfig(c)
	})
}
