package atmos

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"atmos-ca/internal/gas"
	"atmos-ca/internal/grid"
	"atmos-ca/internal/logging"
)

// Stage names reported to observers and logs.
const (
	StageReset          = "reset"
	StageConductivity   = "conductivity"
	StageTileConduction = "tile_conduction"
	StagePipeEqualize   = "pipe_equalize"
	StageTileEqualize   = "tile_equalize"
	StageDeactivate     = "deactivate"
	StageReactions      = "reactions"
)

// Stages lists the stage names in execution order.
var Stages = []string{
	StageReset,
	StageConductivity,
	StageTileConduction,
	StagePipeEqualize,
	StageTileEqualize,
	StageDeactivate,
	StageReactions,
}

// TickStats summarises one completed tick.
type TickStats struct {
	Tick     uint64
	Phase    Cursor
	Active   int
	Dormant  int
	Updated  int
	Woken    int
	Slept    int
	Duration time.Duration
}

// Observer receives timings as ticks run. Implementations must be cheap; they
// are called on the tick goroutine.
type Observer interface {
	ObserveStage(stage string, d time.Duration)
	ObserveTick(stats TickStats)
}

// Wind is the clamped direction gas was pushed from a tile on its last
// equalisation, each axis in -1..1.
type Wind struct {
	X int8 `json:"x"`
	Y int8 `json:"y"`
}

// Engine runs the staged tick over a Store.
type Engine struct {
	mu sync.RWMutex

	store     *grid.Store
	params    Params
	registry  *gas.Registry
	reactions *Reactions
	logger    *slog.Logger
	observer  Observer

	cursor Cursor
	tick   uint64

	rules []ReactionRule

	records []grid.Handle
	tiles   buckets
	pipes   buckets
	wind    []Wind

	pool *workerPool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes engine logs to l.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver registers o for stage and tick timings.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithRegistry sets the species registry used by reactions and vessels.
func WithRegistry(r *gas.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithReactions replaces the reaction set.
func WithReactions(r *Reactions) Option {
	return func(e *Engine) {
		if r != nil {
			e.reactions = r
		}
	}
}

// New builds an engine over store. The phase buckets are computed once here,
// so records must not be added to store afterwards.
func New(store *grid.Store, params Params, opts ...Option) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		store:     store,
		params:    params,
		registry:  gas.DefaultRegistry(),
		reactions: DefaultReactions(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.index()
	e.pool = newWorkerPool(params.Workers, params.ChunkSize)
	return e, nil
}

func (e *Engine) index() {
	e.records = e.records[:0]
	e.records = append(e.records, e.store.Handles(grid.KindTile)...)
	e.records = append(e.records, e.store.Handles(grid.KindPipe)...)
	e.tiles = buildBuckets(e.store, grid.KindTile)
	e.pipes = buildBuckets(e.store, grid.KindPipe)
	e.wind = make([]Wind, e.store.Len())
}

// Store returns the backing arena. Callers must not touch it while a tick is
// running.
func (e *Engine) Store() *grid.Store { return e.store }

// Edit runs fn with exclusive access to the store between ticks. Records
// must not be added from fn.
func (e *Engine) Edit(fn func(s *grid.Store)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.store)
}

// Registry returns the species registry.
func (e *Engine) Registry() *gas.Registry { return e.registry }

// Reactions returns the reaction set.
func (e *Engine) Reactions() *Reactions { return e.reactions }

// Params returns the current parameters.
func (e *Engine) Params() Params {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.params
}

// SetParams swaps the parameters used by later ticks.
func (e *Engine) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.params = p
	e.pool = newWorkerPool(p.Workers, p.ChunkSize)
	return nil
}

// Tick returns the number of completed ticks.
func (e *Engine) Tick() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tick
}

// Cursor returns the phase the next tick will run.
func (e *Engine) Cursor() Cursor {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursor
}

// AdvanceTick runs one full tick. ctx is only checked before the tick
// starts; once running, every stage completes.
func (e *Engine) AdvanceTick(ctx context.Context) (TickStats, error) {
	if err := ctx.Err(); err != nil {
		return TickStats{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	stats := TickStats{Tick: e.tick + 1, Phase: e.cursor}
	idx := e.cursor.Index()

	e.stage(ctx, &stats, StageReset, e.records, e.resetRecord)
	e.stage(ctx, &stats, StageConductivity, e.tiles[idx], e.conductSolid)
	e.stage(ctx, &stats, StageTileConduction, e.tiles[idx], e.conductTile)
	e.stage(ctx, &stats, StagePipeEqualize, e.pipes[idx], e.equalizePipe)
	e.stage(ctx, &stats, StageTileEqualize, e.tiles[idx], e.equalizeTile)
	e.stage(ctx, &stats, StageDeactivate, e.tiles[idx], e.deactivateTile)
	if e.params.Reactions {
		e.rules = e.reactions.All()
	} else {
		e.rules = e.rules[:0]
	}
	if len(e.rules) > 0 {
		e.stage(ctx, &stats, StageReactions, e.tiles[idx], e.reactTile)
	}

	for _, h := range e.tiles[idx] {
		if e.store.Update(h).Updated {
			stats.Updated++
		}
	}
	for _, h := range e.records {
		if e.store.Active(h) {
			stats.Active++
		} else {
			stats.Dormant++
		}
	}

	e.cursor.Advance()
	e.tick++
	stats.Duration = time.Since(start)

	e.logger.Debug("tick",
		"tick", stats.Tick,
		"phase_x", stats.Phase.X,
		"phase_y", stats.Phase.Y,
		"active", stats.Active,
		"updated", stats.Updated,
		"duration", stats.Duration,
	)
	if e.observer != nil {
		e.observer.ObserveTick(stats)
	}
	return stats, nil
}

func (e *Engine) stage(ctx context.Context, stats *TickStats, name string, handles []grid.Handle, fn func(grid.Handle, *grid.Batch)) {
	start := time.Now()
	woken, slept := e.pool.run(e.store, handles, fn)
	stats.Woken += woken
	stats.Slept += slept
	d := time.Since(start)
	e.logger.Log(ctx, logging.LevelTrace, "stage",
		"name", name,
		"records", len(handles),
		"woken", woken,
		"slept", slept,
		"duration", d,
	)
	if e.observer != nil {
		e.observer.ObserveStage(name, d)
	}
}

// resetRecord clears the per-tick flags of an active record.
func (e *Engine) resetRecord(h grid.Handle, _ *grid.Batch) {
	if !e.store.Active(h) {
		return
	}
	u := e.store.Update(h)
	if e.cursor.Matches(u) {
		u.Updated = false
	}
	u.TriedToUpdate = false
}

// deactivateTile queues a phase tile for sleep once nothing moved it.
func (e *Engine) deactivateTile(h grid.Handle, b *grid.Batch) {
	if !e.store.Active(h) {
		return
	}
	if e.store.Update(h).Updated {
		return
	}
	if e.store.Conductivity(h).Conducting() {
		return
	}
	b.Sleep(h)
}

// Wind returns the last wind vector of h.
func (e *Engine) Wind(h grid.Handle) Wind {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.wind[h]
}
