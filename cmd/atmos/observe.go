package main

import (
	"fmt"
	"time"

	"atmos-ca/internal/atmos"
	"atmos-ca/internal/logging"
)

// observerList fans engine callbacks out to several observers.
type observerList []atmos.Observer

func (l observerList) ObserveStage(stage string, d time.Duration) {
	for _, o := range l {
		o.ObserveStage(stage, d)
	}
}

func (l observerList) ObserveTick(stats atmos.TickStats) {
	for _, o := range l {
		o.ObserveTick(stats)
	}
}

// tickTrace writes one ticks.jsonl line per tick.
type tickTrace struct {
	log *logging.TickLogger
}

func (tickTrace) ObserveStage(string, time.Duration) {}

func (t tickTrace) ObserveTick(stats atmos.TickStats) {
	t.log.Log(map[string]any{
		"tick":        stats.Tick,
		"phase_x":     stats.Phase.X,
		"phase_y":     stats.Phase.Y,
		"active":      stats.Active,
		"dormant":     stats.Dormant,
		"updated":     stats.Updated,
		"woken":       stats.Woken,
		"slept":       stats.Slept,
		"duration_us": stats.Duration.Microseconds(),
	})
}

func errScenario(name string) error {
	return fmt.Errorf("scenario %q could not be built; see the log for details", name)
}
