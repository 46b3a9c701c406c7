package main

import (
	"context"
	"errors"
	"time"

	"atmos-ca/internal/sims/station"
)

// runLoop advances world until ctx ends or limit ticks have run. A zero
// limit runs until ctx ends. after is called with the engine tick after every
// tick. A cancelled ctx is a normal stop, not an error.
func runLoop(ctx context.Context, world *station.World, tickRate time.Duration, limit int, after func(tick uint64) error) error {
	var tick <-chan time.Time
	if tickRate > 0 {
		ticker := time.NewTicker(tickRate)
		defer ticker.Stop()
		tick = ticker.C
	}

	for ran := 0; limit == 0 || ran < limit; ran++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-tick:
			}
		} else if ctx.Err() != nil {
			return nil
		}
		if err := world.Advance(ctx, 1); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		if after != nil {
			if err := after(world.Engine().Tick()); err != nil {
				return err
			}
		}
	}
	return nil
}
