package main

import (
	"context"
	"time"

	"atmos-ca/internal/atmos"
	"atmos-ca/internal/blob"
	"atmos-ca/internal/config"
	"atmos-ca/internal/logging"
	"atmos-ca/internal/sims/station"

	"github.com/spf13/cobra"
)

// addSimulationFlags registers the flags that override the simulation
// section of the config.
func addSimulationFlags(cmd *cobra.Command) {
	cmd.Flags().String("scenario", "", "Scenario to build (breach, mix, fire, rooms, pipes)")
	cmd.Flags().Int64("seed", 0, "Seed for scenario generation")
	cmd.Flags().Int("width", 0, "Grid width in tiles")
	cmd.Flags().Int("height", 0, "Grid height in tiles")
	cmd.Flags().Int("workers", 0, "Worker goroutines per stage")
	cmd.Flags().Duration("tick-rate", -1, "Interval between ticks (0 runs flat out)")
}

func applySimulationFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Lookup("scenario") == nil {
		return nil
	}
	sim := &cfg.Simulation
	if flags.Changed("scenario") {
		sim.Scenario, _ = flags.GetString("scenario")
	}
	if flags.Changed("seed") {
		sim.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("width") {
		sim.Width, _ = flags.GetInt("width")
	}
	if flags.Changed("height") {
		sim.Height, _ = flags.GetInt("height")
	}
	if flags.Changed("workers") {
		sim.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("tick-rate") {
		sim.TickRate, _ = flags.GetDuration("tick-rate")
	}
	return nil
}

// engineParams maps the config onto engine parameters. Zero physics values
// keep the defaults.
func engineParams(cfg *config.Config) atmos.Params {
	p := atmos.DefaultParams()
	p.Workers = cfg.Simulation.Workers
	p.ChunkSize = cfg.Simulation.ChunkSize
	p.Reactions = cfg.Simulation.Reactions

	override := func(dst *float32, v float64) {
		if v > 0 {
			*dst = float32(v)
		}
	}
	ph := cfg.Physics
	override(&p.MinPressureDifference, ph.MinPressureDifference)
	override(&p.MinimumHeatCapacity, ph.MinimumHeatCapacity)
	override(&p.SpaceTemperature, ph.SpaceTemperature)
	override(&p.SpaceHeatCapacity, ph.SpaceHeatCapacity)
	override(&p.MinTempStartSuperconduction, ph.MinTempStartSuperconduction)
	override(&p.MinTempForSuperconduction, ph.MinTempForSuperconduction)
	override(&p.MinTempDelta, ph.MinTempDelta)
	override(&p.MCellWithRatio, ph.MCellWithRatio)
	return p
}

// stationConfig maps the config onto the station world.
func stationConfig(cfg *config.Config) station.Config {
	sc := station.DefaultConfig()
	sc.Width = cfg.Simulation.Width
	sc.Height = cfg.Simulation.Height
	sc.Seed = cfg.Simulation.Seed
	sc.Params.Scenario = cfg.Simulation.Scenario
	sc.Params.TickRateMS = int(cfg.Simulation.TickRate / time.Millisecond)
	sc.Params.Workers = cfg.Simulation.Workers
	sc.Params.Reactions = cfg.Simulation.Reactions
	params := engineParams(cfg)
	sc.Engine = &params
	return sc
}

// buildWorld generates the configured scenario. The returned tick logger is
// nil unless logging is at debug level or lower.
func (c *cli) buildWorld(observers ...atmos.Observer) (*station.World, *logging.TickLogger, error) {
	dir := c.cfg.Logging.Dir
	if dir == "" {
		dir = "."
	}
	ticks := logging.NewTickLogger(dir, c.cfg.Logging.Level)
	obs := observerList(observers)
	if ticks != nil {
		obs = append(obs, tickTrace{ticks})
	}

	var opts []atmos.Option
	if len(obs) > 0 {
		opts = append(opts, atmos.WithObserver(obs))
	}
	world := station.NewWithConfig(stationConfig(c.cfg), opts...)
	world.SetLogger(c.logger)
	world.Reset(0)
	if world.Engine() == nil {
		_ = ticks.Close()
		return nil, nil, errScenario(c.cfg.Simulation.Scenario)
	}
	return world, ticks, nil
}

func (c *cli) openBlob(ctx context.Context) (blob.Store, error) {
	b := c.cfg.Blob
	return blob.Open(ctx, blob.Options{
		Driver: b.Driver,
		Root:   b.Root,
		S3: blob.S3Options{
			Bucket:    b.S3.Bucket,
			Region:    b.S3.Region,
			Endpoint:  b.S3.Endpoint,
			Prefix:    b.S3.Prefix,
			PathStyle: b.S3.PathStyle,
		},
	})
}
