package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"atmos-ca/internal/atmos"
	"atmos-ca/internal/blob"
	"atmos-ca/internal/persistence/sqlite"
	"atmos-ca/internal/sims/station"

	"github.com/spf13/cobra"
)

func newRunCmd(c *cli) *cobra.Command {
	var (
		ticks  int
		resume bool
		export bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a scenario headless",
		Long: `Run a scenario without a window, checkpointing to SQLite as configured.

Examples:
  atmos run --scenario breach --ticks 500
  atmos run --scenario fire --tick-rate 0 --ticks 2000 --export
  atmos run --resume`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.run(ctx, cmd, ticks, resume, export)
		},
	}
	addSimulationFlags(cmd)
	cmd.Flags().IntVar(&ticks, "ticks", 0, "Ticks to run (0 runs until interrupted)")
	cmd.Flags().BoolVar(&resume, "resume", false, "Restore the latest checkpoint of the scenario before running")
	cmd.Flags().BoolVar(&export, "export", false, "Export the final checkpoint to blob storage")
	return cmd
}

func (c *cli) run(ctx context.Context, cmd *cobra.Command, ticks int, resume, export bool) error {
	world, trace, err := c.buildWorld()
	if err != nil {
		return err
	}
	defer func() { _ = trace.Close() }()

	var store *sqlite.Store
	if c.cfg.Checkpoint.Path != "" {
		store, err = sqlite.Open(ctx, c.cfg.Checkpoint.Path)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
	}

	scenario := world.Config().Params.Scenario
	if resume {
		if store == nil {
			return errors.New("--resume needs checkpoint.path")
		}
		if err := resumeLatest(ctx, store, world); err != nil {
			return err
		}
	}

	every := uint64(c.cfg.Checkpoint.Every)
	err = runLoop(ctx, world, c.cfg.Simulation.TickRate, ticks, func(tick uint64) error {
		if store == nil || every == 0 || tick%every != 0 {
			return nil
		}
		entry, err := store.Save(ctx, scenario, world.Engine().Checkpoint())
		if err != nil {
			return err
		}
		c.logger.Debug("checkpoint saved", "id", entry.ID, "tick", tick)
		return nil
	})
	if err != nil {
		return err
	}

	// The run context may be cancelled by now; the final save must still land.
	final := context.WithoutCancel(ctx)
	cp := world.Engine().Checkpoint()
	id := ""
	if store != nil {
		entry, err := store.Save(final, scenario, cp)
		if err != nil {
			return err
		}
		id = entry.ID
	}
	if export {
		key := exportKey(scenario, id, cp.Tick)
		if err := c.export(final, key, scenario, cp.Tick, &cp); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported %s\n", key)
	}

	moles, active := world.Snapshot().Totals()
	fmt.Fprintf(cmd.OutOrStdout(), "%s: tick %d, %.2f mol, %d active tiles\n", scenario, cp.Tick, moles, active)
	if id != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "checkpoint %s\n", id)
	}
	return nil
}

func resumeLatest(ctx context.Context, store *sqlite.Store, world *station.World) error {
	_, cp, err := store.Latest(ctx, world.Config().Params.Scenario)
	if errors.Is(err, sqlite.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return world.Restore(cp)
}

func exportKey(scenario, id string, tick uint64) string {
	if id == "" {
		return fmt.Sprintf("checkpoints/%s/tick-%08d.json", scenario, tick)
	}
	return fmt.Sprintf("checkpoints/%s/%s.json", scenario, id)
}

func (c *cli) export(ctx context.Context, key, scenario string, tick uint64, cp *atmos.Checkpoint) error {
	store, err := c.openBlob(ctx)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := cp.Encode(&buf); err != nil {
		return err
	}
	_, err = store.Put(ctx, key, &buf, blob.PutOptions{
		ContentType: "application/json",
		Metadata: map[string]string{
			"scenario": scenario,
			"tick":     fmt.Sprint(tick),
		},
	})
	return err
}
