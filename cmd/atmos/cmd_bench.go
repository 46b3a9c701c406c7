package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"atmos-ca/internal/atmos"
	"atmos-ca/internal/sims/station"

	"github.com/spf13/cobra"
)

type benchResult struct {
	scenario string
	workers  int
	ticks    int
	elapsed  time.Duration
	moles    float32
	active   int
	woken    int
}

func newBenchCmd(c *cli) *cobra.Command {
	var (
		ticks     int
		scenarios []string
		workers   []int
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time scenarios across worker counts",
		Long: `Run each scenario flat out for a fixed number of ticks and report the
time per tick for every worker count.

Examples:
  atmos bench --ticks 200
  atmos bench --scenarios breach,rooms --workers-sweep 1,2,4,8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(scenarios) == 0 {
				scenarios = station.Scenarios()
			}
			if len(workers) == 0 {
				workers = []int{c.cfg.Simulation.Workers}
			}
			out := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(out, "SCENARIO\tWORKERS\tTICKS\tPER TICK\tWOKEN\tACTIVE\tMOLES")
			for _, name := range scenarios {
				for _, n := range workers {
					res, err := c.bench(cmd, name, n, ticks)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s\t%d\t%d\t%v\t%d\t%d\t%.1f\n",
						res.scenario, res.workers, res.ticks,
						(res.elapsed / time.Duration(max(res.ticks, 1))).Round(time.Microsecond),
						res.woken, res.active, res.moles)
				}
			}
			return out.Flush()
		},
	}
	addSimulationFlags(cmd)
	cmd.Flags().IntVar(&ticks, "ticks", 200, "Ticks per run")
	cmd.Flags().StringSliceVar(&scenarios, "scenarios", nil, "Scenarios to run (default all)")
	cmd.Flags().IntSliceVar(&workers, "workers-sweep", nil, "Worker counts to compare (default the configured count)")
	return cmd
}

func (c *cli) bench(cmd *cobra.Command, scenario string, workers, ticks int) (benchResult, error) {
	cfg := *c.cfg
	cfg.Simulation.Scenario = scenario
	cfg.Simulation.Workers = workers
	cfg.Simulation.TickRate = 0
	sub := &cli{cfg: &cfg, logger: c.logger}

	obs := &benchObserver{}
	world, trace, err := sub.buildWorld(obs)
	if err != nil {
		return benchResult{}, err
	}
	defer func() { _ = trace.Close() }()

	start := time.Now()
	if err := world.Advance(cmd.Context(), ticks); err != nil {
		return benchResult{}, err
	}
	elapsed := time.Since(start)
	moles, active := world.Snapshot().Totals()
	return benchResult{
		scenario: scenario,
		workers:  workers,
		ticks:    ticks,
		elapsed:  elapsed,
		moles:    moles,
		active:   active,
		woken:    obs.woken,
	}, nil
}

// benchObserver totals the wake transitions of a run.
type benchObserver struct {
	woken int
}

func (*benchObserver) ObserveStage(string, time.Duration) {}

func (b *benchObserver) ObserveTick(stats atmos.TickStats) { b.woken += stats.Woken }
