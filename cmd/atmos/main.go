// Command atmos runs the headless gas simulation: long runs with periodic
// checkpoints, benchmarks, and a websocket/metrics server.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"atmos-ca/internal/config"
	"atmos-ca/internal/logging"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

// cli carries the state shared by every subcommand once flags are parsed.
type cli struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	rootCmd := &cobra.Command{
		Use:   "atmos",
		Short: "Tile gas and heat simulation",
		Long: `atmos simulates gas pressure and heat flowing across a tile grid.

Scenarios are generated from a seed, ticked on a phase scheduler, and can be
checkpointed to SQLite, exported to blob storage, or streamed over websockets.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.configPath, "config", "", "Path to a YAML config file (default ./atmos.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Override the log level (error, warn, info, debug, trace)")

	rootCmd.AddCommand(
		newRunCmd(c),
		newBenchCmd(c),
		newServeCmd(c),
		newCheckpointCmd(c),
		newScenariosCmd(),
	)
	return rootCmd
}

func (c *cli) load(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Logging.Level = c.logLevel
	}
	if err := applySimulationFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	c.cfg = cfg
	c.logger = logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
	return nil
}
