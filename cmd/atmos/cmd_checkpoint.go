package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"atmos-ca/internal/persistence/sqlite"
	"atmos-ca/internal/sims/station"

	"github.com/spf13/cobra"
)

func newCheckpointCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkpoint",
		Short: "Inspect and export stored checkpoints",
	}
	cmd.AddCommand(
		newCheckpointListCmd(c),
		newCheckpointExportCmd(c),
		newCheckpointDeleteCmd(c),
	)
	return cmd
}

func (c *cli) openCheckpoints(cmd *cobra.Command) (*sqlite.Store, error) {
	if c.cfg.Checkpoint.Path == "" {
		return nil, errors.New("checkpoint.path is not configured")
	}
	return sqlite.Open(cmd.Context(), c.cfg.Checkpoint.Path)
}

func newCheckpointListCmd(c *cli) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored checkpoints, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openCheckpoints(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"checkpoints": entries,
					"total_count": len(entries),
				})
			}
			if len(entries) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No checkpoints in %s\n", store.Path())
				return nil
			}
			out := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(out, "ID\tSCENARIO\tTICK\tSIZE\tCREATED")
			for _, e := range entries {
				fmt.Fprintf(out, "%s\t%s\t%d\t%dx%d\t%s\n",
					e.ID, e.Scenario, e.Tick, e.Width, e.Height, e.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return out.Flush()
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newCheckpointExportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "export <id>",
		Short: "Copy a checkpoint to blob storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openCheckpoints(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entry, cp, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("checkpoint %s: %w", args[0], err)
			}
			key := exportKey(entry.Scenario, entry.ID, entry.Tick)
			if err := c.export(cmd.Context(), key, entry.Scenario, entry.Tick, &cp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %s\n", key)
			return nil
		},
	}
}

func newCheckpointDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openCheckpoints(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ok, err := store.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("checkpoint %s: %w", args[0], sqlite.ErrNotFound)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func newScenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the built-in scenarios",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range station.Scenarios() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}
