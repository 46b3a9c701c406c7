package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atmos-ca/internal/metrics"
	"atmos-ca/internal/stream"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(c *cli) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a scenario and stream frames over websockets",
		Long: `Run a scenario continuously, broadcasting frames on /ws and exposing
Prometheus metrics on /metrics.

Examples:
  atmos serve --scenario rooms --addr :9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.cfg.Stream.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ln, err := net.Listen("tcp", c.cfg.Stream.Addr)
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}
			return c.serve(ctx, ln)
		},
	}
	addSimulationFlags(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides stream.addr)")
	return cmd
}

// serve owns ln and returns once ctx ends and the server has shut down.
func (c *cli) serve(ctx context.Context, ln net.Listener) error {
	obs := metrics.New()
	world, trace, err := c.buildWorld(obs)
	if err != nil {
		_ = ln.Close()
		return err
	}
	defer func() { _ = trace.Close() }()

	hub := stream.NewHub(c.logger)
	mux := http.NewServeMux()
	mux.Handle("/metrics", obs.Handler())
	mux.Handle("/ws", hub)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	c.logger.Info("serving", "addr", ln.Addr().String(), "scenario", world.Config().Params.Scenario)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		hub.Close()
		shutdown, cancel := context.WithTimeout(context.WithoutCancel(gctx), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	})
	g.Go(func() error {
		interval := uint64(c.cfg.Stream.Interval)
		if err := hub.Broadcast(stream.NewFrame(world.Snapshot())); err != nil {
			return err
		}
		err := runLoop(gctx, world, c.cfg.Simulation.TickRate, 0, func(tick uint64) error {
			if tick%interval != 0 {
				return nil
			}
			return hub.Broadcast(stream.NewFrame(world.Snapshot()))
		})
		if err != nil {
			return err
		}
		// The loop only stops on cancellation; make sure the others follow.
		return gctx.Err()
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
