package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/flock"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/gridworld"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/multiagent"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/stream"
	"github.com/spf13/cobra"
	"github.com/tochemey/goakt/v3/log"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	addr := os.Getenv(envAddr)
	if addr == "" {
		addr = ":8080"
	}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve every engine over websockets",
		Long: `serve runs the three engines, each in its own actor ticked by its own clock,
and streams their snapshots to websocket clients.

  GET /api/engines    engine names
  GET /ws/{engine}    snapshot frames; send {"type": "run"} to start`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			addr, _ := cmd.Flags().GetString("addr")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, addr, logger)
		},
	}
	cmd.Flags().String("addr", addr, "Listen address")
	return cmd
}

// serve blocks until ctx is cancelled or a component fails.
func serve(ctx context.Context, cfg *simulation.Config, addr string, logger log.Logger) error {
	engines, err := simulation.NewEngines(cfg, logger)
	if err != nil {
		return err
	}
	system, err := simulation.NewSystem(ctx, "rllab-serve", logger)
	if err != nil {
		return err
	}
	defer func() { _ = system.Stop(context.Background()) }()

	gwCh := make(chan gridworld.Snapshot, 4)
	maCh := make(chan multiagent.Snapshot, 4)
	flCh := make(chan flock.Snapshot, 4)
	mailboxes := simulation.Mailboxes{}
	if mailboxes[simulation.EngineGridWorld], err = simulation.SpawnEngine[gridworld.Snapshot](ctx, system, simulation.EngineGridWorld, engines.GridWorld, gwCh); err != nil {
		return err
	}
	if mailboxes[simulation.EngineMultiAgent], err = simulation.SpawnEngine[multiagent.Snapshot](ctx, system, simulation.EngineMultiAgent, engines.MultiAgent, maCh); err != nil {
		return err
	}
	if mailboxes[simulation.EngineFlock], err = simulation.SpawnEngine[flock.Snapshot](ctx, system, simulation.EngineFlock, engines.Flock, flCh); err != nil {
		return err
	}

	hub := stream.NewHub(logger)
	server := stream.NewServer(hub, mailboxes, logger)

	group, groupCtx := errgroup.WithContext(ctx)
	done := groupCtx.Done()
	group.Go(func() error {
		hub.Run(done,
			stream.Source(done, simulation.EngineGridWorld, gwCh),
			stream.Source(done, simulation.EngineMultiAgent, maCh),
			stream.Source(done, simulation.EngineFlock, flCh))
		return nil
	})
	for name, pid := range mailboxes {
		interval := cfg.Intervals.Of(name)
		group.Go(func() error {
			return simulation.RunClock(groupCtx, interval, pid)
		})
	}
	group.Go(func() error {
		return server.ListenAndServe(groupCtx, addr)
	})
	return group.Wait()
}
