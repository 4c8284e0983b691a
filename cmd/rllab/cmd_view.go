package main

import (
	"context"

	"github.com/lao-tseu-is-alive/go-rl-playground/internal/viewer"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/simulation"
	"github.com/spf13/cobra"
)

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "view <gridworld|multiagent|flock>",
		Short:     "Open an engine in a window with its control panel",
		Args:      cobra.ExactArgs(1),
		ValidArgs: simulation.EngineNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctx := context.Background()
			system, err := simulation.NewSystem(ctx, "rllab-view", logger)
			if err != nil {
				return err
			}
			defer func() { _ = system.Stop(ctx) }()

			game, err := viewer.New(ctx, system, cfg, args[0], logger)
			if err != nil {
				return err
			}
			return viewer.Run(game)
		},
	}
}
