package main

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/simulation"
	"github.com/spf13/cobra"
	"github.com/tochemey/goakt/v3/log"
)

const (
	envConfig   = "RLLAB_CONFIG"
	envLogLevel = "RLLAB_LOG_LEVEL"
	envAddr     = "RLLAB_ADDR"
)

func main() {
	for _, envFile := range []string{".env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rllab",
		Short: "Reinforcement learning and swarm playground",
		Long: `rllab runs three small simulations: a Q-learning agent in a grid world,
several Q-learning agents sharing a grid, and a boids flock.

Each can run headless, in a window, or behind a websocket server.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", os.Getenv(envConfig), "Configuration file (.json, .yaml or .yml)")
	rootCmd.PersistentFlags().String("log-level", os.Getenv(envLogLevel), "Log level: debug, info or error (overrides the file)")

	rootCmd.AddCommand(
		newRunCmd(),
		newViewCmd(),
		newServeCmd(),
		newConfigCmd(),
	)
	return rootCmd
}

// loadConfig reads --config when set, the defaults otherwise, then applies --log-level.
func loadConfig(cmd *cobra.Command) (*simulation.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg := simulation.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = simulation.LoadConfig(path); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	return cfg, nil
}

func newLogger(cfg *simulation.Config, w io.Writer) (log.Logger, error) {
	return simulation.NewLogger(cfg.LogLevel, w)
}
