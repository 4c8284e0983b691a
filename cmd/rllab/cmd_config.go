package main

import (
	"fmt"

	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/simulation"
	"github.com/spf13/cobra"
	"github.com/tochemey/goakt/v3/log"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as JSON",
		Long: `Print the configuration the other commands would use, defaults filled in.

Examples:
  rllab config                        # defaults
  rllab config --config rllab.yml     # a file merged over the defaults
  rllab config --validate rllab.yml   # only check a file`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path, _ := cmd.Flags().GetString("validate"); path != "" {
				cfg, err := simulation.LoadConfig(path)
				if err != nil {
					return err
				}
				// the schema cannot see reachability or duplicate starts
				if _, err := simulation.NewEngines(cfg, log.DiscardLogger); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			b, err := cfg.JSON()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}
	cmd.Flags().String("validate", "", "Validate this file and exit")
	return cmd
}
