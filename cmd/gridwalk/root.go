package main

import (
	"fmt"
	"os"

	"github.com/IlikeChooros/statetree/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "gridwalk",
		Short: "Walk a grid to the target with Monte Carlo tree search",
		Long: `gridwalk runs episodes of a walker on a bounded grid, choosing every step
with a Monte Carlo tree search that keeps its statistics between episodes.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "gridwalk.yaml", "path to the YAML config, missing file means defaults")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error), overrides the config")

	cmd.AddCommand(newRunCmd(opts), newConfigCmd(opts))
	return cmd
}

// Read the config and set up the global logger, callers validate
// the config after applying their own overrides
func (o *rootOptions) load() (config.Config, error) {
	cfg, err := config.Read(o.configPath)
	if err != nil {
		return cfg, err
	}
	if o.logLevel != "" {
		cfg.Observability.LogLevel = o.logLevel
	}

	level, err := zerolog.ParseLevel(cfg.Observability.LogLevel)
	if err != nil {
		return cfg, fmt.Errorf("%w: log level: %v", config.ErrInvalidConfig, err)
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	return cfg, nil
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective config as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			data, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
