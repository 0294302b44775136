package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pkordes/gift-catalog/internal/config"
)

// newRootCmd builds the command tree over v, which holds defaults and
// environment lookup. Running "api" with no subcommand serves.
func newRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:           "api",
		Short:         "Gift catalog HTTP API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("log-level", "", "minimum log level (debug, info, warn, error)")
	_ = v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))

	serve := newServeCmd(v)
	root.AddCommand(serve, newMigrateCmd(v))
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

// loadConfig reads configuration and builds the JSON logger it selects.
func loadConfig(v *viper.Viper) (config.Config, *slog.Logger, error) {
	cfg, err := config.FromViper(v)
	if err != nil {
		return config.Config{}, nil, err
	}

	// JSON output suits log aggregators.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)
	return cfg, logger, nil
}
