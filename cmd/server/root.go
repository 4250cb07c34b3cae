package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/summaries/internal/config"
	"github.com/Skotchmaster/summaries/internal/logging"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "summaries",
	Short:        "Users, summaries and comments API",
	SilenceUsage: true,
	// running without a subcommand starts the server
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd)
}

// loadConfig reads and validates configuration and installs the default logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	logger := logging.New(cfg.Log.Level).With("service", "summaries")
	slog.SetDefault(logger)
	return cfg, logger, nil
}
