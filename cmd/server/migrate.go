package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/summaries/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and seed built-in roles",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		gdb, err := openDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close(gdb) }()

		if err := db.Migrate(ctx, gdb); err != nil {
			return err
		}
		logger.Info("migration_complete")
		return nil
	},
}
