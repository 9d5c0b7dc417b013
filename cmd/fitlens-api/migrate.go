package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fitlens/backend/internal/config"
	"github.com/fitlens/backend/internal/logger"
	"github.com/fitlens/backend/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the local sqlite schema",
	Long:  `Open the configured sqlite database, creating the file and its tables if they do not exist.`,
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Store.Driver != config.DriverSQLite {
		return fmt.Errorf("migrate requires store.driver=%s, got %q", config.DriverSQLite, cfg.Store.Driver)
	}

	db, err := store.Open(cfg.Store.SQLitePath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		return fmt.Errorf("failed to reach database: %w", err)
	}

	logger.Info("schema ready", logger.String("path", cfg.Store.SQLitePath))
	return nil
}
