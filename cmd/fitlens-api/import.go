package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fitlens/backend/internal/config"
	"github.com/fitlens/backend/internal/logger"
	"github.com/fitlens/backend/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import [dataset.json]",
	Short: "Load nutrition and exercise records into the local store",
	Long: `Read a JSON document of the form {"nutrition": [...], "exercise": [...]}
from a file or stdin and save every record into the sqlite store.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

var importUser string

func init() {
	importCmd.Flags().StringVarP(&importUser, "user", "u", "", "User assigned to records without one (defaults to store.local_user_id)")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Store.Driver != config.DriverSQLite {
		return fmt.Errorf("import requires store.driver=%s, got %q", config.DriverSQLite, cfg.Store.Driver)
	}

	raw, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	var ds store.Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return fmt.Errorf("failed to parse dataset: %w", err)
	}

	db, err := store.Open(cfg.Store.SQLitePath)
	if err != nil {
		return err
	}
	defer db.Close()

	userID := importUser
	if userID == "" {
		userID = cfg.Store.LocalUserID
	}
	n, err := db.Import(context.Background(), ds, userID)
	if err != nil {
		return fmt.Errorf("imported %d records before failing: %w", n, err)
	}

	logger.Info("import complete",
		logger.Int("records", n),
		logger.String("user_id", userID),
	)
	return nil
}
