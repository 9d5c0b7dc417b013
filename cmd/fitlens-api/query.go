package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fitlens/backend/internal/logger"
	"github.com/fitlens/backend/internal/models"
)

var queryCmd = &cobra.Command{
	Use:   "query [dsl.json]",
	Short: "Build chart series from a DSL file",
	Long: `Read a chart DSL (or a JSON array of them) from a file or stdin,
run it against the configured record store and print the resulting series.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuery,
}

var (
	queryUser string
	queryDays int
)

func init() {
	queryCmd.Flags().StringVarP(&queryUser, "user", "u", "", "User whose records are charted (defaults to store.local_user_id)")
	queryCmd.Flags().IntVarP(&queryDays, "days", "d", 0, "Window length in days (defaults to charts.default_window_days)")
}

func runQuery(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	raw, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	userID := queryUser
	if userID == "" {
		userID = a.cfg.Store.LocalUserID
	}
	days := queryDays
	if days == 0 {
		days = a.cfg.Charts.DefaultWindowDays
	}
	if days < 1 || days > a.cfg.Charts.MaxWindowDays {
		return fmt.Errorf("--days must be between 1 and %d", a.cfg.Charts.MaxWindowDays)
	}

	loc, err := a.cfg.Charts.Location()
	if err != nil {
		return err
	}
	since := windowStart(time.Now(), loc, days)

	ctx := logger.WithUserID(context.Background(), userID)
	ctx = logger.WithLogger(ctx, a.log)

	var out any
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		var dsls []models.ChartDSL
		if err := json.Unmarshal(trimmed, &dsls); err != nil {
			return fmt.Errorf("failed to parse chart DSL list: %w", err)
		}
		charts, err := a.charts.BuildDashboard(ctx, userID, dsls, since)
		if err != nil {
			return err
		}
		out = models.BatchChartResponse{Charts: charts}
	} else {
		var dsl models.ChartDSL
		if err := json.Unmarshal(trimmed, &dsl); err != nil {
			return fmt.Errorf("failed to parse chart DSL: %w", err)
		}
		series, err := a.charts.BuildChart(ctx, userID, dsl, since)
		if err != nil {
			return err
		}
		out = series
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// readInput reads the named file, or stdin when no file or "-" is given
func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return data, nil
}

// windowStart returns local midnight days before now
func windowStart(now time.Time, loc *time.Location, days int) time.Time {
	now = now.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	return today.AddDate(0, 0, -days)
}
