package service

import (
	"context"
	"time"

	"github.com/fitlens/backend/internal/engine"
	"github.com/fitlens/backend/internal/models"
)

// Aggregator reduces raw records into the totals snapshot a chart reads
type Aggregator interface {
	// Aggregate fetches the records dsl.Source needs from since to now and
	// fills only the lazily computed maps dsl.GroupBy requires.
	Aggregate(ctx context.Context, userID string, dsl models.ChartDSL, since time.Time) (*models.DailyTotals, error)
	// AggregateAll fetches both sources concurrently and fills the day maps only.
	AggregateAll(ctx context.Context, userID string, since time.Time) (*models.DailyTotals, error)
}

// ChartService defines the interface for chart business logic
type ChartService interface {
	BuildChart(ctx context.Context, userID string, dsl models.ChartDSL, since time.Time) (*models.ChartSeries, error)
	BuildDashboard(ctx context.Context, userID string, dsls []models.ChartDSL, since time.Time) ([]models.ChartSeries, error)
	Catalog() engine.Catalog
}
