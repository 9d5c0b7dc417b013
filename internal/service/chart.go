package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fitlens/backend/internal/engine"
	"github.com/fitlens/backend/internal/logger"
	"github.com/fitlens/backend/internal/models"
)

// dashboardConcurrency bounds the record store reads one dashboard issues at once
const dashboardConcurrency = 4

type chartService struct {
	aggregator Aggregator
	engine     *engine.Engine
}

// NewChartService creates a new chart service
func NewChartService(aggregator Aggregator, eng *engine.Engine) ChartService {
	if eng == nil {
		eng = engine.New()
	}
	return &chartService{
		aggregator: aggregator,
		engine:     eng,
	}
}

func (s *chartService) BuildChart(ctx context.Context, userID string, dsl models.ChartDSL, since time.Time) (*models.ChartSeries, error) {
	totals, err := s.aggregator.Aggregate(ctx, userID, dsl, since)
	if err != nil {
		return nil, err
	}
	return s.execute(ctx, dsl, totals)
}

// BuildDashboard builds every chart in dsls over the same window. Charts
// that only read the unfiltered day maps share one snapshot; the rest get
// their own. The first failure cancels the remaining reads.
func (s *chartService) BuildDashboard(ctx context.Context, userID string, dsls []models.ChartDSL, since time.Time) ([]models.ChartSeries, error) {
	for i := range dsls {
		if err := dsls[i].Validate(); err != nil {
			return nil, fmt.Errorf("chart %d: %w", i, err)
		}
	}

	results := make([]models.ChartSeries, len(dsls))
	var shared []int

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dashboardConcurrency)

	for i, dsl := range dsls {
		if sharesDayTotals(dsl) {
			shared = append(shared, i)
			continue
		}
		g.Go(func() error {
			cctx := logger.WithFields(gctx, logger.Int("chart", i))
			totals, err := s.aggregator.Aggregate(cctx, userID, dsl, since)
			if err != nil {
				return fmt.Errorf("chart %d: %w", i, err)
			}
			series, err := s.execute(cctx, dsl, totals)
			if err != nil {
				return fmt.Errorf("chart %d: %w", i, err)
			}
			results[i] = *series
			return nil
		})
	}

	if len(shared) > 0 {
		g.Go(func() error {
			totals, err := s.aggregator.AggregateAll(gctx, userID, since)
			if err != nil {
				return err
			}
			for _, i := range shared {
				series, err := s.execute(logger.WithFields(gctx, logger.Int("chart", i)), dsls[i], totals)
				if err != nil {
					return fmt.Errorf("chart %d: %w", i, err)
				}
				results[i] = *series
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info("built dashboard",
		logger.Int("charts", len(dsls)),
		logger.Int("shared_snapshot", len(shared)),
	)
	return results, nil
}

func (s *chartService) Catalog() engine.Catalog {
	return s.engine.Catalog()
}

func (s *chartService) execute(ctx context.Context, dsl models.ChartDSL, totals *models.DailyTotals) (*models.ChartSeries, error) {
	series, err := s.engine.Execute(dsl, totals)
	if err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Debug("chart executed",
		logger.String("source", string(dsl.Source)),
		logger.String("group_by", string(dsl.GroupBy)),
		logger.String("metric", dsl.Metric),
		logger.Int("points", len(series.Data)),
	)
	return series, nil
}

// sharesDayTotals reports whether dsl reads only the day maps without any
// record-level filter, so an unfiltered snapshot serves it.
func sharesDayTotals(dsl models.ChartDSL) bool {
	switch dsl.GroupBy {
	case models.GroupByHourOfDay, models.GroupByItem, models.GroupByCategory:
		return false
	}
	if f := dsl.Filter; f != nil {
		if f.ExerciseKey != "" || f.ExerciseSubtype != "" || f.Category != "" {
			return false
		}
	}
	return true
}
