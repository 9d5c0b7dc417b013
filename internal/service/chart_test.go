package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fitlens/backend/internal/engine"
	"github.com/fitlens/backend/internal/models"
)

func newTestChartService() (ChartService, *mockNutritionRepository, *mockExerciseRepository) {
	agg, food, ex := newTestAggregator()
	return NewChartService(agg, engine.New()), food, ex
}

func TestBuildChart(t *testing.T) {
	svc, _, _ := newTestChartService()

	series, err := svc.BuildChart(context.Background(), "u1", dsl(models.SourceFood, models.GroupByDate), windowStart)
	if err != nil {
		t.Fatalf("BuildChart returned error: %v", err)
	}
	if len(series.Data) != 2 {
		t.Fatalf("Expected 2 points, got %d", len(series.Data))
	}
	if series.Data[0].RawDate != "2026-02-16" || series.Data[0].Value != 650 {
		t.Errorf("Unexpected first point %+v", series.Data[0])
	}
	if series.Data[1].Value != 600 {
		t.Errorf("Expected Saturday 600, got %v", series.Data[1].Value)
	}
}

func TestBuildChartItemCount(t *testing.T) {
	svc, _, _ := newTestChartService()

	d := dsl(models.SourceExercise, models.GroupByItem)
	d.Aggregation = models.AggregationCount
	d.Sort = models.SortValueDesc

	series, err := svc.BuildChart(context.Background(), "u1", d, windowStart)
	if err != nil {
		t.Fatalf("BuildChart returned error: %v", err)
	}
	if len(series.Data) != 3 {
		t.Fatalf("Expected 3 exercises, got %+v", series.Data)
	}
	if series.Data[2].Label != "squat" || series.Data[2].Value != 1 {
		t.Errorf("Expected squat last with count 1, got %+v", series.Data[2])
	}
}

func TestBuildChartPropagatesErrorKinds(t *testing.T) {
	storeErr := errors.New("down")
	agg := NewAggregator(&mockNutritionRepository{err: storeErr}, &mockExerciseRepository{}, nil, time.UTC)
	svc := NewChartService(agg, nil)

	_, err := svc.BuildChart(context.Background(), "u1", dsl(models.SourceFood, models.GroupByDate), windowStart)
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("Expected ErrUpstream, got %v", err)
	}

	bad := dsl(models.SourceFood, models.GroupByDate)
	bad.Aggregation = "median"
	_, err = svc.BuildChart(context.Background(), "u1", bad, windowStart)
	if !errors.Is(err, engine.ErrInvalidDSL) {
		t.Errorf("Expected ErrInvalidDSL, got %v", err)
	}
}

func TestBuildDashboardSharesDaySnapshot(t *testing.T) {
	svc, food, ex := newTestChartService()

	dsls := []models.ChartDSL{
		dsl(models.SourceFood, models.GroupByDate),
		dsl(models.SourceExercise, models.GroupByWeek),
		dsl(models.SourceFood, models.GroupByDayOfWeek),
		dsl(models.SourceFood, models.GroupByHourOfDay),
	}

	charts, err := svc.BuildDashboard(context.Background(), "u1", dsls, windowStart)
	if err != nil {
		t.Fatalf("BuildDashboard returned error: %v", err)
	}
	if len(charts) != 4 {
		t.Fatalf("Expected 4 charts, got %d", len(charts))
	}

	// one shared read per source plus one food read for the hour chart
	if food.calls != 2 || ex.calls != 1 {
		t.Errorf("Expected food=2 exercise=1 reads, got food=%d exercise=%d", food.calls, ex.calls)
	}

	if charts[0].Data[0].Value != 650 {
		t.Errorf("Expected date chart in position 0, got %+v", charts[0])
	}
	if charts[2].Data[0].Label != "Mon" {
		t.Errorf("Expected weekday chart in position 2, got %+v", charts[2])
	}
	if charts[3].XAxis.Label != string(models.GroupByHourOfDay) {
		t.Errorf("Expected hour chart in position 3, got %+v", charts[3])
	}
}

func TestBuildDashboardFiltersGetTheirOwnSnapshot(t *testing.T) {
	svc, _, ex := newTestChartService()

	filtered := dsl(models.SourceExercise, models.GroupByDate)
	filtered.Filter = &models.DSLFilter{ExerciseKey: "running"}

	charts, err := svc.BuildDashboard(context.Background(), "u1", []models.ChartDSL{
		dsl(models.SourceExercise, models.GroupByDate),
		filtered,
	}, windowStart)
	if err != nil {
		t.Fatalf("BuildDashboard returned error: %v", err)
	}
	if ex.calls != 2 {
		t.Errorf("Expected a separate read for the filtered chart, got %d", ex.calls)
	}
	if charts[0].Data[0].Value != 4 || charts[1].Data[0].Value != 1 {
		t.Errorf("Expected unfiltered 4 sets and filtered 1 set on Monday, got %v and %v",
			charts[0].Data[0].Value, charts[1].Data[0].Value)
	}
}

func TestBuildDashboardRejectsMalformedChart(t *testing.T) {
	svc, food, _ := newTestChartService()

	bad := dsl(models.SourceFood, models.GroupByDate)
	bad.Source = "sleep"

	_, err := svc.BuildDashboard(context.Background(), "u1", []models.ChartDSL{
		dsl(models.SourceFood, models.GroupByDate),
		bad,
	}, windowStart)
	if !errors.Is(err, models.ErrInvalidDSL) {
		t.Fatalf("Expected ErrInvalidDSL, got %v", err)
	}
	if food.calls != 0 {
		t.Errorf("Expected validation before any read, got %d reads", food.calls)
	}
}

func TestBuildDashboardFirstErrorWins(t *testing.T) {
	storeErr := errors.New("down")
	agg := NewAggregator(&mockNutritionRepository{entries: sampleNutrition()}, &mockExerciseRepository{err: storeErr}, nil, time.UTC)
	svc := NewChartService(agg, nil)

	_, err := svc.BuildDashboard(context.Background(), "u1", []models.ChartDSL{
		dsl(models.SourceFood, models.GroupByItem),
		dsl(models.SourceExercise, models.GroupByCategory),
	}, windowStart)
	if !errors.Is(err, ErrUpstream) || !errors.Is(err, storeErr) {
		t.Errorf("Expected wrapped upstream error, got %v", err)
	}
}

func TestCatalogDelegatesToEngine(t *testing.T) {
	svc, _, _ := newTestChartService()
	cat := svc.Catalog()
	if len(cat.Food) == 0 || len(cat.Exercise) == 0 {
		t.Errorf("Expected metrics for both sources, got %+v", cat)
	}
}
