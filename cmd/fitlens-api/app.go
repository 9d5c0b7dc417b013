package main

import (
	"fmt"
	"io"

	"github.com/fitlens/backend/internal/config"
	"github.com/fitlens/backend/internal/engine"
	"github.com/fitlens/backend/internal/logger"
	"github.com/fitlens/backend/internal/middleware"
	"github.com/fitlens/backend/internal/repository"
	"github.com/fitlens/backend/internal/service"
	"github.com/fitlens/backend/internal/store"
	"github.com/fitlens/backend/pkg/supabase"
)

// app holds the wired chart pipeline for one configured record store
type app struct {
	cfg      *config.Config
	log      logger.Logger
	charts   service.ChartService
	verifier middleware.TokenVerifier
	closer   io.Closer
}

// newApp loads configuration, installs the default logger and wires the
// chart service to the configured store driver.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(logger.Config{
		Level:   logger.ParseLevel(cfg.Log.Level),
		Format:  cfg.Log.Format,
		Backend: cfg.Log.Backend,
	})
	logger.SetDefault(log)

	loc, err := cfg.Charts.Location()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log}

	var (
		nutritionRepo repository.NutritionRepository
		exerciseRepo  repository.ExerciseRepository
	)
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		db, err := store.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		nutritionRepo, exerciseRepo = db, db
		a.closer = db
		log.Info("using sqlite record store",
			logger.String("path", cfg.Store.SQLitePath),
			logger.String("local_user_id", cfg.Store.LocalUserID),
		)
	default:
		client := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
		nutritionRepo = repository.NewNutritionRepository(client)
		exerciseRepo = repository.NewExerciseRepository(client)
		a.verifier = client
		log.Info("using supabase record store", logger.String("url", cfg.Supabase.URL))
	}

	aggregator := service.NewAggregator(nutritionRepo, exerciseRepo, service.DefaultClassifier(), loc)
	a.charts = service.NewChartService(aggregator, engine.New())
	return a, nil
}

func (a *app) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
