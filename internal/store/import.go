package store

import (
	"context"

	"github.com/fitlens/backend/internal/models"
)

// Dataset is a bundle of records in the JSON shape the Supabase API returns.
type Dataset struct {
	Nutrition []models.NutritionEntry `json:"nutrition"`
	Exercise  []models.ExerciseEntry  `json:"exercise"`
}

// Import saves every record in ds, assigning userID to rows that have none.
// It returns the number of records written.
func (s *Store) Import(ctx context.Context, ds Dataset, userID string) (int, error) {
	n := 0
	for _, e := range ds.Nutrition {
		if e.UserID == "" {
			e.UserID = userID
		}
		if err := s.SaveNutritionEntry(ctx, e); err != nil {
			return n, err
		}
		n++
	}
	for _, e := range ds.Exercise {
		if e.UserID == "" {
			e.UserID = userID
		}
		if err := s.SaveExerciseEntry(ctx, e); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
