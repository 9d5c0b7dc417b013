package repository

import (
	"context"
	"time"

	"github.com/fitlens/backend/internal/models"
)

// NutritionRepository defines read access to logged nutrition entries
type NutritionRepository interface {
	// ListNutritionEntries returns the user's entries dated on or after since,
	// each with its food items, ordered by creation time.
	ListNutritionEntries(ctx context.Context, userID string, since time.Time) ([]models.NutritionEntry, error)
}

// ExerciseRepository defines read access to logged exercise set rows
type ExerciseRepository interface {
	// ListExerciseEntries returns the user's set rows dated on or after since.
	// Non-empty fields of q narrow the rows at the store.
	ListExerciseEntries(ctx context.Context, userID string, since time.Time, q models.ExerciseQuery) ([]models.ExerciseEntry, error)
}
