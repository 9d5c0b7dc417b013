package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/fitlens/backend/internal/models"
	"github.com/fitlens/backend/pkg/supabase"
)

type exerciseRepository struct {
	client *supabase.Client
}

// NewExerciseRepository creates an exercise repository backed by Supabase
func NewExerciseRepository(client *supabase.Client) ExerciseRepository {
	return &exerciseRepository{client: client}
}

func (r *exerciseRepository) ListExerciseEntries(ctx context.Context, userID string, since time.Time, q models.ExerciseQuery) ([]models.ExerciseEntry, error) {
	query := url.Values{}
	query.Set("user_id", fmt.Sprintf("eq.%s", userID))
	query.Set("date", fmt.Sprintf("gte.%s", since.Format(models.DateLayout)))
	query.Set("select", "*")
	query.Set("order", "created_at.asc")

	if q.ExerciseKey != "" {
		query.Set("exercise_key", fmt.Sprintf("eq.%s", q.ExerciseKey))
	}
	if q.Subtype != "" {
		query.Set("subtype", fmt.Sprintf("eq.%s", q.Subtype))
	}

	body, err := r.client.Query(ctx, "exercise_entries", query)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercise entries: %w", err)
	}

	var entries []models.ExerciseEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return entries, nil
}
