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

type nutritionRepository struct {
	client *supabase.Client
}

// NewNutritionRepository creates a nutrition repository backed by Supabase
func NewNutritionRepository(client *supabase.Client) NutritionRepository {
	return &nutritionRepository{client: client}
}

func (r *nutritionRepository) ListNutritionEntries(ctx context.Context, userID string, since time.Time) ([]models.NutritionEntry, error) {
	query := url.Values{}
	query.Set("user_id", fmt.Sprintf("eq.%s", userID))
	query.Set("date", fmt.Sprintf("gte.%s", since.Format(models.DateLayout)))
	query.Set("select", "*,items:food_items(*)")
	query.Set("order", "created_at.asc")

	body, err := r.client.Query(ctx, "nutrition_entries", query)
	if err != nil {
		return nil, fmt.Errorf("failed to list nutrition entries: %w", err)
	}

	var entries []models.NutritionEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return entries, nil
}
