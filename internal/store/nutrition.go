package store

import (
	"context"
	"fmt"
	"time"

	"github.com/fitlens/backend/internal/models"
)

// SaveNutritionEntry stores an entry and replaces its food items.
func (s *Store) SaveNutritionEntry(ctx context.Context, e models.NutritionEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO nutrition_entries
		(id, user_id, date, created_at) VALUES (?, ?, ?, ?)`,
		e.ID, e.UserID, e.Date, formatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("saving nutrition entry %s: %w", e.ID, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM food_items WHERE entry_id = ?", e.ID); err != nil {
		return err
	}

	for i, item := range e.Items {
		_, err = tx.ExecContext(ctx, `INSERT INTO food_items
			(entry_id, position, description, calories, protein, carbs, fiber,
			 sugar, fat, saturated_fat, sodium, cholesterol)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, i, item.Description, item.Calories, item.Protein, item.Carbs, item.Fiber,
			item.Sugar, item.Fat, item.SaturatedFat, item.Sodium, item.Cholesterol,
		)
		if err != nil {
			return fmt.Errorf("saving food item %d of %s: %w", i, e.ID, err)
		}
	}

	return tx.Commit()
}

// ListNutritionEntries returns the user's entries dated on or after since,
// each with its food items, ordered by creation time.
func (s *Store) ListNutritionEntries(ctx context.Context, userID string, since time.Time) ([]models.NutritionEntry, error) {
	sinceDate := since.Format(models.DateLayout)

	rows, err := s.db.QueryContext(ctx, `SELECT id, user_id, date, created_at
		FROM nutrition_entries
		WHERE user_id = ? AND date >= ?
		ORDER BY created_at`, userID, sinceDate)
	if err != nil {
		return nil, fmt.Errorf("querying nutrition entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []models.NutritionEntry
	for rows.Next() {
		var e models.NutritionEntry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Date, &createdAt); err != nil {
			return nil, err
		}
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("reading nutrition entry %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return entries, nil
	}

	// Batch-load items for every entry in the window
	itemRows, err := s.db.QueryContext(ctx, `SELECT
		f.entry_id, f.description, f.calories, f.protein, f.carbs, f.fiber,
		f.sugar, f.fat, f.saturated_fat, f.sodium, f.cholesterol
		FROM food_items f
		JOIN nutrition_entries n ON n.id = f.entry_id
		WHERE n.user_id = ? AND n.date >= ?
		ORDER BY f.entry_id, f.position`, userID, sinceDate)
	if err != nil {
		return nil, fmt.Errorf("querying food items: %w", err)
	}
	defer func() { _ = itemRows.Close() }()

	entryIdx := make(map[string]int, len(entries))
	for i, e := range entries {
		entryIdx[e.ID] = i
	}

	for itemRows.Next() {
		var entryID string
		var item models.FoodItem
		err := itemRows.Scan(&entryID, &item.Description, &item.Calories, &item.Protein, &item.Carbs,
			&item.Fiber, &item.Sugar, &item.Fat, &item.SaturatedFat, &item.Sodium, &item.Cholesterol)
		if err != nil {
			return nil, err
		}
		if idx, ok := entryIdx[entryID]; ok {
			entries[idx].Items = append(entries[idx].Items, item)
		}
	}

	return entries, itemRows.Err()
}
