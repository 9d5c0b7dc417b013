package models

import "time"

// DateLayout is the calendar-date format used for every date key.
const DateLayout = "2006-01-02"

// NutritionEntry is one logged meal or snack with its food items
type NutritionEntry struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Date      string     `json:"date"`
	CreatedAt time.Time  `json:"created_at"`
	Items     []FoodItem `json:"items"`
}

// FoodItem is a single food within a nutrition entry
type FoodItem struct {
	Description  string  `json:"description"`
	Calories     float64 `json:"calories"`
	Protein      float64 `json:"protein"`
	Carbs        float64 `json:"carbs"`
	Fiber        float64 `json:"fiber"`
	Sugar        float64 `json:"sugar"`
	Fat          float64 `json:"fat"`
	SaturatedFat float64 `json:"saturated_fat"`
	Sodium       float64 `json:"sodium"`
	Cholesterol  float64 `json:"cholesterol"`
}

// ExerciseEntry is one logged set row. Rows logged together share an EntryID.
type ExerciseEntry struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	EntryID         string         `json:"entry_id"`
	Date            string         `json:"date"`
	CreatedAt       time.Time      `json:"created_at"`
	ExerciseKey     string         `json:"exercise_key"`
	Subtype         *string        `json:"subtype,omitempty"`
	SetCount        int            `json:"set_count"`
	DurationMinutes *float64       `json:"duration_minutes,omitempty"`
	DistanceMiles   *float64       `json:"distance_miles,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// GroupID returns the entry-group id, falling back to the row id for
// rows that were logged without a group.
func (e *ExerciseEntry) GroupID() string {
	if e.EntryID != "" {
		return e.EntryID
	}
	return e.ID
}

// CaloriesBurned reads the calorie estimate from metadata, or 0 when absent.
func (e *ExerciseEntry) CaloriesBurned() float64 {
	if e.Metadata == nil {
		return 0
	}
	switch v := e.Metadata["calories_burned"].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

// ExerciseQuery narrows an exercise fetch at the store level
type ExerciseQuery struct {
	ExerciseKey string
	Subtype     string
}
