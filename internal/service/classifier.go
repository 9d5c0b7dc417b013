package service

import (
	"strings"

	"github.com/fitlens/backend/internal/models"
)

// Classifier maps an exercise identifier to its cardio or strength category
type Classifier interface {
	Classify(exerciseKey string) models.ExerciseCategory
}

// CardioTable is a static Classifier. Keys in the table are cardio;
// every other identifier is strength.
type CardioTable map[string]struct{}

// DefaultClassifier returns the built-in cardio lookup
func DefaultClassifier() CardioTable {
	return NewCardioTable(
		"running", "walking", "cycling", "rowing", "swimming", "elliptical",
		"stair_climber", "jump_rope", "hiking", "treadmill", "stationary_bike",
	)
}

// NewCardioTable builds a CardioTable from the given identifiers
func NewCardioTable(keys ...string) CardioTable {
	t := make(CardioTable, len(keys))
	for _, k := range keys {
		t[normalizeKey(k)] = struct{}{}
	}
	return t
}

// Classify implements Classifier
func (t CardioTable) Classify(exerciseKey string) models.ExerciseCategory {
	if _, ok := t[normalizeKey(exerciseKey)]; ok {
		return models.CategoryCardio
	}
	return models.CategoryStrength
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}
