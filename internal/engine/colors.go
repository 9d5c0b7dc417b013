package engine

import "github.com/fitlens/backend/internal/models"

// FallbackColor is used for metrics missing from the color table
const FallbackColor = "#8884d8"

// ColorTable maps metric or derived-metric names to display colors
type ColorTable map[string]string

// DefaultColors returns the metric color palette
func DefaultColors() ColorTable {
	return ColorTable{
		models.MetricCalories:     "#f97316",
		models.MetricProtein:      "#ef4444",
		models.MetricCarbs:        "#eab308",
		models.MetricFat:          "#a855f7",
		models.MetricFiber:        "#22c55e",
		models.MetricSugar:        "#ec4899",
		models.MetricSaturatedFat: "#8b5cf6",
		models.MetricSodium:       "#64748b",
		models.MetricCholesterol:  "#f43f5e",
		models.MetricEntries:      "#0ea5e9",

		models.MetricSets:            "#3b82f6",
		models.MetricDurationMinutes: "#14b8a6",
		models.MetricDistanceMiles:   "#06b6d4",
		models.MetricCaloriesBurned:  "#dc2626",
		models.MetricUniqueExercises: "#6366f1",

		DerivedProteinPct:     "#ef4444",
		DerivedCarbsPct:       "#eab308",
		DerivedFatPct:         "#a855f7",
		DerivedNetCarbs:       "#84cc16",
		DerivedCalPerMeal:     "#fb923c",
		DerivedProteinPerMeal: "#f87171",
	}
}

func (e *Engine) colorFor(dsl *models.ChartDSL) string {
	if dsl.DerivedMetric != "" {
		if c, ok := e.colors[dsl.DerivedMetric]; ok {
			return c
		}
	}
	if c, ok := e.colors[dsl.Metric]; ok {
		return c
	}
	return e.fallbackColor
}
