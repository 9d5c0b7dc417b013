package engine

import (
	"math"

	"github.com/fitlens/backend/internal/models"
)

// Derived metric names
const (
	DerivedProteinPct     = "protein_pct"
	DerivedCarbsPct       = "carbs_pct"
	DerivedFatPct         = "fat_pct"
	DerivedNetCarbs       = "net_carbs"
	DerivedCalPerMeal     = "cal_per_meal"
	DerivedProteinPerMeal = "protein_per_meal"
)

// Calories per gram of each macro
const (
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

// Formula computes a derived metric from a day bag. Formulas are total:
// degenerate input yields 0, never NaN or Inf.
type Formula func(models.Bag) float64

// FormulaTable maps derived metric names to formulas
type FormulaTable map[string]Formula

// DefaultFormulas returns the food derived-metric table
func DefaultFormulas() FormulaTable {
	return FormulaTable{
		DerivedProteinPct:     macroShare(models.MetricProtein, kcalPerGramProtein),
		DerivedCarbsPct:       macroShare(models.MetricCarbs, kcalPerGramCarbs),
		DerivedFatPct:         macroShare(models.MetricFat, kcalPerGramFat),
		DerivedNetCarbs:       netCarbs,
		DerivedCalPerMeal:     perMeal(models.MetricCalories),
		DerivedProteinPerMeal: perMeal(models.MetricProtein),
	}
}

// macroShare is the rounded percentage of macro calories contributed by one macro
func macroShare(macro string, kcalPerGram float64) Formula {
	return func(b models.Bag) float64 {
		total := macroCalories(b)
		if total <= 0 {
			return 0
		}
		return finite(math.Round(field(b, macro) * kcalPerGram / total * 100))
	}
}

func macroCalories(b models.Bag) float64 {
	return field(b, models.MetricProtein)*kcalPerGramProtein +
		field(b, models.MetricCarbs)*kcalPerGramCarbs +
		field(b, models.MetricFat)*kcalPerGramFat
}

// netCarbs is not floored at zero here
func netCarbs(b models.Bag) float64 {
	return finite(math.Round(field(b, models.MetricCarbs) - field(b, models.MetricFiber)))
}

func perMeal(metric string) Formula {
	return func(b models.Bag) float64 {
		entries := field(b, models.MetricEntries)
		if entries <= 0 {
			return 0
		}
		return finite(field(b, metric) / entries)
	}
}

// field reads a metric, treating absence as 0
func field(b models.Bag, name string) float64 {
	v, ok := b.Metric(name)
	if !ok {
		return 0
	}
	return v
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
