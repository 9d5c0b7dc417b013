package models

// Bag is a per-day or per-record summary whose numeric fields are
// addressable by metric name.
type Bag interface {
	Metric(name string) (float64, bool)
}

// Food metric keys
const (
	MetricCalories     = "calories"
	MetricProtein      = "protein"
	MetricCarbs        = "carbs"
	MetricFat          = "fat"
	MetricFiber        = "fiber"
	MetricSugar        = "sugar"
	MetricSaturatedFat = "saturated_fat"
	MetricSodium       = "sodium"
	MetricCholesterol  = "cholesterol"
	MetricEntries      = "entries"
)

// Exercise metric keys
const (
	MetricSets            = "sets"
	MetricDurationMinutes = "duration_minutes"
	MetricDistanceMiles   = "distance_miles"
	MetricCaloriesBurned  = "calories_burned"
	MetricUniqueExercises = "unique_exercises"
)

// MetricCount is the per-label occurrence count on item totals
const MetricCount = "count"

// FoodMetrics lists the raw food metrics in display order
var FoodMetrics = []string{
	MetricCalories, MetricProtein, MetricCarbs, MetricFat, MetricFiber,
	MetricSugar, MetricSaturatedFat, MetricSodium, MetricCholesterol, MetricEntries,
}

// ExerciseMetrics lists the raw exercise metrics in display order
var ExerciseMetrics = []string{
	MetricSets, MetricDurationMinutes, MetricDistanceMiles,
	MetricCaloriesBurned, MetricUniqueExercises, MetricEntries,
}

// FoodDayTotals is the food day bag
type FoodDayTotals struct {
	Calories     float64 `json:"calories"`
	Protein      float64 `json:"protein"`
	Carbs        float64 `json:"carbs"`
	Fat          float64 `json:"fat"`
	Fiber        float64 `json:"fiber"`
	Sugar        float64 `json:"sugar"`
	SaturatedFat float64 `json:"saturated_fat"`
	Sodium       float64 `json:"sodium"`
	Cholesterol  float64 `json:"cholesterol"`
	Entries      int     `json:"entries"`
}

// Metric implements Bag
func (t FoodDayTotals) Metric(name string) (float64, bool) {
	switch name {
	case MetricCalories:
		return t.Calories, true
	case MetricProtein:
		return t.Protein, true
	case MetricCarbs:
		return t.Carbs, true
	case MetricFat:
		return t.Fat, true
	case MetricFiber:
		return t.Fiber, true
	case MetricSugar:
		return t.Sugar, true
	case MetricSaturatedFat:
		return t.SaturatedFat, true
	case MetricSodium:
		return t.Sodium, true
	case MetricCholesterol:
		return t.Cholesterol, true
	case MetricEntries:
		return float64(t.Entries), true
	default:
		return 0, false
	}
}

// Add folds other's macros into t. Entries are left to the caller.
func (t *FoodDayTotals) Add(other FoodDayTotals) {
	t.Calories += other.Calories
	t.Protein += other.Protein
	t.Carbs += other.Carbs
	t.Fat += other.Fat
	t.Fiber += other.Fiber
	t.Sugar += other.Sugar
	t.SaturatedFat += other.SaturatedFat
	t.Sodium += other.Sodium
	t.Cholesterol += other.Cholesterol
}

// AddItem folds a single food item's macros into t
func (t *FoodDayTotals) AddItem(item FoodItem) {
	t.Calories += item.Calories
	t.Protein += item.Protein
	t.Carbs += item.Carbs
	t.Fat += item.Fat
	t.Fiber += item.Fiber
	t.Sugar += item.Sugar
	t.SaturatedFat += item.SaturatedFat
	t.Sodium += item.Sodium
	t.Cholesterol += item.Cholesterol
}

// ExerciseDayTotals is the exercise day bag
type ExerciseDayTotals struct {
	Sets            int     `json:"sets"`
	DurationMinutes float64 `json:"duration_minutes"`
	DistanceMiles   float64 `json:"distance_miles"`
	CaloriesBurned  float64 `json:"calories_burned"`
	UniqueExercises int     `json:"unique_exercises"`
	Entries         int     `json:"entries"`
}

// Metric implements Bag
func (t ExerciseDayTotals) Metric(name string) (float64, bool) {
	switch name {
	case MetricSets:
		return float64(t.Sets), true
	case MetricDurationMinutes:
		return t.DurationMinutes, true
	case MetricDistanceMiles:
		return t.DistanceMiles, true
	case MetricCaloriesBurned:
		return t.CaloriesBurned, true
	case MetricUniqueExercises:
		return float64(t.UniqueExercises), true
	case MetricEntries:
		return float64(t.Entries), true
	default:
		return 0, false
	}
}

// FoodItemTotals accumulates one normalized food label across the window.
// Field names match the food metric keys so item charts can select any of them.
type FoodItemTotals struct {
	Count int `json:"count"`
	FoodDayTotals
}

// Metric implements Bag. Entries reports the label count so per-meal
// formulas divide by occurrences.
func (t FoodItemTotals) Metric(name string) (float64, bool) {
	switch name {
	case MetricCount, MetricEntries:
		return float64(t.Count), true
	default:
		return t.FoodDayTotals.Metric(name)
	}
}

// ExerciseItemTotals accumulates one exercise identifier, or one category,
// across the window. Count is the number of contributing records.
type ExerciseItemTotals struct {
	Count int `json:"count"`
	ExerciseDayTotals
}

// Metric implements Bag
func (t ExerciseItemTotals) Metric(name string) (float64, bool) {
	if name == MetricCount {
		return float64(t.Count), true
	}
	return t.ExerciseDayTotals.Metric(name)
}

// DailyTotals is the snapshot the chart engine reads. It is never mutated
// after construction. The hour, item, and category maps are nil unless the
// grouping that needs them was requested; a non-nil empty map means the
// grouping was computed and found nothing.
type DailyTotals struct {
	Food     map[string]FoodDayTotals     `json:"food"`
	Exercise map[string]ExerciseDayTotals `json:"exercise"`

	FoodByHour     map[int][]FoodDayTotals     `json:"food_by_hour,omitempty"`
	ExerciseByHour map[int][]ExerciseDayTotals `json:"exercise_by_hour,omitempty"`

	FoodByItem     map[string]FoodItemTotals     `json:"food_by_item,omitempty"`
	ExerciseByItem map[string]ExerciseItemTotals `json:"exercise_by_item,omitempty"`

	ExerciseByCategory map[ExerciseCategory]ExerciseItemTotals `json:"exercise_by_category,omitempty"`
}

// NewDailyTotals returns totals with the always-present day maps allocated
func NewDailyTotals() *DailyTotals {
	return &DailyTotals{
		Food:     make(map[string]FoodDayTotals),
		Exercise: make(map[string]ExerciseDayTotals),
	}
}
