package engine

import (
	"fmt"
	"math"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/fitlens/backend/internal/models"
)

// maxItemLabel is the rune length after which item labels are truncated
const maxItemLabel = 25

type dayValue struct {
	date  string
	day   time.Time
	value float64
}

// dayValues runs steps 1-3: source selection, day-of-week filter, extraction.
// Unparseable dates and bags lacking the metric are dropped.
func (e *Engine) dayValues(dsl *models.ChartDSL, totals *models.DailyTotals) []dayValue {
	bags := sourceDays(dsl.Source, totals)
	if len(bags) == 0 {
		return nil
	}

	dates := make([]string, 0, len(bags))
	for d := range bags {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	var allowed map[time.Weekday]bool
	if dsl.Filter != nil && len(dsl.Filter.DayOfWeek) > 0 {
		allowed = make(map[time.Weekday]bool, len(dsl.Filter.DayOfWeek))
		for _, d := range dsl.Filter.DayOfWeek {
			allowed[time.Weekday(d)] = true
		}
	}

	values := make([]dayValue, 0, len(dates))
	for _, d := range dates {
		day, err := time.Parse(models.DateLayout, d)
		if err != nil {
			continue
		}
		if allowed != nil && !allowed[day.Weekday()] {
			continue
		}
		v, ok := e.extract(dsl, bags[d])
		if !ok {
			continue
		}
		values = append(values, dayValue{date: d, day: day, value: v})
	}
	return values
}

func sourceDays(source models.Source, totals *models.DailyTotals) map[string]models.Bag {
	switch source {
	case models.SourceFood:
		bags := make(map[string]models.Bag, len(totals.Food))
		for d, t := range totals.Food {
			bags[d] = t
		}
		return bags
	case models.SourceExercise:
		bags := make(map[string]models.Bag, len(totals.Exercise))
		for d, t := range totals.Exercise {
			bags[d] = t
		}
		return bags
	}
	return nil
}

// groupByDate emits one single-value bucket per date, so count is 1 and
// the other aggregations return the day's value.
func groupByDate(values []dayValue, agg models.Aggregation) []models.ChartPoint {
	points := make([]models.ChartPoint, 0, len(values))
	for _, v := range values {
		points = append(points, models.ChartPoint{
			Label:   v.day.Format("Jan 2"),
			Value:   math.Round(Aggregate([]float64{v.value}, agg)),
			RawDate: v.date,
		})
	}
	return points
}

// weekdayOrder is the canonical Mon..Sun emission order
var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

func groupByDayOfWeek(values []dayValue, agg models.Aggregation) []models.ChartPoint {
	var buckets [7][]float64
	for _, v := range values {
		wd := v.day.Weekday()
		buckets[wd] = append(buckets[wd], v.value)
	}

	var points []models.ChartPoint
	for _, wd := range weekdayOrder {
		if len(buckets[wd]) == 0 {
			continue
		}
		points = append(points, models.ChartPoint{
			Label: wd.String()[:3],
			Value: math.Round(Aggregate(buckets[wd], agg)),
		})
	}
	return points
}

func groupByWeekdayVsWeekend(values []dayValue, agg models.Aggregation) []models.ChartPoint {
	var weekdays, weekends []float64
	for _, v := range values {
		switch v.day.Weekday() {
		case time.Saturday, time.Sunday:
			weekends = append(weekends, v.value)
		default:
			weekdays = append(weekdays, v.value)
		}
	}

	var points []models.ChartPoint
	if len(weekdays) > 0 {
		points = append(points, models.ChartPoint{Label: "Weekdays", Value: math.Round(Aggregate(weekdays, agg))})
	}
	if len(weekends) > 0 {
		points = append(points, models.ChartPoint{Label: "Weekends", Value: math.Round(Aggregate(weekends, agg))})
	}
	return points
}

type isoWeek struct {
	year, week int
}

func (w isoWeek) before(o isoWeek) bool {
	if w.year != o.year {
		return w.year < o.year
	}
	return w.week < o.week
}

type weekBucket struct {
	monday time.Time
	latest string
	values []float64
}

func groupByWeek(values []dayValue, agg models.Aggregation) []models.ChartPoint {
	buckets := make(map[isoWeek]*weekBucket)
	for _, v := range values {
		y, w := v.day.ISOWeek()
		key := isoWeek{year: y, week: w}
		b, ok := buckets[key]
		if !ok {
			offset := (int(v.day.Weekday()) + 6) % 7
			b = &weekBucket{monday: v.day.AddDate(0, 0, -offset)}
			buckets[key] = b
		}
		b.values = append(b.values, v.value)
		if v.date > b.latest {
			b.latest = v.date
		}
	}

	keys := make([]isoWeek, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].before(keys[j]) })

	points := make([]models.ChartPoint, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		points = append(points, models.ChartPoint{
			Label:   "Week of " + b.monday.Format("Jan 2"),
			Value:   math.Round(Aggregate(b.values, agg)),
			RawDate: b.latest,
		})
	}
	return points
}

// groupByHourOfDay aggregates per-record values within each hour. A nil
// hour map means the grouping was not computed and yields no points.
func (e *Engine) groupByHourOfDay(dsl *models.ChartDSL, totals *models.DailyTotals) []models.ChartPoint {
	hours := make(map[int][]models.Bag)
	switch dsl.Source {
	case models.SourceFood:
		for h, records := range totals.FoodByHour {
			for _, r := range records {
				hours[h] = append(hours[h], r)
			}
		}
	case models.SourceExercise:
		for h, records := range totals.ExerciseByHour {
			for _, r := range records {
				hours[h] = append(hours[h], r)
			}
		}
	}

	var points []models.ChartPoint
	for h := 0; h < 24; h++ {
		var values []float64
		for _, bag := range hours[h] {
			if v, ok := e.extract(dsl, bag); ok {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}
		points = append(points, models.ChartPoint{
			Label: hourLabel(h),
			Value: math.Round(Aggregate(values, dsl.Aggregation)),
		})
	}
	return points
}

func hourLabel(h int) string {
	switch {
	case h == 0:
		return "12am"
	case h < 12:
		return fmt.Sprintf("%dam", h)
	case h == 12:
		return "12pm"
	default:
		return fmt.Sprintf("%dpm", h-12)
	}
}

// groupByItem reads pre-folded per-label totals. Labels are emitted in
// alphabetical order, which is the canonical order for this grouping.
func (e *Engine) groupByItem(dsl *models.ChartDSL, totals *models.DailyTotals) []models.ChartPoint {
	items := make(map[string]models.Bag)
	switch dsl.Source {
	case models.SourceFood:
		for label, t := range totals.FoodByItem {
			items[label] = t
		}
	case models.SourceExercise:
		for label, t := range totals.ExerciseByItem {
			items[label] = t
		}
	}

	labels := make([]string, 0, len(items))
	for label := range items {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var points []models.ChartPoint
	for _, label := range labels {
		bag := items[label]
		var (
			v  float64
			ok bool
		)
		if dsl.Aggregation == models.AggregationCount {
			v, ok = bag.Metric(models.MetricCount)
		} else {
			v, ok = e.extract(dsl, bag)
		}
		if !ok {
			continue
		}
		points = append(points, models.ChartPoint{
			Label: truncateLabel(label),
			Value: math.Round(v),
		})
	}
	return points
}

func truncateLabel(label string) string {
	if utf8.RuneCountInString(label) <= maxItemLabel {
		return label
	}
	runes := []rune(label)
	return string(runes[:maxItemLabel]) + "…"
}

// categoryOrder is the canonical category emission order
var categoryOrder = []models.ExerciseCategory{models.CategoryCardio, models.CategoryStrength}

// groupByCategory reads full-window category totals directly; they are not
// re-aggregated.
func (e *Engine) groupByCategory(dsl *models.ChartDSL, totals *models.DailyTotals) []models.ChartPoint {
	if dsl.Source != models.SourceExercise || totals.ExerciseByCategory == nil {
		return nil
	}

	var points []models.ChartPoint
	for _, cat := range categoryOrder {
		t, ok := totals.ExerciseByCategory[cat]
		if !ok {
			continue
		}
		v, ok := e.extract(dsl, t)
		if !ok {
			continue
		}
		points = append(points, models.ChartPoint{
			Label: string(cat),
			Value: math.Round(v),
		})
	}
	return points
}
