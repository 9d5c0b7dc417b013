// Package engine executes chart DSL queries against a DailyTotals snapshot.
//
// Pipeline:
//  1. Select the source day map and sort its dates
//  2. Apply the day-of-week filter
//  3. Extract one value per date (raw metric or derived formula)
//  4. Group and aggregate
//  5. Sort non-chronological series
//  6. Shape the ChartSeries
//
// The engine performs no I/O and never mutates its input, so one Engine
// may serve concurrent callers.
package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fitlens/backend/internal/models"
)

// ErrInvalidDSL is matched by every error Execute returns
var ErrInvalidDSL = models.ErrInvalidDSL

// Engine holds the immutable lookup tables used during execution
type Engine struct {
	formulas      FormulaTable
	colors        ColorTable
	fallbackColor string
}

// Option configures an Engine
type Option func(*Engine)

// WithFormulas replaces the derived-metric table
func WithFormulas(f FormulaTable) Option {
	return func(e *Engine) { e.formulas = f }
}

// WithColors replaces the metric color table
func WithColors(c ColorTable) Option {
	return func(e *Engine) { e.colors = c }
}

// WithFallbackColor sets the color used for unknown metrics
func WithFallbackColor(color string) Option {
	return func(e *Engine) { e.fallbackColor = color }
}

// New creates an Engine with the default tables unless overridden
func New(opts ...Option) *Engine {
	e := &Engine{
		formulas:      DefaultFormulas(),
		colors:        DefaultColors(),
		fallbackColor: FallbackColor,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs dsl against totals and returns a render-ready series.
// It fails only when the DSL is structurally malformed; missing data
// produces an empty series.
func (e *Engine) Execute(dsl models.ChartDSL, totals *models.DailyTotals) (*models.ChartSeries, error) {
	if err := dsl.Validate(); err != nil {
		return nil, err
	}
	if totals == nil {
		totals = &models.DailyTotals{}
	}

	var points []models.ChartPoint
	switch dsl.GroupBy {
	case models.GroupByDate:
		points = groupByDate(e.dayValues(&dsl, totals), dsl.Aggregation)
	case models.GroupByDayOfWeek:
		points = groupByDayOfWeek(e.dayValues(&dsl, totals), dsl.Aggregation)
	case models.GroupByWeekdayVsWeekend:
		points = groupByWeekdayVsWeekend(e.dayValues(&dsl, totals), dsl.Aggregation)
	case models.GroupByWeek:
		points = groupByWeek(e.dayValues(&dsl, totals), dsl.Aggregation)
	case models.GroupByHourOfDay:
		points = e.groupByHourOfDay(&dsl, totals)
	case models.GroupByItem:
		points = e.groupByItem(&dsl, totals)
	case models.GroupByCategory:
		points = e.groupByCategory(&dsl, totals)
	default:
		return nil, &models.DSLError{Field: "groupBy", Value: string(dsl.GroupBy), Reason: "is not a known grouping"}
	}

	if !dsl.GroupBy.Chronological() {
		sortPoints(points, dsl.Sort)
	}
	points = applyLimit(points, dsl.Limit, dsl.GroupBy.Chronological())

	return e.shape(&dsl, points), nil
}

// extract computes the scalar for one bag. Derived metrics apply to food only;
// an unknown derived metric falls back to the raw metric.
func (e *Engine) extract(dsl *models.ChartDSL, bag models.Bag) (float64, bool) {
	if dsl.DerivedMetric != "" && dsl.Source == models.SourceFood {
		if f, ok := e.formulas[dsl.DerivedMetric]; ok {
			return f(bag), true
		}
	}
	return bag.Metric(dsl.Metric)
}

func sortPoints(points []models.ChartPoint, order models.SortOrder) {
	switch order {
	case models.SortValueAsc:
		sort.SliceStable(points, func(i, j int) bool { return points[i].Value < points[j].Value })
	case models.SortValueDesc:
		sort.SliceStable(points, func(i, j int) bool { return points[i].Value > points[j].Value })
	default:
		// canonical order
	}
}

// applyLimit keeps the first n points, or the most recent n for time series
func applyLimit(points []models.ChartPoint, n int, chronological bool) []models.ChartPoint {
	if n <= 0 || len(points) <= n {
		return points
	}
	if chronological {
		return points[len(points)-n:]
	}
	return points[:n]
}

func (e *Engine) shape(dsl *models.ChartDSL, points []models.ChartPoint) *models.ChartSeries {
	chartType := dsl.ChartType
	switch chartType {
	case "":
		chartType = models.ChartTypeBar
	case models.ChartTypeArea:
		chartType = models.ChartTypeLine
	}

	xLabel := string(dsl.GroupBy)
	if dsl.GroupBy == models.GroupByDate {
		xLabel = "Date"
	}

	yLabel := dsl.Metric
	if dsl.DerivedMetric != "" {
		yLabel = dsl.DerivedMetric
	}

	title := dsl.Title
	if title == "" {
		title = defaultTitle(dsl.Aggregation, yLabel, dsl.GroupBy)
	}

	if points == nil {
		points = []models.ChartPoint{}
	}

	return &models.ChartSeries{
		ChartType: chartType,
		Title:     title,
		XAxis:     models.Axis{Field: "label", Label: xLabel},
		YAxis:     models.Axis{Label: yLabel},
		Color:     e.colorFor(dsl),
		Data:      points,
		DataKey:   "value",
	}
}

func defaultTitle(agg models.Aggregation, metric string, groupBy models.GroupBy) string {
	a := string(agg)
	if a != "" {
		a = strings.ToUpper(a[:1]) + a[1:]
	}
	return fmt.Sprintf("%s %s by %s", a, strings.ReplaceAll(metric, "_", " "), groupBy)
}
