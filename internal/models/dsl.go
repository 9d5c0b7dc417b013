package models

import (
	"errors"
	"fmt"
	"strings"
)

// ChartType is the requested renderer
type ChartType string

const (
	ChartTypeBar  ChartType = "bar"
	ChartTypeLine ChartType = "line"
	ChartTypeArea ChartType = "area"
)

// Valid reports whether c is a known chart type
func (c ChartType) Valid() bool {
	switch c {
	case ChartTypeBar, ChartTypeLine, ChartTypeArea:
		return true
	}
	return false
}

// Source selects which half of DailyTotals a chart reads
type Source string

const (
	SourceFood     Source = "food"
	SourceExercise Source = "exercise"
)

// Valid reports whether s is a known source
func (s Source) Valid() bool {
	return s == SourceFood || s == SourceExercise
}

// GroupBy is the bucketing strategy
type GroupBy string

const (
	GroupByDate             GroupBy = "date"
	GroupByDayOfWeek        GroupBy = "dayOfWeek"
	GroupByHourOfDay        GroupBy = "hourOfDay"
	GroupByWeekdayVsWeekend GroupBy = "weekdayVsWeekend"
	GroupByWeek             GroupBy = "week"
	GroupByItem             GroupBy = "item"
	GroupByCategory         GroupBy = "category"
)

// Valid reports whether g is a known grouping
func (g GroupBy) Valid() bool {
	switch g {
	case GroupByDate, GroupByDayOfWeek, GroupByHourOfDay, GroupByWeekdayVsWeekend,
		GroupByWeek, GroupByItem, GroupByCategory:
		return true
	}
	return false
}

// Chronological reports whether the grouping keeps time order regardless of sort
func (g GroupBy) Chronological() bool {
	return g == GroupByDate || g == GroupByWeek
}

// Aggregation is the bucket reduction method
type Aggregation string

const (
	AggregationSum     Aggregation = "sum"
	AggregationAverage Aggregation = "average"
	AggregationMax     Aggregation = "max"
	AggregationMin     Aggregation = "min"
	AggregationCount   Aggregation = "count"
)

// Valid reports whether a is a known aggregation
func (a Aggregation) Valid() bool {
	switch a {
	case AggregationSum, AggregationAverage, AggregationMax, AggregationMin, AggregationCount:
		return true
	}
	return false
}

// SortOrder orders non-chronological series
type SortOrder string

const (
	SortLabel     SortOrder = "label"
	SortValueAsc  SortOrder = "value_asc"
	SortValueDesc SortOrder = "value_desc"
)

// Valid reports whether s is a known sort order
func (s SortOrder) Valid() bool {
	switch s {
	case SortLabel, SortValueAsc, SortValueDesc:
		return true
	}
	return false
}

// ExerciseCategory is the cardio/strength classification
type ExerciseCategory string

const (
	CategoryCardio   ExerciseCategory = "Cardio"
	CategoryStrength ExerciseCategory = "Strength"
)

// Valid reports whether c is a known category
func (c ExerciseCategory) Valid() bool {
	return c == CategoryCardio || c == CategoryStrength
}

// ChartDSL is the declarative chart query produced by the translator
type ChartDSL struct {
	ChartType     ChartType   `json:"chartType,omitempty"`
	Title         string      `json:"title,omitempty"`
	Source        Source      `json:"source"`
	Metric        string      `json:"metric"`
	DerivedMetric string      `json:"derivedMetric,omitempty"`
	GroupBy       GroupBy     `json:"groupBy"`
	Aggregation   Aggregation `json:"aggregation"`
	Filter        *DSLFilter  `json:"filter,omitempty"`
	Sort          SortOrder   `json:"sort,omitempty"`
	Limit         int         `json:"limit,omitempty"`

	// Accepted for schema compatibility; not applied.
	Window    int    `json:"window,omitempty"`
	Transform string `json:"transform,omitempty"`
}

// DSLFilter narrows the records a chart reads
type DSLFilter struct {
	ExerciseKey     string           `json:"exerciseKey,omitempty"`
	ExerciseSubtype string           `json:"exerciseSubtype,omitempty"`
	DayOfWeek       []int            `json:"dayOfWeek,omitempty"`
	Category        ExerciseCategory `json:"category,omitempty"`
}

// ErrInvalidDSL is matched by every DSL contract violation
var ErrInvalidDSL = errors.New("invalid chart dsl")

// DSLError describes one malformed DSL field
type DSLError struct {
	Field  string
	Value  string
	Reason string
}

func (e *DSLError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid chart dsl: %s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid chart dsl: %s %q %s", e.Field, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidDSL) true for any DSLError
func (e *DSLError) Is(target error) bool {
	return target == ErrInvalidDSL
}

// Validate checks structure only: required fields are present and every
// enumerated field holds a known value.
func (d *ChartDSL) Validate() error {
	if d.Source == "" {
		return &DSLError{Field: "source", Reason: "is required"}
	}
	if !d.Source.Valid() {
		return &DSLError{Field: "source", Value: string(d.Source), Reason: "is not a known source"}
	}
	if strings.TrimSpace(d.Metric) == "" {
		return &DSLError{Field: "metric", Reason: "is required"}
	}
	if d.GroupBy == "" {
		return &DSLError{Field: "groupBy", Reason: "is required"}
	}
	if !d.GroupBy.Valid() {
		return &DSLError{Field: "groupBy", Value: string(d.GroupBy), Reason: "is not a known grouping"}
	}
	if d.Aggregation == "" {
		return &DSLError{Field: "aggregation", Reason: "is required"}
	}
	if !d.Aggregation.Valid() {
		return &DSLError{Field: "aggregation", Value: string(d.Aggregation), Reason: "is not a known aggregation"}
	}
	if d.ChartType != "" && !d.ChartType.Valid() {
		return &DSLError{Field: "chartType", Value: string(d.ChartType), Reason: "is not a known chart type"}
	}
	if d.Sort != "" && !d.Sort.Valid() {
		return &DSLError{Field: "sort", Value: string(d.Sort), Reason: "is not a known sort order"}
	}
	if d.Limit < 0 {
		return &DSLError{Field: "limit", Value: fmt.Sprint(d.Limit), Reason: "must not be negative"}
	}
	if d.Filter != nil {
		for _, day := range d.Filter.DayOfWeek {
			if day < 0 || day > 6 {
				return &DSLError{Field: "filter.dayOfWeek", Value: fmt.Sprint(day), Reason: "must be between 0 and 6"}
			}
		}
		if d.Filter.Category != "" && !d.Filter.Category.Valid() {
			return &DSLError{Field: "filter.category", Value: string(d.Filter.Category), Reason: "is not a known category"}
		}
	}
	return nil
}

// ChartSeries is the render-ready output of the engine
type ChartSeries struct {
	ChartType ChartType    `json:"chartType"`
	Title     string       `json:"title"`
	XAxis     Axis         `json:"xAxis"`
	YAxis     Axis         `json:"yAxis"`
	Color     string       `json:"color"`
	Data      []ChartPoint `json:"data"`
	DataKey   string       `json:"dataKey"`
}

// Axis describes one chart axis
type Axis struct {
	Field string `json:"field,omitempty"`
	Label string `json:"label"`
}

// ChartPoint is one emitted bucket
type ChartPoint struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	RawDate string  `json:"rawDate,omitempty"`
}
