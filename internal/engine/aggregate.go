package engine

import (
	"fmt"

	"github.com/fitlens/backend/internal/models"
)

// Aggregate reduces a bucket's values. Callers must skip empty buckets;
// an empty slice is a programming error and panics.
//
// Count returns the number of contributing values and ignores their magnitude.
func Aggregate(values []float64, method models.Aggregation) float64 {
	if len(values) == 0 {
		panic("engine: Aggregate called with an empty bucket")
	}

	switch method {
	case models.AggregationSum:
		return sum(values)
	case models.AggregationAverage:
		return sum(values) / float64(len(values))
	case models.AggregationMax:
		m := values[0]
		for _, v := range values[1:] {
			if v > m {
				m = v
			}
		}
		return m
	case models.AggregationMin:
		m := values[0]
		for _, v := range values[1:] {
			if v < m {
				m = v
			}
		}
		return m
	case models.AggregationCount:
		return float64(len(values))
	default:
		panic(fmt.Sprintf("engine: unknown aggregation %q", method))
	}
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
