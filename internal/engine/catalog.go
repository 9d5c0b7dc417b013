package engine

import (
	"sort"

	"github.com/fitlens/backend/internal/models"
)

// MetricInfo describes one chartable metric
type MetricInfo struct {
	Key     string `json:"key"`
	Color   string `json:"color"`
	Derived bool   `json:"derived,omitempty"`
}

// Catalog lists the metrics each source can chart
type Catalog struct {
	Food     []MetricInfo `json:"food"`
	Exercise []MetricInfo `json:"exercise"`
}

// Catalog returns raw metrics per source followed by the food derived metrics
func (e *Engine) Catalog() Catalog {
	var c Catalog
	for _, m := range models.FoodMetrics {
		c.Food = append(c.Food, MetricInfo{Key: m, Color: e.lookupColor(m)})
	}

	derived := make([]string, 0, len(e.formulas))
	for name := range e.formulas {
		derived = append(derived, name)
	}
	sort.Strings(derived)
	for _, name := range derived {
		c.Food = append(c.Food, MetricInfo{Key: name, Color: e.lookupColor(name), Derived: true})
	}

	for _, m := range models.ExerciseMetrics {
		c.Exercise = append(c.Exercise, MetricInfo{Key: m, Color: e.lookupColor(m)})
	}
	return c
}

func (e *Engine) lookupColor(name string) string {
	if c, ok := e.colors[name]; ok {
		return c
	}
	return e.fallbackColor
}
