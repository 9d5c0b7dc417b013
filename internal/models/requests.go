package models

// ChartRequest is the body of POST /api/v1/charts
type ChartRequest struct {
	DSL        *ChartDSL `json:"dsl"`
	WindowDays *int      `json:"window_days,omitempty"`
	StartDate  string    `json:"start_date,omitempty"`
}

// BatchChartRequest is the body of POST /api/v1/charts/batch. Every chart
// shares one window.
type BatchChartRequest struct {
	Charts     []ChartDSL `json:"charts"`
	WindowDays *int       `json:"window_days,omitempty"`
	StartDate  string     `json:"start_date,omitempty"`
}

// BatchChartResponse returns charts in request order
type BatchChartResponse struct {
	Charts []ChartSeries `json:"charts"`
}
