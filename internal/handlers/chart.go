package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fitlens/backend/internal/apierror"
	"github.com/fitlens/backend/internal/logger"
	"github.com/fitlens/backend/internal/models"
	"github.com/fitlens/backend/internal/service"
)

// MaxBatchCharts caps the charts one batch request may build
const MaxBatchCharts = 12

// upstreamRetryAfter is the Retry-After hint, in seconds, sent when the record store fails
const upstreamRetryAfter = 5

// WindowConfig bounds the date window a chart request may cover
type WindowConfig struct {
	DefaultDays int
	MaxDays     int
	Location    *time.Location
}

type ChartHandler struct {
	chartService service.ChartService
	window       WindowConfig
	now          func() time.Time
}

// NewChartHandler creates a new chart handler
func NewChartHandler(chartService service.ChartService, window WindowConfig) *ChartHandler {
	if window.Location == nil {
		window.Location = time.Local
	}
	return &ChartHandler{
		chartService: chartService,
		window:       window,
		now:          time.Now,
	}
}

// BuildChart handles POST /api/v1/charts
func (h *ChartHandler) BuildChart(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(requestID))
		return
	}

	var req models.ChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
		return
	}

	if req.DSL == nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
			{Field: "dsl", Message: "is required", Code: "required"},
		}))
		return
	}

	since, problem := h.resolveWindow(c, req.WindowDays, req.StartDate)
	if problem != nil {
		apierror.WriteProblem(c, problem)
		return
	}

	series, err := h.chartService.BuildChart(c.Request.Context(), userID.(string), *req.DSL, since)
	if err != nil {
		h.writeChartError(c, err)
		return
	}

	c.JSON(http.StatusOK, series)
}

// BuildBatch handles POST /api/v1/charts/batch
func (h *ChartHandler) BuildBatch(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(requestID))
		return
	}

	var req models.BatchChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
		return
	}

	var fieldErrors []apierror.FieldError
	if len(req.Charts) == 0 {
		fieldErrors = append(fieldErrors, apierror.FieldError{
			Field:   "charts",
			Message: "must contain at least one chart",
			Code:    "required",
		})
	} else if len(req.Charts) > MaxBatchCharts {
		fieldErrors = append(fieldErrors, apierror.FieldError{
			Field:   "charts",
			Message: fmt.Sprintf("must contain at most %d charts", MaxBatchCharts),
			Code:    "too_many",
		})
	}
	if len(fieldErrors) > 0 {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, fieldErrors))
		return
	}

	since, problem := h.resolveWindow(c, req.WindowDays, req.StartDate)
	if problem != nil {
		apierror.WriteProblem(c, problem)
		return
	}

	charts, err := h.chartService.BuildDashboard(c.Request.Context(), userID.(string), req.Charts, since)
	if err != nil {
		h.writeChartError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.BatchChartResponse{Charts: charts})
}

// GetMetrics handles GET /api/v1/charts/metrics
func (h *ChartHandler) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.chartService.Catalog())
}

// resolveWindow turns the request's window fields into the first date to
// read. An explicit start date wins over window_days.
func (h *ChartHandler) resolveWindow(c *gin.Context, windowDays *int, startDate string) (time.Time, *apierror.ProblemDetails) {
	requestID := apierror.GetRequestID(c)
	now := h.now().In(h.window.Location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.window.Location)

	if startDate != "" {
		start, err := time.ParseInLocation(models.DateLayout, startDate, h.window.Location)
		if err != nil {
			return time.Time{}, apierror.NewValidationError(requestID, []apierror.FieldError{
				{Field: "start_date", Message: "must be a YYYY-MM-DD date", Code: "invalid_date"},
			})
		}
		if start.After(today) {
			return time.Time{}, apierror.NewValidationError(requestID, []apierror.FieldError{
				{Field: "start_date", Message: "must not be in the future", Code: "future_date"},
			})
		}
		if start.Before(today.AddDate(0, 0, -h.window.MaxDays)) {
			return time.Time{}, apierror.NewWindowError(requestID, h.window.MaxDays)
		}
		return start, nil
	}

	days := h.window.DefaultDays
	if windowDays != nil {
		days = *windowDays
	}
	if days < 1 || days > h.window.MaxDays {
		return time.Time{}, apierror.NewWindowError(requestID, h.window.MaxDays)
	}
	return today.AddDate(0, 0, -days), nil
}

func (h *ChartHandler) writeChartError(c *gin.Context, err error) {
	log := logger.Ctx(c.Request.Context())
	requestID := apierror.GetRequestID(c)

	switch {
	case errors.Is(err, models.ErrInvalidDSL):
		field := "dsl"
		var dslErr *models.DSLError
		if errors.As(err, &dslErr) {
			field = dslErr.Field
		}
		log.Info("rejected chart dsl", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInvalidDSLError(requestID, field, err.Error()))
	case errors.Is(err, service.ErrUpstream):
		log.Error("record store read failed", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewUpstreamError(requestID, upstreamRetryAfter))
	default:
		log.Error("failed to build chart", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
	}
}
