package apierror

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the MIME type for RFC 9457 Problem Details.
const ContentTypeProblemJSON = "application/problem+json"

// WriteProblem writes a ProblemDetails response to the gin context.
// It sets the correct Content-Type header and, if RetryAfter is set,
// also sets the Retry-After header.
func WriteProblem(c *gin.Context, problem *ProblemDetails) {
	c.Header("Content-Type", ContentTypeProblemJSON)

	if problem.RetryAfter != nil {
		c.Header("Retry-After", strconv.Itoa(*problem.RetryAfter))
	}

	c.JSON(problem.Status, problem)
}

// GetRequestID extracts the request ID from the gin context.
// Returns empty string if not found.
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return c.GetHeader("X-Request-ID")
}

// NewValidationError creates a 400 Bad Request response for request body validation failures.
func NewValidationError(requestID string, errors []FieldError) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeValidation,
		Title:       TitleValidation,
		Status:      http.StatusBadRequest,
		Detail:      "One or more fields failed validation",
		RequestID:   requestID,
		UserMessage: "Please check your input and try again",
		Errors:      errors,
	}
}

// NewInvalidDSLError creates a 400 response for a chart query that breaks the DSL contract.
// field names the offending DSL field, e.g. "groupBy" or "filter.category".
func NewInvalidDSLError(requestID, field, detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeInvalidDSL,
		Title:       TitleInvalidDSL,
		Status:      http.StatusBadRequest,
		Detail:      detail,
		RequestID:   requestID,
		UserMessage: "This chart could not be built from the request",
		Action:      "fix_query",
		Errors: []FieldError{
			{Field: field, Message: detail, Code: "invalid_dsl"},
		},
	}
}

// NewUpstreamError creates a 502 Bad Gateway response when the record store fails.
// retryAfter specifies seconds until the client should retry.
func NewUpstreamError(requestID string, retryAfter int) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeUpstream,
		Title:       TitleUpstream,
		Status:      http.StatusBadGateway,
		Detail:      "The record store could not be read",
		RequestID:   requestID,
		UserMessage: "Your data is temporarily unavailable. Please try again shortly.",
		RetryAfter:  &retryAfter,
	}
}

// NewRateLimitError creates a 429 Too Many Requests response.
// retryAfter specifies seconds until the client should retry.
func NewRateLimitError(requestID string, retryAfter int) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeRateLimit,
		Title:       TitleRateLimit,
		Status:      http.StatusTooManyRequests,
		Detail:      "Rate limit exceeded",
		RequestID:   requestID,
		UserMessage: "Too many charts requested. Please wait a moment.",
		RetryAfter:  &retryAfter,
	}
}

// NewInternalError creates a 500 Internal Server Error response.
// The underlying error is never included; callers log it.
func NewInternalError(requestID string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeInternal,
		Title:       TitleInternal,
		Status:      http.StatusInternalServerError,
		Detail:      "An unexpected error occurred",
		RequestID:   requestID,
		UserMessage: "Something went wrong. Please try again later.",
	}
}

// NewBadRequestError creates a 400 Bad Request response for malformed requests.
func NewBadRequestError(requestID, detail, userMessage string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeBadRequest,
		Title:       TitleBadRequest,
		Status:      http.StatusBadRequest,
		Detail:      detail,
		RequestID:   requestID,
		UserMessage: userMessage,
	}
}

// NewUnauthorizedError creates a 401 Unauthorized response.
func NewUnauthorizedError(requestID string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeUnauthorized,
		Title:       TitleUnauthorized,
		Status:      http.StatusUnauthorized,
		Detail:      "Missing or invalid authentication token",
		RequestID:   requestID,
		UserMessage: "Please sign in to continue",
		Action:      "authenticate",
	}
}

// NewWindowError creates a 400 response for a chart window outside the allowed range.
func NewWindowError(requestID string, maxDays int) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeValidation,
		Title:       TitleValidation,
		Status:      http.StatusBadRequest,
		Detail:      fmt.Sprintf("window_days must be between 1 and %d", maxDays),
		RequestID:   requestID,
		UserMessage: fmt.Sprintf("Charts can cover at most %d days", maxDays),
		Errors: []FieldError{
			{Field: "window_days", Message: fmt.Sprintf("must be between 1 and %d", maxDays), Code: "out_of_range"},
		},
	}
}
