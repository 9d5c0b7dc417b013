package apierror

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	// Set gin to test mode to reduce noise in test output
	gin.SetMode(gin.TestMode)
}

func TestProblemDetailsJSON(t *testing.T) {
	retryAfter := 60
	problem := &ProblemDetails{
		Type:        TypeValidation,
		Title:       TitleValidation,
		Status:      http.StatusBadRequest,
		Detail:      "Field validation failed",
		Instance:    "/api/v1/charts",
		RequestID:   "req-abc123",
		UserMessage: "Please fix the errors",
		RetryAfter:  &retryAfter,
		Action:      "fix_query",
		Errors: []FieldError{
			{Field: "dsl", Message: "is required", Code: "required"},
			{Field: "window_days", Message: "must be between 1 and 90", Code: "out_of_range"},
		},
	}

	result := marshalProblem(t, problem)

	want := map[string]any{
		"type":         TypeValidation,
		"title":        TitleValidation,
		"status":       float64(http.StatusBadRequest),
		"detail":       "Field validation failed",
		"instance":     "/api/v1/charts",
		"request_id":   "req-abc123",
		"user_message": "Please fix the errors",
		"retry_after":  float64(60),
		"action":       "fix_query",
	}
	for key, value := range want {
		if result[key] != value {
			t.Errorf("Expected %s=%v, got %v", key, value, result[key])
		}
	}

	if errs, ok := result["errors"].([]any); !ok || len(errs) != 2 {
		t.Errorf("Expected 2 errors, got %v", result["errors"])
	}
}

func marshalProblem(t *testing.T, problem *ProblemDetails) map[string]any {
	t.Helper()
	data, err := json.Marshal(problem)
	if err != nil {
		t.Fatalf("Failed to marshal ProblemDetails: %v", err)
	}
	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}
	return result
}

func TestProblemDetailsJSONOmitsEmpty(t *testing.T) {
	// Minimal problem - should omit empty fields
	problem := &ProblemDetails{
		Type:   TypeInternal,
		Title:  TitleInternal,
		Status: http.StatusInternalServerError,
	}

	result := marshalProblem(t, problem)

	// These fields should be omitted (not present) when empty
	omittedFields := []string{"detail", "instance", "request_id", "user_message", "retry_after", "action", "errors"}
	for _, field := range omittedFields {
		if _, exists := result[field]; exists {
			t.Errorf("Expected field %q to be omitted when empty, but it was present", field)
		}
	}

	// Required fields should always be present
	requiredFields := []string{"type", "title", "status"}
	for _, field := range requiredFields {
		if _, exists := result[field]; !exists {
			t.Errorf("Expected required field %q to be present", field)
		}
	}
}

func TestWriteProblemContentType(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	problem := NewInternalError("req-123")
	WriteProblem(c, problem)

	contentType := w.Header().Get("Content-Type")
	if contentType != ContentTypeProblemJSON {
		t.Errorf("Expected Content-Type=%q, got %q", ContentTypeProblemJSON, contentType)
	}
}

func TestWriteProblemRetryAfter(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	problem := NewUpstreamError("req-456", 120)
	WriteProblem(c, problem)

	// Check header
	retryAfterHeader := w.Header().Get("Retry-After")
	if retryAfterHeader != "120" {
		t.Errorf("Expected Retry-After header=%q, got %q", "120", retryAfterHeader)
	}

	// Check body field
	var result map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal response body: %v", err)
	}

	if result["retry_after"] != float64(120) {
		t.Errorf("Expected retry_after in body=%d, got %v", 120, result["retry_after"])
	}
}

func TestWriteProblemNoRetryAfterWhenNil(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	problem := NewInternalError("req-789")
	WriteProblem(c, problem)

	retryAfterHeader := w.Header().Get("Retry-After")
	if retryAfterHeader != "" {
		t.Errorf("Expected no Retry-After header, got %q", retryAfterHeader)
	}
}

func TestNewValidationErrorMultipleFields(t *testing.T) {
	errors := []FieldError{
		{Field: "dsl", Message: "is required", Code: "required"},
		{Field: "window_days", Message: "must be a number", Code: "invalid_type"},
		{Field: "start_date", Message: "must be a date", Code: "invalid_date"},
	}

	problem := NewValidationError("req-abc", errors)

	if problem.Type != TypeValidation {
		t.Errorf("Expected type=%q, got %q", TypeValidation, problem.Type)
	}
	if problem.Status != http.StatusBadRequest {
		t.Errorf("Expected status=%d, got %d", http.StatusBadRequest, problem.Status)
	}
	if len(problem.Errors) != 3 {
		t.Errorf("Expected 3 field errors, got %d", len(problem.Errors))
	}

	// Verify all errors are included, not just the first
	fieldNames := make(map[string]bool)
	for _, e := range problem.Errors {
		fieldNames[e.Field] = true
	}
	if !fieldNames["dsl"] || !fieldNames["window_days"] || !fieldNames["start_date"] {
		t.Errorf("Not all field errors were included: %v", fieldNames)
	}
}

func TestNewInternalErrorHidesDetails(t *testing.T) {
	problem := NewInternalError("req-xyz")

	// Should not contain any sensitive information
	if problem.Detail == "" {
		t.Error("Expected a generic detail message, got empty string")
	}

	// The detail should be generic, not exposing internal error information
	expectedDetail := "An unexpected error occurred"
	if problem.Detail != expectedDetail {
		t.Errorf("Expected detail=%q, got %q", expectedDetail, problem.Detail)
	}

	// Should have user-friendly message
	if problem.UserMessage == "" {
		t.Error("Expected user_message to be set")
	}
}

func TestNewUnauthorizedError(t *testing.T) {
	problem := NewUnauthorizedError("req-abc")

	if problem.Type != TypeUnauthorized {
		t.Errorf("Expected type=%q, got %q", TypeUnauthorized, problem.Type)
	}
	if problem.Status != http.StatusUnauthorized {
		t.Errorf("Expected status=%d, got %d", http.StatusUnauthorized, problem.Status)
	}
	if problem.Action != "authenticate" {
		t.Errorf("Expected action=%q, got %q", "authenticate", problem.Action)
	}
}

func TestProblemDetailsError(t *testing.T) {
	// Test Error() with detail
	p1 := &ProblemDetails{
		Type:   TypeValidation,
		Title:  TitleValidation,
		Detail: "Custom error message",
	}
	if p1.Error() != "Custom error message" {
		t.Errorf("Expected Error()=%q, got %q", "Custom error message", p1.Error())
	}

	// Test Error() without detail (falls back to title)
	p2 := &ProblemDetails{
		Type:  TypeValidation,
		Title: TitleValidation,
	}
	if p2.Error() != TitleValidation {
		t.Errorf("Expected Error()=%q, got %q", TitleValidation, p2.Error())
	}
}

func TestGetRequestID(t *testing.T) {
	// Test with request_id in gin context
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "ctx-req-123")

	requestID := GetRequestID(c)
	if requestID != "ctx-req-123" {
		t.Errorf("Expected request_id=%q, got %q", "ctx-req-123", requestID)
	}

	// Test with X-Request-ID header fallback
	c2, _ := gin.CreateTestContext(httptest.NewRecorder())
	c2.Request = httptest.NewRequest("GET", "/test", nil)
	c2.Request.Header.Set("X-Request-ID", "header-req-456")

	requestID2 := GetRequestID(c2)
	if requestID2 != "header-req-456" {
		t.Errorf("Expected request_id from header=%q, got %q", "header-req-456", requestID2)
	}

	// Test with neither (returns empty)
	c3, _ := gin.CreateTestContext(httptest.NewRecorder())
	c3.Request = httptest.NewRequest("GET", "/test", nil)

	requestID3 := GetRequestID(c3)
	if requestID3 != "" {
		t.Errorf("Expected empty request_id, got %q", requestID3)
	}
}

func TestNewInvalidDSLError(t *testing.T) {
	problem := NewInvalidDSLError("req-dsl", "groupBy", `invalid chart dsl: groupBy "month" is not a known grouping`)

	if problem.Type != TypeInvalidDSL {
		t.Errorf("Expected type=%q, got %q", TypeInvalidDSL, problem.Type)
	}
	if problem.Status != http.StatusBadRequest {
		t.Errorf("Expected status=%d, got %d", http.StatusBadRequest, problem.Status)
	}
	if len(problem.Errors) != 1 || problem.Errors[0].Field != "groupBy" {
		t.Errorf("Expected one field error on groupBy, got %v", problem.Errors)
	}
	if problem.RetryAfter != nil {
		t.Error("Expected no retry hint for a contract violation")
	}
}

func TestNewUpstreamError(t *testing.T) {
	problem := NewUpstreamError("req-up", 30)

	if problem.Type != TypeUpstream {
		t.Errorf("Expected type=%q, got %q", TypeUpstream, problem.Type)
	}
	if problem.Status != http.StatusBadGateway {
		t.Errorf("Expected status=%d, got %d", http.StatusBadGateway, problem.Status)
	}
	if problem.RetryAfter == nil || *problem.RetryAfter != 30 {
		t.Errorf("Expected retry_after=30, got %v", problem.RetryAfter)
	}
}

func TestNewWindowError(t *testing.T) {
	problem := NewWindowError("req-win", 90)

	if problem.Status != http.StatusBadRequest {
		t.Errorf("Expected status=%d, got %d", http.StatusBadRequest, problem.Status)
	}
	if len(problem.Errors) != 1 || problem.Errors[0].Field != "window_days" {
		t.Errorf("Expected one field error on window_days, got %v", problem.Errors)
	}
}

func TestNewRateLimitError(t *testing.T) {
	problem := NewRateLimitError("req-rl", 60)

	if problem.Status != http.StatusTooManyRequests {
		t.Errorf("Expected status=%d, got %d", http.StatusTooManyRequests, problem.Status)
	}
	if problem.Type != TypeRateLimit {
		t.Errorf("Expected type=%q, got %q", TypeRateLimit, problem.Type)
	}
	if problem.RetryAfter == nil || *problem.RetryAfter != 60 {
		t.Errorf("Expected retry_after=60, got %v", problem.RetryAfter)
	}
}
