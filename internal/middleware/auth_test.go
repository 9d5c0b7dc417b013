package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/fitlens/backend/internal/apierror"
	"github.com/fitlens/backend/internal/logger"
	"github.com/fitlens/backend/pkg/supabase"
)

type mockVerifier struct {
	users map[string]string
}

func (m *mockVerifier) VerifyToken(ctx context.Context, token string) (*supabase.User, error) {
	if id, ok := m.users[token]; ok {
		return &supabase.User{ID: id, Email: id + "@example.com"}, nil
	}
	return nil, errors.New("invalid token")
}

func newAuthRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":     c.GetString("user_id"),
			"ctx_user_id": logger.UserIDFromContext(c.Request.Context()),
		})
	})
	return r
}

func TestAuth(t *testing.T) {
	router := newAuthRouter(Auth(&mockVerifier{users: map[string]string{"good": "user-1"}}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer good", http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"rejected token", "Bearer bad", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("Expected %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantStatus == http.StatusUnauthorized {
				if ct := w.Header().Get("Content-Type"); ct != apierror.ContentTypeProblemJSON {
					t.Errorf("Expected problem+json, got %q", ct)
				}
				return
			}

			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body["user_id"] != "user-1" || body["ctx_user_id"] != "user-1" {
				t.Errorf("Expected user-1 in gin and request context, got %v", body)
			}
		})
	}
}

func TestLocalUser(t *testing.T) {
	router := newAuthRouter(LocalUser("local"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["user_id"] != "local" || body["ctx_user_id"] != "local" {
		t.Errorf("Expected local user, got %v", body)
	}
}

func TestRequestContextAndLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	base := logger.New(logger.Config{Level: logger.LevelInfo, Format: "json", Backend: logger.BackendZerolog, Output: &buf})

	r := gin.New()
	r.Use(RequestContext(base), Logger())
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, apierror.GetRequestID(c))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "client-req-7")
	r.ServeHTTP(w, req)

	if w.Body.String() != "client-req-7" {
		t.Errorf("Expected handler to see caller's request id, got %q", w.Body.String())
	}
	if w.Header().Get(RequestIDHeader) != "client-req-7" {
		t.Errorf("Expected request id echoed, got %q", w.Header().Get(RequestIDHeader))
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected one JSON access log line, got %q: %v", buf.String(), err)
	}
	if entry["request_id"] != "client-req-7" || entry["path"] != "/health" || entry["status"] != float64(200) {
		t.Errorf("Unexpected access log %v", entry)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if len(w.Header().Get(RequestIDHeader)) != 36 {
		t.Errorf("Expected generated UUID request id, got %q", w.Header().Get(RequestIDHeader))
	}
}

func TestSecurityHeaders(t *testing.T) {
	for _, production := range []bool{false, true} {
		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.Use(SecurityHeaders(production))
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		if w.Header().Get("Cache-Control") != "no-store" {
			t.Errorf("Expected no-store, got %q", w.Header().Get("Cache-Control"))
		}
		if hsts := w.Header().Get("Strict-Transport-Security"); (hsts != "") != production {
			t.Errorf("production=%v: unexpected HSTS %q", production, hsts)
		}
	}
}
