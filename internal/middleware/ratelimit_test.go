package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimiterWindow(t *testing.T) {
	now := time.Date(2026, 2, 16, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(2, time.Minute, "test")
	limiter.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if ok, _ := limiter.allow("user:a"); !ok {
			t.Fatalf("Expected request %d to be allowed", i+1)
		}
	}

	now = now.Add(20 * time.Second)
	ok, retryAfter := limiter.allow("user:a")
	if ok {
		t.Fatal("Expected third request in the window to be limited")
	}
	if retryAfter != 40 {
		t.Errorf("Expected retry after 40s, got %d", retryAfter)
	}

	if ok, _ := limiter.allow("user:b"); !ok {
		t.Error("Expected a different caller to have its own window")
	}

	now = now.Add(41 * time.Second)
	if ok, _ := limiter.allow("user:a"); !ok {
		t.Error("Expected a fresh window after expiry")
	}
}

func TestRateLimiterPrunesStaleCallers(t *testing.T) {
	now := time.Date(2026, 2, 16, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(5, time.Minute, "test")
	limiter.now = func() time.Time { return now }

	limiter.allow("ip:1")
	now = now.Add(3 * time.Minute)
	limiter.allow("ip:2")

	if _, ok := limiter.requests["ip:1"]; ok {
		t.Error("Expected stale caller to be pruned")
	}
}

// TestRateLimiterConcurrentAccess verifies the rate limiter is safe under concurrent access.
// Run with: go test -race -count=1 ./internal/middleware/ -run TestRateLimiterConcurrentAccess
func TestRateLimiterConcurrentAccess(t *testing.T) {
	limiter := NewRateLimiter(100, time.Minute, "test-concurrent")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				key := "user:shared"
				if j%3 == 0 {
					key = "user:" + strconv.Itoa(id%10)
				}
				limiter.allow(key)
			}
		}(i)
	}
	wg.Wait()
}

func TestRateLimitMiddlewareKeysByUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewRateLimiter(1, time.Minute, "test")

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", c.GetHeader("X-Test-User"))
		c.Next()
	})
	r.Use(rateLimitMiddleware(limiter))
	r.POST("/api/v1/charts", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(user string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/charts", nil)
		req.Header.Set("X-Test-User", user)
		r.ServeHTTP(w, req)
		return w
	}

	if w := send("alice"); w.Code != http.StatusOK {
		t.Fatalf("Expected first request allowed, got %d", w.Code)
	}
	w := send("alice")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Expected Retry-After header")
	}
	if w := send("bob"); w.Code != http.StatusOK {
		t.Errorf("Expected other user unaffected, got %d", w.Code)
	}
}
