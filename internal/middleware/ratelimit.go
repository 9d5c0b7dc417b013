package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fitlens/backend/internal/apierror"
	"github.com/fitlens/backend/internal/logger"
)

// RateLimiter counts chart requests per caller in fixed windows. Callers
// are keyed by authenticated user id, or by client IP before auth.
type RateLimiter struct {
	requests map[string]*clientInfo
	mu       sync.Mutex
	rate     int
	window   time.Duration
	name     string
	now      func() time.Time
}

type clientInfo struct {
	count       int
	windowStart time.Time
}

// NewRateLimiter creates a limiter allowing rate requests per window.
// Stale callers are pruned on the request path, so no goroutine is started.
func NewRateLimiter(rate int, window time.Duration, name string) *RateLimiter {
	logger.Default().Debug("rate limiter initialized",
		logger.String("name", name),
		logger.Int("rate", rate),
		logger.Duration("window", window),
	)
	return &RateLimiter{
		requests: make(map[string]*clientInfo),
		rate:     rate,
		window:   window,
		name:     name,
		now:      time.Now,
	}
}

// allow records one request for key and reports whether it is within the
// limit, plus the seconds until the caller's window resets.
func (rl *RateLimiter) allow(key string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.prune(now)

	info, exists := rl.requests[key]
	if !exists || now.Sub(info.windowStart) >= rl.window {
		rl.requests[key] = &clientInfo{count: 1, windowStart: now}
		return true, 0
	}

	info.count++
	if info.count <= rl.rate {
		return true, 0
	}

	retryAfter := int((rl.window - now.Sub(info.windowStart) + time.Second - 1) / time.Second)
	return false, retryAfter
}

// prune drops callers whose window ended more than one window ago. Caller holds mu.
func (rl *RateLimiter) prune(now time.Time) {
	for key, info := range rl.requests {
		if now.Sub(info.windowStart) > 2*rl.window {
			delete(rl.requests, key)
		}
	}
}

// RateLimit limits chart requests per user. Each chart fans out into
// record store reads, so the limit protects the store as well as the API.
func RateLimit(perMinute int) gin.HandlerFunc {
	return rateLimitMiddleware(NewRateLimiter(perMinute, time.Minute, "charts"))
}

func rateLimitMiddleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if userID, ok := c.Get("user_id"); ok {
			key = "user:" + userID.(string)
		}

		allowed, retryAfter := limiter.allow(key)
		if !allowed {
			logger.Ctx(c.Request.Context()).Warn("rate limit exceeded",
				logger.String("limiter", limiter.name),
				logger.String("caller", key),
				logger.Int("limit", limiter.rate),
				logger.Duration("window", limiter.window),
			)
			apierror.WriteProblem(c, apierror.NewRateLimitError(apierror.GetRequestID(c), retryAfter))
			c.Abort()
			return
		}

		c.Next()
	}
}
