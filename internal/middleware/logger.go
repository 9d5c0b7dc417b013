package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fitlens/backend/internal/logger"
)

// RequestIDHeader carries the correlation id in both directions
const RequestIDHeader = "X-Request-ID"

// RequestContext assigns each request an id (reusing the caller's
// X-Request-ID when present) and stores it with the logger on the
// request context.
func RequestContext(base logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := logger.WithRequestID(c.Request.Context(), c.GetHeader(RequestIDHeader))
		requestID := logger.RequestIDFromContext(ctx)
		ctx = logger.WithLogger(ctx, base)

		c.Request = c.Request.WithContext(ctx)
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// Logger middleware for logging HTTP requests
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		log := logger.Ctx(c.Request.Context())
		fields := []logger.Field{
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status", statusCode),
			logger.Duration("latency", latency),
			logger.String("client_ip", c.ClientIP()),
		}

		switch {
		case statusCode >= 500:
			log.Error("request completed", fields...)
		case statusCode >= 400:
			log.Warn("request completed", fields...)
		default:
			log.Info("request completed", fields...)
		}
	}
}
