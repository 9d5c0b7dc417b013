package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fitlens/backend/internal/apierror"
	"github.com/fitlens/backend/internal/logger"
	"github.com/fitlens/backend/pkg/supabase"
)

// TokenVerifier resolves a bearer token to its user
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*supabase.User, error)
}

// Auth middleware to verify JWT tokens
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.FromContext(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Debug("authentication failed: missing authorization header")
			requestID := apierror.GetRequestID(c)
			apierror.WriteProblem(c, apierror.NewUnauthorizedError(requestID))
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Debug("authentication failed: invalid authorization format")
			requestID := apierror.GetRequestID(c)
			apierror.WriteProblem(c, apierror.NewUnauthorizedError(requestID))
			c.Abort()
			return
		}

		token := parts[1]

		user, err := verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			log.Warn("authentication failed: token verification error",
				logger.Err(err),
			)
			requestID := apierror.GetRequestID(c)
			apierror.WriteProblem(c, apierror.NewUnauthorizedError(requestID))
			c.Abort()
			return
		}

		setUser(c, user.ID)
		c.Set("user_email", user.Email)

		log.Debug("authentication successful",
			logger.String("user_id", user.ID),
		)

		c.Next()
	}
}

// LocalUser authenticates every request as userID. It serves the sqlite
// store, where the database holds a single user's records.
func LocalUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		setUser(c, userID)
		c.Next()
	}
}

func setUser(c *gin.Context, userID string) {
	c.Set("user_id", userID)

	// Add user ID to request context for logging
	ctx := logger.WithUserID(c.Request.Context(), userID)
	c.Request = c.Request.WithContext(ctx)
}
