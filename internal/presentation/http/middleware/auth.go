package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/observability/logging"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/security"
	"github.com/shelfshare/shelfshare-go/pkg/config"
)

// Context keys set by RequireAuth.
const (
	ContextUserID   = "userId"
	ContextUserRole = "userRole"
)

// RequireAuth validates the bearer token and attaches the authenticated
// identity to the request context.
func RequireAuth(logger *logging.ChanneledLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		claims, err := security.ValidateToken(strings.TrimPrefix(header, "Bearer "), config.JWTSecret)
		if err != nil {
			logger.Auth().Debug("Bearer token rejected", "path", c.Request.URL.Path, "error", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, claims.Role)
		c.Next()
	}
}

// UserID returns the authenticated user id set by RequireAuth.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
