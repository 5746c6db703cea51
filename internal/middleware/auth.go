package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lifequest/backend/internal/state"
	"github.com/lifequest/backend/internal/store"
	"github.com/lifequest/backend/pkg/logger"
	"github.com/lifequest/backend/pkg/utils"
)

// AuthMiddleware validates the bearer token and sets "userId" in the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("userId", claims.UserID)
		c.Set("claims", claims)
		c.Next()
	}
}

// EnsureProfile creates the caller's level-1 profile on first use. Must run
// after AuthMiddleware.
func EnsureProfile(profiles store.Profiles) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userId")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		if err := state.NewProfiles(profiles, userID).Ensure(c.Request.Context(), "Adventurer"); err != nil {
			logger.Error().Err(err).Str("user_id", userID).Msg("Failed to ensure profile")
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Next()
	}
}
