// File: middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"hotelpms/services/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionAuthMiddleware validates the bearer session token and re-confirms
// current account and device state on every request. The rejection message is
// uniform; the cause is only logged.
func SessionAuthMiddleware(authService auth.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		user, err := authService.VerifySession(tokenString)
		if err != nil {
			zap.L().Warn("SessionAuthMiddleware: rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("userID", user.ID)
		c.Set("role", user.Role)
		c.Set("user", user)
		c.Next()
	}
}
