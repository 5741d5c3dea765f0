// Package middleware file: middleware/token.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go-meet-hub/logger"
	"go-meet-hub/services"
)

// TokenRequired gates the /api mutation routes behind a meeting-scoped
// bearer token. The token subject (the meeting id) is stored on the context
// for handlers to check against their request body.
func TokenRequired(auth services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		meetingID, err := auth.ValidateToken(parts[1])
		if err != nil {
			logger.Warn.Printf("TokenRequired: rejected token: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set("meetingId", meetingID)
		c.Next()
	}
}
