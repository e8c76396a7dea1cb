package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lifelevels/journal-backend/internal/auth"
	"github.com/lifelevels/journal-backend/internal/logging"
)

// Authenticate validates the bearer token with v and stores the identity in the context.
func Authenticate(v auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			return
		}

		id, err := v.Verify(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, auth.ErrInvalidToken) {
				logging.Ctx(c.Request.Context()).Error().Err(err).Msg("token verification failed")
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		auth.SetIdentity(c, id)
		c.Next()
	}
}

// DevUser trusts the X-User-Id header and falls back to "demo-user".
// Use this ONLY for development/testing.
func DevUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if uid == "" {
			uid = "demo-user"
		}

		auth.SetIdentity(c, &auth.Identity{
			UID:     uid,
			Email:   c.GetHeader("X-User-Email"),
			Name:    c.GetHeader("X-User-Name"),
			Picture: c.GetHeader("X-User-Photo"),
		})
		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.EqualFold(bearerToken[:7], "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return ""
}
