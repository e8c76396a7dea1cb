package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lifelevels/journal-backend/internal/logging"
	"github.com/lifelevels/journal-backend/internal/users"
)

type UserEnsurer interface {
	EnsureUser(ctx context.Context, u users.UpsertUser) (string, error)
}

// WithUser upserts the authenticated caller into users and stores users.id in the context.
// It must run after an identity middleware.
func WithUser(userRepo UserEnsurer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authUID := AuthUID(c)
		if authUID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		uid, err := userRepo.EnsureUser(c.Request.Context(), users.UpsertUser{
			AuthUID:     authUID,
			Email:       c.GetString(CtxEmail),
			DisplayName: c.GetString(CtxDisplayName),
			PhotoURL:    c.GetString(CtxPhotoURL),
		})
		if err != nil {
			logging.Ctx(c.Request.Context()).Error().Err(err).Str("auth_uid", authUID).Msg("ensure user")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
			return
		}

		c.Set(CtxUserDBID, uid)
		c.Next()
	}
}
