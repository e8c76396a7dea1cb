package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lifelevels/journal-backend/internal/auth"
	"github.com/lifelevels/journal-backend/internal/logging"
	"github.com/lifelevels/journal-backend/internal/users"
)

// GetProfile returns the current user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	userID := auth.UserDBID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("get profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
