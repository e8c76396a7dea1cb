package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lifelevels/journal-backend/internal/auth"
	"github.com/lifelevels/journal-backend/internal/levels"
	"github.com/lifelevels/journal-backend/internal/logging"
)

// Counter reports how many items a user has stored.
type Counter interface {
	Count(ctx context.Context, userID string) (int, error)
}

type Handler struct {
	counter Counter
}

func New(counter Counter) *Handler {
	return &Handler{counter: counter}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/progress", h.GetProgress)
}

// GetProgress returns the caller's level, milestone and unlock state.
func (h *Handler) GetProgress(c *gin.Context) {
	userID := auth.UserDBID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	count, err := h.counter.Count(c.Request.Context(), userID)
	if err != nil {
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("count contents")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"content_count": count, "progress": levels.ProgressFor(count)})
}
