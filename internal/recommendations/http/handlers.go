package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lifelevels/journal-backend/internal/auth"
	"github.com/lifelevels/journal-backend/internal/logging"
	"github.com/lifelevels/journal-backend/internal/recommendations/domain"
)

// Generate returns every book the caller holds at their current milestone.
func (h *Handler) Generate(c *gin.Context) {
	userID := auth.UserDBID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req domain.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// userId may be either the identity-provider subject or the users.id
	if claimed := strings.TrimSpace(req.UserID); claimed != "" && claimed != userID && claimed != auth.AuthUID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "userId does not match the authenticated user"})
		return
	}

	res, err := h.svc.Generate(c.Request.Context(), userID, req.ContentCount)
	if err != nil {
		var terr *domain.ThresholdError
		switch {
		case errors.Is(err, domain.ErrNoContent):
			c.JSON(http.StatusNotFound, gin.H{"error": "no content found for user"})
		case errors.As(err, &terr):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "need at least 10 content items for recommendations",
				"count":     terr.Count,
				"remaining": terr.Remaining,
			})
		default:
			logging.Ctx(c.Request.Context()).Error().Err(err).Str("user_id", userID).Msg("generate recommendations")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate recommendations"})
		}
		return
	}

	c.Header("X-Recommendation-Milestone", strconv.Itoa(res.Milestone))
	c.JSON(http.StatusOK, res.Books)
}

func (h *Handler) List(c *gin.Context) {
	userID := auth.UserDBID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	batches, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("user_id", userID).Msg("list recommendations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list recommendations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": batches, "count": len(batches)})
}
