package http

import (
	"context"

	"github.com/lifelevels/journal-backend/internal/recommendations/domain"
)

type RecommendationService interface {
	Generate(ctx context.Context, userID string, requestedCount int) (*domain.Result, error)
	List(ctx context.Context, userID string) ([]domain.Batch, error)
}

// Handler handles HTTP requests for book recommendations
type Handler struct {
	svc RecommendationService
}

func New(svc RecommendationService) *Handler {
	return &Handler{svc: svc}
}
