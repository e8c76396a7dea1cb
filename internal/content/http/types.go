package http

import (
	"context"

	"github.com/lifelevels/journal-backend/internal/content/domain"
)

type ContentService interface {
	Create(ctx context.Context, userID string, req *domain.CreateContentRequest) (*domain.Content, error)
	List(ctx context.Context, userID string) ([]domain.Content, error)
	Get(ctx context.Context, userID, id string) (*domain.Content, error)
	Delete(ctx context.Context, userID, id string) error
}

// formOverhead leaves room for the text fields and multipart boundaries next to the file.
const formOverhead = 1 << 20

// Handler handles HTTP requests for journal content
type Handler struct {
	svc     ContentService
	maxBody int64
}

// New builds the handler. Request bodies are capped at maxUploadSize plus form overhead; 0 disables the cap.
func New(svc ContentService, maxUploadSize int64) *Handler {
	h := &Handler{svc: svc}
	if maxUploadSize > 0 {
		h.maxBody = maxUploadSize + formOverhead
	}
	return h
}
