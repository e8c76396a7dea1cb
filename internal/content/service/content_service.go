package service

import (
	"context"
	"fmt"
	"html"
	"io"
	"mime"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/lifelevels/journal-backend/internal/content/domain"
	"github.com/lifelevels/journal-backend/internal/logging"
	"github.com/lifelevels/journal-backend/internal/metrics"
	"github.com/lifelevels/journal-backend/internal/objectstore"
	"github.com/lifelevels/journal-backend/internal/validation"
)

type Repository interface {
	Create(ctx context.Context, c *domain.Content) error
	ListByUser(ctx context.Context, userID string) ([]domain.Content, error)
	Get(ctx context.Context, userID, id string) (*domain.Content, error)
	Delete(ctx context.Context, userID, id string) (string, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body io.ReadSeeker, size int64) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// ContentService handles business logic for journal items
type ContentService struct {
	repo          Repository
	store         ObjectStore
	policy        *bluemonday.Policy
	maxUploadSize int64
}

// NewContentService creates a ContentService. store may be nil, in which case uploads are rejected.
func NewContentService(repo Repository, store ObjectStore, maxUploadSize int64) *ContentService {
	return &ContentService{
		repo:          repo,
		store:         store,
		policy:        bluemonday.StrictPolicy(),
		maxUploadSize: maxUploadSize,
	}
}

// sanitize strips markup and keeps plain text. Entity-encoded markup decodes into tags,
// so the text is sanitized again until it stops changing.
func (s *ContentService) sanitize(v string) string {
	out := strings.TrimSpace(v)
	for i := 0; i < 4; i++ {
		next := strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(out)))
		if next == out {
			return out
		}
		out = next
	}
	return strings.TrimSpace(s.policy.Sanitize(out))
}

func (s *ContentService) Create(ctx context.Context, userID string, req *domain.CreateContentRequest) (*domain.Content, error) {
	req.Title = s.sanitize(req.Title)
	req.Description = s.sanitize(req.Description)
	req.Type = strings.ToLower(strings.TrimSpace(req.Type))
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	c := &domain.Content{
		UserID:      userID,
		Title:       req.Title,
		Type:        req.Type,
		Description: req.Description,
	}

	if req.Type == domain.TypeDiary {
		body := s.sanitize(req.Body)
		if body == "" {
			return nil, domain.ErrBodyRequired
		}
		c.URL = body
	} else {
		key, err := s.upload(ctx, userID, req.Type, req.File)
		if err != nil {
			return nil, err
		}
		c.StorageKey = key
		c.URL = s.store.PublicURL(key)
	}

	if err := s.repo.Create(ctx, c); err != nil {
		if c.StorageKey != "" {
			if derr := s.store.Delete(ctx, c.StorageKey); derr != nil {
				logging.Ctx(ctx).Warn().Err(derr).Str("key", c.StorageKey).Msg("remove orphaned upload")
			}
		}
		return nil, err
	}

	metrics.ContentItems.WithLabelValues("create", c.Type).Inc()
	logging.Ctx(ctx).Info().Str("user_id", userID).Str("content_id", c.ID).Str("type", c.Type).Msg("content created")
	return c, nil
}

func (s *ContentService) upload(ctx context.Context, userID, kind string, f *domain.Upload) (string, error) {
	if f == nil || f.Body == nil {
		return "", domain.ErrFileRequired
	}
	if s.store == nil {
		return "", domain.ErrStorageUnavailable
	}
	if s.maxUploadSize > 0 && f.Size > s.maxUploadSize {
		return "", domain.ErrFileTooLarge
	}

	mediaType := NormalizeMediaType(f.ContentType)
	if !MediaTypeAllowed(kind, mediaType) {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedMediaType, mediaType)
	}

	key := objectstore.ObjectKey(userID, kind, f.Filename)
	if err := s.store.Put(ctx, key, mediaType, f.Body, f.Size); err != nil {
		return "", fmt.Errorf("upload file: %w", err)
	}
	return key, nil
}

// NormalizeMediaType lowercases a Content-Type value and drops its parameters.
func NormalizeMediaType(v string) string {
	mt, _, err := mime.ParseMediaType(v)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(v))
	}
	return mt
}

func MediaTypeAllowed(kind, mediaType string) bool {
	for _, allowed := range domain.AllowedMediaTypes[kind] {
		if allowed == mediaType {
			return true
		}
	}
	return false
}

func (s *ContentService) List(ctx context.Context, userID string) ([]domain.Content, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *ContentService) Get(ctx context.Context, userID, id string) (*domain.Content, error) {
	return s.repo.Get(ctx, userID, id)
}

func (s *ContentService) Count(ctx context.Context, userID string) (int, error) {
	return s.repo.CountByUser(ctx, userID)
}

// Delete removes the item and its stored object. A failed object removal is logged, not returned.
func (s *ContentService) Delete(ctx context.Context, userID, id string) error {
	key, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}

	if key != "" && s.store != nil {
		if err := s.store.Delete(ctx, key); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("remove stored object")
		}
	}

	metrics.ContentItems.WithLabelValues("delete", "any").Inc()
	logging.Ctx(ctx).Info().Str("user_id", userID).Str("content_id", id).Msg("content deleted")
	return nil
}
