package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lifelevels/journal-backend/internal/recommendations/domain"
)

const keyPrefix = "recs:" // recs:{user_id}:{milestone} -> JSON array of books

// BookCache caches the books returned for a (user, milestone) pair in Redis.
type BookCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewBookCache(client *redis.Client, ttl time.Duration) *BookCache {
	return &BookCache{client: client, ttl: ttl}
}

func Key(userID string, milestone int) string {
	return fmt.Sprintf("%s%s:%d", keyPrefix, userID, milestone)
}

// Get returns ok=false on a miss.
func (c *BookCache) Get(ctx context.Context, userID string, milestone int) ([]domain.Book, bool, error) {
	data, err := c.client.Get(ctx, Key(userID, milestone)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached books: %w", err)
	}

	var books []domain.Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached books: %w", err)
	}
	return books, true, nil
}

func (c *BookCache) Set(ctx context.Context, userID string, milestone int, books []domain.Book) error {
	data, err := json.Marshal(books)
	if err != nil {
		return fmt.Errorf("failed to marshal books: %w", err)
	}
	if err := c.client.Set(ctx, Key(userID, milestone), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache books: %w", err)
	}
	return nil
}
