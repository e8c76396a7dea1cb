package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lifelevels/journal-backend/internal/recommendations/domain"
	"github.com/lifelevels/journal-backend/internal/storage/postgres"
)

// BatchRepository handles PostgreSQL operations for recommendation batches
type BatchRepository struct {
	db postgres.DBTX
}

func NewBatchRepository(db postgres.DBTX) *BatchRepository {
	return &BatchRepository{db: db}
}

// ListByUser returns every batch of the user, oldest milestone first.
func (r *BatchRepository) ListByUser(ctx context.Context, userID string) ([]domain.Batch, error) {
	const q = `
select id::text, user_id::text, milestone, books, coalesce(model,''), created_at
from recommendations
where user_id = $1
order by milestone asc;
`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	defer rows.Close()

	out := []domain.Batch{}
	for rows.Next() {
		var (
			b     domain.Batch
			books []byte
		)
		if err := rows.Scan(&b.ID, &b.UserID, &b.Milestone, &books, &b.Model, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		if err := decodeBooks(books, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	return out, nil
}

// Insert stores b unless a batch for (user, milestone) already exists. Either way the stored row is returned,
// so concurrent generators for the same milestone all see the first writer's books.
func (r *BatchRepository) Insert(ctx context.Context, b *domain.Batch) (*domain.Batch, error) {
	booksJSON, err := json.Marshal(b.Books)
	if err != nil {
		return nil, fmt.Errorf("marshal books: %w", err)
	}

	const q = `
insert into recommendations (user_id, milestone, books, model)
values ($1, $2, $3::jsonb, nullif($4,''))
on conflict (user_id, milestone) do update
set milestone = excluded.milestone
returning id::text, user_id::text, milestone, books, coalesce(model,''), created_at;
`
	var (
		out   domain.Batch
		books []byte
	)
	if err := r.db.QueryRow(ctx, q, b.UserID, b.Milestone, string(booksJSON), b.Model).
		Scan(&out.ID, &out.UserID, &out.Milestone, &books, &out.Model, &out.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert recommendations: %w", err)
	}
	if err := decodeBooks(books, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func decodeBooks(raw []byte, b *domain.Batch) error {
	b.Books = []domain.Book{}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &b.Books); err != nil {
		return fmt.Errorf("decode books for milestone %d: %w", b.Milestone, err)
	}
	return nil
}
