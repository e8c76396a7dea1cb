package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lifelevels/journal-backend/internal/content/domain"
	"github.com/lifelevels/journal-backend/internal/storage/postgres"
)

// ContentRepository handles PostgreSQL operations for content items
type ContentRepository struct {
	db postgres.DBTX
}

func NewContentRepository(db postgres.DBTX) *ContentRepository {
	return &ContentRepository{db: db}
}

const contentColumns = `id::text, user_id::text, title, type, url, coalesce(description,''), coalesce(storage_key,''), created_at`

// Create inserts c and fills in its ID and CreatedAt.
func (r *ContentRepository) Create(ctx context.Context, c *domain.Content) error {
	const q = `
insert into contents (user_id, title, type, url, description, storage_key)
values ($1, $2, $3, $4, nullif($5,''), nullif($6,''))
returning id::text, created_at;
`
	if err := r.db.QueryRow(ctx, q, c.UserID, c.Title, c.Type, c.URL, c.Description, c.StorageKey).
		Scan(&c.ID, &c.CreatedAt); err != nil {
		return fmt.Errorf("insert content: %w", err)
	}
	return nil
}

// ListByUser returns the user's items, newest first.
func (r *ContentRepository) ListByUser(ctx context.Context, userID string) ([]domain.Content, error) {
	q := `select ` + contentColumns + `
from contents
where user_id = $1
order by created_at desc;`

	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list contents: %w", err)
	}
	defer rows.Close()

	out := []domain.Content{}
	for rows.Next() {
		var c domain.Content
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.Type, &c.URL, &c.Description, &c.StorageKey, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list contents: %w", err)
	}
	return out, nil
}

func (r *ContentRepository) Get(ctx context.Context, userID, id string) (*domain.Content, error) {
	q := `select ` + contentColumns + `
from contents
where id = $1 and user_id = $2;`

	var c domain.Content
	err := r.db.QueryRow(ctx, q, id, userID).
		Scan(&c.ID, &c.UserID, &c.Title, &c.Type, &c.URL, &c.Description, &c.StorageKey, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrContentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get content: %w", err)
	}
	return &c, nil
}

// Delete removes the item and returns its storage key ("" for diaries).
func (r *ContentRepository) Delete(ctx context.Context, userID, id string) (string, error) {
	const q = `
delete from contents
where id = $1 and user_id = $2
returning coalesce(storage_key,'');
`
	var key string
	err := r.db.QueryRow(ctx, q, id, userID).Scan(&key)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrContentNotFound
	}
	if err != nil {
		return "", fmt.Errorf("delete content: %w", err)
	}
	return key, nil
}

func (r *ContentRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	const q = `select count(*) from contents where user_id = $1;`

	var n int
	if err := r.db.QueryRow(ctx, q, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count contents: %w", err)
	}
	return n, nil
}

// UsersWithAtLeast returns the ids of users holding at least n items.
func (r *ContentRepository) UsersWithAtLeast(ctx context.Context, n int) ([]string, error) {
	const q = `
select user_id::text
from contents
group by user_id
having count(*) >= $1
order by user_id;
`
	rows, err := r.db.Query(ctx, q, n)
	if err != nil {
		return nil, fmt.Errorf("list eligible users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
