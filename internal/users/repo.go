package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lifelevels/journal-backend/internal/storage/postgres"
)

var ErrUserNotFound = errors.New("user not found")

type User struct {
	ID          string    `json:"id"`
	AuthUID     string    `json:"auth_uid"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Repo struct {
	db postgres.DBTX
}

func NewRepo(db postgres.DBTX) *Repo {
	return &Repo{db: db}
}

type UpsertUser struct {
	AuthUID     string
	Email       string
	DisplayName string
	PhotoURL    string
}

// EnsureUser upserts the caller and returns the users.id. Empty profile fields never overwrite stored ones.
func (r *Repo) EnsureUser(ctx context.Context, u UpsertUser) (string, error) {
	if u.AuthUID == "" {
		return "", fmt.Errorf("auth_uid required")
	}

	const q = `
insert into users (auth_uid, email, display_name, photo_url, updated_at)
values ($1, nullif($2,''), nullif($3,''), nullif($4,''), now())
on conflict (auth_uid) do update
set
  email = coalesce(excluded.email, users.email),
  display_name = coalesce(excluded.display_name, users.display_name),
  photo_url = coalesce(excluded.photo_url, users.photo_url),
  updated_at = now()
returning id::text;
`
	var id string
	if err := r.db.QueryRow(ctx, q, u.AuthUID, u.Email, u.DisplayName, u.PhotoURL).Scan(&id); err != nil {
		return "", fmt.Errorf("ensure user: %w", err)
	}
	return id, nil
}

func (r *Repo) Get(ctx context.Context, id string) (*User, error) {
	const q = `
select id::text, auth_uid, coalesce(email,''), coalesce(display_name,''), coalesce(photo_url,''), created_at, updated_at
from users
where id = $1;
`
	var u User
	err := r.db.QueryRow(ctx, q, id).Scan(&u.ID, &u.AuthUID, &u.Email, &u.DisplayName, &u.PhotoURL, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
