package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		auth_uid     TEXT NOT NULL UNIQUE,
		email        TEXT,
		display_name TEXT,
		photo_url    TEXT,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS contents (
		id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id     UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		type        TEXT NOT NULL CHECK (type IN ('diary', 'image', 'video')),
		url         TEXT NOT NULL,
		description TEXT,
		storage_key TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS contents_user_created_idx ON contents (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS recommendations (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		milestone  INTEGER NOT NULL CHECK (milestone > 0),
		books      JSONB NOT NULL DEFAULT '[]'::jsonb,
		model      TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, milestone)
	)`,
}

// Migrate creates the tables and indexes the service needs. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}

// BucketChecker reports whether the content bucket exists.
type BucketChecker interface {
	BucketExists(ctx context.Context) (bool, error)
}

// Readiness is the outcome of CheckReadiness.
type Readiness struct {
	Ready      bool   `json:"ready"`
	Reason     string `json:"reason,omitempty"`
	NeedsSetup bool   `json:"needs_setup,omitempty"`
}

// CheckReadiness verifies that the tables are reachable and the bucket exists.
// buckets may be nil when object storage is not configured.
func CheckReadiness(ctx context.Context, db *sql.DB, buckets BucketChecker) Readiness {
	for _, table := range []string{"contents", "recommendations"} {
		var exists bool
		q := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s LIMIT 1)", table)
		if err := db.QueryRowContext(ctx, q).Scan(&exists); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "42P01" {
				return Readiness{Reason: table + " table does not exist", NeedsSetup: true}
			}
			return Readiness{Reason: table + " table not accessible: " + err.Error()}
		}
	}

	if buckets != nil {
		ok, err := buckets.BucketExists(ctx)
		if err != nil {
			return Readiness{Reason: "could not access storage: " + err.Error()}
		}
		if !ok {
			return Readiness{Reason: "storage bucket not found", NeedsSetup: true}
		}
	}

	return Readiness{Ready: true}
}
