package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lifelevels/journal-backend/config"
	_ "github.com/lib/pq"
)

// NewConnection opens a database/sql handle backed by lib/pq. It is used for
// schema management; request traffic goes through the pgx pool.
func NewConnection(ctx context.Context, cfg *config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	return db, nil
}
