package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/lifelevels/journal-backend/config"
	contentrepo "github.com/lifelevels/journal-backend/internal/content/repository"
	contentservice "github.com/lifelevels/journal-backend/internal/content/service"
	"github.com/lifelevels/journal-backend/internal/llm"
	"github.com/lifelevels/journal-backend/internal/logging"
	"github.com/lifelevels/journal-backend/internal/objectstore"
	"github.com/lifelevels/journal-backend/internal/recommendations/backfill"
	reccache "github.com/lifelevels/journal-backend/internal/recommendations/cache"
	recrepo "github.com/lifelevels/journal-backend/internal/recommendations/repository"
	recservice "github.com/lifelevels/journal-backend/internal/recommendations/service"
	"github.com/lifelevels/journal-backend/internal/users"
)

// App holds the long-lived clients and services shared by the API server and the worker.
type App struct {
	Config *config.Config

	DB    *pgxpool.Pool
	Redis *redis.Client
	Store *objectstore.Store
	LLM   *llm.Client

	Users           *users.Repo
	ContentRepo     *contentrepo.ContentRepository
	Contents        *contentservice.ContentService
	Recommendations *recservice.RecommendationService
	Backfill        *backfill.Backfiller
}

// NewApp connects to Postgres, Redis and object storage and wires the services.
// Redis is optional: a disabled or unreachable cache only logs a warning.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	pool, err := OpenDB(ctx, &cfg.Database, DBOptions{})
	if err != nil {
		return nil, err
	}

	rdb, err := OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		logging.Warn().Err(err).Msg("redis unavailable, recommendation cache disabled")
		rdb = nil
	}

	store, err := objectstore.New(ctx, &cfg.Storage)
	if err != nil {
		pool.Close()
		if rdb != nil {
			_ = rdb.Close()
		}
		return nil, fmt.Errorf("object storage: %w", err)
	}

	app := &App{
		Config: cfg,
		DB:     pool,
		Redis:  rdb,
		Store:  store,
		LLM:    llm.New(&cfg.LLM),
		Users:  users.NewRepo(pool),
	}

	app.ContentRepo = contentrepo.NewContentRepository(pool)
	app.Contents = contentservice.NewContentService(app.ContentRepo, store, cfg.Storage.MaxUploadSize)

	var cache recservice.Cache
	if rdb != nil {
		cache = reccache.NewBookCache(rdb, cfg.Recommendations.CacheTTL)
	}
	app.Recommendations = recservice.NewRecommendationService(
		app.Contents,
		recrepo.NewBatchRepository(pool),
		cache,
		app.LLM,
		recservice.Options{
			BooksPerMilestone: cfg.Recommendations.BooksPerMilestone,
			Prompt: recservice.PromptLimits{
				MaxItems:     cfg.Recommendations.MaxPromptItems,
				MaxItemChars: cfg.Recommendations.MaxItemChars,
			},
		},
	)
	app.Backfill = backfill.New(app.ContentRepo, app.Recommendations)

	return app, nil
}

func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
