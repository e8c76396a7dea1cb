package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DevDefaults(t *testing.T) {
	t.Setenv("AUTH_MODE", "dev")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, AuthModeDev, cfg.Auth.Mode)
	assert.Equal(t, "user-content", cfg.Storage.Bucket)
	assert.Equal(t, int64(10<<20), cfg.Storage.MaxUploadSize)
	assert.Equal(t, 1, cfg.Recommendations.BooksPerMilestone)
	assert.Equal(t, "console", cfg.App.LogFormat)
	assert.Equal(t, "0 0 0 * * *", cfg.Recommendations.BackfillSchedule)
}

func TestLoad_ParsesTypedValues(t *testing.T) {
	t.Setenv("AUTH_MODE", "jwt")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("LLM_TIMEOUT", "15s")
	t.Setenv("LLM_TEMPERATURE", "0.2")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("RECS_BOOKS_PER_MILESTONE", "3")
	t.Setenv("LLM_BASE_URL", "https://llm.example/v1/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.LLM.Timeout)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 1e-9)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 3, cfg.Recommendations.BooksPerMilestone)
	assert.Equal(t, "https://llm.example/v1", cfg.LLM.BaseURL)
}

func TestLoad_InvalidNumberFallsBackToDefault(t *testing.T) {
	t.Setenv("AUTH_MODE", "dev")
	t.Setenv("DB_PORT", "not-a-port")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:          ServerConfig{Port: "8080"},
			Database:        DatabaseConfig{Host: "localhost"},
			Auth:            AuthConfig{Mode: AuthModeDev},
			Storage:         StorageConfig{Bucket: "user-content"},
			Recommendations: RecommendationsConfig{BooksPerMilestone: 1},
			App:             AppConfig{Environment: "development"},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("firebase needs credentials", func(t *testing.T) {
		c := base()
		c.Auth.Mode = AuthModeFirebase
		assert.ErrorContains(t, c.Validate(), "FIREBASE_CREDENTIALS_PATH")
	})

	t.Run("jwt needs secret", func(t *testing.T) {
		c := base()
		c.Auth.Mode = AuthModeJWT
		assert.ErrorContains(t, c.Validate(), "AUTH_JWT_SECRET")
	})

	t.Run("dev auth rejected in production", func(t *testing.T) {
		c := base()
		c.App.Environment = "production"
		assert.Error(t, c.Validate())
	})

	t.Run("unknown auth mode", func(t *testing.T) {
		c := base()
		c.Auth.Mode = "magic"
		assert.ErrorContains(t, c.Validate(), "unknown AUTH_MODE")
	})

	t.Run("books per milestone", func(t *testing.T) {
		c := base()
		c.Recommendations.BooksPerMilestone = 0
		assert.Error(t, c.Validate())
	})
}
