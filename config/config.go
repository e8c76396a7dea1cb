package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lifelevels/journal-backend/internal/logging"
)

type Config struct {
	Server          ServerConfig
	Database        DatabaseConfig
	Redis           RedisConfig
	Auth            AuthConfig
	Firebase        FirebaseConfig
	LLM             LLMConfig
	Storage         StorageConfig
	Recommendations RecommendationsConfig
	App             AppConfig
}

type ServerConfig struct {
	Port            string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Enabled  bool
}

// Auth modes.
const (
	AuthModeFirebase = "firebase"
	AuthModeJWT      = "jwt"
	AuthModeDev      = "dev"
)

type AuthConfig struct {
	Mode        string
	JWTSecret   string
	JWTAudience string
}

type FirebaseConfig struct {
	CredentialsPath string
}

type LLMConfig struct {
	BaseURL          string
	APIKey           string
	Model            string
	Temperature      float64
	MaxTokens        int
	Timeout          time.Duration
	RequestsPerSec   float64
	Burst            int
	BreakerFailures  uint32
	BreakerOpenAfter time.Duration
}

type StorageConfig struct {
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
	MaxUploadSize int64
}

type RecommendationsConfig struct {
	BooksPerMilestone int
	MaxPromptItems    int
	MaxItemChars      int
	CacheTTL          time.Duration
	BackfillSchedule  string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	LogFormat   string
	Version     string
	ServiceName string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		logging.Debug().Msg("no .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			AllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "journal"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 2),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},
		Auth: AuthConfig{
			Mode:        strings.ToLower(getEnv("AUTH_MODE", AuthModeFirebase)),
			JWTSecret:   getEnv("AUTH_JWT_SECRET", ""),
			JWTAudience: getEnv("AUTH_JWT_AUDIENCE", "authenticated"),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		},
		LLM: LLMConfig{
			BaseURL:          strings.TrimRight(getEnv("LLM_BASE_URL", "https://api.openai.com/v1"), "/"),
			APIKey:           getEnv("LLM_API_KEY", ""),
			Model:            getEnv("LLM_MODEL", "gpt-4-turbo-preview"),
			Temperature:      getEnvAsFloat("LLM_TEMPERATURE", 0.7),
			MaxTokens:        getEnvAsInt("LLM_MAX_TOKENS", 1200),
			Timeout:          getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
			RequestsPerSec:   getEnvAsFloat("LLM_REQUESTS_PER_SEC", 2),
			Burst:            getEnvAsInt("LLM_BURST", 4),
			BreakerFailures:  uint32(getEnvAsInt("LLM_BREAKER_FAILURES", 5)),
			BreakerOpenAfter: getEnvAsDuration("LLM_BREAKER_OPEN_FOR", 30*time.Second),
		},
		Storage: StorageConfig{
			Endpoint:      getEnv("STORAGE_ENDPOINT", ""),
			Region:        getEnv("STORAGE_REGION", "us-east-1"),
			AccessKey:     getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey:     getEnv("STORAGE_SECRET_KEY", ""),
			Bucket:        getEnv("STORAGE_BUCKET", "user-content"),
			PublicBaseURL: strings.TrimRight(getEnv("STORAGE_PUBLIC_BASE_URL", ""), "/"),
			MaxUploadSize: int64(getEnvAsInt("STORAGE_MAX_UPLOAD_BYTES", 10<<20)),
		},
		Recommendations: RecommendationsConfig{
			BooksPerMilestone: getEnvAsInt("RECS_BOOKS_PER_MILESTONE", 1),
			MaxPromptItems:    getEnvAsInt("RECS_MAX_PROMPT_ITEMS", 50),
			MaxItemChars:      getEnvAsInt("RECS_MAX_ITEM_CHARS", 1000),
			CacheTTL:          getEnvAsDuration("RECS_CACHE_TTL", 24*time.Hour),
			BackfillSchedule:  getEnv("RECS_BACKFILL_SCHEDULE", "0 0 0 * * *"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", ""),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			ServiceName: getEnv("SERVICE_NAME", "journal-backend"),
		},
	}

	if cfg.App.LogFormat == "" {
		cfg.App.LogFormat = "console"
		if cfg.App.Environment == "production" {
			cfg.App.LogFormat = "json"
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.DSN == "" && c.Database.Host == "" {
		return fmt.Errorf("DB_DSN or DB_HOST is required")
	}

	switch c.Auth.Mode {
	case AuthModeFirebase:
		if c.Firebase.CredentialsPath == "" {
			return fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required when AUTH_MODE=firebase")
		}
	case AuthModeJWT:
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("AUTH_JWT_SECRET is required when AUTH_MODE=jwt")
		}
	case AuthModeDev:
		if c.App.Environment == "production" {
			return fmt.Errorf("AUTH_MODE=dev is not allowed in production")
		}
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.Auth.Mode)
	}

	if c.Recommendations.BooksPerMilestone < 1 {
		return fmt.Errorf("RECS_BOOKS_PER_MILESTONE must be at least 1")
	}

	if c.Storage.Bucket == "" {
		return fmt.Errorf("STORAGE_BUCKET is required")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		logging.Warn().Str("key", key).Int("default", defaultValue).Msg("invalid integer, using default")
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		logging.Warn().Str("key", key).Float64("default", defaultValue).Msg("invalid float, using default")
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		logging.Warn().Str("key", key).Bool("default", defaultValue).Msg("invalid boolean, using default")
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		logging.Warn().Str("key", key).Dur("default", defaultValue).Msg("invalid duration, using default")
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
