package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/lifelevels/journal-backend/internal/api/http"
	"github.com/lifelevels/journal-backend/internal/api/http/middleware"
	"github.com/lifelevels/journal-backend/internal/auth"
	authhttp "github.com/lifelevels/journal-backend/internal/auth/http"
	contenthttp "github.com/lifelevels/journal-backend/internal/content/http"
	"github.com/lifelevels/journal-backend/internal/metrics"
	progresshttp "github.com/lifelevels/journal-backend/internal/progress/http"
	rechttp "github.com/lifelevels/journal-backend/internal/recommendations/http"
	"github.com/lifelevels/journal-backend/internal/users"
)

type UserStore interface {
	auth.UserEnsurer
	authhttp.UserGetter
}

// ContentStore is the content service as seen by the content and progress routes.
type ContentStore interface {
	contenthttp.ContentService
	progresshttp.Counter
}

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	MaxUploadSize  int64

	DB    httpapi.Pinger
	Cache httpapi.Pinger

	Identity        gin.HandlerFunc
	Users           UserStore
	Contents        ContentStore
	Recommendations rechttp.RecommendationService
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(metrics.GinMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{middleware.HeaderRequestID, "X-Recommendation-Milestone"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Cache)
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.Use(dep.Identity)
	api.Use(auth.WithUser(dep.Users))

	authhttp.New(dep.Users).Register(api)
	contenthttp.New(dep.Contents, dep.MaxUploadSize).Register(api)
	progresshttp.New(dep.Contents).Register(api)
	rechttp.New(dep.Recommendations).Register(api)

	return r
}

// RouterDepsFromApp fills RouterDeps from a wired App.
func RouterDepsFromApp(app *App, identity gin.HandlerFunc) RouterDeps {
	dep := RouterDeps{
		ServiceName:     app.Config.App.ServiceName,
		Version:         app.Config.App.Version,
		AllowedOrigins:  app.Config.Server.AllowedOrigins,
		MaxUploadSize:   app.Config.Storage.MaxUploadSize,
		DB:              app.DB,
		Identity:        identity,
		Users:           app.Users,
		Contents:        app.Contents,
		Recommendations: app.Recommendations,
	}
	if app.Redis != nil {
		dep.Cache = RedisPinger{Client: app.Redis}
	}
	return dep
}

var _ UserStore = (*users.Repo)(nil)
