package bootstrap

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/lifelevels/journal-backend/config"
	"github.com/lifelevels/journal-backend/internal/auth"
	authmw "github.com/lifelevels/journal-backend/internal/auth/middleware"
	"github.com/lifelevels/journal-backend/internal/logging"
)

// IdentityMiddleware picks the identity middleware for AUTH_MODE.
func IdentityMiddleware(ctx context.Context, cfg *config.Config) (gin.HandlerFunc, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeFirebase:
		client, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
		if err != nil {
			return nil, err
		}
		return authmw.Authenticate(auth.NewFirebaseVerifier(client)), nil
	case config.AuthModeJWT:
		return authmw.Authenticate(auth.NewJWTVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTAudience)), nil
	case config.AuthModeDev:
		logging.Warn().Msg("AUTH_MODE=dev: trusting X-User-Id header")
		return authmw.DevUser(), nil
	default:
		return nil, fmt.Errorf("unknown AUTH_MODE %q", cfg.Auth.Mode)
	}
}
