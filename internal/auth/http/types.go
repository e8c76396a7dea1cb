package http

import (
	"context"

	"github.com/lifelevels/journal-backend/internal/users"
)

type UserGetter interface {
	Get(ctx context.Context, id string) (*users.User, error)
}

type Handler struct {
	users UserGetter
}

func New(users UserGetter) *Handler {
	return &Handler{users: users}
}
