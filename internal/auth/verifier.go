package auth

import (
	"context"
	"errors"
)

var (
	ErrMissingToken = errors.New("missing authorization token")
	ErrInvalidToken = errors.New("invalid token")
)

// Identity is what a verified token says about the caller.
type Identity struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

// Verifier checks a bearer token and returns the caller's identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

func claimString(claims map[string]any, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
