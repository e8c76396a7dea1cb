package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// hostedClaims is the access-token payload issued by hosted auth services such as Supabase.
type hostedClaims struct {
	jwt.RegisteredClaims
	Email        string         `json:"email,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

// JWTVerifier validates HS256 access tokens signed with a shared secret.
type JWTVerifier struct {
	secret   []byte
	audience string
}

func NewJWTVerifier(secret, audience string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), audience: audience}
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &hostedClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	id := &Identity{UID: claims.Subject, Email: claims.Email}
	if claims.UserMetadata != nil {
		id.Name = claimString(claims.UserMetadata, "full_name")
		if id.Name == "" {
			id.Name = claimString(claims.UserMetadata, "name")
		}
		id.Picture = claimString(claims.UserMetadata, "avatar_url")
	}
	return id, nil
}
