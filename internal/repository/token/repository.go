package token

import (
	"context"
	"time"
)

// Token is an opaque bearer credential bound to one user.
type Token struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Repository stores live tokens. Create returns domain.ErrAlreadyExists on a
// collision; Get returns domain.ErrNotFound for unknown or expired tokens.
type Repository interface {
	Create(ctx context.Context, token Token) error
	Get(ctx context.Context, token string) (*Token, error)
	Delete(ctx context.Context, token string) error
}
