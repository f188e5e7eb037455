package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/domain"
)

type redisRepo struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedis stores tokens as JSON values that expire with the token.
func NewRedis(client *redis.Client) Repository {
	return &redisRepo{client: client, now: time.Now}
}

func (r *redisRepo) Create(ctx context.Context, token Token) error {
	ttl := token.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return fmt.Errorf("%w: token already expired", domain.ErrInvalidInput)
	}
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("marshal token failed: %w", err)
	}
	ok, err := r.client.SetNX(ctx, tokenKey(token.Token), data, ttl).Result()
	if err != nil {
		return fmt.Errorf("redis setnx failed: %w", err)
	}
	if !ok {
		return domain.ErrAlreadyExists
	}
	return nil
}

func (r *redisRepo) Get(ctx context.Context, token string) (*Token, error) {
	data, err := r.client.Get(ctx, tokenKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	var out Token
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal token failed: %w", err)
	}
	return &out, nil
}

func (r *redisRepo) Delete(ctx context.Context, token string) error {
	n, err := r.client.Del(ctx, tokenKey(token)).Result()
	if err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func tokenKey(token string) string {
	return "session:" + token
}
