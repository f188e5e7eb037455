package token

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func setupRedis(t *testing.T) (Repository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client), mr
}

func TestRedis_CreateGetDelete(t *testing.T) {
	repo, mr := setupRedis(t)
	ctx := context.Background()
	tok := Token{Token: "abc", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}

	require.NoError(t, repo.Create(ctx, tok))
	assert.True(t, mr.Exists("session:abc"))
	ttl := mr.TTL("session:abc")
	assert.True(t, ttl > 59*time.Minute && ttl <= time.Hour, "ttl %s", ttl)

	got, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	assert.ErrorIs(t, repo.Create(ctx, tok), domain.ErrAlreadyExists)

	require.NoError(t, repo.Delete(ctx, "abc"))
	_, err = repo.Get(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "abc"), domain.ErrNotFound)
}

func TestRedis_Expiry(t *testing.T) {
	repo, mr := setupRedis(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, Token{Token: "short", UserID: "u1", ExpiresAt: time.Now().Add(time.Minute)}))

	mr.FastForward(2 * time.Minute)

	_, err := repo.Get(ctx, "short")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRedis_RejectsExpiredToken(t *testing.T) {
	repo, _ := setupRedis(t)
	err := repo.Create(context.Background(), Token{Token: "old", UserID: "u1", ExpiresAt: time.Now().Add(-time.Second)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMemory_Expiry(t *testing.T) {
	now := time.Now()
	repo := &memoryRepo{tokens: make(map[string]Token), now: func() time.Time { return now }}
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, Token{Token: "t", UserID: "u1", ExpiresAt: now.Add(time.Minute)}))
	assert.ErrorIs(t, repo.Create(ctx, Token{Token: "t", UserID: "u2", ExpiresAt: now.Add(time.Minute)}), domain.ErrAlreadyExists)

	now = now.Add(2 * time.Minute)
	_, err := repo.Get(ctx, "t")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, repo.Create(ctx, Token{Token: "t", UserID: "u2", ExpiresAt: now.Add(time.Minute)}))
}
