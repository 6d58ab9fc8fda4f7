package sessions

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisRepo(t *testing.T) (*RedisRepository, *mr.Miniredis) {
	t.Helper()
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return NewRedisRepository(redis.NewClient(&redis.Options{Addr: m.Addr()}), "test:session:"), m
}

func TestRedisRepository_RoundTrip(t *testing.T) {
	repo, m := newRedisRepo(t)
	ctx := context.Background()
	created := time.Now().UTC().Truncate(time.Millisecond)
	s := &Session{RefreshToken: "r1", Sub: "sub-1", CreatedAt: created, ExpiresAt: created.Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, s))
	require.True(t, m.Exists("test:session:r1"))

	got, err := repo.GetByRefresh(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "sub-1", got.Sub)
	require.Equal(t, "r1", got.RefreshToken)
	require.True(t, got.CreatedAt.Equal(created))
	require.True(t, got.ExpiresAt.Equal(s.ExpiresAt))

	require.NoError(t, repo.DeleteByRefresh(ctx, "r1"))
	got, err = repo.GetByRefresh(ctx, "r1")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRedisRepository_DefaultsAreStored(t *testing.T) {
	repo, m := newRedisRepo(t)
	require.NoError(t, repo.Create(context.Background(), &Session{RefreshToken: "r2", Sub: "sub-2"}))
	ttl := m.TTL("test:session:r2")
	require.Greater(t, ttl, DefaultTTL-time.Minute)
	require.LessOrEqual(t, ttl, DefaultTTL)
}

func TestRedisRepository_KeyExpires(t *testing.T) {
	repo, m := newRedisRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &Session{RefreshToken: "r3", Sub: "sub-3", ExpiresAt: time.Now().Add(2 * time.Second)}))

	got, err := repo.GetByRefresh(ctx, "r3")
	require.NoError(t, err)
	require.NotNil(t, got)

	m.FastForward(3 * time.Second)
	got, err = repo.GetByRefresh(ctx, "r3")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRedisRepository_CorruptHash(t *testing.T) {
	repo, _ := newRedisRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.client.HSet(ctx, "test:session:bad", "sub", "x", "createdAt", "yesterday").Err())
	_, err := repo.GetByRefresh(ctx, "bad")
	require.Error(t, err)
}

func TestRedisRepository_BacksService(t *testing.T) {
	repo, _ := newRedisRepo(t)
	svc := NewService(repo)
	ctx := context.Background()

	refresh, err := svc.CreateSession(ctx, "sub-4", time.Hour)
	require.NoError(t, err)
	s, next, err := svc.Rotate(ctx, refresh, time.Hour)
	require.NoError(t, err)
	require.Equal(t, "sub-4", s.Sub)
	require.NotEqual(t, refresh, next)

	old, err := repo.GetByRefresh(ctx, refresh)
	require.NoError(t, err)
	require.Nil(t, old)
}
