package redisrepo

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRepository(t *testing.T) {
	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := NewHistoryRepository(client)
	ctx := context.Background()

	_, ok, err := repo.Get(ctx, "history")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Set(ctx, "history", `[{"id":"GINZA-000001"}]`))
	value, ok, err := repo.Get(ctx, "history")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"GINZA-000001"}]`, value)

	require.NoError(t, repo.Clear(ctx, "history"))
	_, ok, err = repo.Get(ctx, "history")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHistoryRepositoryUnavailable(t *testing.T) {
	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	srv.Close()

	_, _, err := NewHistoryRepository(client).Get(context.Background(), "history")
	assert.Error(t, err)
}
