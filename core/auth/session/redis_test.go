package session

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStoreWithClient(client, "test:session")
}

func TestRedisStoreTokenPair(t *testing.T) {
	ctx := context.Background()
	store := newRedisStore(t)

	require.NoError(t, store.SetTokenPair(ctx, "acc-1", "ref-1"))

	access, err := store.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", access)

	refresh, err := store.RefreshToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ref-1", refresh)

	require.NoError(t, store.SetAccessToken(ctx, "acc-2"))
	access, _ = store.AccessToken(ctx)
	refresh, _ = store.RefreshToken(ctx)
	assert.Equal(t, "acc-2", access)
	assert.Equal(t, "ref-1", refresh, "refresh token must be untouched by renewal")
}

func TestRedisStoreIdentity(t *testing.T) {
	ctx := context.Background()
	store := newRedisStore(t)

	identity, err := store.Identity(ctx)
	require.NoError(t, err)
	assert.Nil(t, identity, "absent identity is nil, not an error")

	require.NoError(t, store.SetIdentity(ctx, &Identity{Username: "luis", Role: "editor"}))
	identity, err = store.Identity(ctx)
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, "luis", identity.Username)
}

func TestRedisStoreClear(t *testing.T) {
	ctx := context.Background()
	store := newRedisStore(t)

	require.NoError(t, store.SetTokenPair(ctx, "acc", "ref"))
	require.NoError(t, store.SetIdentity(ctx, &Identity{Username: "luis"}))
	require.NoError(t, store.Clear(ctx))

	access, _ := store.AccessToken(ctx)
	refresh, _ := store.RefreshToken(ctx)
	identity, _ := store.Identity(ctx)
	assert.Empty(t, access)
	assert.Empty(t, refresh)
	assert.Nil(t, identity)
}
