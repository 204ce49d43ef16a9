package bindings

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aichannel/pkg/logger"
)

func TestNewRedisStoreUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisStore(ctx, logger.NewNop(), &RedisStoreConfig{Addr: "127.0.0.1:1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connecting to Redis")
}

// TestRedisStoreLifecycle runs against a real server when
// AICHANNEL_TEST_REDIS_ADDR is set.
func TestRedisStoreLifecycle(t *testing.T) {
	addr := os.Getenv("AICHANNEL_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("AICHANNEL_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()

	store, err := NewRedisStore(ctx, logger.NewNop(), &RedisStoreConfig{
		Addr:   addr,
		Prefix: "aichannel-test:" + t.Name() + ":",
	})
	require.NoError(t, err)
	defer store.Close()
	defer store.client.Del(ctx, store.key)

	require.NoError(t, store.Set(ctx, "100", "200"))
	got, ok, err := store.Get(ctx, "100")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "200", got)

	removed, err := store.Remove(ctx, "100")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Remove(ctx, "100")
	require.NoError(t, err)
	assert.False(t, removed)

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
