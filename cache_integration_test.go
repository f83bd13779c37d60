//go:build integration

package slugkit_test

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/slugkit"
	"github.com/dmitrymomot/slugkit/pkg/redis"
)

const testRedisURL = "redis://localhost:6379/0"

func newTestRedisClient(t *testing.T) goredis.UniversalClient {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = testRedisURL
	}

	client, err := redis.Open(context.Background(), url)
	require.NoError(t, err, "failed to connect to Redis")

	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func TestRedisLookupCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("set get delete", func(t *testing.T) {
		t.Parallel()

		cache := slugkit.NewRedisLookupCache(newTestRedisClient(t),
			slugkit.WithCachePrefix("test-lookup-crud:"),
		)

		require.NoError(t, cache.Set(ctx, "book:slug:dune", "id-1"))

		id, err := cache.Get(ctx, "book:slug:dune")
		require.NoError(t, err)
		assert.Equal(t, "id-1", id)

		require.NoError(t, cache.Delete(ctx, "book:slug:dune"))
		_, err = cache.Get(ctx, "book:slug:dune")
		require.ErrorIs(t, err, slugkit.ErrCacheMiss)
	})

	t.Run("miss on absent key", func(t *testing.T) {
		t.Parallel()

		cache := slugkit.NewRedisLookupCache(newTestRedisClient(t),
			slugkit.WithCachePrefix("test-lookup-miss:"),
		)

		_, err := cache.Get(ctx, "never-set")
		require.ErrorIs(t, err, slugkit.ErrCacheMiss)
	})

	t.Run("entries expire after ttl", func(t *testing.T) {
		t.Parallel()

		cache := slugkit.NewRedisLookupCache(newTestRedisClient(t),
			slugkit.WithCachePrefix("test-lookup-ttl:"),
			slugkit.WithCacheTTL(100*time.Millisecond),
		)

		require.NoError(t, cache.Set(ctx, "k", "v"))

		id, err := cache.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v", id)

		time.Sleep(200 * time.Millisecond)
		_, err = cache.Get(ctx, "k")
		require.ErrorIs(t, err, slugkit.ErrCacheMiss)
	})

	t.Run("prefixes are isolated", func(t *testing.T) {
		t.Parallel()

		client := newTestRedisClient(t)
		c1 := slugkit.NewRedisLookupCache(client, slugkit.WithCachePrefix("test-lookup-iso1:"))
		c2 := slugkit.NewRedisLookupCache(client, slugkit.WithCachePrefix("test-lookup-iso2:"))

		require.NoError(t, c1.Set(ctx, "key", "from-c1"))
		require.NoError(t, c2.Set(ctx, "key", "from-c2"))

		v1, err := c1.Get(ctx, "key")
		require.NoError(t, err)
		assert.Equal(t, "from-c1", v1)

		v2, err := c2.Get(ctx, "key")
		require.NoError(t, err)
		assert.Equal(t, "from-c2", v2)
	})
}
