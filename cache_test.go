package slugkit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/slugkit"
)

func TestMemoryLookupCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("set get delete", func(t *testing.T) {
		t.Parallel()

		cache := slugkit.NewMemoryLookupCache()
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

		_, err := slugkit.NewMemoryLookupCache().Get(ctx, "never-set")
		require.ErrorIs(t, err, slugkit.ErrCacheMiss)
	})

	t.Run("entries expire after ttl", func(t *testing.T) {
		t.Parallel()

		cache := slugkit.NewMemoryLookupCache(slugkit.WithCacheTTL(10 * time.Millisecond))
		require.NoError(t, cache.Set(ctx, "k", "v"))

		id, err := cache.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v", id)

		time.Sleep(20 * time.Millisecond)
		_, err = cache.Get(ctx, "k")
		require.ErrorIs(t, err, slugkit.ErrCacheMiss)
	})

	t.Run("zero ttl never expires", func(t *testing.T) {
		t.Parallel()

		cache := slugkit.NewMemoryLookupCache(slugkit.WithCacheTTL(0))
		require.NoError(t, cache.Set(ctx, "k", "v"))

		time.Sleep(10 * time.Millisecond)
		id, err := cache.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v", id)
	})

	t.Run("overwrite replaces value", func(t *testing.T) {
		t.Parallel()

		cache := slugkit.NewMemoryLookupCache()
		require.NoError(t, cache.Set(ctx, "k", "old"))
		require.NoError(t, cache.Set(ctx, "k", "new"))

		id, err := cache.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "new", id)
	})
}
