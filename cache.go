package slugkit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by LookupCache.Get when a key is absent or expired.
var ErrCacheMiss = errors.New("slugkit: lookup cache miss")

// LookupCache stores slug-to-entity-ID resolutions. Implementations are
// best-effort: the manager treats every Get error as a miss and logs failed
// writes without surfacing them.
type LookupCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, entityID string) error
	Delete(ctx context.Context, key string) error
}

// CacheOption configures a lookup cache.
type CacheOption func(*cacheOptions)

type cacheOptions struct {
	ttl    time.Duration
	prefix string
}

func defaultCacheOptions() *cacheOptions {
	return &cacheOptions{
		ttl:    time.Hour,
		prefix: "slugkit:lookup:",
	}
}

// WithCacheTTL sets the entry lifetime. Zero or negative disables expiration.
// Default: 1 hour.
func WithCacheTTL(d time.Duration) CacheOption {
	return func(o *cacheOptions) {
		o.ttl = d
	}
}

// WithCachePrefix sets the key namespace used by the Redis backend.
// Default: "slugkit:lookup:".
func WithCachePrefix(prefix string) CacheOption {
	return func(o *cacheOptions) {
		o.prefix = prefix
	}
}

// MemoryLookupCache is an in-process lookup cache with lazy TTL expiration.
type MemoryLookupCache struct {
	mu    sync.RWMutex
	items map[string]memoryCacheEntry
	ttl   time.Duration
}

type memoryCacheEntry struct {
	id        string
	expiresAt time.Time // zero = never expires
}

// NewMemoryLookupCache creates an in-process lookup cache.
func NewMemoryLookupCache(opts ...CacheOption) *MemoryLookupCache {
	o := defaultCacheOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &MemoryLookupCache{
		items: make(map[string]memoryCacheEntry),
		ttl:   o.ttl,
	}
}

func (c *MemoryLookupCache) Get(_ context.Context, key string) (string, error) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return "", ErrCacheMiss
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return "", ErrCacheMiss
	}
	return e.id, nil
}

func (c *MemoryLookupCache) Set(_ context.Context, key, entityID string) error {
	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = time.Now().Add(c.ttl)
	}

	c.mu.Lock()
	c.items[key] = memoryCacheEntry{id: entityID, expiresAt: expiresAt}
	c.mu.Unlock()
	return nil
}

func (c *MemoryLookupCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	return nil
}

// RedisLookupCache stores resolutions in Redis, sharing lookup state across
// processes.
type RedisLookupCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
}

// NewRedisLookupCache creates a Redis-backed lookup cache.
//
// Example:
//
//	cache := slugkit.NewRedisLookupCache(client,
//	    slugkit.WithCacheTTL(10*time.Minute),
//	)
func NewRedisLookupCache(client redis.UniversalClient, opts ...CacheOption) *RedisLookupCache {
	o := defaultCacheOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &RedisLookupCache{
		client: client,
		ttl:    max(o.ttl, 0),
		prefix: o.prefix,
	}
}

func (c *RedisLookupCache) Get(ctx context.Context, key string) (string, error) {
	id, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (c *RedisLookupCache) Set(ctx context.Context, key, entityID string) error {
	return c.client.Set(ctx, c.prefix+key, entityID, c.ttl).Err()
}

func (c *RedisLookupCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}

var (
	_ LookupCache = (*MemoryLookupCache)(nil)
	_ LookupCache = (*RedisLookupCache)(nil)
)
