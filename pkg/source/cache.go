package source

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vango-dev/pageroute/pkg/router"
)

// Cache stores content bodies by key.
type Cache interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value.
	Delete(ctx context.Context, key string) error
}

// Cached is a read-through cache in front of another source.
type Cached struct {
	src    Source
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCached wraps src with cache. Entries expire after ttl (0 = never).
func NewCached(src Source, cache Cache, ttl time.Duration) *Cached {
	return &Cached{src: src, cache: cache, ttl: ttl, logger: slog.Default()}
}

// WithLogger sets the logger that receives cache failures at debug level.
func (c *Cached) WithLogger(l *slog.Logger) *Cached {
	if l != nil {
		c.logger = l
	}
	return c
}

// Open returns the cached body for key, falling through to the wrapped
// source on a miss. Cache errors are not fatal: the source is consulted
// instead. Missing keys are not cached.
func (c *Cached) Open(ctx context.Context, key string) (*router.Content, error) {
	body, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.DebugContext(ctx, "cache get failed", "key", key, "error", err)
	} else if ok {
		return &router.Content{Key: key, Body: body}, nil
	}

	content, err := c.src.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, content.Body, c.ttl); err != nil {
		c.logger.DebugContext(ctx, "cache set failed", "key", key, "error", err)
	}
	return content, nil
}

// Invalidate drops key from the cache.
func (c *Cached) Invalidate(ctx context.Context, key string) error {
	return c.cache.Delete(ctx, key)
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// MemoryCache is an in-process Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache creates an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get implements Cache.
func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && m.now().After(e.expires) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set implements Cache.
func (m *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
	return nil
}

// Delete implements Cache.
func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Len returns the number of entries, including expired ones not yet
// evicted.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// RedisCache is a Cache backed by Redis.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a cache storing keys under prefix.
func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

// Get implements Cache.
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

// Set implements Cache.
func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+key, value, ttl).Err()
}

// Delete implements Cache.
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}

// Close closes the Redis connection.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
