package fieldsync

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores resolved catalogs for a bounded lifetime. Implementations
// must treat an expired or missing entry as a miss, never an error.
type Cache interface {
	Get(ctx context.Context, key string) (ResolvedCatalog, bool, error)
	Set(ctx context.Context, key string, catalog ResolvedCatalog, ttl time.Duration) error
}

// MemoryCache is the in-process default. The clock is injectable so tests
// don't depend on wall time.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	catalog   ResolvedCatalog
	expiresAt time.Time
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// WithClock overrides the cache clock. Test helper.
func (c *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	c.now = now
	return c
}

// Get returns the cached catalog when present and unexpired.
func (c *MemoryCache) Get(ctx context.Context, key string) (ResolvedCatalog, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().After(entry.expiresAt) {
		return nil, false, nil
	}
	return entry.catalog, true, nil
}

// Set stores the catalog under key for ttl.
func (c *MemoryCache) Set(ctx context.Context, key string, catalog ResolvedCatalog, ttl time.Duration) error {
	c.mu.Lock()
	c.entries[key] = memoryEntry{catalog: catalog, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// RedisCache shares the resolved catalog across instances.
type RedisCache struct {
	redis *redis.Client
}

// NewRedisCache creates a Redis-backed catalog cache.
func NewRedisCache(redisClient *redis.Client) *RedisCache {
	return &RedisCache{redis: redisClient}
}

func (c *RedisCache) key(key string) string {
	return fmt.Sprintf("fieldsync:catalog:%s", key)
}

// Get fetches and decodes the cached catalog.
func (c *RedisCache) Get(ctx context.Context, key string) (ResolvedCatalog, bool, error) {
	data, err := c.redis.Get(ctx, c.key(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("fieldsync: get catalog: %w", err)
	}

	var catalog ResolvedCatalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, false, fmt.Errorf("fieldsync: unmarshal catalog: %w", err)
	}
	return catalog, true, nil
}

// Set stores the catalog with the given TTL.
func (c *RedisCache) Set(ctx context.Context, key string, catalog ResolvedCatalog, ttl time.Duration) error {
	data, err := json.Marshal(catalog)
	if err != nil {
		return fmt.Errorf("fieldsync: marshal catalog: %w", err)
	}
	if err := c.redis.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("fieldsync: set catalog: %w", err)
	}
	return nil
}
