package video

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when no entry exists for a URL.
var ErrCacheMiss = errors.New("cache miss")

// Cache is a Redis-backed store for resolved metadata, keyed by
// normalized URL.
type Cache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewCache creates a metadata cache with the given entry lifetime.
func NewCache(redisClient *redis.Client, ttl time.Duration) *Cache {
	return &Cache{
		redis: redisClient,
		ttl:   ttl,
	}
}

// Get returns the cached metadata for url, or ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, url string) (*Metadata, error) {
	data, err := c.redis.Get(ctx, cacheKey(url)).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached metadata: %w", err)
	}
	return &meta, nil
}

// Set stores metadata for url.
func (c *Cache) Set(ctx context.Context, url string, meta *Metadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := c.redis.Set(ctx, cacheKey(url), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func cacheKey(url string) string {
	return fmt.Sprintf("tikfetch:info:%x", md5.Sum([]byte(url)))
}
