package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	urlCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gallery_url_cache_hits_total",
		Help: "Signed URL cache hits.",
	})
	urlCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gallery_url_cache_misses_total",
		Help: "Signed URL cache misses.",
	})
)

// URLCache remembers signed URLs by object key.
type URLCache interface {
	Get(ctx context.Context, objectKey string) (string, bool)
	Set(ctx context.Context, objectKey, url string, ttl time.Duration) error
	Delete(ctx context.Context, objectKey string) error
}

// LRUCache is an in-process cache. Every entry lives for the ttl given at
// construction; the per-call ttl passed to Set is ignored.
type LRUCache struct {
	lru *expirable.LRU[string, string]
}

var _ URLCache = (*LRUCache)(nil)

func NewLRUCache(size int, ttl time.Duration) *LRUCache {
	return &LRUCache{lru: expirable.NewLRU[string, string](size, nil, ttl)}
}

func (c *LRUCache) Get(_ context.Context, objectKey string) (string, bool) {
	u, ok := c.lru.Get(objectKey)
	if ok {
		urlCacheHitsTotal.Inc()
		return u, true
	}
	urlCacheMissesTotal.Inc()
	return "", false
}

func (c *LRUCache) Set(_ context.Context, objectKey, url string, _ time.Duration) error {
	c.lru.Add(objectKey, url)
	return nil
}

func (c *LRUCache) Delete(_ context.Context, objectKey string) error {
	c.lru.Remove(objectKey)
	return nil
}

// RedisCache shares signed URLs between clients through Redis.
type RedisCache struct {
	client *redis.Client
}

var _ URLCache = (*RedisCache)(nil)

func NewRedisCache(addr, password string) *RedisCache {
	return &RedisCache{client: redis.NewClient(&redis.Options{Addr: addr, Password: password})}
}

func (c *RedisCache) Get(ctx context.Context, objectKey string) (string, bool) {
	val, err := c.client.Get(ctx, cacheKey(objectKey)).Result()
	if err != nil {
		// redis.Nil is a miss; anything else is treated as one too
		urlCacheMissesTotal.Inc()
		return "", false
	}
	urlCacheHitsTotal.Inc()
	return val, true
}

func (c *RedisCache) Set(ctx context.Context, objectKey, url string, ttl time.Duration) error {
	if err := c.client.Set(ctx, cacheKey(objectKey), url, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, objectKey string) error {
	if err := c.client.Del(ctx, cacheKey(objectKey)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func cacheKey(objectKey string) string {
	return "gallery:signed-url:" + objectKey
}
