package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/desitranslate/desi"
)

// DefaultKeyPrefix namespaces desi keys in a shared Redis database.
const DefaultKeyPrefix = "desi:"

// opTimeout bounds each Redis round trip; the cache interface has no context.
const opTimeout = 2 * time.Second

// RedisCache is a Redis-backed translation cache.
type RedisCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	logger    *slog.Logger

	hits   atomic.Uint64
	misses atomic.Uint64
}

// RedisConfig holds configuration for the Redis cache.
type RedisConfig struct {
	URL       string       // Redis connection URL (e.g., "redis://localhost:6379/0")
	TTL       int          // TTL in seconds (0 = no expiration)
	KeyPrefix string       // Prefix for all keys (default: "desi:")
	Logger    *slog.Logger // Receives lookup errors (default: slog.Default())
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, &desi.CacheError{Message: "parsing redis url", Cause: err}
	}

	c := NewRedisCacheFromClient(redis.NewClient(opts), cfg.TTL, cfg.KeyPrefix)
	if cfg.Logger != nil {
		c.logger = cfg.Logger
	}
	if err := c.Ping(); err != nil {
		c.client.Close()
		return nil, err
	}
	return c, nil
}

// NewRedisCacheFromClient creates a RedisCache from an existing Redis client.
func NewRedisCacheFromClient(client *redis.Client, ttlSeconds int, keyPrefix string) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}

	var ttl time.Duration
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}

	return &RedisCache{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
		logger:    slog.Default(),
	}
}

// Get retrieves a value from Redis. Errors other than a missing key are
// logged and reported as a miss.
func (c *RedisCache) Get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	val, err := c.client.Get(ctx, c.keyPrefix+key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("redis get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return "", false
	}
	c.hits.Add(1)
	return val, true
}

// Set stores a value in Redis.
func (c *RedisCache) Set(key string, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := c.client.Set(ctx, c.keyPrefix+key, value, c.ttl).Err(); err != nil {
		return &desi.CacheError{Message: "redis set", Cause: err}
	}
	return nil
}

// Keys scans the database for keys under the prefix and returns them with
// the prefix removed.
func (c *RedisCache) Keys() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*opTimeout)
	defer cancel()

	var keys []string
	var cursor uint64
	for {
		batch, next, err := c.client.Scan(ctx, cursor, c.keyPrefix+"*", 100).Result()
		if err != nil {
			return nil, &desi.CacheError{Message: "redis scan", Cause: err}
		}
		for _, k := range batch {
			keys = append(keys, strings.TrimPrefix(k, c.keyPrefix))
		}
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}

// Stats returns hit and miss counters. Entries is not tracked for Redis.
func (c *RedisCache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ping tests the Redis connection.
func (c *RedisCache) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := c.client.Ping(ctx).Err(); err != nil {
		return &desi.CacheError{Message: "redis ping", Cause: err}
	}
	return nil
}

var _ ExportableCache = (*RedisCache)(nil)
