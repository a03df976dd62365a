package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
	Close() error
}

// RedisConfig configures the Redis list cache
type RedisConfig struct {
	URL              string
	OperationTimeout time.Duration
	Prefix           string
}

// RedisCache shares list entries between server instances.
// Every stored key is recorded in an index set so Clear can remove them all.
type RedisCache struct {
	client    redisClient
	opTimeout time.Duration
	prefix    string
}

// NewRedisCache creates a Redis-backed list cache
func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("redis cache url is required")
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return newRedisCache(redis.NewClient(opts), cfg), nil
}

func newRedisCache(client redisClient, cfg RedisConfig) *RedisCache {
	timeout := cfg.OperationTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	prefix := strings.TrimSpace(cfg.Prefix)
	if prefix == "" {
		prefix = "kindergarten:list"
	}
	return &RedisCache{
		client:    client,
		opTimeout: timeout,
		prefix:    prefix,
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	innerCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	raw, err := c.client.Get(innerCtx, c.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	return []byte(raw), nil
}

// Set stores the entry without expiry, then records it in the index set.
// The entry is written first so a Clear running in between leaves it indexed
// for the next Clear instead of orphaned.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	innerCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	full := c.key(key)
	if err := c.client.Set(innerCtx, full, value, 0).Err(); err != nil {
		return fmt.Errorf("store cache entry: %w", err)
	}
	if err := c.client.SAdd(innerCtx, c.indexKey(), full).Err(); err != nil {
		// an unindexed entry would never be cleared
		_ = c.client.Del(innerCtx, full).Err()
		return fmt.Errorf("index cache key: %w", err)
	}
	return nil
}

func (c *RedisCache) Clear(ctx context.Context) error {
	innerCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	keys, err := c.client.SMembers(innerCtx, c.indexKey()).Result()
	if err != nil {
		return fmt.Errorf("read cache index: %w", err)
	}
	return c.client.Del(innerCtx, append(keys, c.indexKey())...).Err()
}

// Close releases the underlying Redis client
func (c *RedisCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *RedisCache) key(key string) string {
	return fmt.Sprintf("%s:%s", c.prefix, key)
}

func (c *RedisCache) indexKey() string {
	return c.prefix + ":keys"
}
