package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisClient interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	HDel(ctx context.Context, key string, fields ...string) *redis.IntCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Close() error
}

// RedisConfig configures the Redis-backed session store
type RedisConfig struct {
	URL              string
	OperationTimeout time.Duration
	Prefix           string
	// TTL is refreshed on every write; zero keeps values until the session is dropped
	TTL time.Duration
}

// RedisStore keeps each session as one Redis hash
type RedisStore struct {
	client    redisClient
	opTimeout time.Duration
	prefix    string
	ttl       time.Duration
}

// NewRedisStore creates a Redis-backed session store
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("redis session store url is required")
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return newRedisStore(redis.NewClient(opts), cfg), nil
}

func newRedisStore(client redisClient, cfg RedisConfig) *RedisStore {
	timeout := cfg.OperationTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	prefix := strings.TrimSpace(cfg.Prefix)
	if prefix == "" {
		prefix = "kindergarten:session"
	}
	return &RedisStore{
		client:    client,
		opTimeout: timeout,
		prefix:    prefix,
		ttl:       cfg.TTL,
	}
}

func (s *RedisStore) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	innerCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	value, err := s.client.HGet(innerCtx, s.key(sessionID), key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, sessionID, key, value string) error {
	innerCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if err := s.client.HSet(innerCtx, s.key(sessionID), key, value).Err(); err != nil {
		return err
	}
	if s.ttl > 0 {
		return s.client.Expire(innerCtx, s.key(sessionID), s.ttl).Err()
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, sessionID, key string) error {
	innerCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	return s.client.HDel(innerCtx, s.key(sessionID), key).Err()
}

func (s *RedisStore) Drop(ctx context.Context, sessionID string) error {
	innerCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	return s.client.Del(innerCtx, s.key(sessionID)).Err()
}

// Close releases the underlying Redis client
func (s *RedisStore) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *RedisStore) key(sessionID string) string {
	return fmt.Sprintf("%s:%s", s.prefix, sessionID)
}
