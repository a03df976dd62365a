package listing

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
)

// ErrCacheMiss indicates that a cache key was not found
var ErrCacheMiss = errors.New("cache key not found")

// KeyDelimiter separates the parts of a list cache key
const KeyDelimiter = "-"

// Cache stores encoded list bundles until the next Clear
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Clear removes every entry of every kind
	Clear(ctx context.Context) error
}

// Key joins kind, page, sort key and filter values into one cache key
func Key(kind string, page int, sort SortKey, values ...string) string {
	parts := make([]string, 0, 3+len(values))
	parts = append(parts, kind, strconv.Itoa(page), string(sort))
	parts = append(parts, values...)
	return strings.Join(parts, KeyDelimiter)
}

// MemoryCache is the in-process Cache
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemoryCache creates an empty in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: make(map[string][]byte),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	value, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, ErrCacheMiss
	}
	return append([]byte{}, value...), nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = append([]byte{}, value...)
	return nil
}

func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string][]byte)
	return nil
}

// Len returns the number of cached entries
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
