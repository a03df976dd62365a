package listing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "Position-1-", Key("Position", 1, NoSort))
	assert.Equal(t, "Staff-4-name_desc-Anna--", Key("Staff", 4, "name_desc", "Anna", "", ""))
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_, err := c.Get(ctx, "Staff-1-")
	assert.ErrorIs(t, err, ErrCacheMiss)

	value := []byte(`{"rows":[]}`)
	require.NoError(t, c.Set(ctx, "Staff-1-", value))
	value[0] = 'X'

	got, err := c.Get(ctx, "Staff-1-")
	require.NoError(t, err)
	assert.Equal(t, `{"rows":[]}`, string(got), "stored value is a copy")

	require.NoError(t, c.Set(ctx, "Group-1-", []byte("g")))
	assert.Equal(t, 2, c.Len())

	require.NoError(t, c.Clear(ctx))
	assert.Equal(t, 0, c.Len())
	_, err = c.Get(ctx, "Group-1-")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

type fakeRedisClient struct {
	values map[string]string
	sets   map[string]map[string]struct{}
	ttls   map[string]time.Duration
}

func newFakeRedisClient() *fakeRedisClient {
	return &fakeRedisClient{
		values: map[string]string{},
		sets:   map[string]map[string]struct{}{},
		ttls:   map[string]time.Duration{},
	}
}

func (f *fakeRedisClient) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedisClient) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedisClient) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(f.values, k)
		delete(f.sets, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func (f *fakeRedisClient) SAdd(_ context.Context, key string, members ...interface{}) *redis.IntCmd {
	set, ok := f.sets[key]
	if !ok {
		set = map[string]struct{}{}
		f.sets[key] = set
	}
	for _, m := range members {
		set[m.(string)] = struct{}{}
	}
	return redis.NewIntResult(int64(len(members)), nil)
}

func (f *fakeRedisClient) SMembers(_ context.Context, key string) *redis.StringSliceCmd {
	var out []string
	for m := range f.sets[key] {
		out = append(out, m)
	}
	return redis.NewStringSliceResult(out, nil)
}

func (f *fakeRedisClient) Close() error { return nil }

func TestRedisCache(t *testing.T) {
	client := newFakeRedisClient()
	c := newRedisCache(client, RedisConfig{})
	ctx := context.Background()

	_, err := c.Get(ctx, "GroupType-1--")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "GroupType-1--", []byte("a")))
	require.NoError(t, c.Set(ctx, "Child-2-name_asc---", []byte("b")))
	assert.Equal(t, time.Duration(0), client.ttls["kindergarten:list:GroupType-1--"], "entries never expire")
	assert.Len(t, client.sets["kindergarten:list:keys"], 2)

	got, err := c.Get(ctx, "GroupType-1--")
	require.NoError(t, err)
	assert.Equal(t, "a", string(got))

	require.NoError(t, c.Clear(ctx))
	assert.Empty(t, client.values)
	assert.Empty(t, client.sets)

	_, err = c.Get(ctx, "Child-2-name_asc---")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

// clearingRedisClient runs onSet once, right after the first Set reaches the client
type clearingRedisClient struct {
	*fakeRedisClient
	onSet func()
}

func (f *clearingRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	cmd := f.fakeRedisClient.Set(ctx, key, value, expiration)
	if f.onSet != nil {
		hook := f.onSet
		f.onSet = nil
		hook()
	}
	return cmd
}

func TestRedisCacheClearDuringSetLeavesNoOrphan(t *testing.T) {
	client := &clearingRedisClient{fakeRedisClient: newFakeRedisClient()}
	c := newRedisCache(client, RedisConfig{})
	ctx := context.Background()

	client.onSet = func() {
		require.NoError(t, c.Clear(ctx))
	}
	require.NoError(t, c.Set(ctx, "GroupType-1--", []byte("pre-write page")))

	// the entry written across the first Clear stays until the next one
	require.NoError(t, c.Clear(ctx))

	_, err := c.Get(ctx, "GroupType-1--")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Empty(t, client.values)
	assert.Empty(t, client.sets)
}

type failingIndexClient struct {
	*fakeRedisClient
}

func (f *failingIndexClient) SAdd(_ context.Context, _ string, _ ...interface{}) *redis.IntCmd {
	return redis.NewIntResult(0, errors.New("connection reset"))
}

func TestRedisCacheSetRemovesEntryWhenIndexFails(t *testing.T) {
	client := &failingIndexClient{fakeRedisClient: newFakeRedisClient()}
	c := newRedisCache(client, RedisConfig{})

	err := c.Set(context.Background(), "Staff-1-", []byte("page"))
	assert.Error(t, err)
	assert.Empty(t, client.values)
}

func TestNewRedisCacheValidation(t *testing.T) {
	_, err := NewRedisCache(RedisConfig{})
	assert.Error(t, err)

	_, err = NewRedisCache(RedisConfig{URL: "://bad"})
	assert.Error(t, err)
}
