package session

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetSetRemove(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "sid", "filter:Staff")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "sid", "filter:Staff", `{"name":"Anna"}`))
	value, ok, err := s.Get(ctx, "sid", "filter:Staff")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"name":"Anna"}`, value)

	require.NoError(t, s.Remove(ctx, "sid", "filter:Staff"))
	_, ok, _ = s.Get(ctx, "sid", "filter:Staff")
	assert.False(t, ok)
}

func TestMemoryStoreSessionsAreIsolated(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", "k", "from-a"))
	require.NoError(t, s.Set(ctx, "b", "k", "from-b"))

	value, _, _ := s.Get(ctx, "a", "k")
	assert.Equal(t, "from-a", value)

	require.NoError(t, s.Drop(ctx, "a"))
	_, ok, _ := s.Get(ctx, "a", "k")
	assert.False(t, ok)

	value, ok, _ = s.Get(ctx, "b", "k")
	assert.True(t, ok)
	assert.Equal(t, "from-b", value)
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sid := fmt.Sprintf("sid-%d", i%4)
			_ = s.Set(ctx, sid, "k", "v")
			_, _, _ = s.Get(ctx, sid, "k")
		}(i)
	}
	wg.Wait()

	for i := 0; i < 4; i++ {
		_, ok, _ := s.Get(ctx, fmt.Sprintf("sid-%d", i), "k")
		assert.True(t, ok)
	}
}
