package listing

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentedCacheCounts(t *testing.T) {
	c := Instrument(NewMemoryCache())
	ctx := context.Background()

	hits := testutil.ToFloat64(cacheResultsTotal.WithLabelValues("hit"))
	misses := testutil.ToFloat64(cacheResultsTotal.WithLabelValues("miss"))
	clears := testutil.ToFloat64(cacheClearsTotal)

	_, err := c.Get(ctx, "Position-1--")
	assert.ErrorIs(t, err, ErrCacheMiss)
	require.NoError(t, c.Set(ctx, "Position-1--", []byte("x")))
	_, err = c.Get(ctx, "Position-1--")
	require.NoError(t, err)
	require.NoError(t, c.Clear(ctx))

	assert.Equal(t, hits+1, testutil.ToFloat64(cacheResultsTotal.WithLabelValues("hit")))
	assert.Equal(t, misses+1, testutil.ToFloat64(cacheResultsTotal.WithLabelValues("miss")))
	assert.Equal(t, clears+1, testutil.ToFloat64(cacheClearsTotal))
}
