package listing

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kindergarten_list_cache_results_total",
			Help: "Total list cache lookups by outcome.",
		},
		[]string{"result"},
	)
	cacheClearsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kindergarten_list_cache_clears_total",
			Help: "Total full list cache invalidations.",
		},
	)
	cacheLatencySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kindergarten_list_cache_latency_seconds",
			Help:    "List cache operation latency in seconds.",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
		[]string{"operation"},
	)
)

// InstrumentedCache records Prometheus metrics around another Cache
type InstrumentedCache struct {
	next Cache
}

// Instrument wraps c so its lookups and clears are counted
func Instrument(c Cache) *InstrumentedCache {
	return &InstrumentedCache{next: c}
}

func (c *InstrumentedCache) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	value, err := c.next.Get(ctx, key)
	cacheLatencySeconds.WithLabelValues("get").Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		cacheResultsTotal.WithLabelValues("hit").Inc()
	case errors.Is(err, ErrCacheMiss):
		cacheResultsTotal.WithLabelValues("miss").Inc()
	default:
		cacheResultsTotal.WithLabelValues("error").Inc()
	}
	return value, err
}

func (c *InstrumentedCache) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := c.next.Set(ctx, key, value)
	cacheLatencySeconds.WithLabelValues("set").Observe(time.Since(start).Seconds())
	return err
}

func (c *InstrumentedCache) Clear(ctx context.Context) error {
	start := time.Now()
	err := c.next.Clear(ctx)
	cacheLatencySeconds.WithLabelValues("clear").Observe(time.Since(start).Seconds())
	if err == nil {
		cacheClearsTotal.Inc()
	}
	return err
}
