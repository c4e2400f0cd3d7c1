package providers

import (
	"ecotracker/internal/structures"
	"strings"
)

// Cache keys are "<family>:<argument>", e.g. "weekly:7" or "hourly:2026-10-19".
const unknownCacheFamily = "other"

// CacheKeyFamily returns the family prefix of a cache key.
func CacheKeyFamily(key string) string {
	family, _, found := strings.Cut(key, ":")
	if !found || family == "" {
		return unknownCacheFamily
	}
	return family
}

// familyCountingCache reports every lookup to the metrics provider under
// the key's family, so the weekly and hourly history caches can be told apart.
type familyCountingCache struct {
	inner   CacheProviderInterface
	metrics MetricsProviderInterface
}

func (c *familyCountingCache) Get(key string) ([]byte, bool) {
	val, ok := c.inner.Get(key)
	family := CacheKeyFamily(key)
	if ok {
		c.metrics.IncCacheHits(family)
	} else {
		c.metrics.IncCacheMisses(family)
	}
	return val, ok
}

func (c *familyCountingCache) Set(key string, value []byte) {
	c.inner.Set(key, value)
}

// NewInstrumentedCacheProvider builds the history cache. A disabled cache is
// returned bare so it does not report a miss for every request.
func NewInstrumentedCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	inner := NewCacheProvider(conf, logger)
	if !conf.Cache.Enabled {
		return inner
	}
	return &familyCountingCache{inner: inner, metrics: metrics}
}
