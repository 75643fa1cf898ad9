package cache

import "context"

// instrumentedCache reports lookups of the wrapped cache as
// showcleaner_cache_hits_total and showcleaner_cache_misses_total, and its
// size as showcleaner_cache_entries, all labelled with the cache group
// (e.g. "reports").
type instrumentedCache struct {
	inner Cache
	group string
}

func newInstrumentedCache(inner Cache, group string) *instrumentedCache {
	registerEntries(group, inner.Len)
	return &instrumentedCache{inner: inner, group: group}
}

func (c *instrumentedCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, ok := c.inner.Get(ctx, key)
	if ok {
		HitsTotal.WithLabelValues(c.group).Inc()
	} else {
		MissesTotal.WithLabelValues(c.group).Inc()
	}
	return val, ok
}

func (c *instrumentedCache) Set(ctx context.Context, key string, value []byte) {
	c.inner.Set(ctx, key, value)
}

func (c *instrumentedCache) Len() int {
	return c.inner.Len()
}

// Close drops the entries gauge of the group so a later cache with the same
// group can register its own.
func (c *instrumentedCache) Close() error {
	unregisterEntries(c.group)
	return c.inner.Close()
}
