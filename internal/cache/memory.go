package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

func init() {
	Register("memory", newMemoryCache)
}

// memoryCache holds serialised reports in this process only. Entries expire
// after the configured TTL and the least recently read report is dropped
// once Size is reached; both paths fire OnEvict.
type memoryCache struct {
	entries *lru.LRU[string, []byte]
}

func newMemoryCache(cfg ProviderConfig) (Cache, error) {
	var onEvict func(string, []byte)
	if cfg.OnEvict != nil {
		onEvict = func(key string, value []byte) { cfg.OnEvict(key, value) }
	}
	return &memoryCache{
		entries: lru.NewLRU[string, []byte](cfg.Size, onEvict, cfg.TTL),
	}, nil
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	return m.entries.Get(key)
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte) {
	m.entries.Add(key, value)
}

func (m *memoryCache) Len() int {
	return m.entries.Len()
}

// Close does not purge, so no OnEvict calls fire on shutdown.
func (m *memoryCache) Close() error {
	return nil
}
