package cache

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ProviderConfig holds everything a provider may need to build a cache.
type ProviderConfig struct {
	// Size bounds the number of entries.
	Size int

	// TTL is how long an entry stays valid after it was written.
	TTL time.Duration

	// OnEvict is called for capacity evictions on providers that support it.
	OnEvict EvictCallback

	// Logger receives backend errors. The zero value discards them.
	Logger zerolog.Logger

	// KeyPrefix namespaces keys in shared backends. Defaults to "showcleaner:".
	KeyPrefix string

	RedisAddress  string
	RedisPassword string
	RedisDB       int

	// PingRetries is how many times the redis provider retries its initial
	// connectivity check before giving up.
	PingRetries int

	// Group labels the cache_* metrics. When set the cache is instrumented.
	Group string
}

// Provider builds a Cache from its configuration.
type Provider func(cfg ProviderConfig) (Cache, error)

var (
	mu        sync.RWMutex
	providers = make(map[string]Provider)
)

// Register makes a provider available under name. It panics on a nil
// provider or a duplicate name.
func Register(name string, p Provider) {
	mu.Lock()
	defer mu.Unlock()

	if p == nil {
		panic("cache: Register provider is nil")
	}
	if _, exists := providers[name]; exists {
		panic(fmt.Sprintf("cache: provider %q already registered", name))
	}
	providers[name] = p
}

// New builds a cache with the named provider. A non-empty cfg.Group wraps the
// result with hit, miss and eviction metrics.
func New(name string, cfg ProviderConfig) (Cache, error) {
	mu.RLock()
	p, ok := providers[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("cache: unknown provider %q (registered: %v)", name, RegisteredProviders())
	}
	if cfg.Size <= 0 {
		return nil, fmt.Errorf("cache: size must be positive, got %d", cfg.Size)
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "showcleaner:"
	}

	if cfg.Group == "" {
		return p(cfg)
	}

	group := cfg.Group
	onEvict := cfg.OnEvict
	cfg.OnEvict = func(key string, value []byte) {
		EvictionsTotal.WithLabelValues(group).Inc()
		if onEvict != nil {
			onEvict(key, value)
		}
	}

	inner, err := p(cfg)
	if err != nil {
		return nil, err
	}
	return newInstrumentedCache(inner, group), nil
}

// RegisteredProviders returns the provider names in alphabetical order.
func RegisteredProviders() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
