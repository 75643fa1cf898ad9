package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const redisTimeout = 2 * time.Second

func init() {
	Register("redis", newRedisCache)
}

// redisCache stores each entry as a plain string key with a PX expiry.
// Capacity is left to the server's maxmemory policy, so Size only bounds
// how many keys Len is willing to count.
type redisCache struct {
	client  *redis.Client
	ttl     time.Duration
	maxSize int
	prefix  string
	logger  zerolog.Logger
}

func newRedisCache(cfg ProviderConfig) (Cache, error) {
	if cfg.RedisAddress == "" {
		return nil, errors.New("redis cache: address is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	retries := cfg.PingRetries
	if retries < 0 {
		retries = 0
	}
	policy := retrypolicy.NewBuilder[any]().
		WithMaxRetries(retries).
		WithBackoff(200*time.Millisecond, 2*time.Second).
		Build()

	err := failsafe.Run(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
		defer cancel()
		return client.Ping(ctx).Err()
	}, policy)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &redisCache{
		client:  client,
		ttl:     cfg.TTL,
		maxSize: cfg.Size,
		prefix:  cfg.KeyPrefix,
		logger:  cfg.Logger,
	}, nil
}

func (r *redisCache) key(k string) string {
	return r.prefix + k
}

func (r *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Error().Err(err).Str("key", key).Msg("redis cache Get failed")
		}
		return nil, false
	}
	return val, true
}

func (r *redisCache) Set(ctx context.Context, key string, value []byte) {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	if err := r.client.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("redis cache Set failed")
	}
}

// Len counts the keys under the prefix, stopping at maxSize.
func (r *redisCache) Len() int {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	n := 0
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n++
		if r.maxSize > 0 && n >= r.maxSize {
			break
		}
	}
	if err := iter.Err(); err != nil {
		r.logger.Error().Err(err).Msg("redis cache Len failed")
		return 0
	}
	return n
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
