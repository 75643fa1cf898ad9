// Package cache stores rendered run reports so that re-submitting a dataset
// with the same content skips the cleaning pass.
package cache

import "context"

// EvictCallback is called when an entry leaves the cache because of capacity.
// Redis relies on server-side expiry and never calls it.
type EvictCallback func(key string, value []byte)

// Cache is a byte-oriented store with bounded size and per-entry TTL.
type Cache interface {
	// Get returns the value stored under key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte)

	// Len returns the number of live entries.
	Len() int

	// Close releases connections held by the backend.
	Close() error
}
