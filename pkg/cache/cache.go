// Package cache stores rendered artifacts so that re-rendering an unchanged
// study is a file copy.
//
// Keys are derived from the SHA-256 of the PGN source together with the
// options that shape the output, so a cached artifact is never stale.
// Entries only go away through their TTL or an explicit clear.
//
//	c, _ := cache.NewFileCache(dir)
//	key := cache.NewDefaultKeyer().ArtifactKey(cache.Hash(src), cache.ArtifactKeyOpts{Format: "svg"})
//	data, ok, err := c.Get(ctx, key)
//
// The cache is disposable: deleting the directory loses nothing but time.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long artifacts stay valid when no TTL is configured.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// A missing or expired entry is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
