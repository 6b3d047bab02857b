// Package cache stores partition results keyed by hypergraph content and
// partitioning parameters.
//
// # Backends
//
//   - [FileCache]: one file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for API servers
//   - [MongoCache]: durable result store with a TTL index
//   - [ObjectCache]: S3-compatible object storage via MinIO
//   - [NullCache]: disables caching
//
// [Open] selects a backend from a URL. Any backend can be wrapped with
// [NewCompressed] to store zstd or lz4 compressed entries.
//
// # Keys
//
// A [Keyer] derives keys from a content hash of the hypergraph (see [Hash])
// and every parameter that influences the result. [ScopedKeyer] prefixes
// keys to isolate tenants sharing one backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is reported
	// as a miss (false, nil error).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend connections.
	Close() error
}

// NullCache stores nothing: every Get misses and every write succeeds.
// Open returns it for "none" and "off".
type NullCache struct{}

// NewNullCache returns a cache that disables caching.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                     { return nil }
func (*NullCache) Close() error                                             { return nil }

var _ Cache = (*NullCache)(nil)
