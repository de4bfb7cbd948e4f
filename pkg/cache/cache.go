// Package cache stores intermediate pipeline results keyed by content hashes.
//
// # Overview
//
// Solving is deterministic: the same graph, costs and parameters always give
// the same result. The pipeline hashes its inputs, derives a key with a
// [Keyer] and looks the result up in a [Cache] before recomputing.
//
// Two caches are provided:
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [NullCache]: stores nothing, used when caching is disabled
//
// # Keys
//
// [DefaultKeyer] builds keys of the form "<kind>:<sha256>" from the key
// inputs. [ScopedKeyer] prefixes every key, e.g. with the build version so
// entries from different releases never mix.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Expiry of cached entries.
const (
	TTLGraph    = 7 * 24 * time.Hour
	TTLSolve    = 30 * 24 * time.Hour
	TTLArtifact = 30 * 24 * time.Hour
)
