// Package cache provides the output cache used by the resolve pipeline.
//
// A flattened document is expensive only in I/O, but build tools invoke the
// resolver on every compile. The cache lets repeated invocations skip the
// walk entirely when none of the files read last time have changed.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for multiple API instances
//   - [NullCache]: never stores anything (--no-cache)
//
// # Keys
//
// Keys are produced by a [Keyer]. [DefaultKeyer] hashes every option that
// influences the output, so a change to the include mode or depth limit never
// returns a stale entry. [ScopedKeyer] prefixes keys for namespacing, for
// example per project root when one Redis instance serves several projects.
package cache

import (
	"context"
	"time"
)

// Default TTLs for cached entries.
const (
	// OutputTTL bounds how long a flattened document is kept. Entries are
	// validated against file hashes on read, so this only limits growth.
	OutputTTL = 7 * 24 * time.Hour

	// ArtifactTTL bounds rendered include-graph artifacts (SVG, DOT, JSON).
	ArtifactTTL = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiration.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry at once.
// Clear returns the number of entries removed.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}
