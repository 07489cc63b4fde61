// Package cache provides the key/value store used by the pipeline to reuse
// built graphs, computed layouts and rendered artifacts across runs.
//
// # Backends
//
//   - [FileCache]: JSON entry files under the user cache directory (CLI default)
//   - [RedisCache]: a shared Redis instance (serve deployments)
//   - [MongoCache]: a MongoDB collection with a TTL index
//   - [NullCache]: never stores anything (--no-cache, tests)
//
// # Keys
//
// A [Keyer] derives deterministic keys for every pipeline stage. Keys hash
// their options so that, for example, the same catalog laid out at two
// different sizes is cached twice. [ScopedKeyer] prefixes every key for
// isolated namespaces.
package cache

import (
	"context"
	"time"
)

// TTLs for each cached stage.
const (
	// TTLHTTP bounds cached HTTP responses (proficiency datasets).
	TTLHTTP = 24 * time.Hour

	// TTLGraph bounds cached built graphs.
	TTLGraph = 7 * 24 * time.Hour

	// TTLLayout bounds cached layouts. Layouts are deterministic for a given
	// graph and options, so they live as long as graphs.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact bounds cached rendered outputs.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero means no expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
