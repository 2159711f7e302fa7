// Package cache stores build artifacts between runs.
//
// # Backends
//
//   - [FileCache]: snappy-compressed entries under a local directory, the
//     default for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP service
//   - [MongoCache]: a MongoDB collection with a TTL index
//   - [NullCache]: stores nothing
//
// Use [New] to open the backend named in the configuration.
//
// # Keys
//
// Keys are derived by a [Keyer] from the hash of every input file and the
// layout options, so any change to a widget, a leaf, a stylesheet or an
// option produces a new key and stale entries simply expire.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/erwd/pkg/errors"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend's resources.
	Close() error
}

// Time-to-live for cached entries.
const (
	TTLArtifact = 7 * 24 * time.Hour
	TTLSummary  = 24 * time.Hour
)

// Backend names.
const (
	BackendFile  = "file"
	BackendNone  = "none"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Options select and configure a backend.
type Options struct {
	Backend       string
	Dir           string
	RedisAddr     string
	MongoURI      string
	MongoDatabase string
}

// New opens the backend named by opts.Backend. The empty name selects the
// file cache.
func New(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendFile:
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open file cache")
		}
		return c, nil
	case BackendNone:
		return NewNullCache(), nil
	case BackendRedis:
		return NewRedisCache(ctx, opts.RedisAddr)
	case BackendMongo:
		return NewMongoCache(ctx, opts.MongoURI, opts.MongoDatabase)
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", opts.Backend)
}
