// Package cache stores synthesized layouts so repeated runs over the same
// floor plan and options are served without recomputation.
//
// Backends:
//   - [FileCache]: JSON entries under a directory (CLI default)
//   - [RedisCache]: shared cache for multi-instance API deployments
//   - [MongoCache]: durable cache with server-side TTL expiry
//   - [NullCache]: caching disabled
//
// [Open] selects a backend from a location string:
//
//	c, err := cache.Open(ctx, "redis://localhost:6379/0")
//	c, err := cache.Open(ctx, "mongodb://localhost:27017")
//	c, err := cache.Open(ctx, "/home/me/.cache/boxplan")
//	c, err := cache.Open(ctx, "")  // NullCache
//
// Keys come from a [Keyer], so callers never build key strings by hand.
package cache

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/matzehuels/boxplan/pkg/errors"
)

// Cache entry lifetimes.
const (
	TTLLayout = 7 * 24 * time.Hour
	TTLZones  = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// Get reports a miss with hit=false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open returns the backend named by location: redis:// and rediss:// URLs
// select Redis, mongodb:// and mongodb+srv:// select MongoDB, an empty
// string disables caching, and a plain path is a FileCache directory. Other
// URL schemes fail with UNSUPPORTED; unreachable backends with NETWORK_ERROR.
func Open(ctx context.Context, location string) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch {
	case location == "":
		return NewNullCache(), nil
	case strings.HasPrefix(location, "redis://"), strings.HasPrefix(location, "rediss://"):
		c, err = NewRedisCacheURL(ctx, location)
	case strings.HasPrefix(location, "mongodb://"), strings.HasPrefix(location, "mongodb+srv://"):
		c, err = NewMongoCache(ctx, MongoConfig{URI: location})
	case strings.Contains(location, "://"):
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported cache location %q", location)
	default:
		c, err = NewFileCache(location)
	}
	if err != nil {
		if stderrors.Is(err, ErrNetwork) {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect cache")
		}
		return nil, err
	}
	return c, nil
}

// =============================================================================
// Keys
// =============================================================================

// Keyer derives cache keys from content hashes.
type Keyer interface {
	// LayoutKey keys a full synthesis result.
	LayoutKey(planHash, optionsHash string) string
	// ZonesKey keys a zone extraction result.
	ZonesKey(planHash, optionsHash string) string
}

// DefaultKeyer produces "layout:<sha256>" style keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:" plus the SHA-256 of both hashes.
func (DefaultKeyer) LayoutKey(planHash, optionsHash string) string {
	return hashKey("layout", planHash, optionsHash)
}

// ZonesKey returns "zones:" plus the SHA-256 of both hashes, so zone results
// never collide with layouts for the same inputs.
func (DefaultKeyer) ZonesKey(planHash, optionsHash string) string {
	return hashKey("zones", planHash, optionsHash)
}

// ScopedKeyer prefixes every key of an inner Keyer, isolating tenants or
// deployments that share one backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner with prefix. A nil inner uses DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey prefixes the inner layout key.
func (k *ScopedKeyer) LayoutKey(planHash, optionsHash string) string {
	return k.prefix + k.inner.LayoutKey(planHash, optionsHash)
}

// ZonesKey prefixes the inner zones key.
func (k *ScopedKeyer) ZonesKey(planHash, optionsHash string) string {
	return k.prefix + k.inner.ZonesKey(planHash, optionsHash)
}
