// Package cache stores rendered frame artifacts.
//
// A frame is fully determined by its scene (identified by the scene digest),
// the hovered datum, the pixel ratio and the output format, so keys are
// derived from exactly those inputs. The backends share the [Cache]
// interface: [FileCache] for the CLI, [RedisCache] and [MongoCache] for
// frame servers sharing one store, and [NullCache] when caching is disabled. [Instrument] reports hits and misses
// through the observability hooks.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Keyer derives cache keys for frame artifacts.
type Keyer interface {
	FrameKey(sceneDigest string, opts FrameKeyOpts) string
}

// FrameKeyOpts are the per-request inputs of a rendered frame.
type FrameKeyOpts struct {
	Format string  `json:"format"`
	Item   int     `json:"item"`
	Ratio  float64 `json:"ratio"`
}

// DefaultKeyer hashes its inputs into "frame:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// FrameKey returns the key of one rendered frame.
func (DefaultKeyer) FrameKey(sceneDigest string, opts FrameKeyOpts) string {
	return hashKey("frame", sceneDigest, opts)
}

// ScopedKeyer prefixes every key of an inner keyer, separating namespaces
// such as binary versions that share one Redis instance.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner with prefix. A nil inner uses the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// FrameKey returns the prefixed frame key.
func (k *ScopedKeyer) FrameKey(sceneDigest string, opts FrameKeyOpts) string {
	return k.prefix + k.inner.FrameKey(sceneDigest, opts)
}

// Fetch returns the cached bytes for key, or calls produce and stores its
// result. Backend errors on the read or write path are returned alongside
// a successful produce so callers can log them; they never mask the data.
func Fetch(ctx context.Context, c Cache, key string, ttl time.Duration, produce func() ([]byte, error)) (data []byte, hit bool, err error) {
	data, hit, getErr := c.Get(ctx, key)
	if getErr == nil && hit {
		return data, true, nil
	}
	data, err = produce()
	if err != nil {
		return nil, false, err
	}
	if setErr := c.Set(ctx, key, data, ttl); setErr != nil {
		return data, false, setErr
	}
	return data, false, getErr
}
