package cache

import (
	"context"
	"time"

	"github.com/matzehuels/chartoverlay/pkg/observability"
)

// Instrumented reports hits, misses and writes of the wrapped cache to
// observability.Cache(), labelled with the backend name.
type Instrumented struct {
	Cache
	backend string
}

// Instrument wraps c. Wrapping an Instrumented cache again is a no-op.
func Instrument(c Cache, backend string) Cache {
	if in, ok := c.(*Instrumented); ok {
		return in
	}
	return &Instrumented{Cache: c, backend: backend}
}

func (c *Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.Cache.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, c.backend)
		} else {
			observability.Cache().OnCacheMiss(ctx, c.backend)
		}
	}
	return data, hit, err
}

func (c *Instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, c.backend, len(data))
	}
	return err
}
