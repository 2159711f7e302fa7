package cache

import (
	"context"
	"time"

	"github.com/matzehuels/erwd/pkg/observability"
)

// instrumented reports cache traffic to the registered cache hooks.
type instrumented struct {
	Cache
	keyType string
}

// Instrument wraps c so that every Get and Set is reported to
// [observability.Cache] under keyType.
func Instrument(c Cache, keyType string) Cache {
	return instrumented{Cache: c, keyType: keyType}
}

func (c instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.Cache.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, c.keyType)
		} else {
			observability.Cache().OnCacheMiss(ctx, c.keyType)
		}
	}
	return data, ok, err
}

func (c instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, c.keyType, len(data))
	}
	return err
}
