package flight

import (
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Cache memoizes work by key. Concurrent misses for the same key share one
// call of work; only successful results are stored.
type Cache[V any] struct {
	finished *cache.Cache
	pending  *singleflight.Group
	work     func(string) (V, error)
	ttl      time.Duration
}

// NewCache keeps results for ttl. ttl <= 0 keeps them until Flush.
func NewCache[V any](ttl time.Duration, work func(string) (V, error)) Cache[V] {
	expiry := ttl
	if ttl <= 0 {
		expiry = cache.NoExpiration
	}
	cleanup := 2 * ttl
	if ttl <= 0 {
		cleanup = 0
	}
	return Cache[V]{
		finished: cache.New(expiry, cleanup),
		pending:  new(singleflight.Group),
		work:     work,
		ttl:      expiry,
	}
}

func (p Cache[V]) Get(k string) (V, error) {
	if v, ok := p.finished.Get(k); ok {
		return v.(V), nil
	}
	return p.do(k)
}

// Force ignores any stored value and refreshes it. It still joins a call
// already in flight for k.
func (p Cache[V]) Force(k string) (V, error) {
	p.finished.Delete(k)
	return p.do(k)
}

// Flush drops every stored value.
func (p Cache[V]) Flush() {
	p.finished.Flush()
}

func (p Cache[V]) do(k string) (V, error) {
	v, err, _ := p.pending.Do(k, func() (any, error) {
		val, err := p.work(k)
		if err != nil {
			return val, err
		}
		p.finished.Set(k, val, p.ttl)
		return val, nil
	})
	if err != nil {
		var zero V
		if v != nil {
			zero, _ = v.(V)
		}
		return zero, err
	}
	return v.(V), nil
}
