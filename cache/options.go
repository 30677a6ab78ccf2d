package cache

import (
	"context"

	"github.com/IvanBrykalov/evictcache/policy"
)

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict()
	Size(entries int)
}

// Options configures a cache. Zero values are safe; defaults are applied
// by New and NewSharded:
//   - Policy zero value => LRU
//   - nil Metrics       => NoopMetrics
//   - Shards <= 0       => auto (NewSharded only)
type Options[K comparable, V any] struct {
	// Capacity is the entry count limit. Must be > 0.
	Capacity int

	// Policy selects LRU or LFU eviction. It cannot change after construction.
	Policy policy.Kind

	// Shards is the shard count for NewSharded, rounded up to a power of two
	// and reduced until every shard owns at least one slot. New ignores it.
	// Shards: 1 keeps exact policy semantics: Put evicts only when the whole
	// cache is full. Larger counts evict per shard.
	Shards int

	// Hasher maps keys to shards (NewSharded). Nil => a seeded maphash.
	Hasher func(K) uint64

	// Loader fetches a value on miss. Used by Sharded.GetOrLoad.
	Loader func(ctx context.Context, k K) (V, error)

	// OnEvict is called for every capacity eviction, inside Put.
	// Keep it lightweight and do not call back into the cache.
	OnEvict func(k K, v V)

	Metrics Metrics
}

func (o *Options[K, V]) applyDefaults() {
	if o.Metrics == nil {
		o.Metrics = NoopMetrics{}
	}
}
