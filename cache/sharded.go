package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/IvanBrykalov/evictcache/internal/singleflight"
	"github.com/IvanBrykalov/evictcache/internal/util"
	"github.com/IvanBrykalov/evictcache/policy"
)

// ErrNoLoader is returned by GetOrLoad when no Loader was configured in Options.
var ErrNoLoader = errors.New("cache: no Loader provided")

// Stats is a point-in-time snapshot of Sharded counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Entries   int
}

// Sharded partitions keys across independent engines, each guarded by its
// own mutex held for the whole engine call. All methods are safe for
// concurrent use by multiple goroutines.
//
// Eviction order is exact within a shard only. With Shards: 1 the cache is
// a single engine behind a single lock and keeps the exact global order.
type Sharded[K comparable, V any] struct {
	shards  []*shard[K, V]
	hash    func(K) uint64
	cap     int
	kind    policy.Kind
	opt     Options[K, V]
	entries atomic.Int64

	// singleflight group for coalescing concurrent loads in GetOrLoad.
	sf singleflight.Group[K, V]
}

var _ Cache[string, int] = (*Sharded[string, int])(nil)

// shard is one engine plus its lock and hot counters.
type shard[K comparable, V any] struct {
	// ---- guarded by mu ----
	mu  sync.Mutex
	eng policy.Engine[K, V]

	// ---- hot counters (separate cache lines to avoid false sharing) ----
	_      util.CacheLinePad
	hits   util.PaddedAtomicUint64
	misses util.PaddedAtomicUint64
	evicts util.PaddedAtomicUint64
}

// NewSharded constructs a concurrent cache. Capacity is split exactly across
// shards, so Len() never exceeds opt.Capacity.
// Defaults:
//   - Shards <= 0 -> util.ReasonableShardCount()
//   - nil Hasher  -> util.NewHasher (seeded maphash)
func NewSharded[K comparable, V any](opt Options[K, V]) (*Sharded[K, V], error) {
	if err := policy.CheckCapacity(opt.Capacity); err != nil {
		return nil, err
	}
	opt.applyDefaults()

	n := shardCount(opt.Shards, opt.Capacity)
	c := &Sharded[K, V]{
		shards: make([]*shard[K, V], n),
		hash:   opt.Hasher,
		cap:    opt.Capacity,
		kind:   opt.Policy,
		opt:    opt,
	}
	if c.hash == nil {
		c.hash = util.NewHasher[K]()
	}

	base, rem := opt.Capacity/n, opt.Capacity%n
	for i := range c.shards {
		perShard := base
		if i < rem {
			perShard++
		}
		s := &shard[K, V]{}
		cb := opt.OnEvict
		eng, err := newEngine(opt.Policy, perShard, opt.Metrics, func(k K, v V) {
			s.evicts.Add(1)
			if cb != nil {
				cb(k, v)
			}
		})
		if err != nil {
			return nil, err
		}
		s.eng = eng
		c.shards[i] = s
	}
	return c, nil
}

// shardCount rounds the requested count to a power of two and halves it
// until every shard gets at least one slot.
func shardCount(requested, capacity int) int {
	n := requested
	if n <= 0 {
		n = util.ReasonableShardCount()
	} else {
		n = int(util.NextPow2(uint64(n)))
	}
	for n > 1 && n > capacity {
		n /= 2
	}
	return n
}

// ---- Cache[K,V] implementation ----

// Get returns the value for k and records the access in its shard.
func (c *Sharded[K, V]) Get(k K) (V, bool) {
	s := c.getShard(k)
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.eng.Get(k)
	if !ok {
		s.misses.Add(1)
		c.opt.Metrics.Miss()
		return v, false
	}
	s.hits.Add(1)
	c.opt.Metrics.Hit()
	return v, true
}

// Put inserts or updates k→v; the evicted key, if any, comes from k's shard.
// With more than one shard a new key evicts when its own shard is full, even
// while Len() < Cap(). Use Shards: 1 for the exact single-engine rule.
func (c *Sharded[K, V]) Put(k K, v V) (K, bool) {
	s := c.getShard(k)
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.eng.Len()
	ev, ok := s.eng.Put(k, v)
	c.resized(s.eng.Len() - before)
	return ev, ok
}

// Peek returns the value for k without recording an access.
func (c *Sharded[K, V]) Peek(k K) (V, bool) {
	s := c.getShard(k)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Peek(k)
}

// Contains reports residency without recording an access.
func (c *Sharded[K, V]) Contains(k K) bool {
	s := c.getShard(k)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Contains(k)
}

// Remove deletes k if present.
func (c *Sharded[K, V]) Remove(k K) bool {
	s := c.getShard(k)
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.eng.Remove(k) {
		return false
	}
	c.resized(-1)
	return true
}

// Len returns the total number of resident entries across all shards.
func (c *Sharded[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		s.mu.Lock()
		total += s.eng.Len()
		s.mu.Unlock()
	}
	return total
}

// Cap returns the configured total capacity.
func (c *Sharded[K, V]) Cap() int { return c.cap }

// Clear empties every shard. Counters are kept.
func (c *Sharded[K, V]) Clear() {
	for _, s := range c.shards {
		s.mu.Lock()
		n := s.eng.Len()
		s.eng.Clear()
		c.resized(-n)
		s.mu.Unlock()
	}
}

// Keys returns keys shard by shard, each in its own eviction order.
func (c *Sharded[K, V]) Keys() []K {
	var keys []K
	for _, s := range c.shards {
		s.mu.Lock()
		keys = append(keys, s.eng.Keys()...)
		s.mu.Unlock()
	}
	return keys
}

// Policy returns the eviction policy shared by all shards.
func (c *Sharded[K, V]) Policy() policy.Kind { return c.kind }

// Shards returns the effective shard count.
func (c *Sharded[K, V]) Shards() int { return len(c.shards) }

// GetOrLoad returns the value for k; on miss it loads via Options.Loader,
// coalescing concurrent loads for the same key (singleflight).
// Loader errors are returned as is and nothing is cached.
func (c *Sharded[K, V]) GetOrLoad(ctx context.Context, k K) (V, error) {
	// fast path
	if v, ok := c.Get(k); ok {
		return v, nil
	}
	if c.opt.Loader == nil {
		var zero V
		return zero, ErrNoLoader
	}

	return c.sf.Do(ctx, k, func() (V, error) {
		// double-check after flight join
		if v, ok := c.Peek(k); ok {
			return v, nil
		}
		v, err := c.opt.Loader(ctx, k)
		if err == nil {
			c.Put(k, v)
		}
		return v, err
	})
}

// Stats sums the per-shard counters.
func (c *Sharded[K, V]) Stats() Stats {
	var st Stats
	for _, s := range c.shards {
		st.Hits += s.hits.Load()
		st.Misses += s.misses.Load()
		st.Evictions += s.evicts.Load()
	}
	st.Entries = int(c.entries.Load())
	return st
}

// ---- helpers ----

// getShard picks a shard by hashing the key.
func (c *Sharded[K, V]) getShard(k K) *shard[K, V] {
	return c.shards[util.ShardIndex(c.hash(k), len(c.shards))]
}

// resized applies a per-shard size delta to the global gauge.
func (c *Sharded[K, V]) resized(delta int) {
	n := c.entries.Add(int64(delta))
	if delta != 0 {
		c.opt.Metrics.Size(int(n))
	}
}
