package cache

import (
	"fmt"

	"github.com/IvanBrykalov/evictcache/policy"
	"github.com/IvanBrykalov/evictcache/policy/lfu"
	"github.com/IvanBrykalov/evictcache/policy/lru"
)

// ErrInvalidCapacity is returned by New and NewSharded when Capacity <= 0.
var ErrInvalidCapacity = policy.ErrInvalidCapacity

// cache forwards to a single engine and reports metrics.
// It holds no lock; see Cache.
type cache[K comparable, V any] struct {
	eng  policy.Engine[K, V]
	kind policy.Kind
	m    Metrics
}

// New constructs an unsynchronized cache with the provided Options.
// Defaults:
//   - Policy zero value -> LRU
//   - nil Metrics       -> NoopMetrics
func New[K comparable, V any](opt Options[K, V]) (Cache[K, V], error) {
	opt.applyDefaults()
	eng, err := newEngine(opt.Policy, opt.Capacity, opt.Metrics, opt.OnEvict)
	if err != nil {
		return nil, err
	}
	// return pointer-to-impl as the interface (avoids unexported-return lint)
	return &cache[K, V]{eng: eng, kind: opt.Policy, m: opt.Metrics}, nil
}

// newEngine builds the engine for kind and wires eviction reporting.
func newEngine[K comparable, V any](kind policy.Kind, capacity int, m Metrics, cb func(K, V)) (policy.Engine[K, V], error) {
	onEvict := func(k K, v V) {
		m.Evict()
		if cb != nil {
			cb(k, v)
		}
	}
	// Explicit branches keep a typed nil out of the returned interface.
	switch kind {
	case policy.LRU:
		e, err := lru.New[K, V](capacity, onEvict)
		if err != nil {
			return nil, err
		}
		return e, nil
	case policy.LFU:
		e, err := lfu.New[K, V](capacity, onEvict)
		if err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("%w: %s", policy.ErrUnknownPolicy, kind)
	}
}

// ---- Cache[K,V] implementation ----

func (c *cache[K, V]) Get(k K) (V, bool) {
	v, ok := c.eng.Get(k)
	if ok {
		c.m.Hit()
	} else {
		c.m.Miss()
	}
	return v, ok
}

func (c *cache[K, V]) Put(k K, v V) (K, bool) {
	ev, ok := c.eng.Put(k, v)
	c.m.Size(c.eng.Len())
	return ev, ok
}

func (c *cache[K, V]) Peek(k K) (V, bool) { return c.eng.Peek(k) }
func (c *cache[K, V]) Contains(k K) bool  { return c.eng.Contains(k) }

func (c *cache[K, V]) Remove(k K) bool {
	ok := c.eng.Remove(k)
	if ok {
		c.m.Size(c.eng.Len())
	}
	return ok
}

func (c *cache[K, V]) Len() int            { return c.eng.Len() }
func (c *cache[K, V]) Cap() int            { return c.eng.Cap() }
func (c *cache[K, V]) Keys() []K           { return c.eng.Keys() }
func (c *cache[K, V]) Policy() policy.Kind { return c.kind }

func (c *cache[K, V]) Clear() {
	c.eng.Clear()
	c.m.Size(0)
}
