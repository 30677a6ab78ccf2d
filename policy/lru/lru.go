// Package lru implements the Least-Recently-Used eviction engine.
package lru

import (
	"github.com/IvanBrykalov/evictcache/internal/arena"
	"github.com/IvanBrykalov/evictcache/policy"
)

// Cache is a classic "move-to-front" LRU: one recency list plus a key index.
// The eviction victim is always the tail of the list.
//
// Not safe for concurrent use.
type Cache[K comparable, V any] struct {
	cap     int
	a       *arena.Arena[K, V]
	list    *arena.List[K, V]
	index   map[K]arena.Handle
	onEvict policy.EvictFunc[K, V]
}

var _ policy.Engine[string, int] = (*Cache[string, int])(nil)

// New returns an empty LRU engine. onEvict may be nil.
func New[K comparable, V any](capacity int, onEvict policy.EvictFunc[K, V]) (*Cache[K, V], error) {
	if err := policy.CheckCapacity(capacity); err != nil {
		return nil, err
	}
	c := &Cache[K, V]{cap: capacity, onEvict: onEvict}
	c.init()
	return c, nil
}

func (c *Cache[K, V]) init() {
	c.a = arena.New[K, V](c.cap + 2) // +2 sentinels
	c.list = arena.NewList(c.a)
	c.index = make(map[K]arena.Handle, c.cap)
}

// Get returns the value for k and promotes the entry to MRU.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	h, ok := c.index[k]
	if !ok {
		var zero V
		return zero, false
	}
	c.list.MoveToFront(h)
	return c.a.At(h).Value, true
}

// Put inserts or updates k→v as MRU. When a new key arrives at capacity the
// LRU entry is evicted first and its key returned.
func (c *Cache[K, V]) Put(k K, v V) (evicted K, ok bool) {
	if h, hit := c.index[k]; hit {
		c.a.At(h).Value = v
		c.list.MoveToFront(h)
		return evicted, false
	}

	if len(c.index) >= c.cap {
		evicted, ok = c.evictBack()
	}

	h := c.a.Alloc(k, v)
	c.list.PushFront(h)
	c.index[k] = h
	return evicted, ok
}

// Peek returns the value for k without touching recency.
func (c *Cache[K, V]) Peek(k K) (V, bool) {
	h, ok := c.index[k]
	if !ok {
		var zero V
		return zero, false
	}
	return c.a.At(h).Value, true
}

// Contains reports residency without touching recency.
func (c *Cache[K, V]) Contains(k K) bool {
	_, ok := c.index[k]
	return ok
}

// Remove deletes k if present.
func (c *Cache[K, V]) Remove(k K) bool {
	h, ok := c.index[k]
	if !ok {
		return false
	}
	c.list.Remove(h)
	delete(c.index, k)
	c.a.Free(h)
	return true
}

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int { return len(c.index) }

// Cap returns the capacity.
func (c *Cache[K, V]) Cap() int { return c.cap }

// Clear drops all entries; onEvict is not called.
func (c *Cache[K, V]) Clear() {
	c.a.Reset()
	c.list = arena.NewList(c.a)
	clear(c.index)
}

// Keys returns keys from LRU to MRU.
func (c *Cache[K, V]) Keys() []K {
	keys := make([]K, 0, len(c.index))
	for h, ok := c.list.Back(); ok; h, ok = c.list.Prev(h) {
		keys = append(keys, c.a.At(h).Key)
	}
	return keys
}

// evictBack removes the tail entry and reports it to onEvict.
func (c *Cache[K, V]) evictBack() (K, bool) {
	h, ok := c.list.Back()
	if !ok {
		var zero K
		return zero, false
	}
	e := c.a.At(h)
	k, v := e.Key, e.Value
	c.list.Remove(h)
	delete(c.index, k)
	c.a.Free(h)
	if c.onEvict != nil {
		c.onEvict(k, v)
	}
	return k, true
}
