// Package lfu implements the Least-Frequently-Used eviction engine.
//
// Entries are grouped into frequency buckets, one recency list per distinct
// access count. The victim is the tail (least recent) of the lowest
// non-empty bucket, so frequency is the primary order and recency breaks ties.
package lfu

import (
	"math"
	"slices"

	"github.com/IvanBrykalov/evictcache/internal/arena"
	"github.com/IvanBrykalov/evictcache/policy"
)

// Cache is an O(1) LFU engine.
//
// Not safe for concurrent use.
type Cache[K comparable, V any] struct {
	cap     int
	a       *arena.Arena[K, V]
	index   map[K]arena.Handle
	buckets map[uint64]*arena.List[K, V]

	// minFreq is the lowest non-empty bucket; meaningful only when Len() > 0.
	minFreq uint64

	onEvict policy.EvictFunc[K, V]
}

var _ policy.Engine[string, int] = (*Cache[string, int])(nil)

// New returns an empty LFU engine. onEvict may be nil.
func New[K comparable, V any](capacity int, onEvict policy.EvictFunc[K, V]) (*Cache[K, V], error) {
	if err := policy.CheckCapacity(capacity); err != nil {
		return nil, err
	}
	c := &Cache[K, V]{
		cap:     capacity,
		a:       arena.New[K, V](capacity + 4),
		index:   make(map[K]arena.Handle, capacity),
		buckets: make(map[uint64]*arena.List[K, V]),
		onEvict: onEvict,
	}
	return c, nil
}

// Get returns the value for k and bumps its frequency.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	h, ok := c.index[k]
	if !ok {
		var zero V
		return zero, false
	}
	c.bump(h)
	return c.a.At(h).Value, true
}

// Put inserts or updates k→v. An update bumps the frequency like Get.
// A new key at capacity first evicts the least recent entry of the
// minimum-frequency bucket and returns its key.
func (c *Cache[K, V]) Put(k K, v V) (evicted K, ok bool) {
	if h, hit := c.index[k]; hit {
		c.a.At(h).Value = v
		c.bump(h)
		return evicted, false
	}

	if len(c.index) >= c.cap {
		evicted, ok = c.evict()
	}

	h := c.a.Alloc(k, v) // Freq = 1
	c.bucket(1).PushFront(h)
	c.index[k] = h
	c.minFreq = 1
	return evicted, ok
}

// Peek returns the value for k without counting an access.
func (c *Cache[K, V]) Peek(k K) (V, bool) {
	h, ok := c.index[k]
	if !ok {
		var zero V
		return zero, false
	}
	return c.a.At(h).Value, true
}

// Contains reports residency without counting an access.
func (c *Cache[K, V]) Contains(k K) bool {
	_, ok := c.index[k]
	return ok
}

// Frequency returns the access count of k.
func (c *Cache[K, V]) Frequency(k K) (uint64, bool) {
	h, ok := c.index[k]
	if !ok {
		return 0, false
	}
	return c.a.At(h).Freq, true
}

// MinFrequency returns the lowest access count among resident entries,
// or 0 when the cache is empty.
func (c *Cache[K, V]) MinFrequency() uint64 {
	if len(c.index) == 0 {
		return 0
	}
	return c.minFreq
}

// Remove deletes k if present. If that empties the minimum bucket, the new
// minimum is found by scanning the remaining buckets.
func (c *Cache[K, V]) Remove(k K) bool {
	h, ok := c.index[k]
	if !ok {
		return false
	}
	f := c.a.At(h).Freq
	emptied := c.unlink(h, f)
	delete(c.index, k)
	c.a.Free(h)
	if emptied && f == c.minFreq {
		c.minFreq = c.lowestBucket()
	}
	return true
}

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int { return len(c.index) }

// Cap returns the capacity.
func (c *Cache[K, V]) Cap() int { return c.cap }

// Clear drops all entries and buckets; onEvict is not called.
func (c *Cache[K, V]) Clear() {
	c.a.Reset()
	clear(c.index)
	clear(c.buckets)
	c.minFreq = 0
}

// Keys returns keys in eviction order: ascending frequency, and within one
// frequency from least to most recent.
func (c *Cache[K, V]) Keys() []K {
	freqs := make([]uint64, 0, len(c.buckets))
	for f := range c.buckets {
		freqs = append(freqs, f)
	}
	slices.Sort(freqs)

	keys := make([]K, 0, len(c.index))
	for _, f := range freqs {
		l := c.buckets[f]
		for h, ok := l.Back(); ok; h, ok = l.Prev(h) {
			keys = append(keys, c.a.At(h).Key)
		}
	}
	return keys
}

// ---- internals ----

// bucket returns the list for frequency f, creating it if absent.
// Creating a bucket allocates sentinels, so *Entry pointers taken before
// this call must be re-fetched.
func (c *Cache[K, V]) bucket(f uint64) *arena.List[K, V] {
	l, ok := c.buckets[f]
	if !ok {
		l = arena.NewList(c.a)
		c.buckets[f] = l
	}
	return l
}

// unlink removes h from bucket f and releases the bucket if it became empty.
func (c *Cache[K, V]) unlink(h arena.Handle, f uint64) (emptied bool) {
	l := c.buckets[f]
	l.Remove(h)
	if l.Len() > 0 {
		return false
	}
	l.Release()
	delete(c.buckets, f)
	return true
}

// bump moves h from bucket f to the head of bucket f+1.
func (c *Cache[K, V]) bump(h arena.Handle) {
	f := c.a.At(h).Freq
	if f == math.MaxUint64 {
		// Saturated: only the recency within the bucket changes.
		c.buckets[f].MoveToFront(h)
		return
	}
	if c.unlink(h, f) && f == c.minFreq {
		c.minFreq = f + 1
	}
	c.a.At(h).Freq = f + 1
	c.bucket(f + 1).PushFront(h)
}

// evict removes the tail of the minimum-frequency bucket.
func (c *Cache[K, V]) evict() (K, bool) {
	l, ok := c.buckets[c.minFreq]
	if !ok {
		var zero K
		return zero, false
	}
	h, _ := l.Back()
	e := c.a.At(h)
	k, v := e.Key, e.Value
	c.unlink(h, c.minFreq)
	delete(c.index, k)
	c.a.Free(h)
	if c.onEvict != nil {
		c.onEvict(k, v)
	}
	return k, true
}

// lowestBucket scans for the smallest occupied frequency (0 if none).
func (c *Cache[K, V]) lowestBucket() uint64 {
	var lowest uint64
	for f := range c.buckets {
		if lowest == 0 || f < lowest {
			lowest = f
		}
	}
	return lowest
}
