// Package cache provides a bounded, generic in-memory cache with two
// interchangeable eviction policies: LRU and LFU.
//
// Design
//
//   - Storage: entries live in an arena (a slot store addressed by stable
//     integer handles). The key index maps K to a handle and recency lists
//     link handles, so moving an entry between lists is an index splice.
//     Get and Put are O(1) amortized for both policies.
//
//   - LRU: one recency list, head = most recent. The victim is the tail.
//
//   - LFU: one recency list per access count plus a tracked minimum count.
//     The victim is the least recent entry of the lowest count, so ties in
//     frequency are broken by recency.
//
//   - Policy is fixed at construction (Options.Policy) and never swapped.
//
//   - Concurrency: New returns an unsynchronized cache; the caller
//     serializes access. NewSharded returns a cache split into shards, each
//     an engine behind its own mutex. With Shards: 1 it is one lock around
//     one engine and keeps the exact policy order.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals.
//     NoopMetrics is the default; plug metrics/prom to export them.
//
//   - Callbacks: Options.OnEvict(k, v) is called for every capacity
//     eviction. Remove and Clear do not report evictions.
//
// Basic usage
//
//	c, err := cache.New(cache.Options[int, string]{Capacity: 2, Policy: policy.LFU})
//	if err != nil {
//	    return err // capacity <= 0
//	}
//	c.Put(1, "a")
//	c.Put(2, "b")
//	c.Get(1)                    // freq(1) = 2
//	evicted, ok := c.Put(3, "c") // evicted == 2, ok == true
//
// Concurrent use with loading (singleflight)
//
//	c, err := cache.NewSharded(cache.Options[string, []byte]{
//	    Capacity: 10_000,
//	    Loader: func(ctx context.Context, k string) ([]byte, error) {
//	        return fetch(ctx, k)
//	    },
//	})
//	v, err := c.GetOrLoad(ctx, "key")
//
// Exporting metrics
//
//	m := prom.New(nil, "evictcache", "demo", nil) // implements Metrics
//	c, err := cache.New(cache.Options[string, []byte]{Capacity: 10_000, Metrics: m})
package cache
