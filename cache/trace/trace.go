// Package trace replays a key reference string against a cache and counts
// hits and faults, the classic page-replacement exercise: each distinct key
// is a page and the cache capacity is the number of frames.
package trace

import (
	"github.com/IvanBrykalov/evictcache/cache"
	"github.com/IvanBrykalov/evictcache/policy"
)

// Result summarises one replay.
type Result struct {
	Refs      int
	Hits      int
	Faults    int
	Evictions int
}

// HitRatio returns Hits/Refs, or 0 for an empty trace.
func (r Result) HitRatio() float64 {
	if r.Refs == 0 {
		return 0
	}
	return float64(r.Hits) / float64(r.Refs)
}

// Replay references every key in order. A resident key is a hit (and
// counts as an access); a missing key is a fault and is loaded with Put,
// which may evict.
func Replay[K comparable](c cache.Cache[K, struct{}], refs []K) Result {
	var r Result
	for _, k := range refs {
		r.Refs++
		if _, ok := c.Get(k); ok {
			r.Hits++
			continue
		}
		r.Faults++
		if _, evicted := c.Put(k, struct{}{}); evicted {
			r.Evictions++
		}
	}
	return r
}

// Simulate replays refs on a fresh cache with the given policy and frame count.
func Simulate[K comparable](kind policy.Kind, frames int, refs []K) (Result, error) {
	c, err := cache.New(cache.Options[K, struct{}]{Capacity: frames, Policy: kind})
	if err != nil {
		return Result{}, err
	}
	return Replay(c, refs), nil
}
