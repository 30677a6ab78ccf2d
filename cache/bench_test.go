package cache

import (
	"math/rand"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/IvanBrykalov/evictcache/policy"
)

// benchmarkEngine drives the unsynchronized facade with a read/write mix.
// Int keys keep strconv/alloc noise out of the hot path.
func benchmarkEngine(b *testing.B, kind policy.Kind, readsPct int) {
	c, err := New(Options[int, int]{Capacity: 100_000, Policy: kind})
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < 50_000; i++ {
		c.Put(i, 1)
	}

	r := rand.New(rand.NewSource(1))
	keyMask := (1 << 17) - 1
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := r.Int() & keyMask
		if r.Intn(100) < readsPct {
			c.Get(k)
		} else {
			c.Put(k, i)
		}
	}
}

func BenchmarkLRU_90r10w(b *testing.B) { benchmarkEngine(b, policy.LRU, 90) }
func BenchmarkLRU_50r50w(b *testing.B) { benchmarkEngine(b, policy.LRU, 50) }
func BenchmarkLFU_90r10w(b *testing.B) { benchmarkEngine(b, policy.LFU, 90) }
func BenchmarkLFU_50r50w(b *testing.B) { benchmarkEngine(b, policy.LFU, 50) }

// benchmarkSharded exercises the concurrent cache with parallel workers
// (RunParallel spawns GOMAXPROCS goroutines). String keys include
// strconv/concat costs, which is fine for an end-to-end benchmark.
func benchmarkSharded(b *testing.B, kind policy.Kind, readsPct int) {
	c, err := NewSharded(Options[string, string]{Capacity: 100_000, Policy: kind})
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < 50_000; i++ {
		c.Put("k:"+strconv.Itoa(i), "v")
	}

	b.ReportAllocs()
	b.ResetTimer()

	var seed int64 = 1
	keyMask := (1 << 16) - 1

	b.RunParallel(func(pb *testing.PB) {
		// Independent RNG stream for each worker.
		r := rand.New(rand.NewSource(atomic.AddInt64(&seed, 1)))
		i := 0
		for pb.Next() {
			k := "k:" + strconv.Itoa(i&keyMask)
			if r.Intn(100) < readsPct {
				c.Get(k)
			} else {
				c.Put(k, "v")
			}
			i++
		}
	})
}

func BenchmarkSharded_LRU_90r10w(b *testing.B) { benchmarkSharded(b, policy.LRU, 90) }
func BenchmarkSharded_LFU_90r10w(b *testing.B) { benchmarkSharded(b, policy.LFU, 90) }
