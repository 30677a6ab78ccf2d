package lfu

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanBrykalov/evictcache/policy"
)

func newLFU[K comparable, V any](t *testing.T, capacity int) *Cache[K, V] {
	t.Helper()
	c, err := New[K, V](capacity, nil)
	require.NoError(t, err)
	return c
}

func TestLFU_InvalidCapacity(t *testing.T) {
	t.Parallel()

	c, err := New[int, string](0, nil)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, policy.ErrInvalidCapacity)
}

// The entry read once more than its peer survives the eviction.
func TestLFU_EvictsMinFrequency(t *testing.T) {
	t.Parallel()

	c := newLFU[int, string](t, 2)
	c.Put(1, "a")
	c.Put(2, "b")
	v, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "a", v)

	f, _ := c.Frequency(1)
	assert.Equal(t, uint64(2), f)
	f, _ = c.Frequency(2)
	assert.Equal(t, uint64(1), f)

	k, ev := c.Put(3, "c")
	require.True(t, ev)
	assert.Equal(t, 2, k)

	_, ok = c.Get(2)
	assert.False(t, ok)
	v, _ = c.Get(1)
	assert.Equal(t, "a", v)
	v, _ = c.Get(3)
	assert.Equal(t, "c", v)
}

// Equal frequencies fall back to recency: the older key goes first.
func TestLFU_TieBreakByRecency(t *testing.T) {
	t.Parallel()

	c := newLFU[int, string](t, 2)
	c.Put(1, "a")
	c.Put(2, "b")

	k, ev := c.Put(3, "c")
	require.True(t, ev)
	assert.Equal(t, 1, k)

	_, ok := c.Get(1)
	assert.False(t, ok)
	v, ok := c.Get(2)
	require.True(t, ok)
	assert.Equal(t, "b", v)
}

// Within a higher bucket recency also decides: the key bumped earliest is
// the victim once the lower buckets are gone.
func TestLFU_TieBreakInsideHigherBucket(t *testing.T) {
	t.Parallel()

	c := newLFU[string, int](t, 3)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)
	c.Get("b")
	c.Get("a")
	c.Get("c")
	assert.Equal(t, []string{"b", "a", "c"}, c.Keys())

	k, ev := c.Put("d", 4)
	require.True(t, ev)
	assert.Equal(t, "b", k)
	assert.Equal(t, uint64(1), c.MinFrequency())
}

// Updating a value counts as an access.
func TestLFU_PutExistingBumps(t *testing.T) {
	t.Parallel()

	c := newLFU[int, string](t, 2)
	c.Put(1, "a")
	c.Put(2, "b")
	_, ev := c.Put(1, "A")
	assert.False(t, ev)

	f, _ := c.Frequency(1)
	assert.Equal(t, uint64(2), f)

	k, ev := c.Put(3, "c")
	require.True(t, ev)
	assert.Equal(t, 2, k)
	v, _ := c.Peek(1)
	assert.Equal(t, "A", v)
}

func TestLFU_MinFrequencyTracking(t *testing.T) {
	t.Parallel()

	c := newLFU[int, int](t, 3)
	assert.Equal(t, uint64(0), c.MinFrequency())

	c.Put(1, 1)
	assert.Equal(t, uint64(1), c.MinFrequency())
	c.Get(1)
	c.Get(1)
	assert.Equal(t, uint64(3), c.MinFrequency(), "sole entry moved up")

	c.Put(2, 2)
	assert.Equal(t, uint64(1), c.MinFrequency(), "fresh key resets minimum")

	c.Get(2) // bucket 1 empties; 2 is now at freq 2
	assert.Equal(t, uint64(2), c.MinFrequency())

	// Removing the only entry at the minimum skips to the next bucket.
	c.Remove(2)
	assert.Equal(t, uint64(3), c.MinFrequency())

	c.Remove(1)
	assert.Equal(t, uint64(0), c.MinFrequency())
	assert.Empty(t, c.buckets, "empty buckets must be released")
}

// Misses and read-only lookups never change frequency or membership.
func TestLFU_ReadOnlyLookups(t *testing.T) {
	t.Parallel()

	c := newLFU[int, int](t, 2)
	c.Put(1, 1)
	c.Put(2, 2)
	before := c.Keys()

	_, ok := c.Get(7)
	assert.False(t, ok)
	_, ok = c.Peek(1)
	assert.True(t, ok)
	assert.True(t, c.Contains(2))

	f, _ := c.Frequency(1)
	assert.Equal(t, uint64(1), f)
	assert.Equal(t, before, c.Keys())
	assert.Equal(t, 2, c.Len())
}

func TestLFU_ClearAndReuse(t *testing.T) {
	t.Parallel()

	var evicted int
	c, err := New[int, int](2, func(int, int) { evicted++ })
	require.NoError(t, err)

	c.Put(1, 1)
	c.Get(1)
	c.Put(2, 2)
	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, evicted)
	assert.Equal(t, 0, c.a.Live(), "arena must be empty after Clear")
	_, ok := c.Get(1)
	assert.False(t, ok)

	c.Put(3, 3)
	c.Put(4, 4)
	k, ev := c.Put(5, 5)
	require.True(t, ev)
	assert.Equal(t, 3, k)
	assert.Equal(t, 1, evicted)
}

func TestLFU_SaturatedFrequency(t *testing.T) {
	t.Parallel()

	c := newLFU[string, int](t, 2)
	c.Put("a", 1)

	// Move "a" straight into the top bucket.
	h := c.index["a"]
	c.unlink(h, 1)
	c.a.At(h).Freq = math.MaxUint64
	c.bucket(math.MaxUint64).PushFront(h)
	c.minFreq = math.MaxUint64

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	f, _ := c.Frequency("a")
	assert.Equal(t, uint64(math.MaxUint64), f)

	c.Put("b", 2)
	k, ev := c.Put("c", 3)
	require.True(t, ev)
	assert.Equal(t, "b", k)
}

// refLFU is a brute-force LFU: victim = min(freq), then min(last touch).
type refLFU struct {
	cap  int
	tick int
	val  map[int]int
	freq map[int]uint64
	last map[int]int
}

func (r *refLFU) touch(k int) {
	r.tick++
	r.freq[k]++
	r.last[k] = r.tick
}

func (r *refLFU) order() []int {
	keys := make([]int, 0, len(r.val))
	for k := range r.val {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if r.freq[a] != r.freq[b] {
			return r.freq[a] < r.freq[b]
		}
		return r.last[a] < r.last[b]
	})
	return keys
}

func (r *refLFU) drop(k int) {
	delete(r.val, k)
	delete(r.freq, k)
	delete(r.last, k)
}

func TestLFU_MatchesReferenceModel(t *testing.T) {
	t.Parallel()

	const capacity = 6
	rnd := rand.New(rand.NewSource(7))
	c := newLFU[int, int](t, capacity)
	ref := &refLFU{cap: capacity, val: map[int]int{}, freq: map[int]uint64{}, last: map[int]int{}}

	for i := 0; i < 10_000; i++ {
		k := rnd.Intn(15)
		switch rnd.Intn(10) {
		case 0:
			_, present := ref.val[k]
			require.Equal(t, present, c.Remove(k))
			ref.drop(k)
		case 1, 2, 3, 4:
			want, present := ref.val[k]
			got, ok := c.Get(k)
			require.Equal(t, present, ok, "op %d get %d", i, k)
			if present {
				require.Equal(t, want, got)
				ref.touch(k)
			}
		default:
			_, present := ref.val[k]
			wantOK := !present && len(ref.val) == capacity
			var wantEv int
			if wantOK {
				wantEv = ref.order()[0]
				ref.drop(wantEv)
			}
			ev, ok := c.Put(k, i)
			require.Equal(t, wantOK, ok, "op %d put %d", i, k)
			if wantOK {
				require.Equal(t, wantEv, ev, "op %d victim", i)
			}
			ref.val[k] = i
			ref.touch(k)
		}

		require.LessOrEqual(t, c.Len(), capacity)
		require.Equal(t, ref.order(), c.Keys(), "op %d", i)
		if c.Len() > 0 {
			require.Equal(t, ref.freq[ref.order()[0]], c.MinFrequency(), "op %d", i)
		}
	}
}
