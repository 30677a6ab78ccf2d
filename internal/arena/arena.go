// Package arena provides the slot store and intrusive recency lists shared by
// the eviction engines. Entries are addressed by stable Handle indices rather
// than pointers, so an entry can move between lists (e.g. LFU frequency
// buckets) without any owner holding a dangling reference.
package arena

import "math"

// Handle is a stable index of a slot in an Arena.
type Handle uint32

// Nil is the null handle. It never addresses a live slot.
const Nil Handle = math.MaxUint32

// Entry is a cache entry stored in an arena slot.
// Links are owned by the List that currently holds the entry.
type Entry[K comparable, V any] struct {
	Key   K
	Value V

	// Freq is the access counter used by LFU; LRU leaves it at 1.
	Freq uint64

	prev Handle
	next Handle
	used bool
}

// Arena is a growable slot store with an intrusive free list.
// Freed slots are recycled before the backing slice grows.
//
// Not safe for concurrent use.
type Arena[K comparable, V any] struct {
	slots []Entry[K, V]
	free  Handle // head of the free chain (linked through next)
	live  int
}

// New returns an arena with room for hint slots before the first growth.
func New[K comparable, V any](hint int) *Arena[K, V] {
	if hint < 0 {
		hint = 0
	}
	return &Arena[K, V]{
		slots: make([]Entry[K, V], 0, hint),
		free:  Nil,
	}
}

// Alloc stores k→v in a free slot and returns its handle.
// The new entry starts detached with Freq = 1.
func (a *Arena[K, V]) Alloc(k K, v V) Handle {
	var h Handle
	if a.free != Nil {
		h = a.free
		a.free = a.slots[h].next
	} else {
		if uint64(len(a.slots)) >= uint64(Nil) {
			panic("arena: handle space exhausted")
		}
		a.slots = append(a.slots, Entry[K, V]{})
		h = Handle(len(a.slots) - 1)
	}
	a.slots[h] = Entry[K, V]{Key: k, Value: v, Freq: 1, prev: Nil, next: Nil, used: true}
	a.live++
	return h
}

// Free releases the slot. Key and value are zeroed so the arena does not
// keep them reachable. The caller must have unlinked the entry first.
func (a *Arena[K, V]) Free(h Handle) {
	e := &a.slots[h]
	if !e.used {
		panic("arena: double free")
	}
	*e = Entry[K, V]{prev: Nil, next: a.free}
	a.free = h
	a.live--
}

// At returns the entry for h. The pointer is valid only until the next Alloc,
// which may grow the backing slice; do not retain it.
func (a *Arena[K, V]) At(h Handle) *Entry[K, V] { return &a.slots[h] }

// Live returns the number of allocated slots (entries and list sentinels).
func (a *Arena[K, V]) Live() int { return a.live }

// Reset frees every slot at once, keeping the backing capacity.
// Lists built on this arena must not be used afterwards.
func (a *Arena[K, V]) Reset() {
	clear(a.slots)
	a.slots = a.slots[:0]
	a.free = Nil
	a.live = 0
}
