package cache

import "github.com/IvanBrykalov/evictcache/policy"

// Cache is a bounded in-memory key/value cache with a fixed eviction policy
// chosen at construction.
//
// Get and Put are amortized O(1): a map lookup plus constant-time list
// splices. Instances returned by New are NOT safe for concurrent use; wrap
// them with one lock or use NewSharded.
type Cache[K comparable, V any] interface {
	// Get returns the value for k and a presence flag.
	// On hit, the access is recorded according to the policy.
	// A miss changes nothing.
	Get(k K) (V, bool)

	// Put inserts or updates k→v and records the access.
	// If a resident entry was evicted to make room, its key is returned
	// with true. Updating an existing key never evicts.
	Put(k K, v V) (evicted K, ok bool)

	// Peek returns the value for k without recording an access.
	Peek(k K) (V, bool)

	// Contains reports whether k is resident without recording an access.
	Contains(k K) bool

	// Remove deletes k if present and returns true on success.
	// Removals are not reported as evictions.
	Remove(k K) bool

	// Len returns the number of resident entries.
	Len() int

	// Cap returns the entry capacity.
	Cap() int

	// Clear drops every entry without reporting evictions.
	Clear()

	// Keys returns resident keys in eviction order (next victim first).
	Keys() []K

	// Policy returns the eviction policy in use.
	Policy() policy.Kind
}
