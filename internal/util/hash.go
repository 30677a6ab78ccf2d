// Package util contains internal helpers (hashing, sharding, padding).
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

import "hash/maphash"

// NewHasher returns a seeded hash function for shard selection.
// Strings and integer keys take a fast path; every other comparable key
// (structs, arrays, pointers) goes through maphash.Comparable.
// Hashes are stable for the lifetime of the returned function only.
func NewHasher[K comparable]() func(K) uint64 {
	seed := maphash.MakeSeed()
	salt := maphash.String(seed, "evictcache")
	return func(k K) uint64 {
		switch v := any(k).(type) {
		case string:
			return maphash.String(seed, v)
		case int:
			return mix64(uint64(v) ^ salt)
		case int64:
			return mix64(uint64(v) ^ salt)
		case int32:
			return mix64(uint64(uint32(v)) ^ salt)
		case uint:
			return mix64(uint64(v) ^ salt)
		case uint64:
			return mix64(v ^ salt)
		case uint32:
			return mix64(uint64(v) ^ salt)
		default:
			return maphash.Comparable(seed, k)
		}
	}
}

// mix64 is the splitmix64 finalizer: it spreads low-entropy integer keys
// (sequential IDs) across all 64 bits before the shard mask is applied.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
