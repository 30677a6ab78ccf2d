// Package policy defines the capability set shared by the eviction engines
// and the Kind used to select one at construction time.
package policy

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrInvalidCapacity is returned when an engine is built with capacity <= 0
	// or above MaxCapacity.
	ErrInvalidCapacity = errors.New("policy: invalid capacity")
	// ErrUnknownPolicy is returned when a Kind cannot be parsed.
	ErrUnknownPolicy = errors.New("policy: unknown eviction policy")
)

// Kind selects an eviction policy. The zero value is LRU.
type Kind uint8

const (
	// LRU evicts the least recently used entry.
	LRU Kind = iota
	// LFU evicts the least frequently used entry; ties go to the least recent.
	LFU
)

// String returns the lowercase policy name.
func (k Kind) String() string {
	switch k {
	case LRU:
		return "lru"
	case LFU:
		return "lfu"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind parses "lru" or "lfu" (case-insensitive).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lru":
		return LRU, nil
	case "lfu":
		return LFU, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k != LRU && k != LFU {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPolicy, uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so a Kind can be read
// from YAML and flag values.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Set implements flag.Value.
func (k *Kind) Set(s string) error { return k.UnmarshalText([]byte(s)) }

// EvictFunc is called for every entry removed to make room for a new key.
// It runs inside Put; keep it lightweight and do not call back into the engine.
type EvictFunc[K comparable, V any] func(k K, v V)

// Engine is a bounded key/value store with a fixed eviction policy.
//
// Engines are not safe for concurrent use; callers serialize access.
// Get and Put are amortized O(1).
type Engine[K comparable, V any] interface {
	// Get returns the value for k and records the access.
	// A miss returns the zero value and false and changes nothing.
	Get(k K) (V, bool)

	// Put inserts or overwrites k→v and records the access.
	// If a resident entry had to be evicted, its key is returned with true.
	Put(k K, v V) (evicted K, ok bool)

	// Peek returns the value for k without recording an access.
	Peek(k K) (V, bool)

	// Contains reports whether k is resident without recording an access.
	Contains(k K) bool

	// Remove deletes k. It is not reported as an eviction.
	Remove(k K) bool

	// Len returns the number of resident entries.
	Len() int

	// Cap returns the fixed capacity.
	Cap() int

	// Clear drops every entry without reporting evictions.
	Clear()

	// Keys returns resident keys in eviction order: next victim first.
	Keys() []K
}

// MaxCapacity is the largest accepted capacity. LFU keeps two sentinel
// slots per frequency bucket, so an arena can hold up to 3*capacity+2 slots
// and every one of them needs a 32-bit handle.
const MaxCapacity = (math.MaxUint32 - 4) / 3

// CheckCapacity validates an engine capacity.
func CheckCapacity(capacity int) error {
	if capacity <= 0 || int64(capacity) > MaxCapacity {
		return fmt.Errorf("%w: got %d (want 1..%d)", ErrInvalidCapacity, capacity, MaxCapacity)
	}
	return nil
}
