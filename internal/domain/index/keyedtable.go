// Package index holds the in-memory lookup structures behind the catalog:
// a chained hash table keyed by identifier and two rune tries, one over
// lower-cased player names and one over raw tag fields.
package index

import (
	"iter"

	"github.com/cespare/xxhash/v2"
)

type slot[V any] struct {
	key   string
	value V
}

// KeyedTable is a chained hash table with a bucket count fixed at
// construction. Each bucket keeps its entries in insertion order.
//
// The table never grows. Size it at or above the expected number of keys;
// LoadFactor and LongestChain report how far a loaded table drifted from that.
// A KeyedTable is not safe for concurrent writes; concurrent reads are fine
// once writes have stopped.
type KeyedTable[V any] struct {
	buckets [][]slot[V]
	size    int
}

// NewKeyedTable creates a table with the given bucket count. Counts below one
// are treated as one.
func NewKeyedTable[V any](buckets int) *KeyedTable[V] {
	if buckets < 1 {
		buckets = 1
	}
	return &KeyedTable[V]{buckets: make([][]slot[V], buckets)}
}

func (t *KeyedTable[V]) bucket(key string) int {
	return int(xxhash.Sum64String(key) % uint64(len(t.buckets)))
}

// Insert appends (key, value) to its bucket without checking for an existing
// key. Lookup returns the earliest insertion for a repeated key.
func (t *KeyedTable[V]) Insert(key string, value V) {
	b := t.bucket(key)
	t.buckets[b] = append(t.buckets[b], slot[V]{key: key, value: value})
	t.size++
}

// Upsert replaces the value stored under key, or appends it when the key is
// new. It reports whether an existing value was replaced.
func (t *KeyedTable[V]) Upsert(key string, value V) bool {
	b := t.bucket(key)
	chain := t.buckets[b]
	for i := range chain {
		if chain[i].key == key {
			chain[i].value = value
			return true
		}
	}
	t.buckets[b] = append(chain, slot[V]{key: key, value: value})
	t.size++
	return false
}

// Lookup returns the first value stored under key.
func (t *KeyedTable[V]) Lookup(key string) (V, bool) {
	for _, s := range t.buckets[t.bucket(key)] {
		if s.key == key {
			return s.value, true
		}
	}
	var zero V
	return zero, false
}

// All yields every entry, bucket by bucket, each chain in insertion order.
func (t *KeyedTable[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, chain := range t.buckets {
			for _, s := range chain {
				if !yield(s.key, s.value) {
					return
				}
			}
		}
	}
}

// Len returns the number of stored entries, repeated keys included.
func (t *KeyedTable[V]) Len() int { return t.size }

// Buckets returns the fixed bucket count.
func (t *KeyedTable[V]) Buckets() int { return len(t.buckets) }

// LoadFactor returns entries per bucket.
func (t *KeyedTable[V]) LoadFactor() float64 {
	return float64(t.size) / float64(len(t.buckets))
}

// LongestChain returns the length of the fullest bucket.
func (t *KeyedTable[V]) LongestChain() int {
	longest := 0
	for _, chain := range t.buckets {
		if len(chain) > longest {
			longest = len(chain)
		}
	}
	return longest
}
