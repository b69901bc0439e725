// Package pool implements the deduplicating, insertion-ordered table used
// for the assembler's string, number and function constant pools.
package pool

import "github.com/dolthub/swiss"

// Record is an insertion-ordered, deduplicating table from a value of type V
// to the index at which it was first inserted. Lookups are keyed by K rather
// than V directly, so that callers needing a comparison rule other than Go's
// native == (most notably: raw-bit float64 equality, where NaN == NaN and
// +0.0 != -0.0) can supply one via keyOf.
type Record[K comparable, V any] struct {
	index *swiss.Map[K, uint32]
	data  []V
	keyOf func(V) K
}

// NewRecord builds an empty Record. keyOf derives the dedup key from a
// stored value; pass a trivial identity function when V is itself comparable
// and native equality is the desired rule.
func NewRecord[K comparable, V any](keyOf func(V) K) *Record[K, V] {
	return &Record[K, V]{
		index: swiss.NewMap[K, uint32](uint32(8)),
		keyOf: keyOf,
	}
}

// Insert returns the index of v, inserting it at the end of the table if it
// is not already present.
func (r *Record[K, V]) Insert(v V) uint32 {
	k := r.keyOf(v)
	if idx, ok := r.index.Get(k); ok {
		return idx
	}
	idx := uint32(len(r.data))
	r.data = append(r.data, v)
	r.index.Put(k, idx)
	return idx
}

// Len reports the number of distinct values inserted so far.
func (r *Record[K, V]) Len() int {
	return len(r.data)
}

// Slice returns the table's values in insertion order. The returned slice
// aliases the Record's internal storage and must not be mutated by length.
func (r *Record[K, V]) Slice() []V {
	return r.data
}

// At returns the value stored at idx.
func (r *Record[K, V]) At(idx uint32) V {
	return r.data[idx]
}
