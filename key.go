package tabula

import (
	xxhash "github.com/cespare/xxhash/v2"
)

// Key is an ordered sequence of Values extracted from a Row via a fixed list of columns.
// Keys drive joins, grouping and deduplication.
type Key []Value

// Equal returns true iff both Keys hold pairwise-equal Values
func (k Key) Equal(o Key) bool {
	return valuesEqual(k, o)
}

// Hash combines the hashes of each element, order-sensitively
func (k Key) Hash() uint64 {
	hasher := xxhash.New()
	for _, v := range k {
		v.hashInto(hasher)
	}
	return hasher.Sum64()
}

// keyExtractor pulls Keys out of rows sharing a known Header
type keyExtractor struct {
	positions []int
}

// newKeyExtractor resolves keyCols against header. Columns must already be validated.
func newKeyExtractor(header *Header, keyCols []string) keyExtractor {
	positions := make([]int, len(keyCols))
	for i, col := range keyCols {
		positions[i] = header.IndexOf(col)
	}
	return keyExtractor{positions: positions}
}

func (ke keyExtractor) extract(row *Row) Key {
	key := make(Key, len(ke.positions))
	for i, pos := range ke.positions {
		key[i] = row.values[pos]
	}
	return key
}

// keyIndex is a hash index from Key to an ordered list of entries, preserving the
// first-seen order of distinct keys
type keyIndex[T any] struct {
	buckets map[uint64][]int
	keys    []Key
	entries [][]T
}

func newKeyIndex[T any]() *keyIndex[T] {
	return &keyIndex[T]{buckets: make(map[uint64][]int)}
}

// find returns the slot of key, or -1
func (ki *keyIndex[T]) find(key Key) int {
	return ki.findHashed(key, key.Hash())
}

func (ki *keyIndex[T]) findHashed(key Key, hash uint64) int {
	for _, slot := range ki.buckets[hash] {
		if ki.keys[slot].Equal(key) {
			return slot
		}
	}
	return -1
}

// add appends entry under key, creating a new slot for unseen keys. It returns the slot and
// whether the key was new.
func (ki *keyIndex[T]) add(key Key, entry T) (int, bool) {
	hash := key.Hash()
	if slot := ki.findHashed(key, hash); slot >= 0 {
		ki.entries[slot] = append(ki.entries[slot], entry)
		return slot, false
	}
	slot := len(ki.keys)
	ki.keys = append(ki.keys, key)
	ki.entries = append(ki.entries, []T{entry})
	ki.buckets[hash] = append(ki.buckets[hash], slot)
	return slot, true
}

func (ki *keyIndex[T]) len() int {
	return len(ki.keys)
}
