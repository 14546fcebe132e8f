package store

import (
	"bytes"

	"github.com/google/btree"
)

const btreeDegree = 2

// MemStore returns an in-memory store without any persistence. It is used
// as the scratch state in tests.
func MemStore() CacheableKVStore {
	var empty EmptyKVStore
	return NewBTreeCacheWrap(empty, empty.NewBatch(), nil)
}

// BTreeCacheWrap keeps uncommitted writes in a btree on top of a read only
// store. Writes are recorded in the batch and reach the underlying store
// only when Write is called.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap returns a cache over kv that writes through batch.
// A nil free list allocates a new one. Nested caches share the list of
// their parent.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(btreeDegree, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap returns a nested cache that writes into this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes all recorded operations into the underlying store and
// discards the cache. The cache is discarded on failure as well, in which
// case the underlying store may have received only a part of the
// operations.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all cached entries.
func (b BTreeCacheWrap) Discard() {
	for b.bt.DeleteMin() != nil {
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(entry{key: key, value: value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(entry{key: key, deleted: true})
	return b.batch.Delete(key)
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if e, ok := b.lookup(key); ok {
		if e.deleted {
			return nil, nil
		}
		return e.value, nil
	}
	return b.back.Get(key)
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	if e, ok := b.lookup(key); ok {
		return !e.deleted, nil
	}
	return b.back.Has(key)
}

func (b BTreeCacheWrap) lookup(key []byte) (entry, bool) {
	item := b.bt.Get(entry{key: key})
	if item == nil {
		return entry{}, false
	}
	return item.(entry), true
}

// Iterator returns entries of [start, end) in ascending key order, combining
// the cache with the underlying store.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIterator(b.collect(start, end), parent, true)
}

// ReverseIterator returns entries of [start, end) in descending key order,
// combining the cache with the underlying store.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	cached := b.collect(start, end)
	for i, j := 0, len(cached)-1; i < j; i, j = i+1, j-1 {
		cached[i], cached[j] = cached[j], cached[i]
	}
	return newMergeIterator(cached, parent, false)
}

// collect returns a snapshot of all cached entries within [start, end) in
// ascending order. Nil bounds are open.
func (b BTreeCacheWrap) collect(start, end []byte) []entry {
	var res []entry
	add := func(item btree.Item) bool {
		res = append(res, item.(entry))
		return true
	}
	switch {
	case start == nil && end == nil:
		b.bt.Ascend(add)
	case start == nil:
		b.bt.AscendLessThan(entry{key: end}, add)
	case end == nil:
		b.bt.AscendGreaterOrEqual(entry{key: start}, add)
	default:
		b.bt.AscendRange(entry{key: start}, entry{key: end}, add)
	}
	return res
}

// entry is a cached write. A deleted entry hides the key of the underlying
// store.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = entry{}

func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}
