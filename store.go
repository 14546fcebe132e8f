package valgov

// ReadOnlyKVStore is the read side of the state. Keys must not be nil.
type ReadOnlyKVStore interface {
	// Get returns nil for a missing key.
	Get(key []byte) ([]byte, error)

	Has(key []byte) (bool, error)

	// Iterator walks keys in [start, end) in ascending order. A nil start
	// or end leaves that side of the range open. The range must not be
	// written to while the iterator is in use.
	Iterator(start, end []byte) (Iterator, error)

	// ReverseIterator walks keys in [start, end) in descending order.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter is the write side shared by stores and batches. Callers must
// not modify key or value after the call.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is the state accessible to handlers and tickers.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
	NewBatch() Batch
}

// Batch collects writes that are applied together by Write.
type Batch interface {
	SetDeleter
	Write() error
}

// Iterator is a cursor over a key range. Once Valid returns false it stays
// false. Key and Value panic on an invalid iterator, Next returns an error.
//
//	it, err := db.Iterator(start, end)
//	if err != nil {
//		return err
//	}
//	defer it.Close()
//	for ; it.Valid(); err = it.Next() {
//		if err != nil {
//			return err
//		}
//		use(it.Key(), it.Value())
//	}
type Iterator interface {
	Valid() bool
	Next() error
	Key() []byte
	Value() []byte
	Close()
}

// CacheableKVStore can stage writes in a cache wrap.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap stages writes on top of another store. The staged writes are
// visible through the wrap only, until Write applies them to the parent.
// Discard drops them. Wraps can be nested.
type KVCacheWrap interface {
	CacheableKVStore
	Write() error
	Discard()
}

// CommitKVStore is the persistent root store. Blocks are executed in a
// cache wrap whose writes are persisted as a new version by Commit.
type CommitKVStore interface {
	// Get reads the last committed version.
	Get(key []byte) ([]byte, error)

	CacheWrap() KVCacheWrap

	// Commit persists all written changes as the next version.
	Commit() (CommitID, error)

	// LoadLatestVersion restores the most recent complete version.
	LoadLatestVersion() error

	LatestVersion() (CommitID, error)
}

// CommitID identifies a committed version by its number and merkle root.
type CommitID struct {
	Version int64
	Hash    []byte
}

// Model is a single key value pair.
type Model struct {
	Key   []byte
	Value []byte
}

func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}
