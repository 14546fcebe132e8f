package store

import (
	"github.com/iov-one/valgov/errors"
)

// SliceIterator iterates over models that are already in memory, in the
// order they are given.
type SliceIterator struct {
	data []Model
}

var _ Iterator = (*SliceIterator)(nil)

func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{data: data}
}

func (s *SliceIterator) Valid() bool {
	return len(s.data) != 0
}

// Next moves to the following model. It fails once the iterator is
// exhausted.
func (s *SliceIterator) Next() error {
	if !s.Valid() {
		return errors.Wrap(errors.ErrDatabase, "slice iterator exhausted")
	}
	s.data = s.data[1:]
	return nil
}

func (s *SliceIterator) Key() []byte {
	return s.current().Key
}

func (s *SliceIterator) Value() []byte {
	return s.current().Value
}

func (s *SliceIterator) current() Model {
	if !s.Valid() {
		panic("slice iterator exhausted")
	}
	return s.data[0]
}

func (s *SliceIterator) Close() {
	s.data = nil
}

// EmptyKVStore holds no data and ignores all writes. It is the bottom
// layer of a MemStore.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get([]byte) ([]byte, error) { return nil, nil }

func (EmptyKVStore) Has([]byte) (bool, error) { return false, nil }

func (EmptyKVStore) Set(_, _ []byte) error { return nil }

func (EmptyKVStore) Delete([]byte) error { return nil }

func (EmptyKVStore) Iterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (EmptyKVStore) ReverseIterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (e EmptyKVStore) NewBatch() Batch {
	return NewNonAtomicBatch(e)
}

// Op is a single buffered write. A nil value of a delete operation
// distinguishes it from setting an empty value.
type Op struct {
	key    []byte
	value  []byte
	delete bool
}

func SetOp(key, value []byte) Op {
	return Op{key: key, value: value}
}

func DelOp(key []byte) Op {
	return Op{key: key, delete: true}
}

// Apply executes the operation on out.
func (o Op) Apply(out SetDeleter) error {
	if o.delete {
		return out.Delete(o.key)
	}
	return out.Set(o.key, o.value)
}

// NonAtomicBatch buffers operations and applies them one by one on Write.
// A failure in the middle of Write leaves the earlier operations applied,
// so it is suitable for in-memory stores only.
type NonAtomicBatch struct {
	out SetDeleter
	ops []Op
}

var _ Batch = (*NonAtomicBatch)(nil)

func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, SetOp(key, value))
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, DelOp(key))
	return nil
}

// Write applies all buffered operations in order and empties the batch.
func (b *NonAtomicBatch) Write() error {
	for i, op := range b.ops {
		if err := op.Apply(b.out); err != nil {
			b.ops = b.ops[i:]
			return err
		}
	}
	b.ops = nil
	return nil
}

// ShowOps returns the buffered operations.
func (b *NonAtomicBatch) ShowOps() []Op {
	return b.ops
}
