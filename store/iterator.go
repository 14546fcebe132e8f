package store

import (
	"bytes"

	"github.com/iov-one/valgov/errors"
)

// mergeIterator combines a snapshot of cached entries with the iterator of
// the underlying store. A cached entry shadows a parent entry with the same
// key and deleted entries are skipped.
type mergeIterator struct {
	cached    []entry
	parent    Iterator
	ascending bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(cached []entry, parent Iterator, ascending bool) (Iterator, error) {
	it := &mergeIterator{cached: cached, parent: parent, ascending: ascending}
	if err := it.skipDeleted(); err != nil {
		parent.Close()
		return nil, err
	}
	return it, nil
}

type source int

const (
	fromNone source = iota
	fromCache
	fromParent
	fromBoth
)

// head tells which of the two sequences provides the current entry.
func (it *mergeIterator) head() source {
	hasCache, hasParent := len(it.cached) != 0, it.parent.Valid()
	switch {
	case hasCache && hasParent:
		cmp := bytes.Compare(it.cached[0].key, it.parent.Key())
		if !it.ascending {
			cmp = -cmp
		}
		switch {
		case cmp < 0:
			return fromCache
		case cmp > 0:
			return fromParent
		default:
			return fromBoth
		}
	case hasCache:
		return fromCache
	case hasParent:
		return fromParent
	default:
		return fromNone
	}
}

func (it *mergeIterator) advance(src source) error {
	switch src {
	case fromCache:
		it.cached = it.cached[1:]
	case fromParent:
		return it.parent.Next()
	case fromBoth:
		it.cached = it.cached[1:]
		return it.parent.Next()
	}
	return nil
}

func (it *mergeIterator) skipDeleted() error {
	for {
		src := it.head()
		if src != fromCache && src != fromBoth {
			return nil
		}
		if !it.cached[0].deleted {
			return nil
		}
		if err := it.advance(src); err != nil {
			return err
		}
	}
}

func (it *mergeIterator) Valid() bool {
	return it.head() != fromNone
}

func (it *mergeIterator) Next() error {
	src := it.head()
	if src == fromNone {
		return errors.Wrap(errors.ErrDatabase, "iterator exhausted")
	}
	if err := it.advance(src); err != nil {
		return err
	}
	return it.skipDeleted()
}

func (it *mergeIterator) Key() []byte {
	switch it.head() {
	case fromCache, fromBoth:
		return it.cached[0].key
	case fromParent:
		return it.parent.Key()
	default:
		panic("iterator exhausted")
	}
}

func (it *mergeIterator) Value() []byte {
	switch it.head() {
	case fromCache, fromBoth:
		return it.cached[0].value
	case fromParent:
		return it.parent.Value()
	default:
		panic("iterator exhausted")
	}
}

func (it *mergeIterator) Close() {
	it.cached = nil
	it.parent.Close()
}
