/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of object.
* It has a primary index, which may be composite.
* Easy queries for one and ordered iteration.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
)

const (
	// SeqID is a constant to use to get a default ID sequence
	SeqID = "id"
)

var (
	isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString
)

// Bucket is a generic holder that stores data as well
// as references to secondary indexes and sequences.
//
// This is a generic building block that should generally
// be embedded in a type-safe wrapper to ensure all data
// is the same type.
// Bucket is a prefixed subspace of the DB
// proto defines the default Model, all elements of this type
type Bucket struct {
	name   string
	prefix []byte
	proto  Cloneable
}

// NewBucket creates a bucket to store data
func NewBucket(name string, proto Cloneable) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}

	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		proto:  proto,
	}
}

// Name returns the bucket name.
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consequetive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Get one element
func (b Bucket) Get(db valgov.ReadOnlyKVStore, key []byte) (Object, error) {
	bz, err := db.Get(b.DBKey(key))
	if err != nil {
		return nil, errors.Wrap(err, "cannot read from the store")
	}
	if bz == nil {
		return nil, nil
	}
	return b.Parse(key, bz)
}

// Has returns true if an entity with the given key exists.
func (b Bucket) Has(db valgov.ReadOnlyKVStore, key []byte) (bool, error) {
	ok, err := db.Has(b.DBKey(key))
	if err != nil {
		return false, errors.Wrap(err, "cannot read from the store")
	}
	return ok, nil
}

// Parse takes a key and value data (valgov.Model) and
// reconstructs the data this Bucket would return.
//
// Used internally as part of Get.
// It is exposed mainly as a test helper, but can work for
// any code that wants to parse
func (b Bucket) Parse(key, value []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := obj.Value().Unmarshal(value); err != nil {
		return nil, errors.Wrapf(errors.ErrState, "cannot unmarshal %q: %s", key, err)
	}
	obj.SetKey(key)
	return obj, nil
}

// Save will write a model, it must be of the same type as proto
func (b Bucket) Save(db valgov.KVStore, model Object) error {
	if err := model.Validate(); err != nil {
		return err
	}
	bz, err := model.Value().Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot marshal")
	}
	if err := db.Set(b.DBKey(model.Key()), bz); err != nil {
		return errors.Wrap(err, "cannot write to the store")
	}
	return nil
}

// Delete will remove the value at a key
func (b Bucket) Delete(db valgov.KVStore, key []byte) error {
	if err := db.Delete(b.DBKey(key)); err != nil {
		return errors.Wrap(err, "cannot delete from the store")
	}
	return nil
}

// Sequence returns a Sequence by name
func (b Bucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}

// All returns every object in the bucket, ordered by key.
func (b Bucket) All(db valgov.ReadOnlyKVStore) ([]Object, error) {
	it, err := db.Iterator(b.prefix, prefixEnd(b.prefix))
	if err != nil {
		return nil, errors.Wrap(err, "cannot create iterator")
	}
	defer it.Close()

	var objs []Object
	for it.Valid() {
		obj, err := b.Parse(b.stripPrefix(it.Key()), it.Value())
		if err != nil {
			return nil, err
		}
		objs = append(objs, obj)
		if err := it.Next(); err != nil {
			return nil, errors.Wrap(err, "iterator")
		}
	}
	return objs, nil
}

// Last returns the object with the greatest key that is strictly lower
// than the given bound. A nil bound means the whole bucket. Nil is
// returned if there is no such object.
func (b Bucket) Last(db valgov.ReadOnlyKVStore, before []byte) (Object, error) {
	end := prefixEnd(b.prefix)
	if before != nil {
		end = b.DBKey(before)
	}
	it, err := db.ReverseIterator(b.prefix, end)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create iterator")
	}
	defer it.Close()

	if !it.Valid() {
		return nil, nil
	}
	return b.Parse(b.stripPrefix(it.Key()), it.Value())
}

func (b Bucket) stripPrefix(dbkey []byte) []byte {
	return append([]byte(nil), dbkey[len(b.prefix):]...)
}

// prefixEnd returns the smallest key that is greater than every key
// starting with prefix.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
