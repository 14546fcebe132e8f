package orm

import (
	"github.com/iov-one/valgov"
)

// Validater is implemented by anything that can check its own consistency.
type Validater interface {
	Validate() error
}

// Model is a state entity persisted by a bucket. Copy returns a deep copy.
type Model interface {
	valgov.Persistent
	Validater
	Copy() Model
}

// Object binds a model to the key it is stored under. The bucket prefix is
// not part of the key.
type Object interface {
	Keyed
	Cloneable
	Validater

	// Value returns the stored entity. Changes made to it are persisted by
	// saving the object again.
	Value() valgov.Persistent
}

// Keyed is implemented by objects that know their storage key.
type Keyed interface {
	Key() []byte
	SetKey([]byte)
}

// Cloneable returns an empty object of the same kind, ready to be loaded
// from the database.
type Cloneable interface {
	Clone() Object
}
