package orm

import (
	"reflect"

	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
)

// SimpleObj is the Object implementation used by all buckets in this
// module: a model stored under a key.
type SimpleObj struct {
	key   []byte
	value Model
}

var _ Object = (*SimpleObj)(nil)

func NewSimpleObj(key []byte, value Model) *SimpleObj {
	return &SimpleObj{key: key, value: value}
}

func (o SimpleObj) Key() []byte {
	return o.key
}

func (o *SimpleObj) SetKey(key []byte) {
	o.key = key
}

func (o SimpleObj) Value() valgov.Persistent {
	return o.value
}

// Validate requires both key and value, then validates the value.
func (o SimpleObj) Validate() error {
	switch {
	case len(o.key) == 0:
		return errors.Field("Key", errors.ErrEmpty, "missing key")
	case o.value == nil:
		return errors.Field("Value", errors.ErrEmpty, "missing value")
	}
	return errors.Field("Value", o.value.Validate(), "invalid value")
}

// Clone returns an object holding the same key and a new, zero value of
// the same model type.
func (o *SimpleObj) Clone() Object {
	clone := &SimpleObj{key: append([]byte(nil), o.key...)}
	if o.value != nil {
		clone.value = reflect.New(reflect.TypeOf(o.value).Elem()).Interface().(Model)
	}
	return clone
}
