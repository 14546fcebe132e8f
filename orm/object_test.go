package orm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/valgov/errors"
)

func TestSimpleObj(t *testing.T) {
	key := []byte("foo")
	val := &Label{Name: "bar", Tags: []string{"baz"}}

	obj := NewSimpleObj(key, val)
	require.Equal(t, key, obj.Key())
	require.EqualValues(t, val, obj.Value())
	require.NoError(t, obj.Validate())

	// Clone gives an empty value of the same type, ready for loading.
	o2 := obj.Clone()
	require.Equal(t, key, o2.Key())
	require.IsType(t, &Label{}, o2.Value())
	require.EqualValues(t, &Label{}, o2.Value())

	// A modified key on the clone does not affect the original.
	o2.Key()[0] = 'x'
	assert.Equal(t, []byte("foo"), obj.Key())

	nokey := NewSimpleObj([]byte{}, val)
	assert.True(t, errors.ErrEmpty.Is(nokey.Validate()))
	nokey.SetKey([]byte{1, 3})
	assert.NoError(t, nokey.Validate())

	novalue := NewSimpleObj(key, nil)
	assert.True(t, errors.ErrEmpty.Is(novalue.Validate()))

	invalid := NewSimpleObj(key, &Label{})
	assert.True(t, errors.ErrEmpty.Is(invalid.Validate()))
}
