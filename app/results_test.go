package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/valgov"
)

type rawValue struct {
	raw []byte
}

func (v *rawValue) Marshal() ([]byte, error) { return v.raw, nil }

func (v *rawValue) Unmarshal(raw []byte) error {
	v.raw = raw
	return nil
}

func TestResultSets(t *testing.T) {
	models := []valgov.Model{
		valgov.Pair([]byte("a"), []byte("1")),
		valgov.Pair([]byte("b"), []byte("2")),
	}
	keys, err := ResultsFromKeys(models).Marshal()
	require.NoError(t, err)
	values, err := ResultsFromValues(models).Marshal()
	require.NoError(t, err)

	var k, v ResultSet
	require.NoError(t, k.Unmarshal(keys))
	require.NoError(t, v.Unmarshal(values))
	joined, err := JoinResults(&k, &v)
	require.NoError(t, err)
	assert.Equal(t, models, joined)

	var first rawValue
	require.NoError(t, UnmarshalOneResult(values, &first))
	assert.Equal(t, []byte("1"), first.raw)

	_, err = JoinResults(&k, &ResultSet{Results: v.Results[:1]})
	assert.Error(t, err)
}

func TestEmptyResultSet(t *testing.T) {
	raw, err := ResultsFromValues(nil).Marshal()
	require.NoError(t, err)

	var rs ResultSet
	require.NoError(t, rs.Unmarshal(raw))
	assert.Empty(t, rs.Results)

	v := rawValue{raw: []byte("untouched")}
	require.NoError(t, UnmarshalOneResult(raw, &v))
	assert.Equal(t, []byte("untouched"), v.raw)
}
