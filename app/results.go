package app

import (
	amino "github.com/tendermint/go-amino"

	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
)

var cdc = amino.NewCodec()

func init() {
	cdc.Seal()
}

// ResultSet contains a list of keys or values returned by a query.
type ResultSet struct {
	Results [][]byte
}

func (rs *ResultSet) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(rs)
}

// Unmarshal decodes a result set. An empty set is serialized to no bytes.
func (rs *ResultSet) Unmarshal(raw []byte) error {
	if len(raw) == 0 {
		rs.Results = nil
		return nil
	}
	return cdc.UnmarshalBinaryBare(raw, rs)
}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []valgov.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []valgov.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]valgov.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrInput, "%d keys and %d values", len(kref), len(vref))
	}
	mods := make([]valgov.Model, len(kref))
	for i := range mods {
		mods[i] = valgov.Model{
			Key:   kref[i],
			Value: vref[i],
		}
	}
	return mods, nil
}

// UnmarshalOneResult will parse a resultset, and
// it if is not empty, unmarshal the first result into o
func UnmarshalOneResult(bz []byte, o valgov.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(bz); err != nil {
		return errors.Wrap(errors.ErrState, err.Error())
	}
	if len(res.Results) == 0 {
		return nil
	}
	return o.Unmarshal(res.Results[0])
}
