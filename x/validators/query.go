package validators

import (
	"encoding/binary"

	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
)

// RegisterQuery will register the validator set history as "/validators".
//
// Query data is either empty, to load the latest stored set, or a big
// endian encoded height, to load the set effective at that height.
func RegisterQuery(qr valgov.QueryRouter) {
	qr.Register("/validators", &historyQuery{history: NewHistoryBucket()})
}

type historyQuery struct {
	history *HistoryBucket
}

func (q *historyQuery) Query(db valgov.ReadOnlyKVStore, mod string, data []byte) ([]valgov.Model, error) {
	if mod != valgov.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unsupported query modifier %q", mod)
	}

	var (
		set *ValidatorSet
		err error
	)
	switch len(data) {
	case 0:
		set, err = q.history.Latest(db)
	case 8:
		set, err = q.history.GetAt(db, int64(binary.BigEndian.Uint64(data)))
	default:
		return nil, errors.Wrapf(errors.ErrInput, "height must be 8 bytes, got %d", len(data))
	}
	switch {
	case errors.ErrNotFound.Is(err):
		return nil, nil
	case err != nil:
		return nil, err
	}

	raw, err := set.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal validator set")
	}
	return []valgov.Model{valgov.Pair(heightKey(set.Height), raw)}, nil
}
