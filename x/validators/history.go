package validators

import (
	"encoding/binary"
	"math"

	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
	"github.com/iov-one/valgov/orm"
)

// SetReader returns the validator set effective at a height.
type SetReader interface {
	GetAt(db valgov.ReadOnlyKVStore, height int64) (*ValidatorSet, error)
}

// SetWriter persists a new validator set.
type SetWriter interface {
	Store(db valgov.KVStore, set *ValidatorSet) error
}

// HistoryBucket is the append only history of validator sets, keyed by the
// height from which a set is effective.
type HistoryBucket struct {
	b orm.Bucket
}

var (
	_ SetReader = (*HistoryBucket)(nil)
	_ SetWriter = (*HistoryBucket)(nil)
)

// NewHistoryBucket returns a bucket for managing the validator set history.
func NewHistoryBucket() *HistoryBucket {
	return &HistoryBucket{
		b: orm.NewBucket("valset", orm.NewSimpleObj(nil, &ValidatorSet{})),
	}
}

// heightKey is big endian so that key order follows height order.
func heightKey(height int64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(height))
	return key
}

// GetAt returns the set with the greatest height not above given one.
// ErrNotFound is returned if no set is effective at that height.
func (h *HistoryBucket) GetAt(db valgov.ReadOnlyKVStore, height int64) (*ValidatorSet, error) {
	if height < 0 {
		return nil, errors.Wrapf(errors.ErrInput, "negative height %d", height)
	}
	var before []byte
	if height < math.MaxInt64 {
		before = heightKey(height + 1)
	}
	obj, err := h.b.Last(db, before)
	if err != nil {
		return nil, errors.Wrap(err, "validator set history")
	}
	if obj == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "no validator set at height %d", height)
	}
	return asValidatorSet(obj)
}

// Latest returns the set stored with the greatest height.
func (h *HistoryBucket) Latest(db valgov.ReadOnlyKVStore) (*ValidatorSet, error) {
	obj, err := h.b.Last(db, nil)
	if err != nil {
		return nil, errors.Wrap(err, "validator set history")
	}
	if obj == nil {
		return nil, errors.Wrap(errors.ErrNotFound, "no validator set")
	}
	return asValidatorSet(obj)
}

// Store appends the set to the history. The height must be greater than
// the height of every stored set, history cannot be rewritten.
func (h *HistoryBucket) Store(db valgov.KVStore, set *ValidatorSet) error {
	if err := set.Validate(); err != nil {
		return errors.Wrap(err, "invalid validator set")
	}
	switch latest, err := h.Latest(db); {
	case errors.ErrNotFound.Is(err):
	case err != nil:
		return err
	case set.Height <= latest.Height:
		return errors.Wrapf(errors.ErrCannotBeModified,
			"set at height %d cannot follow set at height %d", set.Height, latest.Height)
	}
	return h.b.Save(db, orm.NewSimpleObj(heightKey(set.Height), set))
}

func asValidatorSet(obj orm.Object) (*ValidatorSet, error) {
	set, ok := obj.Value().(*ValidatorSet)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return set, nil
}
