package orm

import (
	"encoding/binary"

	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
)

// Sequence maintains a counter/auto-generate a number of
// keys, they may be sequential or pseudo-random
type Sequence struct {
	id []byte
}

// NewSequence creates a sequence with a name, namespaced by the bucket
// it belongs to.
func NewSequence(bucket, name string) Sequence {
	id := "_s." + bucket + ":" + name
	return Sequence{
		id: []byte(id),
	}
}

// NextVal increments the sequence and returns its state as 8 bytes.
func (s *Sequence) NextVal(db valgov.KVStore) ([]byte, error) {
	_, bz, err := s.increment(db, 1)
	return bz, err
}

// NextInt increments the sequence and returns its state as int64.
func (s *Sequence) NextInt(db valgov.KVStore) (int64, error) {
	val, _, err := s.increment(db, 1)
	return val, err
}

// Latest returns the current value without incrementing it.
func (s *Sequence) Latest(db valgov.ReadOnlyKVStore) (int64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, errors.Wrap(err, "cannot load sequence")
	}
	return DecodeSequence(raw)
}

func (s *Sequence) increment(db valgov.KVStore, inc int64) (int64, []byte, error) {
	val, err := s.Latest(db)
	if err != nil {
		return 0, nil, err
	}
	val += inc
	raw := EncodeSequence(val)
	if err := db.Set(s.id, raw); err != nil {
		return 0, nil, errors.Wrap(err, "cannot store sequence")
	}
	return val, raw, nil
}

// DecodeSequence converts the stored 8 byte representation. A missing
// value is zero.
func DecodeSequence(bz []byte) (int64, error) {
	if bz == nil {
		return 0, nil
	}
	if len(bz) != 8 {
		return 0, errors.Wrapf(ErrInvalidKey, "sequence must be 8 bytes, got %d", len(bz))
	}
	return int64(binary.BigEndian.Uint64(bz)), nil
}

// EncodeSequence is the big endian form of the value, so byte ordering
// follows numeric ordering for non-negative values.
func EncodeSequence(val int64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, uint64(val))
	return bz
}
