package validators

import (
	"bytes"
	"encoding/json"
	"math/big"

	"github.com/tendermint/tendermint/crypto/merkle"
	"github.com/tendermint/tendermint/types"

	"github.com/iov-one/valgov/errors"
	"github.com/iov-one/valgov/orm"
)

// ValidatorRecord is a single member of a validator set.
type ValidatorRecord struct {
	PubKey PubKey `json:"pub_key"`
	Power  int64  `json:"power"`
}

// Validate returns an error if the record cannot be part of a stored set.
func (r ValidatorRecord) Validate() error {
	if !IsValidPublicKey(r.PubKey) {
		return errors.Wrapf(ErrMalformedKey, "%q", r.PubKey)
	}
	if r.Power <= 0 {
		return errors.Wrapf(errors.ErrInput, "power must be positive, got %d", r.Power)
	}
	return nil
}

// ValidatorSet is the snapshot of validators effective from given height
// until the height of the next stored snapshot. ElectionID references the
// election that caused the change, it is empty for the genesis set.
type ValidatorSet struct {
	Height     int64
	Validators []ValidatorRecord
	ElectionID []byte
}

var _ orm.Model = (*ValidatorSet)(nil)

func (s *ValidatorSet) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(s)
}

func (s *ValidatorSet) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, s)
}

func (s *ValidatorSet) Validate() error {
	var errs error
	if s.Height < 0 {
		errs = errors.AppendField(errs, "Height", errors.ErrInput)
	}
	seen := make(map[string]struct{}, len(s.Validators))
	total := new(big.Int)
	for i, v := range s.Validators {
		if err := v.Validate(); err != nil {
			errs = errors.Append(errs, errors.Field("Validators", err, "validator #%d", i))
			continue
		}
		if _, ok := seen[string(v.PubKey)]; ok {
			errs = errors.Append(errs, errors.Field("Validators", errors.ErrDuplicate, "validator #%d", i))
		}
		seen[string(v.PubKey)] = struct{}{}
		total.Add(total, big.NewInt(v.Power))
	}
	if total.Cmp(big.NewInt(types.MaxTotalVotingPower)) > 0 {
		errs = errors.AppendField(errs, "Validators", errors.Wrap(errors.ErrOverflow, "total voting power"))
	}
	return errs
}

func (s *ValidatorSet) Copy() orm.Model {
	vals := make([]ValidatorRecord, len(s.Validators))
	for i, v := range s.Validators {
		vals[i] = ValidatorRecord{
			PubKey: append(PubKey(nil), v.PubKey...),
			Power:  v.Power,
		}
	}
	return &ValidatorSet{
		Height:     s.Height,
		Validators: vals,
		ElectionID: append([]byte(nil), s.ElectionID...),
	}
}

// TotalPower returns the sum of all validators power. A valid set cannot
// exceed types.MaxTotalVotingPower so the sum always fits.
func (s *ValidatorSet) TotalPower() int64 {
	var total int64
	for _, v := range s.Validators {
		total += v.Power
	}
	return total
}

// Hash returns the merkle root of the consensus encoding of each record.
// Replicas holding the same set compute the same hash.
func (s *ValidatorSet) Hash() ([]byte, error) {
	items := make([][]byte, len(s.Validators))
	for i, v := range s.Validators {
		raw, err := EncodeUpdateBytes(v.PubKey, v.Power)
		if err != nil {
			return nil, err
		}
		items[i] = raw
	}
	return merkle.SimpleHashFromByteSlices(items), nil
}

// ValidatorChangeProposal is the payload of a validator election. It adds
// a validator, changes the power of an existing one or, with zero power,
// removes it.
type ValidatorChangeProposal struct {
	PubKey PubKey `json:"pub_key"`
	Power  int64  `json:"power"`
}

// ParseProposal decodes an election payload. ErrSchema is returned if the
// payload does not have the shape of a proposal. The public key format is
// not checked.
func ParseProposal(payload []byte) (*ValidatorChangeProposal, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	var p ValidatorChangeProposal
	switch err := dec.Decode(&p); {
	case errors.ErrSchema.Is(err):
		return nil, errors.Wrap(err, "validator change proposal")
	case err != nil:
		return nil, errors.Wrapf(errors.ErrSchema, "validator change proposal: %s", err)
	}
	if dec.More() {
		return nil, errors.Wrap(errors.ErrSchema, "trailing data after the proposal")
	}
	if p.PubKey == nil {
		return nil, errors.Wrap(errors.ErrSchema, "missing public key")
	}
	if p.Power < 0 {
		return nil, errors.Wrapf(errors.ErrSchema, "power must not be negative, got %d", p.Power)
	}
	return &p, nil
}

// Payload returns the election payload representing this proposal.
func (p ValidatorChangeProposal) Payload() ([]byte, error) {
	return json.Marshal(p)
}
