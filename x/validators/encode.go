package validators

import (
	"github.com/gogo/protobuf/proto"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/types"

	"github.com/iov-one/valgov/errors"
)

// EncodeUpdate returns the consensus engine representation of a validator
// change. Zero power removes the validator.
func EncodeUpdate(pubKey []byte, power int64) abci.ValidatorUpdate {
	return abci.ValidatorUpdate{
		PubKey: abci.PubKey{
			Type: types.ABCIPubKeyTypeEd25519,
			Data: append([]byte(nil), pubKey...),
		},
		Power: power,
	}
}

// EncodeUpdateBytes returns the protobuf wire encoding of the validator
// update.
func EncodeUpdateBytes(pubKey []byte, power int64) ([]byte, error) {
	u := EncodeUpdate(pubKey, power)
	raw, err := proto.Marshal(&u)
	if err != nil {
		return nil, errors.Wrap(errors.ErrHuman, err.Error())
	}
	return raw, nil
}

// DecodeUpdate reads a validator update created by EncodeUpdate. Keys other
// than ed25519 are rejected.
func DecodeUpdate(u abci.ValidatorUpdate) (ValidatorChangeProposal, error) {
	if u.PubKey.Type != types.ABCIPubKeyTypeEd25519 {
		return ValidatorChangeProposal{}, errors.Wrapf(ErrMalformedKey, "unsupported key type %q", u.PubKey.Type)
	}
	if !IsValidPublicKey(u.PubKey.Data) {
		return ValidatorChangeProposal{}, errors.Wrap(ErrMalformedKey, "ed25519 public key")
	}
	if u.Power < 0 {
		return ValidatorChangeProposal{}, errors.Wrapf(errors.ErrInput, "negative power %d", u.Power)
	}
	return ValidatorChangeProposal{PubKey: append(PubKey(nil), u.PubKey.Data...), Power: u.Power}, nil
}
