package validators

import (
	"math/big"

	"golang.org/x/crypto/ed25519"

	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
	"github.com/iov-one/valgov/x/election"
)

// ProposalValidator validates an election that proposes a validator change.
type ProposalValidator struct {
	base    election.BaseValidator
	history SetReader
	metrics *Metrics
}

// NewProposalValidator returns a validator reading the current validator
// set from given history.
func NewProposalValidator(base election.BaseValidator, history SetReader, metrics *Metrics) ProposalValidator {
	return ProposalValidator{base: base, history: history, metrics: metrics}
}

// Validate runs the generic election validation first, then requires a
// well formed public key and a power strictly lower than one third of the
// total power of the set effective at the current height. A change must
// leave at least one validator with power.
func (v ProposalValidator) Validate(ctx valgov.Context, db valgov.ReadOnlyKVStore, e *election.Election) error {
	if err := v.base.Validate(ctx, db, e); err != nil {
		v.reject(ctx, "election", err)
		return err
	}
	p, err := ParseProposal(e.Payload)
	if err != nil {
		v.reject(ctx, "schema", err)
		return err
	}
	if !IsValidPublicKey(p.PubKey) {
		err := errors.Wrapf(ErrMalformedKey, "%d bytes ed25519 key required", ed25519.PublicKeySize)
		v.reject(ctx, "malformed_key", err)
		return err
	}
	height, ok := valgov.GetHeight(ctx)
	if !ok {
		return errors.Wrap(errors.ErrHuman, "block height not set")
	}
	current, err := v.history.GetAt(db, height)
	if err != nil {
		return errors.Wrap(err, "current validator set")
	}
	total := current.TotalPower()
	if !isBelowOneThird(p.Power, total) {
		err := errors.Wrapf(ErrInvalidPowerChange,
			"power %d must be less than 1/3 of the total power %d", p.Power, total)
		v.reject(ctx, "power_bound", err)
		return err
	}
	base, err := changeBase(db, v.history, height)
	if err != nil {
		return err
	}
	if len(applyChange(base, *p)) == 0 {
		err := errors.Wrapf(ErrInvalidPowerChange, "removing %s leaves no validator", p.PubKey)
		v.reject(ctx, "empty_set", err)
		return err
	}
	return nil
}

func (v ProposalValidator) reject(ctx valgov.Context, reason string, err error) {
	v.metrics.observeRejection(reason)
	valgov.GetLogger(ctx).Debug("validator change proposal rejected", "reason", reason, "err", err.Error())
}

// isBelowOneThird returns true if 3 * power < total.
func isBelowOneThird(power, total int64) bool {
	lhs := new(big.Int).Mul(big.NewInt(power), big.NewInt(3))
	return lhs.Cmp(big.NewInt(total)) < 0
}
