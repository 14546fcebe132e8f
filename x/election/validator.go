package election

import (
	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
	"github.com/iov-one/valgov/x"
)

// BaseValidator implements the validation shared by all election variants.
// Variants must call it before their own checks.
type BaseValidator struct {
	auth     x.Authenticator
	registry *Registry
}

// NewBaseValidator returns a validator that authenticates the proposer
// using given authenticator and accepts only types known to the registry.
func NewBaseValidator(auth x.Authenticator, registry *Registry) BaseValidator {
	return BaseValidator{auth: auth, registry: registry}
}

// Validate returns an error if the election cannot be created. The
// election is not modified.
func (v BaseValidator) Validate(ctx valgov.Context, db valgov.ReadOnlyKVStore, e *Election) error {
	if e == nil {
		return errors.Wrap(errors.ErrEmpty, "election")
	}
	if _, err := v.registry.Get(e.Type); err != nil {
		return err
	}
	if e.Status != StatusOngoing || e.ConcludedHeight != 0 {
		return errors.Wrapf(errors.ErrState, "election is %s", e.Status)
	}
	if len(e.Payload) == 0 {
		return errors.Wrap(errors.ErrEmpty, "payload")
	}
	if len(e.Electorate) == 0 {
		return errors.Wrap(errors.ErrEmpty, "electorate")
	}
	total, err := TotalWeight(e.Electorate)
	if err != nil {
		return err
	}
	if total == 0 {
		return errors.Wrap(errors.ErrState, "electorate has no weight")
	}
	if total != e.TotalWeight {
		return errors.Wrapf(errors.ErrState, "total weight %d does not match electorate weight %d", e.TotalWeight, total)
	}
	if err := validThreshold(e.Threshold); err != nil {
		return errors.Wrap(err, "threshold")
	}
	if _, ok := e.Elector(e.Proposer); !ok {
		return errors.Wrap(errors.ErrUnauthorized, "proposer is not an elector")
	}
	if !v.auth.HasAddress(ctx, e.Proposer) {
		return errors.Wrap(errors.ErrUnauthorized, "proposer signature required")
	}
	return nil
}
