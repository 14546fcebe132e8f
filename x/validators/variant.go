package validators

import (
	"github.com/iov-one/valgov/x/election"
)

// ElectionType is the type of elections proposing a validator change.
const ElectionType = "upsert-validator"

// Variant is the validator election. Its payload is a JSON serialized
// ValidatorChangeProposal.
type Variant struct {
	ProposalValidator
	TransitionExecutor
}

var _ election.Variant = (*Variant)(nil)

// NewVariant returns the validator election variant persisting validator
// sets in the default history bucket. Metrics can be nil.
func NewVariant(base election.BaseValidator, metrics *Metrics) *Variant {
	history := NewHistoryBucket()
	return &Variant{
		ProposalValidator:  NewProposalValidator(base, history, metrics),
		TransitionExecutor: NewTransitionExecutor(history, metrics),
	}
}

func (*Variant) Type() string {
	return ElectionType
}
