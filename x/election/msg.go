package election

import (
	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
)

const (
	pathCreateElectionMsg = "election/create"
	pathVoteMsg           = "election/vote"
)

// CreateElectionMsg opens a new election of given type. The signer of the
// transaction is the proposer.
type CreateElectionMsg struct {
	Type    string
	Payload []byte
}

var _ valgov.Msg = (*CreateElectionMsg)(nil)

func (CreateElectionMsg) Path() string {
	return pathCreateElectionMsg
}

func (m *CreateElectionMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *CreateElectionMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m CreateElectionMsg) Validate() error {
	var errs error
	if !isElectionType(m.Type) {
		errs = errors.AppendField(errs, "Type", errors.ErrInput)
	}
	if len(m.Payload) == 0 {
		errs = errors.AppendField(errs, "Payload", errors.ErrEmpty)
	}
	return errs
}

// VoteMsg casts a vote in an ongoing election. When Voter is not set, the
// main signer of the transaction is the voter.
type VoteMsg struct {
	ElectionID []byte
	Voter      valgov.Address
	Option     VoteOption
}

var _ valgov.Msg = (*VoteMsg)(nil)

func (VoteMsg) Path() string {
	return pathVoteMsg
}

func (m *VoteMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *VoteMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m VoteMsg) Validate() error {
	var errs error
	if len(m.ElectionID) != 8 {
		errs = errors.AppendField(errs, "ElectionID", errors.ErrInput)
	}
	if m.Voter != nil {
		errs = errors.AppendField(errs, "Voter", m.Voter.Validate())
	}
	errs = errors.AppendField(errs, "Option", m.Option.Validate())
	return errs
}
