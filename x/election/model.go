package election

import (
	"math"

	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
	"github.com/iov-one/valgov/orm"
)

// Status is the lifecycle state of an election.
type Status int32

const (
	StatusInvalid Status = iota
	StatusOngoing
	StatusApproved
	StatusInconclusive
)

var statusNames = map[Status]string{
	StatusOngoing:      "ongoing",
	StatusApproved:     "approved",
	StatusInconclusive: "inconclusive",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return "invalid"
}

// VoteOption is what an elector can vote for.
type VoteOption int32

const (
	VoteOptionInvalid VoteOption = iota
	VoteOptionYes
	VoteOptionNo
	VoteOptionAbstain
)

// Validate returns an error if the option is not one of the known ones.
func (o VoteOption) Validate() error {
	switch o {
	case VoteOptionYes, VoteOptionNo, VoteOptionAbstain:
		return nil
	}
	return errors.Wrapf(errors.ErrInput, "unknown vote option %d", o)
}

// Elector is a member of the electorate, allowed to vote with its weight.
type Elector struct {
	Address valgov.Address
	Weight  uint64
}

func (m Elector) Validate() error {
	if m.Weight == 0 {
		return errors.Wrap(errors.ErrInput, "weight must not be empty")
	}
	return m.Address.Validate()
}

// Election is a single governance decision. The electorate is the snapshot
// of voters taken when the election was created. Payload is the variant
// specific data, interpreted only by the variant registered for the type.
type Election struct {
	ID              []byte
	Type            string
	Payload         []byte
	Proposer        valgov.Address
	Electorate      []Elector
	TotalWeight     uint64
	Threshold       valgov.Fraction
	CreatedHeight   int64
	ConcludedHeight int64
	TotalYes        uint64
	TotalNo         uint64
	TotalAbstain    uint64
	Status          Status
}

var _ orm.Model = (*Election)(nil)

func (m *Election) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *Election) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *Election) Validate() error {
	var errs error
	if len(m.ID) != 8 {
		errs = errors.AppendField(errs, "ID", errors.ErrInput)
	}
	if !isElectionType(m.Type) {
		errs = errors.AppendField(errs, "Type", errors.ErrInput)
	}
	if len(m.Payload) == 0 {
		errs = errors.AppendField(errs, "Payload", errors.ErrEmpty)
	}
	errs = errors.AppendField(errs, "Proposer", m.Proposer.Validate())
	if len(m.Electorate) == 0 {
		errs = errors.AppendField(errs, "Electorate", errors.ErrEmpty)
	}
	for i, el := range m.Electorate {
		if err := el.Validate(); err != nil {
			errs = errors.Append(errs, errors.Field("Electorate", err, "elector #%d", i))
		}
	}
	if total, err := TotalWeight(m.Electorate); err != nil {
		errs = errors.AppendField(errs, "Electorate", err)
	} else if total != m.TotalWeight {
		errs = errors.AppendField(errs, "TotalWeight", errors.ErrState)
	}
	if err := validThreshold(m.Threshold); err != nil {
		errs = errors.AppendField(errs, "Threshold", err)
	}
	if m.CreatedHeight < 0 {
		errs = errors.AppendField(errs, "CreatedHeight", errors.ErrInput)
	}
	switch m.Status {
	case StatusOngoing:
		if m.ConcludedHeight != 0 {
			errs = errors.AppendField(errs, "ConcludedHeight", errors.ErrState)
		}
	case StatusApproved, StatusInconclusive:
		if m.ConcludedHeight < m.CreatedHeight {
			errs = errors.AppendField(errs, "ConcludedHeight", errors.ErrState)
		}
	default:
		errs = errors.AppendField(errs, "Status", errors.ErrState)
	}
	return errs
}

func (m *Election) Copy() orm.Model {
	electorate := make([]Elector, len(m.Electorate))
	copy(electorate, m.Electorate)
	cpy := *m
	cpy.ID = append([]byte(nil), m.ID...)
	cpy.Payload = append([]byte(nil), m.Payload...)
	cpy.Proposer = append(valgov.Address(nil), m.Proposer...)
	cpy.Electorate = electorate
	return &cpy
}

// Elector returns the electorate member with given address and an ok flag
// which is true only when the address belongs to the electorate.
func (m *Election) Elector(a valgov.Address) (Elector, bool) {
	for _, el := range m.Electorate {
		if el.Address.Equals(a) {
			return el, true
		}
	}
	return Elector{}, false
}

// CountVote updates the tally by adding the weight to the selected option.
func (m *Election) CountVote(option VoteOption, weight uint64) error {
	if m.Status != StatusOngoing {
		return errors.Wrapf(errors.ErrState, "election is %s", m.Status)
	}
	var counter *uint64
	switch option {
	case VoteOptionYes:
		counter = &m.TotalYes
	case VoteOptionNo:
		counter = &m.TotalNo
	case VoteOptionAbstain:
		counter = &m.TotalAbstain
	default:
		return errors.Wrapf(errors.ErrInput, "unknown vote option %d", option)
	}
	if *counter > math.MaxUint64-weight {
		return errors.Wrap(errors.ErrOverflow, "vote weight")
	}
	*counter += weight
	if m.TotalYes+m.TotalNo+m.TotalAbstain > m.TotalWeight {
		return errors.Wrap(errors.ErrHuman, "more votes than electorate weight")
	}
	return nil
}

// Accepted returns true if the yes votes are greater than the threshold
// share of the total electorate weight.
func (m *Election) Accepted() bool {
	return m.Threshold.IsExceededBy(m.TotalYes, m.TotalWeight)
}

// TotalWeight sums the weight of all electors. ErrOverflow is returned if
// the sum does not fit into uint64.
func TotalWeight(electorate []Elector) (uint64, error) {
	var total uint64
	for _, el := range electorate {
		if total > math.MaxUint64-el.Weight {
			return 0, errors.Wrap(errors.ErrOverflow, "total electorate weight")
		}
		total += el.Weight
	}
	return total, nil
}

// SameElectorate returns true if both lists contain the same electors with
// the same weights, regardless of the order.
func SameElectorate(a, b []Elector) bool {
	if len(a) != len(b) {
		return false
	}
	weights := make(map[string]uint64, len(a))
	for _, el := range a {
		weights[string(el.Address)] = el.Weight
	}
	for _, el := range b {
		w, ok := weights[string(el.Address)]
		if !ok || w != el.Weight {
			return false
		}
		delete(weights, string(el.Address))
	}
	return len(weights) == 0
}

// Vote is a record of a single elector's vote. It exists to reject a
// second vote of the same elector.
type Vote struct {
	ElectionID []byte
	Voter      valgov.Address
	Option     VoteOption
	Weight     uint64
}

var _ orm.Model = (*Vote)(nil)

func (m *Vote) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *Vote) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *Vote) Validate() error {
	var errs error
	if len(m.ElectionID) != 8 {
		errs = errors.AppendField(errs, "ElectionID", errors.ErrInput)
	}
	errs = errors.AppendField(errs, "Voter", m.Voter.Validate())
	errs = errors.AppendField(errs, "Option", m.Option.Validate())
	if m.Weight == 0 {
		errs = errors.AppendField(errs, "Weight", errors.ErrEmpty)
	}
	return errs
}

func (m *Vote) Copy() orm.Model {
	return &Vote{
		ElectionID: append([]byte(nil), m.ElectionID...),
		Voter:      append(valgov.Address(nil), m.Voter...),
		Option:     m.Option,
		Weight:     m.Weight,
	}
}

// QueueEntry references an accepted election that waits for conclusion.
type QueueEntry struct {
	ElectionID []byte
}

var _ orm.Model = (*QueueEntry)(nil)

func (m *QueueEntry) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *QueueEntry) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *QueueEntry) Validate() error {
	if len(m.ElectionID) != 8 {
		return errors.Field("ElectionID", errors.ErrInput, "must be 8 bytes")
	}
	return nil
}

func (m *QueueEntry) Copy() orm.Model {
	return &QueueEntry{ElectionID: append([]byte(nil), m.ElectionID...)}
}
