package validators

import (
	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
	"github.com/iov-one/valgov/x/election"
)

// Electorate provides the current validators as the electorate. Each
// validator votes with its power, using the address of its ed25519
// signature condition.
type Electorate struct {
	history SetReader
}

var _ election.VoterSource = (*Electorate)(nil)

// NewElectorate returns a voter source reading the default history bucket.
func NewElectorate() *Electorate {
	return &Electorate{history: NewHistoryBucket()}
}

func (el *Electorate) Electorate(db valgov.ReadOnlyKVStore, height int64) ([]election.Elector, error) {
	set, err := el.history.GetAt(db, height)
	if err != nil {
		return nil, errors.Wrap(err, "validator set")
	}
	electors := make([]election.Elector, len(set.Validators))
	for i, v := range set.Validators {
		electors[i] = election.Elector{
			Address: valgov.SigCondition(v.PubKey).Address(),
			Weight:  uint64(v.Power),
		}
	}
	return electors, nil
}
