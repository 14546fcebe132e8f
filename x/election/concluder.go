package election

import (
	"github.com/tendermint/tendermint/libs/common"

	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
)

// Concluder is run at the end of each block. It concludes accepted
// elections in the order they were accepted.
//
// An election becomes inconclusive when the electorate at the current
// height is not the one it was created with. At most one election of each
// type is approved per block. Others of the same type stay queued until a
// following block.
type Concluder struct {
	registry  *Registry
	voters    VoterSource
	elections *ElectionBucket
	queue     *QueueBucket
}

var _ valgov.Ticker = (*Concluder)(nil)

// NewConcluder returns a ticker that concludes queued elections.
func NewConcluder(registry *Registry, voters VoterSource) *Concluder {
	return &Concluder{
		registry:  registry,
		voters:    voters,
		elections: NewElectionBucket(),
		queue:     NewQueueBucket(),
	}
}

// Tick processes the queue. An error returned by a variant aborts the
// whole tick and must be treated as fatal for the block.
func (c *Concluder) Tick(ctx valgov.Context, db valgov.KVStore) (valgov.TickResult, error) {
	var res valgov.TickResult
	height, ok := valgov.GetHeight(ctx)
	if !ok {
		return res, errors.Wrap(errors.ErrHuman, "block height not set")
	}
	pending, err := c.queue.Pending(db)
	if err != nil {
		return res, err
	}
	if len(pending) == 0 {
		return res, nil
	}
	electorate, err := c.voters.Electorate(db, height)
	if err != nil {
		return res, errors.Wrap(err, "cannot load electorate")
	}

	log := valgov.GetLogger(ctx)
	concluded := make(map[string]bool)
	for _, p := range pending {
		e, err := c.elections.GetElection(db, p.ElectionID)
		if err != nil {
			return res, errors.Wrapf(err, "queued election %X", p.ElectionID)
		}
		if e.Status != StatusOngoing {
			if err := c.queue.Remove(db, p.Key); err != nil {
				return res, err
			}
			continue
		}

		if !SameElectorate(e.Electorate, electorate) {
			e.Status = StatusInconclusive
			e.ConcludedHeight = height
			if err := c.conclude(db, p, e); err != nil {
				return res, err
			}
			log.Info("election inconclusive", "election", e.ID, "type", e.Type, "height", height)
			res.Tags = append(res.Tags, concludedTags(e)...)
			continue
		}

		if concluded[e.Type] {
			continue
		}
		variant, err := c.registry.Get(e.Type)
		if err != nil {
			return res, err
		}
		updates, err := variant.OnApproval(ctx, db, e, height)
		if err != nil {
			return res, errors.Wrapf(err, "approval of election %X", e.ID)
		}
		e.Status = StatusApproved
		e.ConcludedHeight = height
		if err := c.conclude(db, p, e); err != nil {
			return res, err
		}
		concluded[e.Type] = true
		log.Info("election approved", "election", e.ID, "type", e.Type, "height", height)
		res.Diff = append(res.Diff, updates...)
		res.Tags = append(res.Tags, concludedTags(e)...)
	}
	return res, nil
}

func (c *Concluder) conclude(db valgov.KVStore, p QueuedElection, e *Election) error {
	if err := c.elections.Update(db, e); err != nil {
		return errors.Wrap(err, "cannot update election")
	}
	if err := c.queue.Remove(db, p.Key); err != nil {
		return errors.Wrap(err, "cannot remove from queue")
	}
	return nil
}

func concludedTags(e *Election) []common.KVPair {
	return []common.KVPair{
		{Key: []byte(tagElectionID), Value: e.ID},
		{Key: []byte(tagAction), Value: []byte(e.Status.String())},
	}
}
