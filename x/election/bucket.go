package election

import (
	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
	"github.com/iov-one/valgov/orm"
)

// ElectionBucket stores elections under a sequence generated ID.
type ElectionBucket struct {
	orm.ModelBucket
	seq orm.Sequence
}

// NewElectionBucket returns a bucket for managing elections.
func NewElectionBucket() *ElectionBucket {
	return &ElectionBucket{
		ModelBucket: orm.NewModelBucket("election", &Election{}),
		seq:         orm.NewSequence("election", orm.SeqID),
	}
}

// Create assigns the next ID to the election and saves it.
func (b *ElectionBucket) Create(db valgov.KVStore, e *Election) error {
	id, err := b.seq.NextVal(db)
	if err != nil {
		return errors.Wrap(err, "cannot acquire ID")
	}
	e.ID = id
	return b.Put(db, id, e)
}

// GetElection loads the election with given ID. ErrNotFound is returned if
// it does not exist.
func (b *ElectionBucket) GetElection(db valgov.ReadOnlyKVStore, id []byte) (*Election, error) {
	var e Election
	if err := b.One(db, id, &e); err != nil {
		return nil, errors.Wrap(err, "election")
	}
	return &e, nil
}

// Update saves the new state of an existing election.
func (b *ElectionBucket) Update(db valgov.KVStore, e *Election) error {
	if err := b.Has(db, e.ID); err != nil {
		return errors.Wrap(err, "election")
	}
	return b.Put(db, e.ID, e)
}

// VoteBucket records who voted in which election.
type VoteBucket struct {
	orm.ModelBucket
}

// NewVoteBucket returns a bucket for managing votes.
func NewVoteBucket() *VoteBucket {
	return &VoteBucket{
		ModelBucket: orm.NewModelBucket("elecvote", &Vote{}),
	}
}

func voteKey(electionID []byte, voter valgov.Address) []byte {
	key := make([]byte, 0, len(electionID)+len(voter))
	key = append(key, electionID...)
	return append(key, voter...)
}

// HasVoted returns true if given voter already voted in the election.
func (b *VoteBucket) HasVoted(db valgov.ReadOnlyKVStore, electionID []byte, voter valgov.Address) (bool, error) {
	switch err := b.Has(db, voteKey(electionID, voter)); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

// Record saves the vote. ErrDuplicate is returned if the voter already
// voted in this election.
func (b *VoteBucket) Record(db valgov.KVStore, v *Vote) error {
	voted, err := b.HasVoted(db, v.ElectionID, v.Voter)
	if err != nil {
		return err
	}
	if voted {
		return errors.Wrap(errors.ErrDuplicate, "already voted")
	}
	return b.Put(db, voteKey(v.ElectionID, v.Voter), v)
}

// QueueBucket keeps accepted elections waiting to be concluded, in the
// order they were accepted.
type QueueBucket struct {
	b   orm.Bucket
	seq orm.Sequence
}

// NewQueueBucket returns a bucket for the conclusion queue.
func NewQueueBucket() *QueueBucket {
	b := orm.NewBucket("elecqueue", orm.NewSimpleObj(nil, &QueueEntry{}))
	return &QueueBucket{
		b:   b,
		seq: b.Sequence(orm.SeqID),
	}
}

// Enqueue appends the election to the end of the queue.
func (q *QueueBucket) Enqueue(db valgov.KVStore, electionID []byte) error {
	key, err := q.seq.NextVal(db)
	if err != nil {
		return errors.Wrap(err, "cannot acquire queue position")
	}
	return q.b.Save(db, orm.NewSimpleObj(key, &QueueEntry{ElectionID: electionID}))
}

// QueuedElection is an element of the queue.
type QueuedElection struct {
	Key        []byte
	ElectionID []byte
}

// Pending returns all queued elections in queue order.
func (q *QueueBucket) Pending(db valgov.ReadOnlyKVStore) ([]QueuedElection, error) {
	objs, err := q.b.All(db)
	if err != nil {
		return nil, errors.Wrap(err, "queue")
	}
	res := make([]QueuedElection, 0, len(objs))
	for _, obj := range objs {
		entry, ok := obj.Value().(*QueueEntry)
		if !ok {
			return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
		}
		res = append(res, QueuedElection{Key: obj.Key(), ElectionID: entry.ElectionID})
	}
	return res, nil
}

// Remove deletes an element from the queue.
func (q *QueueBucket) Remove(db valgov.KVStore, key []byte) error {
	return q.b.Delete(db, key)
}
