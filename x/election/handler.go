package election

import (
	"github.com/tendermint/tendermint/libs/common"

	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
	"github.com/iov-one/valgov/x"
)

const (
	createElectionCost = 0
	voteCost           = 0
)

const (
	tagElectionID = "election-id"
	tagAction     = "action"
	tagProposer   = "proposer"
	tagType       = "election-type"
)

// RegisterRoutes registers handlers for election message processing.
func RegisterRoutes(r valgov.Registry, auth x.Authenticator, registry *Registry, voters VoterSource) {
	elections := NewElectionBucket()
	r.Handle(pathCreateElectionMsg, &CreateElectionHandler{
		auth:      auth,
		registry:  registry,
		voters:    voters,
		elections: elections,
	})
	r.Handle(pathVoteMsg, &VoteHandler{
		auth:      auth,
		elections: elections,
		votes:     NewVoteBucket(),
		queue:     NewQueueBucket(),
	})
}

// CreateElectionHandler opens a new election with the electorate of the
// current height.
type CreateElectionHandler struct {
	auth      x.Authenticator
	registry  *Registry
	voters    VoterSource
	elections *ElectionBucket
}

var _ valgov.Handler = (*CreateElectionHandler)(nil)

func (h CreateElectionHandler) Check(ctx valgov.Context, db valgov.KVStore, tx valgov.Tx) (*valgov.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return valgov.NewCheck(createElectionCost, ""), nil
}

func (h CreateElectionHandler) Deliver(ctx valgov.Context, db valgov.KVStore, tx valgov.Tx) (*valgov.DeliverResult, error) {
	e, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.elections.Create(db, e); err != nil {
		return nil, errors.Wrap(err, "failed to persist election")
	}
	res := &valgov.DeliverResult{
		Data: e.ID,
		Tags: []common.KVPair{
			{Key: []byte(tagElectionID), Value: e.ID},
			{Key: []byte(tagProposer), Value: e.Proposer},
			{Key: []byte(tagType), Value: []byte(e.Type)},
			{Key: []byte(tagAction), Value: []byte("create")},
		},
	}
	return res, nil
}

func (h CreateElectionHandler) validate(ctx valgov.Context, db valgov.KVStore, tx valgov.Tx) (*Election, error) {
	var msg CreateElectionMsg
	if err := valgov.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	height, ok := valgov.GetHeight(ctx)
	if !ok {
		return nil, errors.Wrap(errors.ErrHuman, "block height not set")
	}
	variant, err := h.registry.Get(msg.Type)
	if err != nil {
		return nil, err
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "signature required")
	}
	electorate, err := h.voters.Electorate(db, height)
	if err != nil {
		return nil, errors.Wrap(err, "cannot load electorate")
	}
	total, err := TotalWeight(electorate)
	if err != nil {
		return nil, err
	}
	conf, err := loadConfiguration(db)
	if err != nil {
		return nil, err
	}
	e := &Election{
		Type:          msg.Type,
		Payload:       msg.Payload,
		Proposer:      signer.Address(),
		Electorate:    electorate,
		TotalWeight:   total,
		Threshold:     conf.Threshold,
		CreatedHeight: height,
		Status:        StatusOngoing,
	}
	if err := variant.Validate(ctx, db, e); err != nil {
		valgov.GetLogger(ctx).Debug("election rejected", "type", e.Type, "reason", err.Error())
		return nil, err
	}
	return e, nil
}

// VoteHandler counts votes. Once an election is accepted it is queued for
// conclusion at the end of the block.
type VoteHandler struct {
	auth      x.Authenticator
	elections *ElectionBucket
	votes     *VoteBucket
	queue     *QueueBucket
}

var _ valgov.Handler = (*VoteHandler)(nil)

func (h VoteHandler) Check(ctx valgov.Context, db valgov.KVStore, tx valgov.Tx) (*valgov.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return valgov.NewCheck(voteCost, ""), nil
}

func (h VoteHandler) Deliver(ctx valgov.Context, db valgov.KVStore, tx valgov.Tx) (*valgov.DeliverResult, error) {
	msg, e, elector, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	wasAccepted := e.Accepted()
	if err := e.CountVote(msg.Option, elector.Weight); err != nil {
		return nil, err
	}
	vote := &Vote{
		ElectionID: e.ID,
		Voter:      elector.Address,
		Option:     msg.Option,
		Weight:     elector.Weight,
	}
	if err := h.votes.Record(db, vote); err != nil {
		return nil, errors.Wrap(err, "cannot record vote")
	}
	if err := h.elections.Update(db, e); err != nil {
		return nil, errors.Wrap(err, "cannot update election")
	}
	res := &valgov.DeliverResult{
		Tags: []common.KVPair{
			{Key: []byte(tagElectionID), Value: e.ID},
			{Key: []byte(tagAction), Value: []byte("vote")},
		},
	}
	// Weight only grows, so an election is queued at most once.
	if !wasAccepted && e.Accepted() {
		if err := h.queue.Enqueue(db, e.ID); err != nil {
			return nil, errors.Wrap(err, "cannot queue election")
		}
		res.Tags = append(res.Tags, common.KVPair{Key: []byte(tagAction), Value: []byte("accepted")})
	}
	return res, nil
}

func (h VoteHandler) validate(ctx valgov.Context, db valgov.KVStore, tx valgov.Tx) (*VoteMsg, *Election, *Elector, error) {
	var msg VoteMsg
	if err := valgov.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	e, err := h.elections.GetElection(db, msg.ElectionID)
	if err != nil {
		return nil, nil, nil, err
	}
	if e.Status != StatusOngoing {
		return nil, nil, nil, errors.Wrapf(errors.ErrState, "election is %s", e.Status)
	}

	voter := msg.Voter
	if voter == nil {
		signer := x.MainSigner(ctx, h.auth)
		if signer == nil {
			return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "signature required")
		}
		voter = signer.Address()
	} else if !h.auth.HasAddress(ctx, voter) {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "voter's signature required")
	}

	elector, ok := e.Elector(voter)
	if !ok {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "not in the electorate")
	}
	voted, err := h.votes.HasVoted(db, e.ID, voter)
	if err != nil {
		return nil, nil, nil, err
	}
	if voted {
		return nil, nil, nil, errors.Wrap(errors.ErrDuplicate, "already voted")
	}
	return &msg, e, &elector, nil
}
