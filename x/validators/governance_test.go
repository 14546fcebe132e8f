package validators

import (
	"testing"

	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/store"
	"github.com/iov-one/valgov/weavetest"
	"github.com/iov-one/valgov/weavetest/assert"
	"github.com/iov-one/valgov/x/election"
)

type router map[string]valgov.Handler

func (r router) Handle(path string, h valgov.Handler) {
	r[path] = h
}

// chain wires the election extension with the validator variant the way
// an application does.
type chain struct {
	t         *testing.T
	db        valgov.CacheableKVStore
	auth      *weavetest.CtxAuth
	routes    router
	concluder *election.Concluder
	keys      []PubKey
}

func newChain(t *testing.T) *chain {
	c := &chain{
		t:      t,
		db:     store.MemStore(),
		auth:   &weavetest.CtxAuth{Key: "auth"},
		routes: make(router),
		keys:   sortedKeys(3),
	}
	registry := election.NewRegistry()
	registry.Register(NewVariant(election.NewBaseValidator(c.auth, registry), nil))
	voters := NewElectorate()
	election.RegisterRoutes(c.routes, c.auth, registry, voters)
	c.concluder = election.NewConcluder(registry, voters)

	genesis := &ValidatorSet{}
	for _, k := range c.keys {
		genesis.Validators = append(genesis.Validators, ValidatorRecord{PubKey: k, Power: 10})
	}
	if err := NewHistoryBucket().Store(c.db, genesis); err != nil {
		t.Fatalf("genesis: %s", err)
	}
	return c
}

func (c *chain) deliver(height int64, signer PubKey, msg valgov.Msg) (*valgov.DeliverResult, error) {
	ctx := c.auth.SetConditions(heightCtx(height), valgov.SigCondition(signer))
	h, ok := c.routes[msg.Path()]
	if !ok {
		c.t.Fatalf("no handler for %q", msg.Path())
	}
	return h.Deliver(ctx, c.db, &weavetest.Tx{Msg: msg})
}

func (c *chain) propose(height int64, p []byte) []byte {
	c.t.Helper()
	res, err := c.deliver(height, c.keys[0], &election.CreateElectionMsg{Type: ElectionType, Payload: p})
	if err != nil {
		c.t.Fatalf("create election: %s", err)
	}
	return res.Data
}

func (c *chain) voteAll(height int64, electionID []byte) {
	c.t.Helper()
	for _, k := range c.keys {
		msg := &election.VoteMsg{ElectionID: electionID, Option: election.VoteOptionYes}
		if _, err := c.deliver(height, k, msg); err != nil {
			c.t.Fatalf("vote: %s", err)
		}
	}
}

func (c *chain) endBlock(height int64) valgov.TickResult {
	c.t.Helper()
	res, err := c.concluder.Tick(heightCtx(height), c.db)
	if err != nil {
		c.t.Fatalf("tick at %d: %s", height, err)
	}
	return res
}

func TestGovernedValidatorChange(t *testing.T) {
	c := newChain(t)
	added := newPubKey()

	// Create is rejected when the proposed power is too high.
	_, err := c.deliver(5, c.keys[0], &election.CreateElectionMsg{Type: ElectionType, Payload: payload(t, added, 10)})
	assert.IsErr(t, ErrInvalidPowerChange, err)

	// Creating the election alone does not change anything.
	id := c.propose(5, payload(t, added, 5))
	assert.Equal(t, 0, len(c.endBlock(5).Diff))

	c.voteAll(6, id)
	res := c.endBlock(6)
	assert.Equal(t, 1, len(res.Diff))
	assert.Equal(t, EncodeUpdate(added, 5), res.Diff[0])

	set, err := NewHistoryBucket().GetAt(c.db, 7)
	assert.Nil(t, err)
	assert.Equal(t, int64(7), set.Height)
	assert.Equal(t, 4, len(set.Validators))
	assert.Equal(t, id, set.ElectionID)

	// The electorate of the following block includes the new validator.
	electorate, err := NewElectorate().Electorate(c.db, 7)
	assert.Nil(t, err)
	assert.Equal(t, 4, len(electorate))
}

func TestOneValidatorChangePerBlock(t *testing.T) {
	c := newChain(t)

	first := c.propose(5, payload(t, newPubKey(), 1))
	second := c.propose(5, payload(t, newPubKey(), 2))
	c.voteAll(5, first)
	c.voteAll(5, second)

	res := c.endBlock(5)
	assert.Equal(t, 1, len(res.Diff))
	assert.Equal(t, int64(1), res.Diff[0].Power)

	// The validator set changed, so the electorate of the second election
	// is no longer the current one.
	res = c.endBlock(6)
	assert.Equal(t, 0, len(res.Diff))

	elections := election.NewElectionBucket()
	e, err := elections.GetElection(c.db, first)
	assert.Nil(t, err)
	assert.Equal(t, election.StatusApproved, e.Status)
	e, err = elections.GetElection(c.db, second)
	assert.Nil(t, err)
	assert.Equal(t, election.StatusInconclusive, e.Status)
	assert.Equal(t, int64(6), e.ConcludedHeight)
}
