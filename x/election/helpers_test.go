package election

import (
	"context"
	"testing"

	abci "github.com/tendermint/tendermint/abci/types"

	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
	"github.com/iov-one/valgov/weavetest"
)

// noteVariant is a generic election type. Approval records the payload
// under a key, and returns no validator updates.
type noteVariant struct {
	base       BaseValidator
	approveErr error
	approved   [][]byte
}

var _ Variant = (*noteVariant)(nil)

func (v *noteVariant) Type() string { return "note" }

func (v *noteVariant) Validate(ctx valgov.Context, db valgov.ReadOnlyKVStore, e *Election) error {
	if err := v.base.Validate(ctx, db, e); err != nil {
		return err
	}
	if string(e.Payload) == "reject" {
		return errors.Wrap(errors.ErrInput, "rejected payload")
	}
	return nil
}

func (v *noteVariant) OnApproval(ctx valgov.Context, db valgov.KVStore, e *Election, height int64) ([]abci.ValidatorUpdate, error) {
	if v.approveErr != nil {
		return nil, v.approveErr
	}
	v.approved = append(v.approved, e.ID)
	return nil, db.Set(append([]byte("note:"), e.ID...), e.Payload)
}

// powerVariant returns a single validator update on approval.
type powerVariant struct {
	base BaseValidator
}

var _ Variant = (*powerVariant)(nil)

func (v *powerVariant) Type() string { return "power" }

func (v *powerVariant) Validate(ctx valgov.Context, db valgov.ReadOnlyKVStore, e *Election) error {
	return v.base.Validate(ctx, db, e)
}

func (v *powerVariant) OnApproval(ctx valgov.Context, db valgov.KVStore, e *Election, height int64) ([]abci.ValidatorUpdate, error) {
	return []abci.ValidatorUpdate{{Power: int64(len(e.Payload))}}, nil
}

// staticVoters returns the electorate configured for a height. The
// electorate of the greatest configured height not above the requested one
// is used.
type staticVoters map[int64][]Elector

var _ VoterSource = (staticVoters)(nil)

func (s staticVoters) Electorate(db valgov.ReadOnlyKVStore, height int64) ([]Elector, error) {
	best := int64(-1)
	for h := range s {
		if h <= height && h > best {
			best = h
		}
	}
	if best < 0 {
		return nil, nil
	}
	return s[best], nil
}

type fixture struct {
	registry *Registry
	note     *noteVariant
	voters   staticVoters
	signers  []valgov.Condition
}

// newFixture returns an electorate of three signers with weights 1, 2 and 3
// and a registry with two variants.
func newFixture(t testing.TB) *fixture {
	t.Helper()
	f := &fixture{
		registry: NewRegistry(),
		signers: []valgov.Condition{
			weavetest.NewCondition(),
			weavetest.NewCondition(),
			weavetest.NewCondition(),
		},
	}
	f.voters = staticVoters{
		0: {
			{Address: f.signers[0].Address(), Weight: 1},
			{Address: f.signers[1].Address(), Weight: 2},
			{Address: f.signers[2].Address(), Weight: 3},
		},
	}
	f.note = &noteVariant{base: f.base()}
	f.registry.Register(f.note)
	f.registry.Register(&powerVariant{base: f.base()})
	return f
}

func (f *fixture) base() BaseValidator {
	return NewBaseValidator(&fixtureAuth{}, f.registry)
}

// fixtureAuth authenticates the conditions stored in the context.
type fixtureAuth struct{}

type signersKey struct{}

func (fixtureAuth) GetConditions(ctx valgov.Context) []valgov.Condition {
	conds, _ := ctx.Value(signersKey{}).([]valgov.Condition)
	return conds
}

func (a fixtureAuth) HasAddress(ctx valgov.Context, addr valgov.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}

func blockCtx(height int64, signers ...valgov.Condition) valgov.Context {
	ctx := valgov.WithHeight(context.Background(), height)
	return context.WithValue(ctx, signersKey{}, signers)
}

// newElection returns a valid ongoing election proposed by the first
// signer, as the create handler would build it.
func (f *fixture) newElection(t testing.TB, typ string, payload string) *Election {
	t.Helper()
	current, err := f.voters.Electorate(nil, 1)
	if err != nil {
		t.Fatalf("electorate: %s", err)
	}
	electorate := append([]Elector(nil), current...)
	total, err := TotalWeight(electorate)
	if err != nil {
		t.Fatalf("total weight: %s", err)
	}
	return &Election{
		ID:            weavetest.SequenceID(1),
		Type:          typ,
		Payload:       []byte(payload),
		Proposer:      f.signers[0].Address(),
		Electorate:    electorate,
		TotalWeight:   total,
		Threshold:     DefaultThreshold,
		CreatedHeight: 1,
		Status:        StatusOngoing,
	}
}

// routes is a minimal handler registry.
type routes map[string]valgov.Handler

var _ valgov.Registry = (routes)(nil)

func (r routes) Handle(path string, h valgov.Handler) {
	r[path] = h
}
