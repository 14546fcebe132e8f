package validators

import (
	"bytes"
	"context"
	"sort"
	"testing"

	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/store"
	"github.com/iov-one/valgov/weavetest"
	"github.com/iov-one/valgov/x/election"
)

// newPubKey returns the public key of a new, random ed25519 key.
func newPubKey() PubKey {
	return PubKey(weavetest.PubKeyBytes(weavetest.NewKey()))
}

// sortedKeys returns n new public keys in ascending byte order.
func sortedKeys(n int) []PubKey {
	keys := make([]PubKey, n)
	for i := range keys {
		keys[i] = newPubKey()
	}
	sort.Slice(keys, func(i, j int) bool { return bytes.Compare(keys[i], keys[j]) < 0 })
	return keys
}

func payload(t testing.TB, key PubKey, power int64) []byte {
	t.Helper()
	raw, err := ValidatorChangeProposal{PubKey: key, Power: power}.Payload()
	if err != nil {
		t.Fatalf("payload: %s", err)
	}
	return raw
}

type fixture struct {
	db       valgov.CacheableKVStore
	keys     []PubKey
	registry *election.Registry
	variant  *Variant
	metrics  *Metrics
}

// newFixture stores a genesis set of three validators with power 10 each,
// sorted by key. The first validator signs all transactions.
func newFixture(t testing.TB) *fixture {
	t.Helper()
	f := &fixture{
		db:       store.MemStore(),
		keys:     sortedKeys(3),
		registry: election.NewRegistry(),
		metrics:  NewMetrics("test"),
	}
	auth := &weavetest.Auth{Signer: valgov.SigCondition(f.keys[0])}
	f.variant = NewVariant(election.NewBaseValidator(auth, f.registry), f.metrics)
	f.registry.Register(f.variant)

	genesis := &ValidatorSet{Height: 0}
	for _, k := range f.keys {
		genesis.Validators = append(genesis.Validators, ValidatorRecord{PubKey: k, Power: 10})
	}
	if err := NewHistoryBucket().Store(f.db, genesis); err != nil {
		t.Fatalf("genesis: %s", err)
	}
	return f
}

// newElection returns an ongoing validator election created at given
// height, as the create handler would build it.
func (f *fixture) newElection(t testing.TB, height int64, payload []byte) *election.Election {
	t.Helper()
	electorate, err := NewElectorate().Electorate(f.db, height)
	if err != nil {
		t.Fatalf("electorate: %s", err)
	}
	total, err := election.TotalWeight(electorate)
	if err != nil {
		t.Fatalf("total weight: %s", err)
	}
	return &election.Election{
		ID:            weavetest.SequenceID(1),
		Type:          ElectionType,
		Payload:       payload,
		Proposer:      valgov.SigCondition(f.keys[0]).Address(),
		Electorate:    electorate,
		TotalWeight:   total,
		Threshold:     election.DefaultThreshold,
		CreatedHeight: height,
		Status:        election.StatusOngoing,
	}
}

func heightCtx(height int64) valgov.Context {
	return valgov.WithHeight(context.Background(), height)
}
