package app

import (
	amino "github.com/tendermint/go-amino"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"

	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
)

const testPath = "test/count"

// countMsg increments the counter stored under Key. When Fail is set the
// counter is incremented before the handler fails.
type countMsg struct {
	Key   []byte
	Fail  bool
	Power int64
}

var _ valgov.Msg = (*countMsg)(nil)

func (countMsg) Path() string { return testPath }

func (m *countMsg) Marshal() ([]byte, error) {
	return amino.MarshalBinaryBare(m)
}

func (m *countMsg) Unmarshal(raw []byte) error {
	return amino.UnmarshalBinaryBare(raw, m)
}

func (m countMsg) Validate() error {
	if len(m.Key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	return nil
}

type testTx struct {
	Msg countMsg
}

var _ valgov.Tx = (*testTx)(nil)

func (tx *testTx) GetMsg() (valgov.Msg, error) {
	return &tx.Msg, nil
}

func (tx *testTx) Marshal() ([]byte, error) {
	return amino.MarshalBinaryBare(tx)
}

func (tx *testTx) Unmarshal(raw []byte) error {
	return amino.UnmarshalBinaryBare(raw, tx)
}

func decodeTestTx(raw []byte) (valgov.Tx, error) {
	var tx testTx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return &tx, nil
}

// countHandler increments a counter for every delivered message.
type countHandler struct{}

var _ valgov.Handler = countHandler{}

func (countHandler) Check(ctx valgov.Context, db valgov.KVStore, tx valgov.Tx) (*valgov.CheckResult, error) {
	var msg countMsg
	if err := valgov.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	if _, err := increment(db, msg.Key); err != nil {
		return nil, err
	}
	return valgov.NewCheck(1, ""), nil
}

func (countHandler) Deliver(ctx valgov.Context, db valgov.KVStore, tx valgov.Tx) (*valgov.DeliverResult, error) {
	var msg countMsg
	if err := valgov.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	n, err := increment(db, msg.Key)
	if err != nil {
		return nil, err
	}
	if msg.Fail {
		return nil, errors.Wrap(errors.ErrState, "requested failure")
	}
	res := &valgov.DeliverResult{Data: []byte{n}}
	if msg.Power != 0 {
		res.Diff = []abci.ValidatorUpdate{testUpdate(msg.Key, msg.Power)}
	}
	return res, nil
}

func increment(db valgov.KVStore, key []byte) (byte, error) {
	raw, err := db.Get(key)
	if err != nil {
		return 0, err
	}
	var n byte
	if len(raw) == 1 {
		n = raw[0]
	}
	n++
	return n, db.Set(key, []byte{n})
}

func testUpdate(key []byte, power int64) abci.ValidatorUpdate {
	return abci.ValidatorUpdate{
		PubKey: abci.PubKey{Type: "ed25519", Data: key},
		Power:  power,
	}
}

// testTicker counts blocks under the "ticks" key and returns configured
// updates.
type testTicker struct {
	diff []abci.ValidatorUpdate
	err  error
}

var _ valgov.Ticker = (*testTicker)(nil)

func (t *testTicker) Tick(ctx valgov.Context, db valgov.KVStore) (valgov.TickResult, error) {
	if _, err := increment(db, []byte("ticks")); err != nil {
		return valgov.TickResult{}, err
	}
	if t.err != nil {
		return valgov.TickResult{}, t.err
	}
	return valgov.TickResult{
		Tags: []common.KVPair{{Key: []byte("tick"), Value: []byte("done")}},
		Diff: t.diff,
	}, nil
}

// testInitializer stores the raw "test" genesis option under the "genesis"
// key.
type testInitializer struct {
	params valgov.GenesisParams
}

var _ valgov.Initializer = (*testInitializer)(nil)

func (i *testInitializer) FromGenesis(opts valgov.Options, params valgov.GenesisParams, db valgov.KVStore) error {
	var value string
	if err := opts.ReadOptions("test", &value); err != nil {
		return err
	}
	if value == "" {
		return errors.Wrap(errors.ErrEmpty, "test option")
	}
	i.params = params
	return db.Set([]byte("genesis"), []byte(value))
}

// keyQuery returns the value stored under the queried key.
type keyQuery struct{}

func (keyQuery) Query(db valgov.ReadOnlyKVStore, mod string, data []byte) ([]valgov.Model, error) {
	if mod != valgov.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unsupported modifier %q", mod)
	}
	value, err := db.Get(data)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, nil
	}
	return []valgov.Model{valgov.Pair(data, value)}, nil
}
