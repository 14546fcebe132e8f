package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"

	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
	"github.com/iov-one/valgov/store/iavl"
	"github.com/iov-one/valgov/weavetest"
)

const testChainID = "test-chain"

type testApp struct {
	BaseApp
	init   *testInitializer
	ticker *testTicker
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	qr := valgov.NewQueryRouter()
	qr.Register("/key", keyQuery{})
	s, err := NewStoreApp("testapp", iavl.NewMemCommitStore(), qr, context.Background())
	require.NoError(t, err)

	init := &testInitializer{}
	s.WithInit(init)

	router := NewRouter()
	router.Handle(testPath, countHandler{})
	handler := ChainDecorators(NewLogging(), NewRecovery()).WithHandler(router)

	ticker := &testTicker{}
	return &testApp{
		BaseApp: NewBaseApp(s, decodeTestTx, handler, ticker, false),
		init:    init,
		ticker:  ticker,
	}
}

func counter(t *testing.T, a *testApp, key string) []byte {
	t.Helper()
	res := a.Query(abci.RequestQuery{Path: "/key", Data: []byte(key)})
	require.Equal(t, uint32(0), res.Code, res.Log)
	var values ResultSet
	require.NoError(t, values.Unmarshal(res.Value))
	if len(values.Results) == 0 {
		return nil
	}
	return values.Results[0]
}

func TestInitChain(t *testing.T) {
	a := newTestApp(t)
	r := weavetest.NewRunner(t, a, testChainID)

	validators := []abci.ValidatorUpdate{testUpdate([]byte("val"), 3)}
	res := r.InitChain(map[string]interface{}{"test": "genesis value"}, validators)
	assert.Empty(t, res.Validators)

	assert.Equal(t, testChainID, a.GetChainID())
	assert.Equal(t, validators, a.init.params.Validators)
	assert.Equal(t, []byte("genesis value"), counter(t, a, "genesis"))

	info := a.Info(abci.RequestInfo{})
	assert.Equal(t, int64(1), info.LastBlockHeight)
	assert.NotEmpty(t, info.LastBlockAppHash)
	assert.Equal(t, "testapp", info.Data)

	// Genesis can be loaded only once.
	assert.Panics(t, func() {
		a.InitChain(abci.RequestInitChain{ChainId: testChainID, AppStateBytes: []byte(`{"test": "again"}`)})
	})
}

func TestInitChainFailure(t *testing.T) {
	cases := map[string]abci.RequestInitChain{
		"missing app state":  {ChainId: testChainID},
		"invalid app state":  {ChainId: testChainID, AppStateBytes: []byte(`[1, 2]`)},
		"invalid chain id":   {ChainId: "x", AppStateBytes: []byte(`{"test": "v"}`)},
		"initializer failed": {ChainId: testChainID, AppStateBytes: []byte(`{}`)},
	}
	for testName, req := range cases {
		t.Run(testName, func(t *testing.T) {
			a := newTestApp(t)
			assert.Panics(t, func() { a.InitChain(req) })
		})
	}
}

func TestDeliverAndCommit(t *testing.T) {
	a := newTestApp(t)
	r := weavetest.NewRunner(t, a, testChainID)
	r.InitChain(map[string]interface{}{"test": "v"}, nil)

	r.InBlock(func(r *weavetest.Runner) error {
		if err := r.DeliverTx(&testTx{Msg: countMsg{Key: []byte("a")}}); err != nil {
			return err
		}
		return r.DeliverTx(&testTx{Msg: countMsg{Key: []byte("a")}})
	})
	assert.Equal(t, []byte{2}, counter(t, a, "a"))
	assert.Equal(t, []byte{1}, counter(t, a, "ticks"))

	first := a.Info(abci.RequestInfo{})
	r.InBlock(func(r *weavetest.Runner) error {
		return r.DeliverTx(&testTx{Msg: countMsg{Key: []byte("b")}})
	})
	second := a.Info(abci.RequestInfo{})
	assert.Equal(t, first.LastBlockHeight+1, second.LastBlockHeight)
	assert.NotEqual(t, first.LastBlockAppHash, second.LastBlockAppHash)
	assert.Equal(t, []byte{2}, counter(t, a, "ticks"))
}

func TestFailedDeliverIsDiscarded(t *testing.T) {
	a := newTestApp(t)
	r := weavetest.NewRunner(t, a, testChainID)
	r.InitChain(map[string]interface{}{"test": "v"}, nil)

	r.InBlock(func(r *weavetest.Runner) error {
		err := r.DeliverTx(&testTx{Msg: countMsg{Key: []byte("a"), Fail: true}})
		if err == nil {
			t.Fatal("failure expected")
		}
		return r.DeliverTx(&testTx{Msg: countMsg{Key: []byte("b")}})
	})
	assert.Nil(t, counter(t, a, "a"))
	assert.Equal(t, []byte{1}, counter(t, a, "b"))
}

func TestDeliverTxErrors(t *testing.T) {
	a := newTestApp(t)
	r := weavetest.NewRunner(t, a, testChainID)
	r.InitChain(map[string]interface{}{"test": "v"}, nil)

	a.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{ChainID: testChainID, Height: 2}})

	res := a.DeliverTx([]byte("not a transaction"))
	assert.NotEqual(t, uint32(0), res.Code)

	raw, err := (&testTx{Msg: countMsg{Power: 1}}).Marshal()
	require.NoError(t, err)
	res = a.DeliverTx(raw)
	assert.Equal(t, errors.ErrEmpty.ABCICode(), res.Code)

	check := a.CheckTx(raw)
	assert.Equal(t, errors.ErrEmpty.ABCICode(), check.Code)
}

func TestCheckDoesNotChangeDeliverState(t *testing.T) {
	a := newTestApp(t)
	r := weavetest.NewRunner(t, a, testChainID)
	r.InitChain(map[string]interface{}{"test": "v"}, nil)

	r.InBlock(func(r *weavetest.Runner) error {
		return r.CheckTx(&testTx{Msg: countMsg{Key: []byte("a")}})
	})
	assert.Nil(t, counter(t, a, "a"))
}

func TestEndBlockValidatorUpdates(t *testing.T) {
	a := newTestApp(t)
	a.ticker.diff = []abci.ValidatorUpdate{testUpdate([]byte("x"), 7), testUpdate([]byte("y"), 1)}
	r := weavetest.NewRunner(t, a, testChainID)
	r.InitChain(map[string]interface{}{"test": "v"}, nil)

	res := r.InBlock(func(r *weavetest.Runner) error {
		return r.DeliverTx(&testTx{Msg: countMsg{Key: []byte("x"), Power: 2}})
	})
	// Updates of the same key are combined, the latest one wins.
	assert.Equal(t, []abci.ValidatorUpdate{testUpdate([]byte("x"), 7), testUpdate([]byte("y"), 1)}, res.ValidatorUpdates)
	assert.Len(t, res.Tags, 1)

	// Pending updates are cleared for the next block.
	a.ticker.diff = nil
	res = r.InBlock(func(*weavetest.Runner) error { return nil })
	assert.Empty(t, res.ValidatorUpdates)
}

func TestEndBlockTickerFailure(t *testing.T) {
	a := newTestApp(t)
	r := weavetest.NewRunner(t, a, testChainID)
	r.InitChain(map[string]interface{}{"test": "v"}, nil)

	a.ticker.err = errors.Wrap(errors.ErrDatabase, "broken")
	a.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{ChainID: testChainID, Height: 2}})
	assert.Panics(t, func() { a.EndBlock(abci.RequestEndBlock{Height: 2}) })
}

func TestQuery(t *testing.T) {
	a := newTestApp(t)
	r := weavetest.NewRunner(t, a, testChainID)
	r.InitChain(map[string]interface{}{"test": "v"}, nil)

	res := a.Query(abci.RequestQuery{Path: "/unknown"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code)

	res = a.Query(abci.RequestQuery{Path: "/key?prefix", Data: []byte("genesis")})
	assert.Equal(t, errors.ErrInput.ABCICode(), res.Code)

	res = a.Query(abci.RequestQuery{Path: "/key", Data: []byte("genesis")})
	require.Equal(t, uint32(0), res.Code)
	assert.Equal(t, int64(1), res.Height)
	keys, values := new(ResultSet), new(ResultSet)
	require.NoError(t, keys.Unmarshal(res.Key))
	require.NoError(t, values.Unmarshal(res.Value))
	models, err := JoinResults(keys, values)
	require.NoError(t, err)
	assert.Equal(t, []valgov.Model{valgov.Pair([]byte("genesis"), []byte("v"))}, models)
}
