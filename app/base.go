package app

import (
	abci "github.com/tendermint/tendermint/abci/types"

	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
)

// BaseApp adds DeliverTx, CheckTx, and EndBlock
// handlers to the storage and query functionality of StoreApp
type BaseApp struct {
	*StoreApp
	decoder valgov.TxDecoder
	handler valgov.Handler
	ticker  valgov.Ticker
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp constructs a basic abci application. Ticker can be nil.
func NewBaseApp(
	store *StoreApp,
	decoder valgov.TxDecoder,
	handler valgov.Handler,
	ticker valgov.Ticker,
	debug bool,
) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		ticker:   ticker,
		debug:    debug,
	}
}

// DeliverTx - ABCI - dispatches to the handler. Changes of a failed
// transaction are discarded.
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return valgov.DeliverTxError(err, b.debug)
	}

	ctx := valgov.WithLogInfo(b.BlockContext(),
		"call", "deliver_tx",
		"path", valgov.GetPath(tx))

	cache := b.DeliverStore().CacheWrap()
	res, err := b.handler.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return valgov.DeliverTxError(err, b.debug)
	}
	if err := cache.Write(); err != nil {
		return valgov.DeliverTxError(err, b.debug)
	}
	b.AddValChange(res.Diff)
	return res.ToABCI()
}

// CheckTx - ABCI - dispatches to the handler
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return valgov.CheckTxError(err, b.debug)
	}

	ctx := valgov.WithLogInfo(b.BlockContext(),
		"call", "check_tx",
		"path", valgov.GetPath(tx))

	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return valgov.CheckOrError(res, err, b.debug)
}

// EndBlock - ABCI - runs the ticker and returns all validator changes of
// the block. A ticker failure leaves the node in an unknown state and
// panics.
func (b BaseApp) EndBlock(req abci.RequestEndBlock) abci.ResponseEndBlock {
	var tr valgov.TickResult
	if b.ticker != nil {
		ctx := valgov.WithLogInfo(b.BlockContext(), "call", "end_block")
		cache := b.DeliverStore().CacheWrap()
		var err error
		tr, err = b.ticker.Tick(ctx, cache)
		if err != nil {
			cache.Discard()
			panic(errors.Wrapf(err, "end block %d", req.Height))
		}
		if err := cache.Write(); err != nil {
			panic(errors.Wrapf(err, "end block %d", req.Height))
		}
		b.AddValChange(tr.Diff)
	}
	res := b.StoreApp.EndBlock(req)
	res.Tags = append(res.Tags, tr.Tags...)
	return res
}

// loadTx calls the decoder, and capture any panics
func (b BaseApp) loadTx(txBytes []byte) (tx valgov.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(txBytes)
	return
}
