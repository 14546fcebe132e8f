package app

import (
	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
)

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...valgov.Initializer) valgov.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []valgov.Initializer
}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts valgov.Options, params valgov.GenesisParams, kv valgov.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, params, kv); err != nil {
			return err
		}
	}
	return nil
}

// ChainTickers returns a ticker running all given tickers in order. Tags and
// validator updates of all of them are combined. The first error aborts the
// run.
func ChainTickers(tickers ...valgov.Ticker) valgov.Ticker {
	return chainTicker{tickers}
}

type chainTicker struct {
	tickers []valgov.Ticker
}

func (c chainTicker) Tick(ctx valgov.Context, db valgov.KVStore) (valgov.TickResult, error) {
	var res valgov.TickResult
	for i, t := range c.tickers {
		tr, err := t.Tick(ctx, db)
		if err != nil {
			return res, errors.Wrapf(err, "ticker #%d", i)
		}
		res.Tags = append(res.Tags, tr.Tags...)
		res.Diff = append(res.Diff, tr.Diff...)
	}
	return res, nil
}

var _ valgov.Ticker = chainTicker{}

