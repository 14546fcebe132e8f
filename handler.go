package valgov

import (
	"encoding/json"

	"github.com/iov-one/valgov/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Handler is a core engine that can process a few specific messages
// This could represent "create an election", or "vote for an election"
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality
// like authentication to many Handlers
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Ticker is called at the end of every block and can be used to perform
// periodic or delayed tasks.
//
// Returning an error aborts the block step. A ticker must return an error
// only when this node state cannot be trusted anymore.
type Ticker interface {
	Tick(ctx Context, store KVStore) (TickResult, error)
}

// Registry is an interface to register your handler,
// the setup side of a Router
type Registry interface {
	Handle(path string, h Handler)
}

// Options are the app options
// Each extension can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg, obj); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

// Stream decodes the JSON list stored under key one element at a time. Each
// call of the returned function decodes the next element into obj. ErrEmpty
// is returned when the key is missing or the list is exhausted. After the
// end of the list or a decoding failure every further call returns ErrState.
func (o Options) Stream(key string) (func(obj interface{}) error, error) {
	data := o[key]
	if len(data) == 0 {
		return nil, errors.Wrapf(errors.ErrEmpty, "no %q key", key)
	}
	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "%q is not a list: %s", key, err)
	}

	done := false
	next := func(obj interface{}) error {
		switch {
		case done:
			return errors.Wrap(errors.ErrState, "stream closed")
		case len(list) == 0:
			done = true
			return errors.Wrap(errors.ErrEmpty, "end of list")
		}
		raw := list[0]
		list = list[1:]
		if err := json.Unmarshal(raw, obj); err != nil {
			done = true
			return errors.Wrapf(errors.ErrInput, "element of %q: %s", key, err)
		}
		return nil
	}
	return next, nil
}

// GenesisParams represents parameters set in genesis that could be useful
// for some of the extensions.
type GenesisParams struct {
	Validators []abci.ValidatorUpdate
}

// FromInitChain initialises GenesisParams using abci.RequestInitChain
// data.
func FromInitChain(req abci.RequestInitChain) GenesisParams {
	return GenesisParams{
		Validators: req.Validators,
	}
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(opts Options, params GenesisParams, kv KVStore) error
}
