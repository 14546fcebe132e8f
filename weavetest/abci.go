package weavetest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Tester is implemented by both *testing.T and *testing.B. Use it instead of
// the pointer type to allow notation to accept both objects.
type Tester interface {
	Helper()
	Errorf(string, ...interface{})
	Fatalf(string, ...interface{})
	Logf(string, ...interface{})
}

// Runner provides a translation layer between an ABCI interface and a
// valgov application. It takes care of serializing transactions and creating
// blocks.
type Runner struct {
	chainID string
	height  int64
	t       Tester
	app     abci.Application
}

// NewRunner creates a Runner instance that can be used to process deliver and
// check transaction requests using the ABCI API. Block creation failures
// result in test failure.
func NewRunner(t Tester, app abci.Application, chainID string) *Runner {
	return &Runner{
		chainID: chainID,
		height:  0,
		t:       t,
		app:     app,
	}
}

// Height returns the height of the last created block.
func (r *Runner) Height() int64 {
	return r.height
}

// InitChain serialize to JSON given genesis and loads it together with given
// consensus validators.
func (r *Runner) InitChain(genesis interface{}, validators []abci.ValidatorUpdate) abci.ResponseInitChain {
	r.t.Helper()

	raw, err := json.MarshalIndent(genesis, "", "  ")
	if err != nil {
		r.t.Fatalf("cannot JSON serialize genesis: %s", err)
	}
	resp := r.app.InitChain(abci.RequestInitChain{
		Time:          time.Now(),
		ChainId:       r.chainID,
		Validators:    validators,
		AppStateBytes: raw,
	})
	r.app.Commit()
	return resp
}

// CheckTx translates given transaction into ABCI interface and executes.
func (r *Runner) CheckTx(tx valgov.Tx) error {
	raw, err := tx.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot marshal transaction")
	}
	if resp := r.app.CheckTx(raw); resp.Code != 0 {
		return fmt.Errorf("%d: %s", resp.Code, resp.Log)
	}
	return nil
}

// DeliverTx translates given transaction into ABCI interface and executes.
func (r *Runner) DeliverTx(tx valgov.Tx) error {
	raw, err := tx.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot marshal transaction")
	}
	if resp := r.app.DeliverTx(raw); resp.Code != 0 {
		return fmt.Errorf("%d: %s", resp.Code, resp.Log)
	}
	return nil
}

// InBlock begins a block and runs given function. All transactions executed
// withing given function are part of newly created block. Upon success the
// block is finished and changes commited.
// InBlock returns the end block response, which carries validator updates.
//
// Any failure is ending the test instantly.
func (r *Runner) InBlock(executeTx func(*Runner) error) abci.ResponseEndBlock {
	r.t.Helper()

	r.height++

	// BeginBlock will panic on error.
	r.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{
			ChainID: r.chainID,
			Height:  r.height,
			Time:    time.Now(),
		},
	})

	if err := executeTx(r); err != nil {
		r.t.Fatalf("operation failed with %+v", err)
	}

	resp := r.app.EndBlock(abci.RequestEndBlock{
		Height: r.height,
	})
	r.app.Commit()
	return resp
}
