package election

import (
	amino "github.com/tendermint/go-amino"
)

// cdc serializes all models and messages of this package. Amino binary
// encoding is deterministic, which is required for anything written to
// the state.
var cdc = amino.NewCodec()

func init() {
	cdc.Seal()
}
