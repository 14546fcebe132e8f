/*
Package app contains the block pipeline of a validator governance chain.

BaseApp implements the tendermint abci.Application. Transactions are
decoded with an injected TxDecoder and dispatched by a Router to the
handlers registered for their message path. Each delivered transaction runs
in its own cache wrap that is written only on success. At the end of a
block the ticker runs and the validator changes it returns are passed to
the consensus engine with the ResponseEndBlock.
*/
package app
