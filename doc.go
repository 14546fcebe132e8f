/*
Package valgov defines all common interfaces used to put together the
validator governance application, as well as implementations of some of the
simpler components (when interfaces would be too much overhead).

The block pipeline passes a context.Context down to handlers, tickers and
election variants. Framework keys such as block height, chain id and the
logger are stored in it with the With/Get function pairs declared in this
package.

Extensions live under x/. The validator election (x/validators) is a variant
of the generic election lifecycle (x/election).
*/
package valgov
