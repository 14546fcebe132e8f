/*
Package x contains the extensions of the validator governance application.

Extensions implement common functionality (Handler, Ticker, Initializer)
and are combined together by the app package to construct an application.

x/election implements the generic election lifecycle. x/validators is the
election variant that changes the consensus validator set.
*/
package x
