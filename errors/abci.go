package errors

import (
	"fmt"
)

const (
	// SuccessABCICode is the code of a response that carries no error.
	SuccessABCICode = 0

	// Errors that are not registered are reported with this code and
	// a generic log so that internal details do not reach the client.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and log to be used in an ABCI response for the
// given error.
//
// Only registered errors expose their message. Any other error is reported
// as an internal error unless debug is set, in which case the full message
// including the stack trace is returned.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessABCICode, ""
	}
	code := ABCICode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

// ABCICode returns the code of the first registered error found while
// unwrapping err. Nil translates to the success code and an unregistered
// error to the internal code.
func ABCICode(err error) uint32 {
	if isNilErr(err) {
		return SuccessABCICode
	}
	for err != nil {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return internalABCICode
}

type coder interface {
	ABCICode() uint32
}
