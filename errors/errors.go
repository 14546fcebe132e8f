package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Root errors shared by all packages. Codes are part of the ABCI responses
// and must not change.
var (
	// ErrUnauthorized is returned when the transaction signers are not
	// allowed to perform the operation.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = Register(3, "not found")

	// ErrMsg is returned for a message that cannot be processed.
	ErrMsg = Register(4, "invalid message")

	// ErrModel is returned for an entity that cannot be persisted.
	ErrModel = Register(5, "invalid model")

	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman signals a programming error, for example a context that was
	// not set up by the block pipeline.
	ErrHuman = Register(7, "coding error")

	// ErrCannotBeModified is returned on an attempt to change immutable
	// state.
	ErrCannotBeModified = Register(8, "cannot be modified")

	ErrEmpty = Register(9, "value is empty")

	// ErrState is returned when an entity is not in the state required by
	// the operation.
	ErrState = Register(10, "invalid state")

	ErrType = Register(11, "invalid type")

	// ErrSchema is returned when a payload does not match the structure
	// required by its kind.
	ErrSchema = Register(12, "schema violation")

	ErrInput = Register(14, "invalid input")

	// ErrOverflow is returned when a result exceeds its numeric type.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrDatabase is returned on a storage failure.
	ErrDatabase = Register(17, "database")

	// ErrPanic is the root of errors created from a recovered panic.
	ErrPanic = Register(111222, "panic")
)

// Register declares a new root error. A code can be registered only once,
// a second registration panics. Call it from package level variable
// declarations only.
func Register(code uint32, description string) *Error {
	switch e, ok := registered[code]; {
	case ok && e == nil:
		panic(fmt.Sprintf("error code %d is reserved", code))
	case ok:
		panic(fmt.Sprintf("error code %d already registered as %q", code, e.desc))
	}
	e := &Error{code: code, desc: description}
	registered[code] = e
	return e
}

// registered holds all root errors by code. Code 1 marks errors not created
// by this package and cannot be registered.
var registered = map[uint32]*Error{
	1: nil,
}

// Error is a root error. Errors returned at runtime wrap one of the root
// errors so that the ABCI code can be recovered from any of them.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

func (e Error) ABCICode() uint32 {
	return e.code
}

// New is a shortcut for Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

func (e *Error) Newf(format string, args ...interface{}) error {
	return Wrapf(e, format, args...)
}

// Is returns true if err is kind or wraps it. Errors grouped by Append
// match if any member matches. A nil kind matches only nil errors,
// including typed nil values.
func (kind *Error) Is(err error) bool {
	if kind == nil {
		return isNilErr(err)
	}
	for err != nil {
		if err == kind {
			return true
		}
		if group, ok := err.(unpacker); ok {
			for _, e := range group.Unpack() {
				if kind.Is(e) {
					return true
				}
			}
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

func isNilErr(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// Wrap adds a description to err. A stack trace is attached to the
// innermost wrap. Wrapping nil returns nil.
//
// Errors that do not wrap a root error are reported with the internal
// error code.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{msg: description, parent: err}
}

func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Recover converts a panic into an ErrPanic assigned to err. It must be
// called with defer.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type causer interface {
	Cause() error
}

type unpacker interface {
	Unpack() []error
}
