/*
Package assert provides the small set of test assertions used across the
module. Every assertion stops the test on failure.
*/
package assert

import (
	"reflect"
	"testing"

	"github.com/iov-one/valgov/errors"
)

// Tester is the part of testing.TB used by the assertions.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails the test if value is not nil. Typed nil values such as a nil
// slice or pointer are considered nil.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		// %+v prints the stack trace of framework errors.
		t.Fatalf("want a nil value, got %+v", value)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}

// Equal fails the test if want and got are not deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("values not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Panics fails the test if fn returns without panicking.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	fn()
}

// IsErr fails the test unless got is want or wraps it.
func IsErr(t Tester, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if w, ok := want.(interface{ Is(error) bool }); ok && w.Is(got) {
		return
	}
	t.Fatalf("want %q, got %+v", want, got)
}

// FieldError fails the test unless err carries exactly one error for the
// field and that error is of the wanted kind. Pass nil as want to assert
// that the field has no error.
func FieldError(t testing.TB, err error, fieldName string, want *errors.Error) {
	t.Helper()
	errs := errors.FieldErrors(err, fieldName)
	switch {
	case want == nil && len(errs) == 0:
		return
	case want == nil:
		t.Fatalf("want no %q error, got %d: %q", fieldName, len(errs), errs)
	case len(errs) == 0:
		t.Fatalf("want %q error, got none", fieldName)
	case len(errs) > 1:
		t.Fatalf("want one %q error, got %d: %q", fieldName, len(errs), errs)
	case !want.Is(errs[0]):
		t.Fatalf("want %q error to be %q, got %q", fieldName, want, errs[0])
	}
}
