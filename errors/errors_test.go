package errors

import (
	stdlib "errors"
	"testing"

	"github.com/pkg/errors"
)

func TestWrapKeepsRootCause(t *testing.T) {
	std := stdlib.New("disk full")

	cases := map[string]struct {
		err  error
		want error
	}{
		"root error":          {err: ErrNotFound, want: ErrNotFound},
		"wrapped once":        {err: Wrap(ErrNotFound, "validator set"), want: ErrNotFound},
		"wrapped twice":       {err: Wrapf(Wrap(ErrState, "election"), "tick %d", 4), want: ErrState},
		"wrapped stdlib":      {err: Wrap(std, "store"), want: std},
		"created with New":    {err: ErrInput.New("height"), want: ErrInput},
		"created with Newf":   {err: ErrInput.Newf("height %d", 3), want: ErrInput},
		"wrapped field error": {err: Wrap(Field("Power", ErrInput, "negative"), "proposal"), want: ErrInput},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := errors.Cause(tc.err); got != tc.want {
				t.Fatalf("want %v root, got %v", tc.want, got)
			}
		})
	}
}

type typedNil struct{}

func (*typedNil) Error() string { return "typed nil" }

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		kind *Error
		err  error
		want bool
	}{
		"same root":                   {kind: ErrNotFound, err: ErrNotFound, want: true},
		"other root":                  {kind: ErrNotFound, err: ErrModel, want: false},
		"wrapped root":                {kind: ErrNotFound, err: Wrap(ErrNotFound, "set"), want: true},
		"wrapped other root":          {kind: ErrNotFound, err: Wrap(ErrSchema, "payload"), want: false},
		"stdlib error":                {kind: ErrNotFound, err: stdlib.New("gone"), want: false},
		"wrapped stdlib error":        {kind: ErrNotFound, err: Wrap(stdlib.New("gone"), "set"), want: false},
		"nil kind and nil error":      {kind: nil, err: nil, want: true},
		"nil kind and typed nil":      {kind: nil, err: (*typedNil)(nil), want: true},
		"nil kind and an error":       {kind: nil, err: ErrNotFound, want: false},
		"kind and nil error":          {kind: ErrNotFound, err: nil, want: false},
		"group containing the kind":   {kind: ErrState, err: Append(ErrEmpty, ErrState), want: true},
		"group without the kind":      {kind: ErrState, err: Append(ErrEmpty, ErrInput), want: false},
		"wrapped group with the kind": {kind: ErrState, err: Wrap(Append(ErrEmpty, ErrState), "tick"), want: true},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.kind.Is(tc.err); got != tc.want {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestRegisterTakenCode(t *testing.T) {
	for _, code := range []uint32{1, ErrNotFound.ABCICode()} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("code %d registered twice", code)
				}
			}()
			Register(code, "taken")
		}()
	}
}

func TestRecover(t *testing.T) {
	err := func() (err error) {
		defer Recover(&err)
		panic("boom")
	}()
	if !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %+v", err)
	}
	if got, want := err.Error(), "boom: panic"; got != want {
		t.Fatalf("want %q message, got %q", want, got)
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "nothing"); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	if err := Wrapf(nil, "nothing %d", 1); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
}
