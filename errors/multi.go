package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If none of the provided errors is not nil, nil is returned. If exactly one
// error is not nil, that instance is returned as it is.
func Append(errs ...error) error {
	var me multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		// Flatten nested collections so that the result is always
		// a single level list.
		if other, ok := e.(multiErr); ok {
			me = append(me, other...)
			continue
		}
		me = append(me, e)
	}

	switch len(me) {
	case 0:
		return nil
	case 1:
		return me[0]
	default:
		return me
	}
}

// multiErr represents a collection of errors that occurred together.
type multiErr []error

// Unpack implements unpacker interface.
func (mErr multiErr) Unpack() []error {
	return []error(mErr)
}

func (mErr multiErr) Error() string {
	if len(mErr) == 1 {
		return fmt.Sprintf("1 error occurred:\n\t* %s\n\n", mErr[0])
	}

	points := make([]string, len(mErr))
	for i, err := range mErr {
		points[i] = fmt.Sprintf("* %s", err)
	}

	return fmt.Sprintf(
		"%d errors occurred:\n\t%s\n\n",
		len(mErr), strings.Join(points, "\n\t"))
}

// ABCICode returns the code of the first registered error in the
// collection.
func (mErr multiErr) ABCICode() uint32 {
	for _, e := range mErr {
		if c := ABCICode(e); c != internalABCICode {
			return c
		}
	}
	return internalABCICode
}
