package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field wraps err with the name of the model or message attribute it was
// caused by. Nil is returned when err is nil.
//
// Field names follow Go naming. Nested attributes are separated with a dot
// and collection elements are addressed by their index, for example
// Validators.2.PubKey
func Field(fieldName string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) != 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{field: fieldName, desc: description, parent: err}
}

// AppendField is a shortcut for Append(errorsOrNil, Field(fieldName, err, "")).
func AppendField(errorsOrNil error, fieldName string, fieldErrOrNil error) error {
	return Append(errorsOrNil, Field(fieldName, fieldErrOrNil, ""))
}

type fieldError struct {
	field  string
	desc   string
	parent error
}

func (err *fieldError) Error() string {
	msg := fmt.Sprintf("field %q", err.field)
	if err.desc != "" {
		msg += ": " + err.desc
	}
	return msg + ": " + err.parent.Error()
}

func (err *fieldError) Cause() error {
	return err.parent
}

func (err *fieldError) Field() string {
	return err.field
}

// FieldErrors walks the error tree and returns every error created for the
// given field name. The search stops descending at the first match on each
// branch, so the outermost error of a field is returned.
func FieldErrors(err error, fieldName string) []error {
	var found []error
	for !isNilErr(err) {
		if f, ok := err.(fielder); ok && f.Field() == fieldName {
			return append(found, err)
		}
		if u, ok := err.(unpacker); ok {
			for _, e := range u.Unpack() {
				found = append(found, FieldErrors(e, fieldName)...)
			}
			return found
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return found
}

type fielder interface {
	Field() string
}
