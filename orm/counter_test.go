package orm

import (
	amino "github.com/tendermint/go-amino"

	"github.com/iov-one/valgov/errors"
)

// Counter is a model used by the tests of this package.
type Counter struct {
	Count int64
}

var _ Model = (*Counter)(nil)

func (c *Counter) Marshal() ([]byte, error) {
	return amino.MarshalBinaryBare(c)
}

func (c *Counter) Unmarshal(raw []byte) error {
	return amino.UnmarshalBinaryBare(raw, c)
}

func (c *Counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrState, "negative counter")
	}
	return nil
}

func (c *Counter) Copy() Model {
	return &Counter{Count: c.Count}
}

// Label is another model used by the tests of this package.
type Label struct {
	Name string
	Tags []string
}

var _ Model = (*Label)(nil)

func (l *Label) Marshal() ([]byte, error) {
	return amino.MarshalBinaryBare(l)
}

func (l *Label) Unmarshal(raw []byte) error {
	return amino.UnmarshalBinaryBare(raw, l)
}

func (l *Label) Validate() error {
	if l.Name == "" {
		return errors.Wrap(errors.ErrEmpty, "name")
	}
	return nil
}

func (l *Label) Copy() Model {
	return &Label{Name: l.Name, Tags: append([]string(nil), l.Tags...)}
}
