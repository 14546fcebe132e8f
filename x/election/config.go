package election

import (
	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
	"github.com/iov-one/valgov/gconf"
)

const packageName = "election"

// DefaultThreshold is the share of the electorate weight that must vote
// yes for an election to be approved. The yes weight must be strictly
// greater than this share.
var DefaultThreshold = valgov.Fraction{Numerator: 2, Denominator: 3}

// Configuration of the election extension, loaded from the genesis.
type Configuration struct {
	Threshold valgov.Fraction `json:"threshold"`
}

// DefaultConfiguration is used when the genesis does not declare one.
func DefaultConfiguration() Configuration {
	return Configuration{Threshold: DefaultThreshold}
}

func (c *Configuration) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, c)
}

func (c *Configuration) Validate() error {
	return errors.Field("Threshold", validThreshold(c.Threshold), "invalid threshold")
}

var (
	half = valgov.Fraction{Numerator: 1, Denominator: 2}
	one  = valgov.Fraction{Numerator: 1, Denominator: 1}
)

// validThreshold accepts fractions in [1/2, 1). With 1/1 no election could
// ever pass as the yes weight must exceed the threshold share.
func validThreshold(f valgov.Fraction) error {
	switch {
	case f.Denominator == 0:
		return errors.Wrap(errors.ErrInput, "denominator must not be 0")
	case f.Numerator == 0:
		return errors.Wrap(errors.ErrInput, "numerator must not be 0")
	case f.Compare(half) < 0:
		return errors.Wrap(errors.ErrInput, "must not be lower 1/2")
	case f.Compare(one) >= 0:
		return errors.Wrap(errors.ErrInput, "must be lower 1")
	}
	return nil
}

// loadConfiguration returns the stored configuration or the default one if
// none was saved.
func loadConfiguration(db gconf.ReadStore) (Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, packageName, &conf); {
	case err == nil:
		return conf, nil
	case errors.ErrNotFound.Is(err):
		return DefaultConfiguration(), nil
	default:
		return conf, errors.Wrap(err, "load configuration")
	}
}
