package validators

import (
	"github.com/iov-one/valgov/errors"
	"github.com/iov-one/valgov/gconf"
)

const packageName = "validators"

// DefaultActivationDelay is the number of blocks between the approval of a
// validator change and the height from which the new set is effective.
// Tendermint applies the validator updates returned for a block from the
// next height.
const DefaultActivationDelay = 1

// Configuration of the validators extension, loaded from the genesis.
type Configuration struct {
	ActivationDelay int64 `json:"activation_delay"`
}

// DefaultConfiguration is used when the genesis does not declare one.
func DefaultConfiguration() Configuration {
	return Configuration{ActivationDelay: DefaultActivationDelay}
}

func (c *Configuration) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, c)
}

func (c *Configuration) Validate() error {
	if c.ActivationDelay < 1 {
		return errors.Field("ActivationDelay", errors.ErrInput, "must be at least 1, got %d", c.ActivationDelay)
	}
	return nil
}

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
