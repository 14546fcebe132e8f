package gconf

import (
	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
)

// ReadStore is a subset of valgov.ReadOnlyKVStore.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is a subset of valgov.KVStore.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

func confKey(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save will Validate the object, before writing it to a special "configuration"
// singleton for that package name.
func Save(db Store, pkg string, src ValidMarshaler) error {
	key := confKey(pkg)
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "validation: key %q", key)
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal: key %q", key)
	}
	if err := db.Set(key, raw); err != nil {
		return errors.Wrapf(err, "store: key %q", key)
	}
	return nil
}

// ValidMarshaler is implemented by object that can serialize itself to a binary
// representation.
type ValidMarshaler interface {
	Marshal() ([]byte, error)
	Validate() error
}

// Load reads the configuration of given package into dst. ErrNotFound is
// returned if the configuration was never saved.
func Load(db ReadStore, pkg string, dst Unmarshaler) error {
	key := confKey(pkg)
	raw, err := db.Get(key)
	if err != nil {
		return errors.Wrapf(err, "read: key %q", key)
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "key %q", key)
	}
	if err := dst.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "unmarshal: key %q", key)
	}
	return nil
}

// Unmarshaler is implemented by object that can load their state from given
// binary representation.
type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Configuration is a package configuration that can be stored.
type Configuration interface {
	ValidMarshaler
	Unmarshaler
}

// InitConfig will take opts["conf"][pkg], parse it into the given Configuration object
// validate it, and store under the proper key in the database
// Returns an error if anything goes wrong
func InitConfig(db Store, opts valgov.Options, pkg string, conf Configuration) error {
	var confOptions valgov.Options
	if err := opts.ReadOptions("conf", &confOptions); err != nil {
		return errors.Wrap(err, "read conf")
	}
	if confOptions[pkg] == nil {
		return errors.Wrapf(errors.ErrNotFound, "no configuration in genesis for %q package", pkg)
	}
	if err := confOptions.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(err, "read configuration for %s", pkg)
	}
	if err := Save(db, pkg, conf); err != nil {
		return errors.Wrapf(err, "save configuration for %s", pkg)
	}
	return nil
}

// InitConfigOrDefault works like InitConfig, but when the genesis does not
// declare a configuration for the package, the given configuration is
// saved as it is.
func InitConfigOrDefault(db Store, opts valgov.Options, pkg string, conf Configuration) error {
	err := InitConfig(db, opts, pkg, conf)
	if !errors.ErrNotFound.Is(err) {
		return err
	}
	if err := Save(db, pkg, conf); err != nil {
		return errors.Wrapf(err, "save default configuration for %s", pkg)
	}
	return nil
}
