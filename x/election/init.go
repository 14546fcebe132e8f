package election

import (
	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/gconf"
)

// Initializer fulfils the Initializer interface to load data from the genesis
// file
type Initializer struct{}

var _ valgov.Initializer = (*Initializer)(nil)

// FromGenesis stores the election configuration declared in the genesis or
// the default one.
func (*Initializer) FromGenesis(opts valgov.Options, params valgov.GenesisParams, db valgov.KVStore) error {
	conf := DefaultConfiguration()
	return gconf.InitConfigOrDefault(db, opts, packageName, &conf)
}
