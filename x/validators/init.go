package validators

import (
	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
	"github.com/iov-one/valgov/gconf"
)

const optKey = "validators"

// Initializer fulfils the Initializer interface to load data from the genesis
// file
type Initializer struct {
	Metrics *Metrics
}

var _ valgov.Initializer = (*Initializer)(nil)

// FromGenesis stores the configuration and the genesis validator set at
// height 0. Validators are read from the "validators" section if present,
// otherwise the validators given by the consensus engine are used.
func (i *Initializer) FromGenesis(opts valgov.Options, params valgov.GenesisParams, db valgov.KVStore) error {
	conf := DefaultConfiguration()
	if err := gconf.InitConfigOrDefault(db, opts, packageName, &conf); err != nil {
		return err
	}

	var updates []ValidatorChangeProposal
	if _, ok := opts[optKey]; ok {
		next, err := opts.Stream(optKey)
		if err != nil && !errors.ErrEmpty.Is(err) {
			return errors.Wrap(err, "genesis validators")
		}
		for err == nil {
			var u ValidatorChangeProposal
			switch err = next(&u); {
			case err == nil:
				updates = append(updates, u)
			case !errors.ErrEmpty.Is(err):
				return errors.Wrapf(err, "genesis validator #%d", len(updates))
			}
		}
	} else {
		for n, v := range params.Validators {
			u, err := DecodeUpdate(v)
			if err != nil {
				return errors.Wrapf(err, "genesis validator #%d", n)
			}
			updates = append(updates, u)
		}
	}
	for n, u := range updates {
		if !IsValidPublicKey(u.PubKey) {
			return errors.Wrapf(ErrMalformedKey, "genesis validator #%d", n)
		}
		if u.Power < 0 {
			return errors.Wrapf(errors.ErrInput, "genesis validator #%d: negative power", n)
		}
	}

	set := &ValidatorSet{
		Height:     0,
		Validators: withPositivePower(Merge(nil, updates)),
	}
	if len(set.Validators) == 0 {
		return errors.Wrap(errors.ErrEmpty, "genesis validator set")
	}
	if err := NewHistoryBucket().Store(db, set); err != nil {
		return errors.Wrap(err, "genesis validator set")
	}
	i.Metrics.observeSet(set)
	return nil
}
