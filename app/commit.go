package app

import (
	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
)

// CommitStore keeps the two working copies of the committed state: one for
// delivered transactions, which is written on Commit, and one for checked
// transactions, which is dropped on Commit.
type CommitStore struct {
	committed valgov.CommitKVStore
	deliver   valgov.KVCacheWrap
	check     valgov.KVCacheWrap
}

// NewCommitStore loads the latest version of store.
func NewCommitStore(store valgov.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	cs := &CommitStore{committed: store}
	cs.reset()
	return cs, nil
}

func (cs *CommitStore) reset() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CommitInfo returns the last committed version.
func (cs *CommitStore) CommitInfo() (valgov.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit persists the delivered state as a new version and starts fresh
// working copies on top of it.
func (cs *CommitStore) Commit() (valgov.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return valgov.CommitID{}, errors.Wrap(err, "write deliver cache")
	}
	cs.check.Discard()

	id, err := cs.committed.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit")
	}
	cs.reset()
	return id, nil
}

func (cs *CommitStore) CheckStore() valgov.CacheableKVStore {
	return cs.check
}

func (cs *CommitStore) DeliverStore() valgov.CacheableKVStore {
	return cs.deliver
}

// chainIDKey is stored under the "_vg:" prefix reserved for application
// internal data.
const chainIDKey = "_vg:chainID"

func loadChainID(db valgov.ReadOnlyKVStore) (string, error) {
	raw, err := db.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(raw), nil
}

// saveChainID stores the chain id. It can be set only once.
func saveChainID(db valgov.KVStore, chainID string) error {
	if !valgov.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	switch has, err := db.Has([]byte(chainIDKey)); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case has:
		return errors.Wrap(errors.ErrCannotBeModified, "chain id is set by the genesis")
	}
	if err := db.Set([]byte(chainIDKey), []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}
