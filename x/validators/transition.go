package validators

import (
	"math"

	abci "github.com/tendermint/tendermint/abci/types"

	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
	"github.com/iov-one/valgov/x/election"
)

// ValidatorHistory reads and appends validator sets.
type ValidatorHistory interface {
	SetReader
	SetWriter
}

// TransitionExecutor applies an approved validator change.
type TransitionExecutor struct {
	history ValidatorHistory
	metrics *Metrics
}

// NewTransitionExecutor returns an executor persisting new sets in given
// history.
func NewTransitionExecutor(history ValidatorHistory, metrics *Metrics) TransitionExecutor {
	return TransitionExecutor{history: history, metrics: metrics}
}

// OnApproval merges the proposed change into the set effective at
// newHeight, or into the latest scheduled set if one is pending. The
// result is stored as effective from newHeight plus the activation delay.
// Validators left with no power are dropped. A single validator update is
// returned, describing the change only.
//
// A change that leaves no validator is rejected with ErrState. Nothing is
// written if any step fails.
func (x TransitionExecutor) OnApproval(ctx valgov.Context, db valgov.KVStore, e *election.Election, newHeight int64) ([]abci.ValidatorUpdate, error) {
	p, err := ParseProposal(e.Payload)
	if err != nil {
		return nil, err
	}
	conf, err := loadConfiguration(db)
	if err != nil {
		return nil, err
	}

	target := db
	var cache valgov.KVCacheWrap
	if c, ok := db.(valgov.CacheableKVStore); ok {
		cache = c.CacheWrap()
		defer cache.Discard()
		target = cache
	}

	base, err := changeBase(target, x.history, newHeight)
	if err != nil {
		return nil, err
	}
	next := &ValidatorSet{
		Height:     newHeight + conf.ActivationDelay,
		Validators: applyChange(base, *p),
		ElectionID: e.ID,
	}
	if len(next.Validators) == 0 {
		return nil, errors.Wrapf(errors.ErrState, "change of %s leaves no validator", p.PubKey)
	}
	if err := x.history.Store(target, next); err != nil {
		return nil, errors.Wrap(err, "store validator set")
	}
	if cache != nil {
		if err := cache.Write(); err != nil {
			return nil, errors.Wrap(err, "write validator set")
		}
	}

	valgov.GetLogger(ctx).Info("validator set changed",
		"height", next.Height,
		"total_power", next.TotalPower(),
		"validators", len(next.Validators),
		"election", e.ID)
	x.metrics.observeTransition(next)

	return []abci.ValidatorUpdate{EncodeUpdate(p.PubKey, p.Power)}, nil
}

// changeBase returns the set a change approved at height is merged into.
// That is the latest scheduled set when it is not effective yet, otherwise
// the set effective at height.
func changeBase(db valgov.ReadOnlyKVStore, history SetReader, height int64) (*ValidatorSet, error) {
	current, err := history.GetAt(db, height)
	if err != nil {
		return nil, errors.Wrap(err, "current validator set")
	}
	if pending, err := history.GetAt(db, math.MaxInt64); err == nil && pending.Height > current.Height {
		return pending, nil
	}
	return current, nil
}

// applyChange returns the validators of base with the change applied and
// all validators without power removed.
func applyChange(base *ValidatorSet, p ValidatorChangeProposal) []ValidatorRecord {
	return withPositivePower(Merge(base.Validators, []ValidatorChangeProposal{p}))
}
