package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
)

// StoreApp implements the state related part of abci.Application: genesis,
// block boundaries, queries and commits. Embed it to get a complete
// application, see BaseApp.
//
// ABCI calls that do not process user input (InitChain, BeginBlock,
// EndBlock, Commit) have no way to report an error and panic instead.
type StoreApp struct {
	logger log.Logger

	// name is reported by Info.
	name string

	store       *CommitStore
	initializer valgov.Initializer
	queryRouter valgov.QueryRouter

	// chainID is set by the genesis and loaded from the store on restart.
	chainID string

	// pending validator updates of the current block.
	pending []abci.ValidatorUpdate

	// baseContext is valid for the application lifetime, blockContext for
	// the current block only.
	baseContext  valgov.Context
	blockContext valgov.Context
}

// NewStoreApp loads the latest committed version of store. The chain id is
// restored if the genesis was already processed.
func NewStoreApp(name string, store valgov.CommitKVStore,
	queryRouter valgov.QueryRouter, baseContext valgov.Context) (*StoreApp, error) {
	cs, err := NewCommitStore(store)
	if err != nil {
		return nil, err
	}
	s := &StoreApp{
		name:        name,
		store:       cs,
		queryRouter: queryRouter,
		baseContext: baseContext,
	}
	s = s.WithLogger(log.NewNopLogger())

	if s.chainID, err = loadChainID(s.DeliverStore()); err != nil {
		return nil, err
	}
	if s.chainID != "" {
		s.baseContext = valgov.WithChainID(s.baseContext, s.chainID)
	}

	info, err := s.store.CommitInfo()
	if err != nil {
		return nil, errors.Wrap(err, "commit info")
	}
	s.blockContext = valgov.WithHeight(s.baseContext, info.Version)
	return s, nil
}

func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// WithInit sets the genesis initializer.
func (s *StoreApp) WithInit(init valgov.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithLogger sets the application logger, which is also carried by all
// contexts created by the application.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.baseContext = valgov.WithLogger(s.baseContext, logger)
	s.logger = logger
	return s
}

func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

func (s *StoreApp) BlockContext() valgov.Context {
	return s.blockContext
}

func (s *StoreApp) DeliverStore() valgov.CacheableKVStore {
	return s.store.DeliverStore()
}

func (s *StoreApp) CheckStore() valgov.CacheableKVStore {
	return s.store.CheckStore()
}

// loadGenesis processes the application state of the genesis. It can run
// only once per chain.
func (s *StoreApp) loadGenesis(req abci.RequestInitChain) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "genesis already loaded for chain %q", s.chainID)
	}
	if len(req.AppStateBytes) == 0 {
		return errors.Wrap(errors.ErrState, "app_state missing in the genesis")
	}
	var opts valgov.Options
	if err := json.Unmarshal(req.AppStateBytes, &opts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	if err := saveChainID(s.DeliverStore(), req.ChainId); err != nil {
		return err
	}
	s.chainID = req.ChainId
	s.baseContext = valgov.WithChainID(s.baseContext, s.chainID)

	if s.initializer == nil {
		return nil
	}
	return s.initializer.FromGenesis(opts, valgov.FromInitChain(req), s.DeliverStore())
}

// Info returns the name of the application and the last committed version.
func (s *StoreApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.logger.Info("Info synced", "height", info.Version, "hash", fmt.Sprintf("%X", info.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

// SetOption is not supported.
func (s *StoreApp) SetOption(res abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

// Query reads the last committed state. The path selects the query handler
// and can carry a modifier after "?", for example "/validators?prefix".
// Data is passed to the handler as it is. The requested height is ignored.
//
// Key and Value of the response are each an encoded ResultSet, both of the
// same length.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := splitPath(req.Path)
	qh := s.queryRouter.Handler(path)
	if qh == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "unexpected query path: %v", req.Path))
	}

	info, err := s.store.CommitInfo()
	if err != nil {
		return queryError(err)
	}
	db := s.store.committed.CacheWrap()
	defer db.Discard()

	models, err := qh.Query(db, mod, req.Data)
	if err != nil {
		return queryError(err)
	}
	res := abci.ResponseQuery{Height: info.Version}
	if res.Key, err = ResultsFromKeys(models).Marshal(); err != nil {
		return queryError(err)
	}
	if res.Value, err = ResultsFromValues(models).Marshal(); err != nil {
		return queryError(err)
	}
	return res
}

func splitPath(path string) (string, string) {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i], path[i+1:]
	}
	return path, ""
}

func queryError(err error) abci.ResponseQuery {
	code, msg := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{Code: code, Log: msg}
}

func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.store.Commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("Commit synced", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

// InitChain loads the genesis. The genesis validators are accepted as
// they are and no validator changes are returned.
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.loadGenesis(req); err != nil {
		panic(err)
	}
	s.logger.Info("Chain initialized", "chain_id", req.ChainId, "validators", len(req.Validators))
	return abci.ResponseInitChain{}
}

// BeginBlock sets up the context of the block.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := valgov.WithHeader(s.baseContext, req.Header)
	s.blockContext = valgov.WithHeight(ctx, req.Header.GetHeight())
	return abci.ResponseBeginBlock{}
}

// EndBlock returns the validator changes collected during the block.
func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	res := abci.ResponseEndBlock{ValidatorUpdates: s.pending}
	s.pending = nil
	return res
}

// AddValChange collects validator updates of the block. A later update of
// a key replaces an earlier one.
func (s *StoreApp) AddValChange(diffs []abci.ValidatorUpdate) {
	for _, d := range diffs {
		if i := updateIndex(s.pending, d.PubKey); i >= 0 {
			s.pending[i] = d
		} else {
			s.pending = append(s.pending, d)
		}
	}
}

func updateIndex(updates []abci.ValidatorUpdate, key abci.PubKey) int {
	for i, u := range updates {
		if u.PubKey.Type == key.Type && bytes.Equal(u.PubKey.Data, key.Data) {
			return i
		}
	}
	return -1
}
