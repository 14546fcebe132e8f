package election

import (
	"fmt"
	"regexp"
	"sort"

	abci "github.com/tendermint/tendermint/abci/types"

	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
)

var isElectionType = regexp.MustCompile(`^[a-z][a-z0-9\-]{2,31}$`).MatchString

// Variant is implemented by each kind of election. A variant owns the
// meaning of the election payload: it validates a new election and applies
// its result once the election is approved.
type Variant interface {
	// Type is the unique name of the variant, stored with each election.
	Type() string

	// Validate is called before an election of this type is created. An
	// implementation is expected to call BaseValidator.Validate first.
	Validate(ctx valgov.Context, db valgov.ReadOnlyKVStore, e *Election) error

	// OnApproval is called once, at the end of the block in which the
	// election was concluded as approved. Returned validator updates are
	// passed to the consensus engine.
	OnApproval(ctx valgov.Context, db valgov.KVStore, e *Election, height int64) ([]abci.ValidatorUpdate, error)
}

// Registry holds all Variant implementations known to the application.
type Registry struct {
	variants map[string]Variant
}

// NewRegistry returns a registry with given variants registered.
func NewRegistry(variants ...Variant) *Registry {
	r := &Registry{variants: make(map[string]Variant)}
	for _, v := range variants {
		r.Register(v)
	}
	return r
}

// Register adds a variant. It panics if the type name is not valid or was
// registered before. Use it only during the application setup.
func (r *Registry) Register(v Variant) {
	t := v.Type()
	if !isElectionType(t) {
		panic(fmt.Sprintf("invalid election type name: %q", t))
	}
	if _, ok := r.variants[t]; ok {
		panic(fmt.Sprintf("election type %q registered twice", t))
	}
	r.variants[t] = v
}

// Get returns the variant registered for given type or ErrNotFound.
func (r *Registry) Get(electionType string) (Variant, error) {
	v, ok := r.variants[electionType]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "election type %q", electionType)
	}
	return v, nil
}

// Types returns the names of all registered variants, sorted.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.variants))
	for t := range r.variants {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// VoterSource provides the electorate that is entitled to vote at given
// height.
type VoterSource interface {
	Electorate(db valgov.ReadOnlyKVStore, height int64) ([]Elector, error)
}
