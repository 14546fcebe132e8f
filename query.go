package valgov

import (
	"fmt"
)

// Query modifiers appended to the path after "?".
const (
	// KeyQueryMod reads a single entry.
	KeyQueryMod = ""
	// PrefixQueryMod reads all entries under a key prefix.
	PrefixQueryMod = "prefix"
)

// QueryHandler answers read only queries against the committed state.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister is implemented by extensions exposing queries.
type QueryRegister func(QueryRouter)

// QueryRouter maps query paths to their handlers. Its zero value is not
// usable, create it with NewQueryRouter.
type QueryRouter struct {
	routes map[string]QueryHandler
}

func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

// RegisterAll calls each register function with this router.
func (r QueryRouter) RegisterAll(regs ...QueryRegister) {
	for _, register := range regs {
		register(r)
	}
}

// Register binds a handler to path. A path can be bound only once,
// registering it again panics.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("query path %q already registered", path))
	}
	r.routes[path] = h
}

// Handler returns the handler bound to path or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}
