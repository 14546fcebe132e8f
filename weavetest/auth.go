package weavetest

import (
	"context"
	"fmt"

	"github.com/iov-one/valgov"
)

// Auth authenticates a fixed list of conditions regardless of the context.
// Signer is a shortcut for a single signer and is reported after Signers.
type Auth struct {
	Signer  valgov.Condition
	Signers []valgov.Condition
}

func (a *Auth) GetConditions(valgov.Context) []valgov.Condition {
	if a.Signer == nil {
		return a.Signers
	}
	conds := make([]valgov.Condition, 0, len(a.Signers)+1)
	conds = append(conds, a.Signers...)
	return append(conds, a.Signer)
}

func (a *Auth) HasAddress(ctx valgov.Context, addr valgov.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

// CtxAuth authenticates conditions stored in the context under Key. Use
// SetConditions to attach signers to a context before calling a handler.
type CtxAuth struct {
	Key string
}

func (a *CtxAuth) SetConditions(ctx valgov.Context, conds ...valgov.Condition) valgov.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx valgov.Context) []valgov.Condition {
	switch val := ctx.Value(a.Key).(type) {
	case nil:
		return nil
	case []valgov.Condition:
		return val
	default:
		panic(fmt.Sprintf("want []valgov.Condition under %q, got %T", a.Key, val))
	}
}

func (a *CtxAuth) HasAddress(ctx valgov.Context, addr valgov.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

func hasAddress(conds []valgov.Condition, addr valgov.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
