package x

import (
	"github.com/iov-one/valgov"
)

// Authenticator extracts the conditions fulfilled by the current
// transaction from the context. Extensions receive it in their
// constructor so that the signature scheme can be replaced without
// changing them.
type Authenticator interface {
	// GetConditions returns all conditions fulfilled by the transaction,
	// the main signer first.
	GetConditions(valgov.Context) []valgov.Condition
	// HasAddress reports whether any fulfilled condition resolves to
	// the address.
	HasAddress(valgov.Context, valgov.Address) bool
}

// ChainAuth groups authenticators. Conditions are collected in order so the
// main signer comes from the first authenticator that has one.
func ChainAuth(impls ...Authenticator) Authenticator {
	return multiAuth(impls)
}

type multiAuth []Authenticator

func (m multiAuth) GetConditions(ctx valgov.Context) []valgov.Condition {
	var conds []valgov.Condition
	for _, a := range m {
		conds = append(conds, a.GetConditions(ctx)...)
	}
	return conds
}

func (m multiAuth) HasAddress(ctx valgov.Context, addr valgov.Address) bool {
	for _, a := range m {
		if a.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first fulfilled condition or nil.
func MainSigner(ctx valgov.Context, auth Authenticator) valgov.Condition {
	if conds := auth.GetConditions(ctx); len(conds) != 0 {
		return conds[0]
	}
	return nil
}
