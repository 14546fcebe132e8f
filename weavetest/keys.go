package weavetest

import (
	"github.com/iov-one/valgov"
	"github.com/tendermint/tendermint/crypto/ed25519"
)

// NewKey returns a new, random ed25519 private key.
func NewKey() ed25519.PrivKeyEd25519 {
	return ed25519.GenPrivKey()
}

// PubKeyBytes returns the raw public key bytes of given private key.
func PubKeyBytes(key ed25519.PrivKeyEd25519) []byte {
	pub := key.PubKey().(ed25519.PubKeyEd25519)
	return pub[:]
}

// NewCondition returns a signature condition of a new, random key.
func NewCondition() valgov.Condition {
	return valgov.SigCondition(PubKeyBytes(NewKey()))
}
