package weavetest

import (
	"crypto/rand"
	"testing"

	"github.com/iov-one/valgov"
)

// RandomAddr returns a valid random address generated on the fly.
func RandomAddr(t testing.TB) valgov.Address {
	raw := make([]byte, valgov.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	a := valgov.Address(raw)
	if err := a.Validate(); err != nil {
		t.Fatalf("generated address is not a valid address: %s", err)
	}
	return a
}
