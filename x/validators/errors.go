package validators

import (
	"github.com/iov-one/valgov/errors"
)

// codes 140 - 149 are reserved for this package
var (
	// ErrMalformedKey is returned when a public key is not a valid
	// ed25519 key.
	ErrMalformedKey = errors.Register(140, "malformed public key")

	// ErrInvalidPowerChange is returned when a proposed power is not
	// strictly lower than one third of the total voting power.
	ErrInvalidPowerChange = errors.Register(141, "invalid power change")
)
