package orm

import (
	"github.com/iov-one/valgov/errors"
)

// ORM errors use codes 100 - 109

// ErrInvalidKey is returned when a key cannot be used to address an entity.
var ErrInvalidKey = errors.Register(100, "invalid key")
