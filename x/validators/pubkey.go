package validators

import (
	"bytes"
	"encoding/json"

	"github.com/btcsuite/btcutil/base58"
	"golang.org/x/crypto/ed25519"

	"github.com/iov-one/valgov/errors"
)

var zeroKey = make([]byte, ed25519.PublicKeySize)

// IsValidPublicKey returns true if given bytes can be an ed25519 public key
// of a validator.
func IsValidPublicKey(pubKey []byte) bool {
	return len(pubKey) == ed25519.PublicKeySize && !bytes.Equal(pubKey, zeroKey)
}

// PubKey is the raw ed25519 public key. Its JSON representation is base58
// encoded.
type PubKey []byte

func (k PubKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(base58.Encode(k))
}

func (k *PubKey) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrapf(errors.ErrSchema, "public key: %s", err)
	}
	// Invalid base58 input decodes into an empty slice. It is rejected as
	// a malformed key by the validation.
	*k = base58.Decode(enc)
	return nil
}

func (k PubKey) String() string {
	return base58.Encode(k)
}
