package valgov

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/valgov/errors"
)

// AddressLength is the length of all addresses. It must not change once any
// address was persisted.
var AddressLength = 20

// (?s) allows the data section to contain a newline byte.
var conditionFormat = regexp.MustCompile(`(?s)^([a-zA-Z0-9_\-]{3,8})/([a-zA-Z0-9_\-]{3,8})/(.+)$`)

// Condition describes who can authorize an action. It is formatted as
//
//   extension/type/data
//
// A signature condition, for example, is authorized by a signature made
// with the key given as data.
type Condition []byte

func NewCondition(ext, typ string, data []byte) Condition {
	c := make(Condition, 0, len(ext)+len(typ)+len(data)+2)
	c = append(c, ext...)
	c = append(c, '/')
	c = append(c, typ...)
	c = append(c, '/')
	return append(c, data...)
}

// SigCondition returns the condition authorized by a signature made with the
// ed25519 private key of pubKey.
func SigCondition(pubKey []byte) Condition {
	return NewCondition("sig", "ed25519", pubKey)
}

// Parse returns the extension, type and data sections of the condition.
func (c Condition) Parse() (string, string, []byte, error) {
	m := conditionFormat.FindSubmatch(c)
	if m == nil {
		return "", "", nil, errors.ErrInput.Newf("condition: %X", []byte(c))
	}
	return string(m[1]), string(m[2]), m[3], nil
}

// Address returns the address that represents this condition.
func (c Condition) Address() Address {
	return NewAddress(c)
}

func (c Condition) Equals(other Condition) bool {
	return bytes.Equal(c, other)
}

// String keeps the extension and type readable and hex encodes the data.
func (c Condition) String() string {
	ext, typ, data, err := c.Parse()
	if err != nil {
		return fmt.Sprintf("Invalid Condition: %X", []byte(c))
	}
	return fmt.Sprintf("%s/%s/%X", ext, typ, data)
}

func (c Condition) Validate() error {
	if !conditionFormat.Match(c) {
		return errors.ErrInput.Newf("condition: %X", []byte(c))
	}
	return nil
}

func (c Condition) MarshalJSON() ([]byte, error) {
	if c == nil {
		return json.Marshal("")
	}
	return json.Marshal(c.String())
}

func (c *Condition) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrapf(errors.ErrInput, "condition json: %s", err)
	}
	cond, err := parseCondition(s)
	if err != nil {
		return err
	}
	*c = cond
	return nil
}

// parseCondition reads the String representation of a condition. An empty
// string is a nil condition.
func parseCondition(s string) (Condition, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return nil, errors.ErrInput.New("invalid condition format")
	}
	data, err := hex.DecodeString(parts[2])
	if err != nil {
		return nil, errors.ErrInput.Newf("malformed condition data: %s", err)
	}
	return NewCondition(parts[0], parts[1], data), nil
}

// Address is a one way digest of a condition, AddressLength bytes long.
type Address []byte

// NewAddress returns the truncated sha256 digest of data.
func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	h := sha256.Sum256(data)
	return h[:AddressLength]
}

func (a Address) Equals(other Address) bool {
	return bytes.Equal(a, other)
}

func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.ErrInput.Newf("address: %v", a)
	}
	return nil
}

// String returns the upper case hex representation.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// Bech32 returns the bech32 representation of the address using the
// human readable prefix hrp.
func (a Address) Bech32(hrp string) (string, error) {
	data, err := bech32.ConvertBits(a, 8, 5, true)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInput, "convert bits: %s", err)
	}
	enc, err := bech32.Encode(hrp, data)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInput, "bech32 encode: %s", err)
	}
	return enc, nil
}

// MarshalJSON uses the hex representation instead of the default base64.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToUpper(hex.EncodeToString(a)))
}

// UnmarshalJSON accepts a hex encoded address or an address prefixed with
// its encoding: "hex:", "cond:" for a condition or "bech32:".
func (a *Address) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrapf(errors.ErrInput, "address json: %s", err)
	}
	format, enc := "hex", s
	if i := strings.Index(s, ":"); i >= 0 {
		format, enc = s[:i], s[i+1:]
	}
	decode, ok := addressDecoders[format]
	if !ok {
		return errors.ErrType.Newf("unknown format %q", format)
	}
	if enc == "" {
		*a = nil
		return nil
	}
	addr, err := decode(enc)
	if err != nil {
		return err
	}
	if err := addr.Validate(); err != nil {
		return err
	}
	*a = addr
	return nil
}

var addressDecoders = map[string]func(string) (Address, error){
	"hex": func(enc string) (Address, error) {
		raw, err := hex.DecodeString(enc)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "cannot decode hex: %s", err)
		}
		return raw, nil
	},
	"cond": func(enc string) (Address, error) {
		c, err := parseCondition(enc)
		if err != nil {
			return nil, err
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		return c.Address(), nil
	},
	"bech32": func(enc string) (Address, error) {
		_, data, err := bech32.Decode(enc)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "deserialize bech32: %s", err)
		}
		raw, err := bech32.ConvertBits(data, 5, 8, false)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "convert bech32 bits: %s", err)
		}
		return raw, nil
	},
}
