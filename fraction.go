package valgov

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/iov-one/valgov/errors"
)

// Fraction is a rational number used to declare shares of the electorate
// weight, for example the approval threshold of an election.
type Fraction struct {
	Numerator   uint32
	Denominator uint32
}

// String returns the fraction in the "n/d" notation.
func (f Fraction) String() string {
	return fmt.Sprintf("%d/%d", f.Numerator, f.Denominator)
}

// MarshalJSON encodes the fraction using the "n/d" notation.
func (f Fraction) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// UnmarshalJSON accepts both the "n/d" notation, where a single number n
// means n/1, and an object with numerator and denominator attributes.
func (f *Fraction) UnmarshalJSON(raw []byte) error {
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		frac, err := parseFraction(human)
		if err != nil {
			return err
		}
		*f = frac
		return nil
	}

	var verbose struct {
		Numerator   uint32 `json:"numerator"`
		Denominator uint32 `json:"denominator"`
	}
	if err := json.Unmarshal(raw, &verbose); err != nil {
		return errors.Wrapf(errors.ErrInput, "fraction: %s", err)
	}
	*f = Fraction{Numerator: verbose.Numerator, Denominator: verbose.Denominator}
	return nil
}

func parseFraction(raw string) (Fraction, error) {
	chunks := strings.SplitN(raw, "/", 2)
	n, err := strconv.ParseUint(strings.TrimSpace(chunks[0]), 10, 32)
	if err != nil {
		return Fraction{}, errors.Wrapf(errors.ErrInput, "fraction numerator: %s", err)
	}
	if len(chunks) == 1 {
		return Fraction{Numerator: uint32(n), Denominator: 1}, nil
	}
	d, err := strconv.ParseUint(strings.TrimSpace(chunks[1]), 10, 32)
	if err != nil {
		return Fraction{}, errors.Wrapf(errors.ErrInput, "fraction denominator: %s", err)
	}
	return Fraction{Numerator: uint32(n), Denominator: uint32(d)}, nil
}

// IsExceededBy returns true if value/total is strictly greater than the
// fraction. No division is done so no precision is lost. A zero total is
// never exceeded.
func (f Fraction) IsExceededBy(value, total uint64) bool {
	if total == 0 {
		return false
	}
	lhs := new(big.Int).Mul(new(big.Int).SetUint64(value), big.NewInt(int64(f.Denominator)))
	rhs := new(big.Int).Mul(new(big.Int).SetUint64(total), big.NewInt(int64(f.Numerator)))
	return lhs.Cmp(rhs) > 0
}

// Compare returns -1, 0 or 1 when f is lower than, equal to or greater than
// other. A zero denominator counts as one.
func (f Fraction) Compare(other Fraction) int {
	lhs := uint64(f.Numerator) * uint64(nonZero(other.Denominator))
	rhs := uint64(other.Numerator) * uint64(nonZero(f.Denominator))
	switch {
	case lhs < rhs:
		return -1
	case lhs > rhs:
		return 1
	default:
		return 0
	}
}

func nonZero(d uint32) uint32 {
	if d == 0 {
		return 1
	}
	return d
}
