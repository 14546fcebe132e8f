package valgov_test

import (
	"encoding/json"
	"fmt"
	"reflect"
	"testing"

	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionPrinting(t *testing.T) {
	Convey("Given a signature condition", t, func() {
		key := []byte{0xde, 0xad, 0xbe, 0xef}
		cond := valgov.SigCondition(key)

		Convey("the data section is hex encoded", func() {
			So(cond.String(), ShouldEqual, "sig/ed25519/DEADBEEF")
		})

		Convey("it parses into its sections", func() {
			ext, typ, data, err := cond.Parse()
			So(err, ShouldBeNil)
			So(ext, ShouldEqual, "sig")
			So(typ, ShouldEqual, "ed25519")
			So(data, ShouldResemble, key)
		})

		Convey("its address is printed as upper case hex", func() {
			addr := cond.Address()
			So(addr.String(), ShouldEqual, fmt.Sprintf("%X", []byte(addr)))
			So(valgov.Address(nil).String(), ShouldEqual, "(nil)")
		})
	})

	Convey("A malformed condition is reported", t, func() {
		cond := valgov.Condition("no sections")
		So(cond.Validate(), ShouldNotBeNil)
		So(cond.String(), ShouldStartWith, "Invalid Condition")
	})
}

func TestAddressUnmarshalJSON(t *testing.T) {
	cases := map[string]struct {
		json     string
		wantErr  *errors.Error
		wantAddr valgov.Address
	}{
		"default decoding": {
			json:     `"6865782d616464722d6f662d32302d6279746573"`,
			wantAddr: valgov.Address("hex-addr-of-20-bytes"),
		},
		"hex decoding": {
			json:     `"hex:6865782d616464722d6f662d32302d6279746573"`,
			wantAddr: valgov.Address("hex-addr-of-20-bytes"),
		},
		"cond decoding": {
			json:     `"cond:foo/bar/636f6e646974696f6e64617461"`,
			wantAddr: valgov.NewCondition("foo", "bar", []byte("conditiondata")).Address(),
		},
		"invalid condition format": {
			json:    `"cond:foo/636f6e646974696f6e64617461"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition data": {
			json:    `"cond:foo/bar/zzzzz"`,
			wantErr: errors.ErrInput,
		},
		"unknown format": {
			json:    `"foobar:xxx"`,
			wantErr: errors.ErrType,
		},
		"zero address": {
			json:     `""`,
			wantAddr: nil,
		},
		"zero hex address": {
			json:     `"hex:"`,
			wantAddr: nil,
		},
		"zero cond address": {
			json:     `"cond:"`,
			wantAddr: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a valgov.Address
			err := json.Unmarshal([]byte(tc.json), &a)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil && !reflect.DeepEqual(a, tc.wantAddr) {
				t.Fatalf("got address: %q", a)
			}
		})
	}
}

func TestConditionUnmarshalJSON(t *testing.T) {
	cases := map[string]struct {
		json          string
		wantErr       *errors.Error
		wantCondition valgov.Condition
	}{
		"default decoding": {
			json:          `"foo/bar/636f6e646974696f6e64617461"`,
			wantCondition: valgov.NewCondition("foo", "bar", []byte("conditiondata")),
		},
		"invalid condition format": {
			json:    `"foo/636f6e646974696f6e64617461"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition data": {
			json:    `"foo/bar/zzzzz"`,
			wantErr: errors.ErrInput,
		},
		"zero address": {
			json:          `""`,
			wantCondition: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got valgov.Condition
			err := json.Unmarshal([]byte(tc.json), &got)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil && !got.Equals(tc.wantCondition) {
				t.Fatalf("expected %q but got condition: %q", tc.wantCondition, got)
			}
		})
	}
}

func TestConditionMarshalJSON(t *testing.T) {
	cases := map[string]struct {
		source   valgov.Condition
		wantJson string
	}{
		"cond encoding": {
			source:   valgov.NewCondition("foo", "bar", []byte("conditiondata")),
			wantJson: `"foo/bar/636F6E646974696F6E64617461"`,
		},
		"nil encoding": {
			source:   nil,
			wantJson: `""`,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := json.Marshal(tc.source)
			require.NoError(t, err)
			assert.Equal(t, tc.wantJson, string(got))
		})
	}
}

func TestAddressBech32(t *testing.T) {
	addr := valgov.NewCondition("sig", "ed25519", []byte("some public key bytes")).Address()

	enc, err := addr.Bech32("valgov")
	require.NoError(t, err)

	raw, err := json.Marshal("bech32:" + enc)
	require.NoError(t, err)

	var got valgov.Address
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, addr, got)

	assert.Error(t, json.Unmarshal([]byte(`"bech32:not-a-valid-one"`), &got))
}

func TestAddressValidate(t *testing.T) {
	assert.NoError(t, valgov.NewAddress([]byte("anything")).Validate())
	assert.Error(t, valgov.Address("short").Validate())
	assert.Nil(t, valgov.NewAddress(nil))
}
