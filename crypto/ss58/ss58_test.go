package ss58

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/bifrost-finance/linker/errors"
	"github.com/bifrost-finance/linker/linkertest/assert"
)

func TestEncodeDecode(t *testing.T) {
	alice := fromHex(t, "d43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d")

	cases := map[string]struct {
		prefix uint16
		enc    string
	}{
		"generic substrate": {
			prefix: 42,
			enc:    "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY",
		},
		"bifrost": {
			prefix: BifrostPrefix,
			enc:    "gXCcrjjFX3RPyhHYgwZDmw8oe4JFpd5anko3nTY8VrmnJpe",
		},
		"two byte prefix": {
			prefix: 1284,
			enc:    "VdvKmYJfD4VXA9fzz1SbmCo2eYHSzUFbaDCZSuaNKJAe8YNg6",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := Encode(tc.prefix, alice)
			if err != nil {
				t.Fatalf("cannot encode: %s", err)
			}
			if got != tc.enc {
				t.Fatalf("invalid encoding: %q", got)
			}

			prefix, payload, err := Decode(tc.enc)
			if err != nil {
				t.Fatalf("cannot decode: %s", err)
			}
			if prefix != tc.prefix {
				t.Fatalf("want prefix %d, got %d", tc.prefix, prefix)
			}
			if !bytes.Equal(alice, payload) {
				t.Logf("want %x", alice)
				t.Logf("got  %x", payload)
				t.Fatal("invalid decode")
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"not base58":       "0OIl",
		"changed checksum": "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQZ",
		"hex address":      "0xd43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d",
		"truncated":        "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHG",
	}
	for testName, raw := range cases {
		t.Run(testName, func(t *testing.T) {
			_, _, err := Decode(raw)
			assert.IsErr(t, errors.ErrMalformedAddress, err)
		})
	}
}

func TestEncodeInvalidPrefix(t *testing.T) {
	_, err := Encode(1<<14, make([]byte, 32))
	assert.IsErr(t, errors.ErrInvalidInput, err)
}

func fromHex(t testing.TB, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatal(err)
	}
	return b
}
