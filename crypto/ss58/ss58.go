/*
Package ss58 implements the SS58 address format used by Substrate based
chains to render account identifiers.

An address is the base58 encoding of the network prefix, the payload and a
checksum. The checksum is the leading bytes of
blake2b-512("SS58PRE" ++ prefix ++ payload).
*/
package ss58

import (
	"bytes"

	"github.com/bifrost-finance/linker/errors"
	"github.com/btcsuite/btcutil/base58"
	"golang.org/x/crypto/blake2b"
)

// BifrostPrefix is the network prefix of the Bifrost chains.
const BifrostPrefix uint16 = 6

// maxPrefix is the biggest network identifier that can be expressed using
// the two byte prefix form.
const maxPrefix = 1<<14 - 1

var checksumPrefix = []byte("SS58PRE")

// Decode converts given SS58 encoded representation into the network prefix
// and the raw payload. The checksum is verified.
func Decode(raw string) (uint16, []byte, error) {
	data := base58.Decode(raw)
	if len(data) < 2 {
		return 0, nil, errors.Wrapf(errors.ErrMalformedAddress, "ss58 %q too short", raw)
	}

	var (
		prefix    uint16
		prefixLen int
	)
	switch {
	case data[0] < 64:
		prefix, prefixLen = uint16(data[0]), 1
	case data[0] < 128:
		lower := (data[0]&0x3f)<<2 | data[1]>>6
		upper := data[1] & 0x3f
		prefix, prefixLen = uint16(lower)|uint16(upper)<<8, 2
	default:
		return 0, nil, errors.Wrapf(errors.ErrMalformedAddress, "ss58 %q: reserved prefix byte %d", raw, data[0])
	}

	sumLen, err := checksumLength(len(data) - prefixLen)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "ss58 %q", raw)
	}

	body, sum := data[:len(data)-sumLen], data[len(data)-sumLen:]
	if want := checksum(body)[:sumLen]; !bytes.Equal(want, sum) {
		return 0, nil, errors.Wrapf(errors.ErrMalformedAddress, "ss58 %q: invalid checksum", raw)
	}
	return prefix, body[prefixLen:], nil
}

// Encode converts given payload into SS58 representation using the given
// network prefix.
func Encode(prefix uint16, payload []byte) (string, error) {
	if prefix > maxPrefix {
		return "", errors.Wrapf(errors.ErrInvalidInput, "network prefix %d", prefix)
	}
	var body []byte
	if prefix < 64 {
		body = append(body, byte(prefix))
	} else {
		body = append(body,
			byte((prefix&0xfc)>>2)|0x40,
			byte(prefix>>8)|byte((prefix&0x03)<<6),
		)
	}
	body = append(body, payload...)

	n := len(payload) + 1
	if len(payload) >= 32 {
		n++
	}
	sumLen, err := checksumLength(n)
	if err != nil {
		return "", err
	}
	return base58.Encode(append(body, checksum(body)[:sumLen]...)), nil
}

// checksumLength returns the checksum size for an address whose payload
// together with its checksum takes n bytes.
func checksumLength(n int) (int, error) {
	switch n {
	case 2, 3, 5, 9:
		return 1, nil
	case 34, 35:
		return 2, nil
	default:
		return 0, errors.Wrapf(errors.ErrMalformedAddress, "unsupported payload size %d", n)
	}
}

func checksum(body []byte) []byte {
	h, _ := blake2b.New512(nil)
	_, _ = h.Write(checksumPrefix)
	_, _ = h.Write(body)
	return h.Sum(nil)
}
