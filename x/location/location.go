package location

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/bifrost-finance/linker"
	"github.com/bifrost-finance/linker/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/filecoin-project/go-address"
	"github.com/multiformats/go-varint"
)

// UnrelatedChainParents is the parents value marking an account on a chain
// that is not hierarchically related to the current one.
const UnrelatedChainParents = 100

// eamNamespace is the actor ID of the Ethereum Address Manager. Delegated
// addresses in this namespace carry an Ethereum address.
const eamNamespace = 10

const (
	junctionsX1          = 0x01
	junctionAccountKey20 = 0x03
	optionNone           = 0x00
)

// AccountDescriptor is a location pointing at a 20 byte account key on an
// unrelated chain.
type AccountDescriptor struct {
	Parents uint8
	Key     common.Address
}

// ToAccountDescriptor returns the location of given external account. A
// delegated address is first converted into its canonical hex form, any
// other input must already be a 0x prefixed 20 byte hex address.
func ToAccountDescriptor(addr linker.ExternalAddress) (AccountDescriptor, error) {
	key, err := CanonicalAddress(addr)
	if err != nil {
		return AccountDescriptor{}, err
	}
	return AccountDescriptor{
		Parents: UnrelatedChainParents,
		Key:     key,
	}, nil
}

// CanonicalAddress returns the 20 byte address behind an external address.
func CanonicalAddress(addr linker.ExternalAddress) (common.Address, error) {
	s := strings.TrimSpace(string(addr))
	if isDelegated(s) {
		return fromDelegated(s)
	}
	if !strings.HasPrefix(s, "0x") || !common.IsHexAddress(s) {
		return common.Address{}, errors.Wrapf(errors.ErrMalformedAddress,
			"%q is neither a delegated nor a hex address", s)
	}
	return common.HexToAddress(s), nil
}

func isDelegated(s string) bool {
	return len(s) > 2 && (s[0] == address.MainnetPrefix[0] || s[0] == address.TestnetPrefix[0]) && s[1] == '4'
}

func fromDelegated(s string) (common.Address, error) {
	a, err := address.NewFromString(s)
	if err != nil {
		return common.Address{}, errors.Wrapf(errors.ErrMalformedAddress, "delegated address %q: %s", s, err)
	}
	if a.Protocol() != address.Delegated {
		return common.Address{}, errors.Wrapf(errors.ErrMalformedAddress, "%q: protocol %d is not delegated", s, a.Protocol())
	}

	payload := a.Payload()
	namespace, n, err := varint.FromUvarint(payload)
	if err != nil {
		return common.Address{}, errors.Wrapf(errors.ErrMalformedAddress, "%q: namespace: %s", s, err)
	}
	if namespace != eamNamespace {
		return common.Address{}, errors.Wrapf(errors.ErrMalformedAddress, "%q: namespace %d is not the Ethereum address manager", s, namespace)
	}
	sub := payload[n:]
	if len(sub) != common.AddressLength {
		return common.Address{}, errors.Wrapf(errors.ErrMalformedAddress, "%q: sub address of %d bytes", s, len(sub))
	}
	return common.BytesToAddress(sub), nil
}

// Encode returns the SCALE encoding of the descriptor as a multilocation.
func (d AccountDescriptor) Encode() linker.Raw {
	raw := make([]byte, 0, 4+common.AddressLength)
	raw = append(raw, d.Parents, junctionsX1, junctionAccountKey20, optionNone)
	return append(raw, d.Key.Bytes()...)
}

// MarshalJSON renders the descriptor the way chain explorers and the
// polkadot.js API print a multilocation.
func (d AccountDescriptor) MarshalJSON() ([]byte, error) {
	type accountKey20 struct {
		Network *string `json:"network"`
		Key     string  `json:"key"`
	}
	type junction struct {
		AccountKey20 accountKey20
	}
	type interior struct {
		X1 junction
	}
	return json.Marshal(struct {
		Parents  uint8    `json:"parents"`
		Interior interior `json:"interior"`
	}{
		Parents: d.Parents,
		Interior: interior{X1: junction{AccountKey20: accountKey20{
			Key: "0x" + hex.EncodeToString(d.Key.Bytes()),
		}}},
	})
}
