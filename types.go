package linker

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/bifrost-finance/linker/crypto/ss58"
	"github.com/bifrost-finance/linker/errors"
)

// AccountID is a primary chain account identifier.
type AccountID [32]byte

// ParseAccountID decodes an account from either its 0x prefixed hex form or
// its SS58 form. The SS58 network prefix is not checked.
func ParseAccountID(s string) (AccountID, error) {
	var id AccountID
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		raw, err := hex.DecodeString(s[2:])
		if err != nil {
			return id, errors.Wrapf(errors.ErrMalformedAddress, "account %q: %s", s, err)
		}
		if len(raw) != len(id) {
			return id, errors.Wrapf(errors.ErrMalformedAddress, "account %q: want %d bytes, got %d", s, len(id), len(raw))
		}
		copy(id[:], raw)
		return id, nil
	}

	_, raw, err := ss58.Decode(s)
	if err != nil {
		return id, errors.Wrap(err, "account")
	}
	if len(raw) != len(id) {
		return id, errors.Wrapf(errors.ErrMalformedAddress, "account %q: want %d bytes, got %d", s, len(id), len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

// String returns the 0x prefixed hex representation.
func (a AccountID) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// SS58 returns the account rendered for the network with given prefix.
func (a AccountID) SS58(prefix uint16) string {
	s, err := ss58.Encode(prefix, a[:])
	if err != nil {
		// Only an out of range prefix can fail.
		panic(err)
	}
	return s
}

// Less orders accounts by their raw bytes. This is the order the multisig
// pallet expects signatories in.
func (a AccountID) Less(b AccountID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

func (a AccountID) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AccountID) UnmarshalText(raw []byte) error {
	id, err := ParseAccountID(string(raw))
	if err != nil {
		return err
	}
	*a = id
	return nil
}

// ExternalAddress is a secondary ledger account as found in the account pair
// source. It is either a Filecoin delegated address (f410f.../t410f...) or a
// canonical 0x prefixed hex address.
type ExternalAddress string

// AccountLink pairs a primary chain account with an external account that
// should be registered as linked.
type AccountLink struct {
	PrimaryAccount  AccountID
	ExternalAccount ExternalAddress
}

func (l AccountLink) String() string {
	return fmt.Sprintf("%s -> %s", l.PrimaryAccount, l.ExternalAccount)
}

// Timepoint identifies the extrinsic that opened a pending multisig
// operation.
type Timepoint struct {
	Height uint32
	Index  uint32
}

func (t Timepoint) String() string {
	return fmt.Sprintf("%d-%d", t.Height, t.Index)
}

// Weight is an execution weight estimate. Both dimensions must be provided
// to the chain.
type Weight struct {
	RefTime   uint64
	ProofSize uint64
}

// Hash is a 32 byte blake2 digest. Call content hashes and transaction
// hashes are represented with it.
type Hash [32]byte

func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// IsZero returns true if no byte of the hash is set.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// SubmissionOutcome describes how a submitted transaction ended up on chain.
// It is produced once per submission.
type SubmissionOutcome struct {
	TxHash    Hash
	BlockHash Hash
	// Included is set when the transaction was seen in a block.
	Included bool
	// DispatchSucceeded is false when the transaction was included but the
	// wrapped call was rejected by the runtime.
	DispatchSucceeded bool
	// DispatchError describes the runtime rejection, if any.
	DispatchError string
}
