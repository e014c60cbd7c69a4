package multisig

import (
	"context"
	"encoding/binary"
	"math/big"

	"github.com/bifrost-finance/linker"
	"github.com/bifrost-finance/linker/errors"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/cespare/xxhash/v2"
	"golang.org/x/crypto/blake2b"
)

const storageName = "Multisigs"

// Balance is an unsigned 128 bit little endian amount.
type Balance [16]byte

// Int returns the amount as a big integer.
func (b Balance) Int() *big.Int {
	be := make([]byte, len(b))
	for i := range b {
		be[len(b)-1-i] = b[i]
	}
	return new(big.Int).SetBytes(be)
}

// Pending is an operation waiting for approvals, as stored on chain.
type Pending struct {
	// When is the timepoint of the extrinsic that opened the operation.
	When      linker.Timepoint
	Deposit   Balance
	Depositor linker.AccountID
	// Approvals lists accounts that approved so far, sorted.
	Approvals []linker.AccountID
}

// ApprovedBy returns true if given account already approved the operation.
func (p Pending) ApprovedBy(a linker.AccountID) bool {
	for _, x := range p.Approvals {
		if x == a {
			return true
		}
	}
	return false
}

// PendingEntry is a pending operation together with the content hash of the
// call it executes.
type PendingEntry struct {
	CallHash linker.Hash
	Pending
}

// PendingPrefix returns the storage key prefix under which all pending
// operations of given multisig account are kept.
func PendingPrefix(account linker.AccountID) []byte {
	prefix := make([]byte, 0, 32+8+32)
	prefix = append(prefix, twox128([]byte(Section))...)
	prefix = append(prefix, twox128([]byte(storageName))...)
	prefix = append(prefix, twox64(account[:])...)
	return append(prefix, account[:]...)
}

// PendingKey returns the storage key of the pending operation of given
// multisig account executing the call with given content hash.
func PendingKey(account linker.AccountID, callHash linker.Hash) []byte {
	key := PendingPrefix(account)
	key = append(key, blake2128(callHash[:])...)
	return append(key, callHash[:]...)
}

// Encode returns the storage value of the pending operation.
func (p Pending) Encode() ([]byte, error) {
	raw, err := codec.Encode(p)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidType, err.Error())
	}
	return raw, nil
}

// ListPending returns all pending operations of given multisig account.
func ListPending(ctx context.Context, r linker.StorageReader, account linker.AccountID) ([]PendingEntry, error) {
	prefix := PendingPrefix(account)
	entries, err := r.StorageEntries(ctx, prefix)
	if err != nil {
		return nil, errors.Wrap(err, "list pending operations")
	}

	res := make([]PendingEntry, 0, len(entries))
	for _, e := range entries {
		pe, err := decodeEntry(prefix, e)
		if err != nil {
			return nil, err
		}
		res = append(res, pe)
	}
	return res, nil
}

func decodeEntry(prefix []byte, e linker.StorageEntry) (PendingEntry, error) {
	var pe PendingEntry
	if want := len(prefix) + 16 + len(pe.CallHash); len(e.Key) != want {
		return pe, errors.Wrapf(errors.ErrChainQuery, "pending key %x: want %d bytes, got %d", e.Key, want, len(e.Key))
	}
	copy(pe.CallHash[:], e.Key[len(e.Key)-len(pe.CallHash):])

	if err := codec.Decode(e.Value, &pe.Pending); err != nil {
		return pe, errors.Wrapf(errors.ErrChainQuery, "pending value %s: %s", pe.CallHash, err)
	}
	return pe, nil
}

// twox128 is the 128 bit xxhash used by Substrate for storage prefixes.
func twox128(data []byte) []byte {
	res := make([]byte, 16)
	binary.LittleEndian.PutUint64(res[:8], xxhash.Sum64(data))
	h := xxhash.NewWithSeed(1)
	_, _ = h.Write(data)
	binary.LittleEndian.PutUint64(res[8:], h.Sum64())
	return res
}

func twox64(data []byte) []byte {
	res := make([]byte, 8)
	binary.LittleEndian.PutUint64(res, xxhash.Sum64(data))
	return res
}

func blake2128(data []byte) []byte {
	h, _ := blake2b.New(16, nil)
	_, _ = h.Write(data)
	return h.Sum(nil)
}
