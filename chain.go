package linker

import (
	"context"
)

// StorageEntry is a single raw key/value pair of the chain state.
type StorageEntry struct {
	Key   []byte
	Value []byte
}

// StorageReader gives access to the chain state.
type StorageReader interface {
	// StorageEntries returns all entries whose key starts with given
	// prefix.
	StorageEntries(ctx context.Context, prefix []byte) ([]StorageEntry, error)
}

// WeightEstimator estimates the execution weight of an encoded call paid by
// given account.
type WeightEstimator interface {
	EstimateWeight(ctx context.Context, call []byte, payer AccountID) (Weight, error)
}

// TxSubmitter signs an encoded call, sends it and returns a subscription to
// its inclusion status updates.
type TxSubmitter interface {
	SubmitAndWatch(ctx context.Context, call []byte, signer Signer) (Subscription, error)
}

// Subscription is a stream of status updates for one transaction. It must
// always be released with Unsubscribe.
type Subscription interface {
	Statuses() <-chan TxStatus
	Err() <-chan error
	Unsubscribe()
}

// Chain combines all chain capabilities the linker depends on.
type Chain interface {
	CallIndexer
	StorageReader
	WeightEstimator
	TxSubmitter
}

// Signer is a signing identity. Implementations hold the key material and are
// understood by the TxSubmitter they are given to.
type Signer interface {
	AccountID() AccountID
}

// KeySource loads the signing identity. It is called right before a
// transaction is signed.
type KeySource func() (Signer, error)

// StatusKind is the lifecycle stage reported for a submitted transaction.
type StatusKind uint8

const (
	StatusFuture StatusKind = iota
	StatusReady
	StatusBroadcast
	StatusInBlock
	StatusRetracted
	StatusFinalityTimeout
	StatusFinalized
	StatusUsurped
	StatusDropped
	StatusInvalid
)

var statusNames = map[StatusKind]string{
	StatusFuture:          "future",
	StatusReady:           "ready",
	StatusBroadcast:       "broadcast",
	StatusInBlock:         "in_block",
	StatusRetracted:       "retracted",
	StatusFinalityTimeout: "finality_timeout",
	StatusFinalized:       "finalized",
	StatusUsurped:         "usurped",
	StatusDropped:         "dropped",
	StatusInvalid:         "invalid",
}

func (k StatusKind) String() string {
	if n, ok := statusNames[k]; ok {
		return n
	}
	return "unknown"
}

// Included returns true for statuses reporting the transaction in a block.
func (k StatusKind) Included() bool {
	return k == StatusInBlock || k == StatusFinalized
}

// Rejected returns true for statuses after which the transaction will never
// be included.
func (k StatusKind) Rejected() bool {
	return k == StatusUsurped || k == StatusDropped || k == StatusInvalid
}

// TxStatus is a single status update of a submitted transaction.
type TxStatus struct {
	Kind   StatusKind
	TxHash Hash
	// BlockHash is set for in block and finalized statuses.
	BlockHash Hash
	// DispatchError is set when the transaction was included but its call
	// failed, or when the multisig call it dispatched returned an error. It
	// reads "<event>: <Pallet.Error>" when the reason could be decoded.
	DispatchError string
	// Err is set when the transaction was included but the result of its
	// call could not be read.
	Err error
}
