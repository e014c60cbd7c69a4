package multisig

import (
	"context"

	"github.com/bifrost-finance/linker"
	"github.com/bifrost-finance/linker/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Chain is the subset of chain capabilities needed to coordinate a
// multisig operation.
type Chain interface {
	linker.CallIndexer
	linker.StorageReader
	linker.WeightEstimator
}

// Submitter signs and sends an encoded call and waits until it is included.
type Submitter interface {
	Submit(ctx context.Context, call []byte) (linker.SubmissionOutcome, error)
}

// State is the outcome of a single propose or approve step.
type State uint8

const (
	// StateProposed means a new pending operation was opened.
	StateProposed State = iota + 1
	// StateApproved means the local signer approved a pending operation
	// and more approvals are required.
	StateApproved
	// StateExecuted means the threshold was reached and the call was
	// dispatched.
	StateExecuted
	// StateNothingToApprove means no pending operation matches the call.
	StateNothingToApprove
	// StateAlreadyApproved means the local signer approved the pending
	// operation before.
	StateAlreadyApproved
)

func (s State) String() string {
	switch s {
	case StateProposed:
		return "proposed"
	case StateApproved:
		return "approved"
	case StateExecuted:
		return "executed"
	case StateNothingToApprove:
		return "nothing_to_approve"
	case StateAlreadyApproved:
		return "already_approved"
	default:
		return "unknown"
	}
}

// Result describes what a propose or approve step did.
type Result struct {
	State    State
	CallHash linker.Hash
	// Timepoint of the approved pending operation.
	Timepoint linker.Timepoint
	// Outcome is set only when a transaction was submitted.
	Outcome *linker.SubmissionOutcome
}

// Coordinator proposes and approves calls of a multisig account on behalf of
// one of its signers.
type Coordinator struct {
	chain     Chain
	submitter Submitter
	signers   linker.SignerSet
	account   linker.AccountID
	logger    log.Logger
}

// NewCoordinator returns a coordinator for the multisig account of the
// signer set.
func NewCoordinator(chain Chain, submitter Submitter, signers linker.SignerSet, logger log.Logger) (*Coordinator, error) {
	if err := signers.Validate(); err != nil {
		return nil, errors.Wrap(err, "signer set")
	}
	account := signers.MultisigAccount()
	return &Coordinator{
		chain:     chain,
		submitter: submitter,
		signers:   signers,
		account:   account,
		logger:    logger.With("multisig", account.String()),
	}, nil
}

// Account returns the multisig account.
func (c *Coordinator) Account() linker.AccountID {
	return c.account
}

// Propose opens a pending operation for the call, carrying the first
// approval. With a threshold of one the call is dispatched right away.
func (c *Coordinator) Propose(ctx context.Context, call linker.Call) (Result, error) {
	enc, err := call.Encode(c.chain)
	if err != nil {
		return Result{}, errors.Wrap(err, "encode call")
	}
	res := Result{CallHash: enc.Hash}
	logger := c.logger.With("call_hash", enc.Hash.String())

	var (
		multi linker.Call
		state State
	)
	if c.signers.Threshold == 1 {
		multi = AsMultiThreshold1(c.signers, enc)
		state = StateExecuted
	} else {
		w, err := c.chain.EstimateWeight(ctx, enc.Bytes, c.signers.Signer)
		if err != nil {
			return res, errors.Wrap(err, "estimate weight")
		}
		logger.Debug("estimated weight", "ref_time", w.RefTime, "proof_size", w.ProofSize)
		multi = AsMulti(c.signers, nil, enc, w)
		state = StateProposed
	}

	logger.Info("proposing", "call", call.Name(), "threshold", c.signers.Threshold)
	out, err := c.submit(ctx, multi)
	res.Outcome = out
	if err != nil {
		return res, errors.Wrap(err, "propose")
	}
	res.State = state
	logger.Info("proposed", "tx_hash", out.TxHash.String(), "block_hash", out.BlockHash.String(), "state", res.State)
	return res, nil
}

// Approve approves the pending operation matching the call. It submits
// nothing when no operation matches or when the local signer approved it
// already.
func (c *Coordinator) Approve(ctx context.Context, call linker.Call) (Result, error) {
	enc, err := call.Encode(c.chain)
	if err != nil {
		return Result{}, errors.Wrap(err, "encode call")
	}
	res := Result{CallHash: enc.Hash}
	logger := c.logger.With("call_hash", enc.Hash.String())

	entries, err := ListPending(ctx, c.chain, c.account)
	if err != nil {
		return res, err
	}

	var matches []PendingEntry
	for _, e := range entries {
		if e.CallHash == enc.Hash {
			matches = append(matches, e)
		}
	}

	switch len(matches) {
	case 0:
		logger.Info("nothing to approve", "pending", len(entries))
		res.State = StateNothingToApprove
		return res, nil
	case 1:
	default:
		logger.Error("more than one pending operation for a call", "matches", len(matches))
		return res, errors.Wrapf(errors.ErrConsistency, "%d pending operations for call %s", len(matches), enc.Hash)
	}

	pending := matches[0]
	res.Timepoint = pending.When
	logger = logger.With("timepoint", pending.When.String())

	if len(pending.Approvals) == 0 {
		// The chain records the approval of the proposer when the operation
		// is opened.
		logger.Error("pending operation without approvals", "depositor", pending.Depositor.String())
		return res, errors.Wrapf(errors.ErrConsistency, "pending operation %s at %s has no approvals", enc.Hash, pending.When)
	}
	if pending.ApprovedBy(c.signers.Signer) {
		logger.Info("already approved", "approvals", len(pending.Approvals))
		res.State = StateAlreadyApproved
		return res, nil
	}

	w, err := c.chain.EstimateWeight(ctx, enc.Bytes, c.signers.Signer)
	if err != nil {
		return res, errors.Wrap(err, "estimate weight")
	}
	logger.Debug("estimated weight", "ref_time", w.RefTime, "proof_size", w.ProofSize)

	when := pending.When
	// Reported only once the call went through.
	state := StateApproved
	if len(pending.Approvals)+1 >= int(c.signers.Threshold) {
		state = StateExecuted
	}

	logger.Info("approving", "approvals", len(pending.Approvals), "threshold", c.signers.Threshold,
		"depositor", pending.Depositor.String(), "deposit", pending.Deposit.Int().String())
	out, err := c.submit(ctx, AsMulti(c.signers, &when, enc, w))
	res.Outcome = out
	if err != nil {
		return res, errors.Wrap(err, "approve")
	}
	res.State = state
	logger.Info("approved", "tx_hash", out.TxHash.String(), "block_hash", out.BlockHash.String(), "state", res.State)
	return res, nil
}

// Pending returns all pending operations of the multisig account.
func (c *Coordinator) Pending(ctx context.Context) ([]PendingEntry, error) {
	return ListPending(ctx, c.chain, c.account)
}

// submit sends the multisig call. An included transaction whose call was
// rejected returns ErrDispatch together with the outcome.
func (c *Coordinator) submit(ctx context.Context, multi linker.Call) (*linker.SubmissionOutcome, error) {
	enc, err := multi.Encode(c.chain)
	if err != nil {
		return nil, errors.Wrap(err, "encode multisig call")
	}
	out, err := c.submitter.Submit(ctx, enc.Bytes)
	if err != nil {
		if out.Included {
			c.logger.Error("included with unknown result", "tx_hash", out.TxHash.String(), "block_hash", out.BlockHash.String(), "err", err)
			return &out, err
		}
		return nil, err
	}
	if !out.DispatchSucceeded {
		c.logger.Error("dispatch failed", "tx_hash", out.TxHash.String(), "block_hash", out.BlockHash.String(), "reason", out.DispatchError)
		return &out, errors.Wrapf(errors.ErrDispatch, "tx %s: %s", out.TxHash, out.DispatchError)
	}
	return &out, nil
}
