package client

import (
	"context"

	"github.com/bifrost-finance/linker"
	"github.com/bifrost-finance/linker/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Submitter signs calls with the local signer key, sends them and waits for
// their inclusion.
type Submitter struct {
	chain  linker.TxSubmitter
	keys   linker.KeySource
	logger log.Logger
}

// NewSubmitter returns a submitter sending transactions through given chain.
// The key is loaded from keys for every submission and released when the
// submission returns.
func NewSubmitter(chain linker.TxSubmitter, keys linker.KeySource, logger log.Logger) *Submitter {
	return &Submitter{
		chain:  chain,
		keys:   keys,
		logger: logger,
	}
}

// Submit signs and sends the encoded call, then blocks until the transaction
// is in a block or finalized. Earlier statuses are ignored.
//
// An included transaction whose call failed is not an error: the returned
// outcome has DispatchSucceeded set to false. ErrSubmission is returned when
// the transaction was not sent or will never be included. ErrTimeout is
// returned when the context is done first. When the transaction is in a block
// but its call result cannot be read, the outcome is returned with Included
// set, together with the error of the chain.
func (s *Submitter) Submit(ctx context.Context, call []byte) (linker.SubmissionOutcome, error) {
	sub, err := s.send(ctx, call)
	if err != nil {
		return linker.SubmissionOutcome{}, err
	}
	defer sub.Unsubscribe()

	return WatchTx(ctx, sub, s.logger)
}

func (s *Submitter) send(ctx context.Context, call []byte) (linker.Subscription, error) {
	signer, err := s.keys()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrSubmission, "load signer key: %s", err)
	}

	sub, err := s.chain.SubmitAndWatch(ctx, call, signer)
	switch {
	case err == nil:
		s.logger.Debug("transaction sent", "signer", signer.AccountID().String())
		return sub, nil
	case ctx.Err() != nil:
		return nil, errors.Wrapf(errors.ErrTimeout, "submit: %s", err)
	case errors.ErrSubmission.Is(err):
		return nil, err
	default:
		return nil, errors.Wrapf(errors.ErrSubmission, "submit: %s", err)
	}
}

// WatchTx blocks until the subscription reports the transaction in a block
// or finalized. It does not release the subscription.
func WatchTx(ctx context.Context, sub linker.Subscription, logger log.Logger) (linker.SubmissionOutcome, error) {
	var out linker.SubmissionOutcome

	statuses, errc := sub.Statuses(), sub.Err()
	for {
		select {
		case <-ctx.Done():
			return out, errors.Wrapf(errors.ErrTimeout, "waiting for inclusion of %s: %s", out.TxHash, ctx.Err())
		case err, ok := <-errc:
			if !ok {
				errc = nil
				continue
			}
			return out, streamError(err)
		case st, ok := <-statuses:
			if !ok {
				return out, errors.Wrapf(errors.ErrSubmission, "status stream of %s closed before inclusion", out.TxHash)
			}
			out.TxHash = st.TxHash
			logger.Debug("transaction status", "tx_hash", st.TxHash.String(), "status", st.Kind.String())

			switch {
			case st.Kind.Included() && st.Err != nil:
				// Already on chain, not safe to retry.
				out.BlockHash = st.BlockHash
				out.Included = true
				return out, errors.Wrapf(st.Err, "dispatch result of %s in block %s", st.TxHash, st.BlockHash)
			case st.Kind.Included():
				out.BlockHash = st.BlockHash
				out.Included = true
				out.DispatchError = st.DispatchError
				out.DispatchSucceeded = st.DispatchError == ""
				return out, nil
			case st.Kind.Rejected():
				return out, errors.Wrapf(errors.ErrSubmission, "transaction %s %s", st.TxHash, st.Kind)
			}
		}
	}
}

// streamError keeps the kind of registered errors. Any other stream failure
// happened before inclusion was observed.
func streamError(err error) error {
	if errors.Code(err) > 1 {
		return errors.Wrap(err, "status stream")
	}
	return errors.Wrapf(errors.ErrSubmission, "status stream: %s", err)
}
