package linkertest

import (
	"bytes"
	"context"
	"sync"

	"github.com/bifrost-finance/linker"
	"github.com/bifrost-finance/linker/errors"
)

var _ linker.Chain = (*Chain)(nil)

// Submission is a transaction received by the in-memory chain.
type Submission struct {
	Call   []byte
	Signer linker.AccountID
}

// Chain is an in-memory linker.Chain. Exported fields configure its
// behaviour and must be set before use.
type Chain struct {
	linker.CallIndexMap

	// Entries is the storage served by StorageEntries.
	Entries   []linker.StorageEntry
	QueryErr  error
	Weight    linker.Weight
	WeightErr error

	// SubmitErr rejects every submission before any status is sent.
	SubmitErr error
	// Script is the list of statuses sent for each submission. When
	// empty, a ready status followed by a successful in block status is
	// sent.
	Script []linker.TxStatus
	// StreamErr is sent on the error channel after the script.
	StreamErr error
	// CloseStream closes the status stream after the script.
	CloseStream bool
	// OnSubmit is called with every accepted submission.
	OnSubmit func(Submission)

	mu           sync.Mutex
	submissions  []Submission
	estimates    int
	unsubscribed int
}

// NewChain returns an in-memory chain using the Bifrost call indexes.
func NewChain() *Chain {
	return &Chain{CallIndexMap: CallIndex}
}

func (c *Chain) StorageEntries(ctx context.Context, prefix []byte) ([]linker.StorageEntry, error) {
	if c.QueryErr != nil {
		return nil, c.QueryErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	var res []linker.StorageEntry
	for _, e := range c.Entries {
		if bytes.HasPrefix(e.Key, prefix) {
			res = append(res, e)
		}
	}
	return res, nil
}

func (c *Chain) EstimateWeight(ctx context.Context, call []byte, payer linker.AccountID) (linker.Weight, error) {
	c.mu.Lock()
	c.estimates++
	c.mu.Unlock()
	return c.Weight, c.WeightErr
}

func (c *Chain) SubmitAndWatch(ctx context.Context, call []byte, signer linker.Signer) (linker.Subscription, error) {
	if _, ok := signer.(Key); !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "signer %T", signer)
	}
	if c.SubmitErr != nil {
		return nil, c.SubmitErr
	}

	s := Submission{Call: append([]byte(nil), call...), Signer: signer.AccountID()}
	c.mu.Lock()
	c.submissions = append(c.submissions, s)
	c.mu.Unlock()
	if c.OnSubmit != nil {
		c.OnSubmit(s)
	}

	script := c.Script
	if len(script) == 0 {
		script = []linker.TxStatus{
			{Kind: linker.StatusReady},
			{Kind: linker.StatusInBlock, BlockHash: linker.Hash{0xb1}},
		}
	}
	txHash := linker.ContentHash(append(s.Call, s.Signer[:]...))

	sub := &subscription{
		chain:    c,
		statuses: make(chan linker.TxStatus, len(script)),
		errs:     make(chan error, 1),
	}
	for _, st := range script {
		if st.TxHash.IsZero() {
			st.TxHash = txHash
		}
		sub.statuses <- st
	}
	if c.StreamErr != nil {
		sub.errs <- c.StreamErr
	}
	if c.CloseStream {
		close(sub.statuses)
	}
	return sub, nil
}

// Submissions returns all transactions received so far.
func (c *Chain) Submissions() []Submission {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Submission(nil), c.submissions...)
}

// Estimates returns the number of weight estimations requested.
func (c *Chain) Estimates() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.estimates
}

// Unsubscribed returns how many subscriptions were released.
func (c *Chain) Unsubscribed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unsubscribed
}

type subscription struct {
	chain    *Chain
	statuses chan linker.TxStatus
	errs     chan error
	once     sync.Once
}

func (s *subscription) Statuses() <-chan linker.TxStatus { return s.statuses }

func (s *subscription) Err() <-chan error { return s.errs }

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.chain.mu.Lock()
		s.chain.unsubscribed++
		s.chain.mu.Unlock()
	})
}
