package substrate

import (
	"context"
	"sync"

	"github.com/bifrost-finance/linker"
	"github.com/bifrost-finance/linker/errors"
	"github.com/centrifuge/go-substrate-rpc-client/v4/rpc/author"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"golang.org/x/crypto/blake2b"
)

// SubmitAndWatch signs the encoded call with given keypair and sends it.
// The signer must be a *Keypair.
func (c *Client) SubmitAndWatch(ctx context.Context, call []byte, signer linker.Signer) (linker.Subscription, error) {
	k, ok := signer.(*Keypair)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "signer %T", signer)
	}
	if len(call) < 2 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "call without index")
	}

	ext := types.NewExtrinsic(types.Call{
		CallIndex: types.CallIndex{SectionIndex: call[0], MethodIndex: call[1]},
		Args:      types.Args(call[2:]),
	})
	opts, err := c.signatureOptions(k)
	if err != nil {
		return nil, err
	}
	if err := ext.Sign(k.pair, opts); err != nil {
		return nil, errors.Wrapf(errors.ErrSubmission, "sign: %s", err)
	}
	encoded, err := codec.Encode(ext)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrSubmission, "encode extrinsic: %s", err)
	}
	txHash := linker.Hash(blake2b.Sum256(encoded))

	sub, err := c.api.RPC.Author.SubmitAndWatchExtrinsic(ext)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrSubmission, "submit %s: %s", txHash, err)
	}
	c.logger.Info("extrinsic submitted", "tx", txHash.String(), "signer", k.id.SS58(c.prefix))

	s := &subscription{
		client:   c,
		sub:      sub,
		txHash:   txHash,
		statuses: make(chan linker.TxStatus),
		errs:     make(chan error, 1),
		done:     make(chan struct{}),
	}
	go s.run()
	return s, nil
}

func (c *Client) signatureOptions(k *Keypair) (types.SignatureOptions, error) {
	genesis, err := c.api.RPC.Chain.GetBlockHash(0)
	if err != nil {
		return types.SignatureOptions{}, errors.Wrapf(errors.ErrSubmission, "genesis hash: %s", err)
	}
	rv, err := c.api.RPC.State.GetRuntimeVersionLatest()
	if err != nil {
		return types.SignatureOptions{}, errors.Wrapf(errors.ErrSubmission, "runtime version: %s", err)
	}
	var nonce uint64
	if err := c.api.Client.Call(&nonce, "system_accountNextIndex", k.id.SS58(c.prefix)); err != nil {
		return types.SignatureOptions{}, errors.Wrapf(errors.ErrSubmission, "nonce: %s", err)
	}

	return types.SignatureOptions{
		BlockHash:          genesis,
		Era:                types.ExtrinsicEra{IsMortalEra: false},
		GenesisHash:        genesis,
		Nonce:              types.NewUCompactFromUInt(nonce),
		SpecVersion:        rv.SpecVersion,
		Tip:                types.NewUCompactFromUInt(0),
		TransactionVersion: rv.TransactionVersion,
	}, nil
}

type subscription struct {
	client   *Client
	sub      *author.ExtrinsicStatusSubscription
	txHash   linker.Hash
	statuses chan linker.TxStatus
	errs     chan error
	done     chan struct{}
	once     sync.Once
}

func (s *subscription) Statuses() <-chan linker.TxStatus { return s.statuses }

func (s *subscription) Err() <-chan error { return s.errs }

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		close(s.done)
		s.sub.Unsubscribe()
	})
}

func (s *subscription) run() {
	defer close(s.statuses)
	for {
		select {
		case <-s.done:
			return
		case err, ok := <-s.sub.Err():
			if ok && err != nil {
				s.errs <- err
			}
			return
		case raw, ok := <-s.sub.Chan():
			if !ok {
				return
			}
			st := toStatus(raw)
			st.TxHash = s.txHash
			if st.Kind == linker.StatusInBlock || st.Kind == linker.StatusFinalized {
				failure, err := s.client.dispatchError(st.BlockHash, s.txHash)
				st.DispatchError = failure
				st.Err = err
			}
			select {
			case s.statuses <- st:
			case <-s.done:
				return
			}
		}
	}
}

func toStatus(raw types.ExtrinsicStatus) linker.TxStatus {
	switch {
	case raw.IsFuture:
		return linker.TxStatus{Kind: linker.StatusFuture}
	case raw.IsReady:
		return linker.TxStatus{Kind: linker.StatusReady}
	case raw.IsBroadcast:
		return linker.TxStatus{Kind: linker.StatusBroadcast}
	case raw.IsInBlock:
		return linker.TxStatus{Kind: linker.StatusInBlock, BlockHash: linker.Hash(raw.AsInBlock)}
	case raw.IsRetracted:
		return linker.TxStatus{Kind: linker.StatusRetracted, BlockHash: linker.Hash(raw.AsRetracted)}
	case raw.IsFinalityTimeout:
		return linker.TxStatus{Kind: linker.StatusFinalityTimeout, BlockHash: linker.Hash(raw.AsFinalityTimeout)}
	case raw.IsFinalized:
		return linker.TxStatus{Kind: linker.StatusFinalized, BlockHash: linker.Hash(raw.AsFinalized)}
	case raw.IsUsurped:
		return linker.TxStatus{Kind: linker.StatusUsurped, BlockHash: linker.Hash(raw.AsUsurped)}
	case raw.IsDropped:
		return linker.TxStatus{Kind: linker.StatusDropped}
	default:
		return linker.TxStatus{Kind: linker.StatusInvalid}
	}
}
