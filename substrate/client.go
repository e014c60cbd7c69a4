package substrate

import (
	"context"
	"encoding/binary"
	"math/big"
	"time"

	"github.com/avast/retry-go"
	"github.com/bifrost-finance/linker"
	"github.com/bifrost-finance/linker/errors"
	gsrpc "github.com/centrifuge/go-substrate-rpc-client/v4"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/tendermint/tendermint/libs/log"
)

// keysPageSize is the number of storage keys requested at once.
const keysPageSize = 512

// Client is a linker.Chain backed by a Substrate node.
type Client struct {
	api    *gsrpc.SubstrateAPI
	meta   *types.Metadata
	prefix uint16
	logger log.Logger
}

var _ linker.Chain = (*Client)(nil)

// DialOptions configures the connection.
type DialOptions struct {
	Endpoint string
	// Attempts is the number of connection attempts. Only establishing the
	// connection is retried.
	Attempts uint
	// SS58Prefix is used when an account must be given to the node in its
	// SS58 form.
	SS58Prefix uint16
}

// Dial connects to the node and fetches the latest runtime metadata.
func Dial(ctx context.Context, o DialOptions, logger log.Logger) (*Client, error) {
	if o.Attempts == 0 {
		o.Attempts = 1
	}

	var api *gsrpc.SubstrateAPI
	err := retry.Do(
		func() error {
			var err error
			api, err = gsrpc.NewSubstrateAPI(o.Endpoint)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(o.Attempts),
		retry.Delay(time.Second),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Info("dial failed", "endpoint", o.Endpoint, "attempt", n+1, "err", err)
		}),
	)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrChainQuery, "dial %s: %s", o.Endpoint, err)
	}

	meta, err := api.RPC.State.GetMetadataLatest()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrChainQuery, "metadata: %s", err)
	}
	logger.Info("connected", "endpoint", o.Endpoint, "metadata_version", meta.Version)

	return &Client{
		api:    api,
		meta:   meta,
		prefix: o.SS58Prefix,
		logger: logger,
	}, nil
}

// CallIndex resolves the call index from the runtime metadata.
func (c *Client) CallIndex(section, method string) (linker.CallIndex, error) {
	idx, err := c.meta.FindCallIndex(section + "." + method)
	if err != nil {
		return linker.CallIndex{}, errors.Wrapf(errors.ErrNotFound, "call %s.%s: %s", section, method, err)
	}
	return linker.CallIndex{SectionIndex: idx.SectionIndex, MethodIndex: idx.MethodIndex}, nil
}

// StorageEntries lists all entries under the prefix at the latest block.
func (c *Client) StorageEntries(ctx context.Context, prefix []byte) ([]linker.StorageEntry, error) {
	at, err := c.api.RPC.Chain.GetBlockHashLatest()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrChainQuery, "latest block: %s", err)
	}

	var entries []linker.StorageEntry
	// The first page starts at the prefix itself.
	var start interface{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(errors.ErrChainQuery, "list storage: %s", err)
		}

		var page []string
		if err := c.api.Client.Call(&page, "state_getKeysPaged", codec.HexEncodeToString(prefix), keysPageSize, start, at.Hex()); err != nil {
			return nil, errors.Wrapf(errors.ErrChainQuery, "storage keys: %s", err)
		}
		for _, k := range page {
			key, err := codec.HexDecodeString(k)
			if err != nil {
				return nil, errors.Wrapf(errors.ErrChainQuery, "storage key %q: %s", k, err)
			}
			value, err := c.api.RPC.State.GetStorageRaw(types.NewStorageKey(key), at)
			if err != nil {
				return nil, errors.Wrapf(errors.ErrChainQuery, "storage value %s: %s", k, err)
			}
			if value == nil {
				continue
			}
			entries = append(entries, linker.StorageEntry{Key: key, Value: []byte(*value)})
		}
		if len(page) < keysPageSize {
			return entries, nil
		}
		start = page[len(page)-1]
	}
}

// EstimateWeight queries the runtime for the dispatch weight of the call.
// The payer does not change the weight of a call.
func (c *Client) EstimateWeight(ctx context.Context, call []byte, payer linker.AccountID) (linker.Weight, error) {
	var res string
	if err := c.api.Client.Call(&res, "state_call", "TransactionPaymentCallApi_query_call_info", codec.HexEncodeToString(callInfoArgs(call))); err != nil {
		return linker.Weight{}, errors.Wrapf(errors.ErrChainQuery, "query call info: %s", err)
	}
	raw, err := codec.HexDecodeString(res)
	if err != nil {
		return linker.Weight{}, errors.Wrapf(errors.ErrChainQuery, "call info %q: %s", res, err)
	}
	w, err := decodeCallInfo(raw)
	if err != nil {
		return w, err
	}
	c.logger.Debug("weight estimated", "payer", payer.SS58(c.prefix), "ref_time", w.RefTime, "proof_size", w.ProofSize)
	return w, nil
}

// callInfoArgs encodes the arguments of query_call_info: the call followed
// by its length.
func callInfoArgs(call []byte) []byte {
	args := make([]byte, len(call)+4)
	copy(args, call)
	binary.LittleEndian.PutUint32(args[len(call):], uint32(len(call)))
	return args
}

type runtimeDispatchInfo struct {
	RefTime    types.UCompact
	ProofSize  types.UCompact
	Class      uint8
	PartialFee types.U128
}

func decodeCallInfo(raw []byte) (linker.Weight, error) {
	var info runtimeDispatchInfo
	if err := codec.Decode(raw, &info); err != nil {
		return linker.Weight{}, errors.Wrapf(errors.ErrChainQuery, "decode call info: %s", err)
	}
	return linker.Weight{
		RefTime:   (*big.Int)(&info.RefTime).Uint64(),
		ProofSize: (*big.Int)(&info.ProofSize).Uint64(),
	}, nil
}

// Close releases the connection.
func (c *Client) Close() {
	c.api.Client.Close()
}
