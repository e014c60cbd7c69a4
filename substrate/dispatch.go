package substrate

import (
	"fmt"
	"strings"

	"github.com/bifrost-finance/linker"
	"github.com/bifrost-finance/linker/errors"
	"github.com/centrifuge/go-substrate-rpc-client/v4/registry"
	"github.com/centrifuge/go-substrate-rpc-client/v4/registry/parser"
	"github.com/centrifuge/go-substrate-rpc-client/v4/registry/retriever"
	"github.com/centrifuge/go-substrate-rpc-client/v4/registry/state"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"golang.org/x/crypto/blake2b"
)

const (
	extrinsicFailed  = "System.ExtrinsicFailed"
	multisigExecuted = "Multisig.MultisigExecuted"
)

// dispatchError describes why the call of the transaction in given block
// failed, or returns an empty string when it succeeded.
func (c *Client) dispatchError(block, txHash linker.Hash) (string, error) {
	var res struct {
		Block struct {
			Extrinsics []string `json:"extrinsics"`
		} `json:"block"`
	}
	if err := c.api.Client.Call(&res, "chain_getBlock", types.Hash(block).Hex()); err != nil {
		return "", errors.Wrapf(errors.ErrChainQuery, "block %s: %s", block, err)
	}
	index, err := extrinsicIndex(res.Block.Extrinsics, txHash)
	if err != nil {
		return "", errors.Wrapf(err, "block %s", block)
	}

	r, err := retriever.NewDefaultEventRetriever(state.NewEventProvider(c.api.RPC.State), c.api.RPC.State)
	if err != nil {
		return "", errors.Wrapf(errors.ErrChainQuery, "event retriever: %s", err)
	}
	events, err := r.GetEvents(types.Hash(block))
	if err != nil {
		return "", errors.Wrapf(errors.ErrChainQuery, "events of %s: %s", block, err)
	}
	return dispatchFailure(c.meta, events, index), nil
}

// extrinsicIndex finds the position of the transaction within the hex
// encoded block body.
func extrinsicIndex(extrinsics []string, txHash linker.Hash) (uint32, error) {
	for i, x := range extrinsics {
		raw, err := codec.HexDecodeString(x)
		if err != nil {
			return 0, errors.Wrapf(errors.ErrChainQuery, "extrinsic %d: %s", i, err)
		}
		if blake2b.Sum256(raw) == txHash {
			return uint32(i), nil
		}
	}
	return 0, errors.Wrapf(errors.ErrNotFound, "extrinsic %s", txHash)
}

// dispatchFailure looks at the events emitted while applying the extrinsic
// at given index. A failed extrinsic and a multisig execution that returned
// an error are both reported, as "<event>: <reason>".
func dispatchFailure(meta *types.Metadata, events []*parser.Event, index uint32) string {
	for _, e := range events {
		if e.Phase == nil || !e.Phase.IsApplyExtrinsic || e.Phase.AsApplyExtrinsic != index {
			continue
		}
		switch e.Name {
		case extrinsicFailed:
			name, value := eventField(e.Fields, "dispatch_error")
			return withReason(e.Name, describeDispatchError(meta, name, value))
		case multisigExecuted:
			name, value := eventField(e.Fields, "result")
			if reason := describeDispatchError(meta, name, value); reason != "" {
				return withReason(e.Name, reason)
			}
		}
	}
	return ""
}

func withReason(event, reason string) string {
	if reason == "" {
		return event
	}
	return event + ": " + reason
}

// eventField returns the field whose name ends with given suffix. Decoded
// field names are prefixed with the path of their type.
func eventField(fields registry.DecodedFields, suffix string) (string, interface{}) {
	for _, f := range fields {
		if f != nil && (f.Name == suffix || strings.HasSuffix(f.Name, "."+suffix)) {
			return f.Name, f.Value
		}
	}
	return "", nil
}

// describeDispatchError renders a decoded DispatchError, possibly wrapped
// in a Result. Module errors resolve to "Pallet.Error" and other variants
// to "Type.Variant". A value without any variant, such as Ok(()), renders
// as an empty string.
func describeDispatchError(meta *types.Metadata, name string, value interface{}) string {
	if pallet, code, ok := moduleError(value); ok {
		if s, ok := palletError(meta, pallet, code); ok {
			return s
		}
		return fmt.Sprintf("module %d error %d", pallet, code)
	}
	path, b, ok := variantByte(name, value)
	if !ok {
		return ""
	}
	if s, ok := variantName(meta, path, b); ok {
		return s
	}
	return fmt.Sprintf("%s variant %d", path, b)
}

// moduleError finds a composite carrying the pallet index and its error.
// Older runtimes encode the error as a single byte, newer ones as [u8; 4]
// where only the first byte selects the variant.
func moduleError(value interface{}) (uint8, uint8, bool) {
	fields, ok := value.(registry.DecodedFields)
	if !ok {
		return 0, 0, false
	}
	var (
		index, code       uint8
		hasIndex, hasCode bool
	)
	for _, f := range fields {
		if f == nil {
			continue
		}
		switch {
		case f.Name == "index" || strings.HasSuffix(f.Name, ".index"):
			index, hasIndex = u8(f.Value)
		case f.Name == "error" || strings.HasSuffix(f.Name, ".error"):
			code, hasCode = u8(f.Value)
			if items, ok := f.Value.([]interface{}); ok && len(items) > 0 {
				code, hasCode = u8(items[0])
			}
		}
	}
	if hasIndex && hasCode {
		return index, code, true
	}
	for _, f := range fields {
		if f == nil {
			continue
		}
		if index, code, ok := moduleError(f.Value); ok {
			return index, code, true
		}
	}
	return 0, 0, false
}

// variantByte finds the innermost fieldless variant. The path of its type
// is the name of the field holding it without the last segment.
func variantByte(name string, value interface{}) (string, byte, bool) {
	switch v := value.(type) {
	case byte:
		return typePath(name), v, true
	case registry.DecodedFields:
		for _, f := range v {
			if f == nil {
				continue
			}
			if path, b, ok := variantByte(f.Name, f.Value); ok {
				return path, b, true
			}
		}
	}
	return "", 0, false
}

func typePath(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[:i]
	}
	return ""
}

func u8(v interface{}) (uint8, bool) {
	switch n := v.(type) {
	case types.U8:
		return uint8(n), true
	case uint8:
		return n, true
	}
	return 0, false
}

// palletError resolves the error variant of the pallet with given index.
func palletError(meta *types.Metadata, pallet, code uint8) (string, bool) {
	if meta == nil {
		return "", false
	}
	for _, p := range meta.AsMetadataV14.Pallets {
		if uint8(p.Index) != pallet || !p.HasErrors {
			continue
		}
		t, ok := lookupType(meta, p.Errors.Type.Int64())
		if !ok {
			return "", false
		}
		for _, v := range t.Def.Variant.Variants {
			if uint8(v.Index) == code {
				return fmt.Sprintf("%s.%s", p.Name, v.Name), true
			}
		}
	}
	return "", false
}

// variantName resolves a variant of the enum type at given dotted path.
func variantName(meta *types.Metadata, path string, b byte) (string, bool) {
	if meta == nil || path == "" {
		return "", false
	}
	for _, pt := range meta.AsMetadataV14.Lookup.Types {
		if !pt.Type.Def.IsVariant || joinPath(pt.Type.Path) != path {
			continue
		}
		for _, v := range pt.Type.Def.Variant.Variants {
			if uint8(v.Index) == b {
				last := pt.Type.Path[len(pt.Type.Path)-1]
				return fmt.Sprintf("%s.%s", last, v.Name), true
			}
		}
	}
	return "", false
}

func lookupType(meta *types.Metadata, id int64) (types.Si1Type, bool) {
	for _, pt := range meta.AsMetadataV14.Lookup.Types {
		if pt.ID.Int64() == id && pt.Type.Def.IsVariant {
			return pt.Type, true
		}
	}
	return types.Si1Type{}, false
}

func joinPath(p types.Si1Path) string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = string(s)
	}
	return strings.Join(parts, ".")
}
