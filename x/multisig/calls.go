package multisig

import (
	"encoding/binary"

	"github.com/bifrost-finance/linker"
)

const (
	Section = "Multisig"

	AsMultiMethod           = "as_multi"
	AsMultiThreshold1Method = "as_multi_threshold_1"
)

// AsMulti returns the call approving the inner call on behalf of the local
// signer. A nil timepoint opens a new pending operation, otherwise the
// operation opened at the timepoint is approved. The weight bounds the
// execution of the inner call once the threshold is reached.
func AsMulti(s linker.SignerSet, when *linker.Timepoint, call linker.EncodedCall, w linker.Weight) linker.Call {
	return linker.Call{
		Section: Section,
		Method:  AsMultiMethod,
		Args: []interface{}{
			s.Threshold,
			s.Others,
			encodeTimepoint(when),
			linker.Raw(call.Bytes),
			encodeWeight(w),
		},
	}
}

// AsMultiThreshold1 returns the call dispatching the inner call immediately
// for a multisig account with a threshold of one.
func AsMultiThreshold1(s linker.SignerSet, call linker.EncodedCall) linker.Call {
	return linker.Call{
		Section: Section,
		Method:  AsMultiThreshold1Method,
		Args: []interface{}{
			s.Others,
			linker.Raw(call.Bytes),
		},
	}
}

// encodeTimepoint returns the SCALE encoding of Option<Timepoint>.
func encodeTimepoint(t *linker.Timepoint) linker.Raw {
	if t == nil {
		return linker.Raw{0x00}
	}
	raw := make([]byte, 9)
	raw[0] = 0x01
	binary.LittleEndian.PutUint32(raw[1:5], t.Height)
	binary.LittleEndian.PutUint32(raw[5:], t.Index)
	return raw
}

// encodeWeight returns the SCALE encoding of a two dimensional weight. Both
// dimensions are compact encoded.
func encodeWeight(w linker.Weight) linker.Raw {
	raw := linker.Compact(w.RefTime)
	return append(raw, linker.Compact(w.ProofSize)...)
}
