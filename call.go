package linker

import (
	"bytes"
	"encoding/hex"

	"github.com/bifrost-finance/linker/errors"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"golang.org/x/crypto/blake2b"
)

// Call is a structured description of a runtime call. It is turned into its
// canonical wire form with Encode.
//
// Arguments are SCALE encoded in order. A nested Call is encoded inline, a
// list of calls is prefixed with its compact length and a Raw value is copied
// as it is. Any other value must be understood by the SCALE codec.
type Call struct {
	Section string
	Method  string
	Args    []interface{}
}

// Name returns the Section.method name of the call.
func (c Call) Name() string {
	return c.Section + "." + c.Method
}

// Raw is an argument that is already SCALE encoded.
type Raw []byte

// CallIndex locates a call in the runtime metadata.
type CallIndex struct {
	SectionIndex uint8
	MethodIndex  uint8
}

// CallIndexer resolves call names into call indexes.
type CallIndexer interface {
	CallIndex(section, method string) (CallIndex, error)
}

// CallIndexMap is a CallIndexer backed by a static "Section.method" table.
type CallIndexMap map[string]CallIndex

func (m CallIndexMap) CallIndex(section, method string) (CallIndex, error) {
	idx, ok := m[section+"."+method]
	if !ok {
		return CallIndex{}, errors.Wrapf(errors.ErrNotFound, "call %s.%s", section, method)
	}
	return idx, nil
}

// EncodedCall is the wire form of a call together with its content hash.
type EncodedCall struct {
	Bytes []byte
	Hash  Hash
}

func (e EncodedCall) String() string {
	return "0x" + hex.EncodeToString(e.Bytes)
}

// Encode returns the canonical encoding of the call. The same call always
// encodes into the same bytes, so its hash is stable across all signers.
func (c Call) Encode(idx CallIndexer) (EncodedCall, error) {
	var buf bytes.Buffer
	if err := c.encodeTo(&buf, idx); err != nil {
		return EncodedCall{}, err
	}
	return EncodedCall{
		Bytes: buf.Bytes(),
		Hash:  ContentHash(buf.Bytes()),
	}, nil
}

func (c Call) encodeTo(buf *bytes.Buffer, idx CallIndexer) error {
	ci, err := idx.CallIndex(c.Section, c.Method)
	if err != nil {
		return errors.Wrapf(err, "index of %s", c.Name())
	}
	buf.WriteByte(ci.SectionIndex)
	buf.WriteByte(ci.MethodIndex)

	for i, arg := range c.Args {
		if err := encodeArg(buf, idx, arg); err != nil {
			return errors.Wrapf(err, "%s argument %d", c.Name(), i)
		}
	}
	return nil
}

func encodeArg(buf *bytes.Buffer, idx CallIndexer, arg interface{}) error {
	switch a := arg.(type) {
	case Call:
		return a.encodeTo(buf, idx)
	case []Call:
		buf.Write(Compact(uint64(len(a))))
		for _, c := range a {
			if err := c.encodeTo(buf, idx); err != nil {
				return err
			}
		}
		return nil
	case Raw:
		buf.Write(a)
		return nil
	case nil:
		return errors.Wrap(errors.ErrInvalidType, "nil argument")
	default:
		raw, err := codec.Encode(a)
		if err != nil {
			return errors.Wrapf(errors.ErrInvalidType, "%T: %s", a, err)
		}
		buf.Write(raw)
		return nil
	}
}

// Compact returns the SCALE compact encoding of n.
func Compact(n uint64) Raw {
	raw, err := codec.Encode(types.NewUCompactFromUInt(n))
	if err != nil {
		// Encoding a compact integer into memory cannot fail.
		panic(err)
	}
	return raw
}

// ContentHash returns the blake2-256 digest of an encoded call. It is the
// key under which the chain stores pending multisig operations.
func ContentHash(encoded []byte) Hash {
	return blake2b.Sum256(encoded)
}
