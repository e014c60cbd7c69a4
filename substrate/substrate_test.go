package substrate

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/bifrost-finance/linker"
	"github.com/bifrost-finance/linker/errors"
	"github.com/bifrost-finance/linker/linkertest"
	"github.com/bifrost-finance/linker/linkertest/assert"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"golang.org/x/crypto/blake2b"
)

func TestKeySource(t *testing.T) {
	signer, err := KeySource("//Alice", 6, linkertest.Alice)()
	assert.Nil(t, err)
	assert.Equal(t, linkertest.Alice, signer.AccountID())
	if _, ok := signer.(*Keypair); !ok {
		t.Fatalf("want keypair, got %T", signer)
	}

	_, err = KeySource("//Bob", 6, linkertest.Alice)()
	assert.IsErr(t, errors.ErrInvalidInput, err)
}

func TestKeypairHidesSecret(t *testing.T) {
	k, err := KeypairFromSecret("//Alice", 6)
	assert.Nil(t, err)
	assert.Equal(t, "keypair "+linkertest.Alice.String(), k.String())
}

func TestCallInfoArgs(t *testing.T) {
	got := callInfoArgs([]byte{0x00, 0x01, 0x08, 0x68, 0x69})
	assert.Equal(t, "000108686905000000", hex.EncodeToString(got))
}

func TestDecodeCallInfo(t *testing.T) {
	// ref_time 1e9, proof_size 65536, normal class, zero fee
	raw, _ := hex.DecodeString("02286bee" + "02000400" + "00" + "00000000000000000000000000000000")
	w, err := decodeCallInfo(raw)
	assert.Nil(t, err)
	assert.Equal(t, linker.Weight{RefTime: 1000000000, ProofSize: 65536}, w)

	_, err = decodeCallInfo(raw[:5])
	assert.IsErr(t, errors.ErrChainQuery, err)
}

func TestExtrinsicIndex(t *testing.T) {
	first := []byte{0x04, 0x01}
	second := []byte{0x08, 0x02, 0x03}
	extrinsics := []string{"0x" + hex.EncodeToString(first), "0x" + hex.EncodeToString(second)}

	i, err := extrinsicIndex(extrinsics, linker.Hash(blake2b.Sum256(second)))
	assert.Nil(t, err)
	assert.Equal(t, uint32(1), i)

	_, err = extrinsicIndex(extrinsics, linker.Hash{0x01})
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = extrinsicIndex([]string{"0xzz"}, linker.Hash{0x01})
	assert.IsErr(t, errors.ErrChainQuery, err)
}

func TestToStatus(t *testing.T) {
	block := types.Hash{0xb1}
	cases := map[string]struct {
		raw  types.ExtrinsicStatus
		want linker.TxStatus
	}{
		"future":    {raw: types.ExtrinsicStatus{IsFuture: true}, want: linker.TxStatus{Kind: linker.StatusFuture}},
		"ready":     {raw: types.ExtrinsicStatus{IsReady: true}, want: linker.TxStatus{Kind: linker.StatusReady}},
		"broadcast": {raw: types.ExtrinsicStatus{IsBroadcast: true}, want: linker.TxStatus{Kind: linker.StatusBroadcast}},
		"in block": {
			raw:  types.ExtrinsicStatus{IsInBlock: true, AsInBlock: block},
			want: linker.TxStatus{Kind: linker.StatusInBlock, BlockHash: linker.Hash{0xb1}},
		},
		"finalized": {
			raw:  types.ExtrinsicStatus{IsFinalized: true, AsFinalized: block},
			want: linker.TxStatus{Kind: linker.StatusFinalized, BlockHash: linker.Hash{0xb1}},
		},
		"retracted": {
			raw:  types.ExtrinsicStatus{IsRetracted: true, AsRetracted: block},
			want: linker.TxStatus{Kind: linker.StatusRetracted, BlockHash: linker.Hash{0xb1}},
		},
		"usurped": {
			raw:  types.ExtrinsicStatus{IsUsurped: true, AsUsurped: block},
			want: linker.TxStatus{Kind: linker.StatusUsurped, BlockHash: linker.Hash{0xb1}},
		},
		"dropped": {raw: types.ExtrinsicStatus{IsDropped: true}, want: linker.TxStatus{Kind: linker.StatusDropped}},
		"invalid": {raw: types.ExtrinsicStatus{IsInvalid: true}, want: linker.TxStatus{Kind: linker.StatusInvalid}},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, toStatus(tc.raw))
		})
	}
}

func TestSubmitRequiresKeypair(t *testing.T) {
	var c Client
	_, err := c.SubmitAndWatch(context.Background(), []byte{0, 1}, linkertest.Key{ID: linkertest.Alice})
	assert.IsErr(t, errors.ErrInvalidType, err)
}
