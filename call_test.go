package linker_test

import (
	"encoding/hex"
	"testing"

	"github.com/bifrost-finance/linker"
	"github.com/bifrost-finance/linker/errors"
	"github.com/bifrost-finance/linker/linkertest/assert"
)

var testIndex = linker.CallIndexMap{
	"System.remark":     {SectionIndex: 0, MethodIndex: 1},
	"Utility.batch_all": {SectionIndex: 1, MethodIndex: 2},
	"Utility.as_derive": {SectionIndex: 1, MethodIndex: 1},
}

func remark(s string) linker.Call {
	return linker.Call{Section: "System", Method: "remark", Args: []interface{}{[]byte(s)}}
}

func TestCallEncode(t *testing.T) {
	cases := map[string]struct {
		call    linker.Call
		wantHex string
		wantErr *errors.Error
	}{
		"bytes argument": {
			call:    remark("hi"),
			wantHex: "0001086869",
		},
		"list of calls": {
			call: linker.Call{
				Section: "Utility",
				Method:  "batch_all",
				Args:    []interface{}{[]linker.Call{remark("a"), remark("b")}},
			},
			wantHex: "0102" + "08" + "000104" + "61" + "000104" + "62",
		},
		"nested call and raw argument": {
			call: linker.Call{
				Section: "Utility",
				Method:  "as_derive",
				Args:    []interface{}{linker.Raw{0x05, 0x00}, remark("")},
			},
			wantHex: "0101" + "0500" + "000100",
		},
		"fixed size integers": {
			call: linker.Call{
				Section: "System",
				Method:  "remark",
				Args:    []interface{}{uint16(2), uint32(7)},
			},
			wantHex: "0001" + "0200" + "07000000",
		},
		"unknown call": {
			call:    linker.Call{Section: "Balances", Method: "transfer"},
			wantErr: errors.ErrNotFound,
		},
		"nil argument": {
			call:    linker.Call{Section: "System", Method: "remark", Args: []interface{}{nil}},
			wantErr: errors.ErrInvalidType,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			enc, err := tc.call.Encode(testIndex)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.wantHex, hex.EncodeToString(enc.Bytes))
			assert.Equal(t, linker.ContentHash(enc.Bytes), enc.Hash)
		})
	}
}

func TestContentHash(t *testing.T) {
	enc, err := remark("hi").Encode(testIndex)
	assert.Nil(t, err)
	assert.Equal(t, "0xd96eb4c1ff1ccfb47651cdff1249918053aeab2121ee7cff4076f9570c2b9f40", enc.Hash.String())
	assert.Equal(t, "0x0001086869", enc.String())
}

func TestCompact(t *testing.T) {
	cases := map[uint64]string{
		0:     "00",
		1:     "04",
		63:    "fc",
		64:    "0101",
		16383: "fdff",
		16384: "02000100",
	}
	for n, want := range cases {
		if got := hex.EncodeToString(linker.Compact(n)); got != want {
			t.Errorf("compact %d: want %s, got %s", n, want, got)
		}
	}
}
