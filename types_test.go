package linker_test

import (
	"encoding/json"
	"testing"

	"github.com/bifrost-finance/linker"
	"github.com/bifrost-finance/linker/errors"
	"github.com/bifrost-finance/linker/linkertest"
	"github.com/bifrost-finance/linker/linkertest/assert"
)

func TestParseAccountID(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    linker.AccountID
		wantErr *errors.Error
	}{
		"hex": {
			raw:  "0xd43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d",
			want: linkertest.Alice,
		},
		"generic ss58": {
			raw:  "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY",
			want: linkertest.Alice,
		},
		"bifrost ss58": {
			raw:  "gXCcrjjFX3RPyhHYgwZDmw8oe4JFpd5anko3nTY8VrmnJpe",
			want: linkertest.Alice,
		},
		"short hex": {
			raw:     "0xd43593c715fdd31c",
			wantErr: errors.ErrMalformedAddress,
		},
		"not hex": {
			raw:     "0xzz",
			wantErr: errors.ErrMalformedAddress,
		},
		"garbage": {
			raw:     "not an account",
			wantErr: errors.ErrMalformedAddress,
		},
		"empty": {
			raw:     "",
			wantErr: errors.ErrMalformedAddress,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := linker.ParseAccountID(tc.raw)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAccountIDRendering(t *testing.T) {
	assert.Equal(t, "0xd43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d", linkertest.Alice.String())
	assert.Equal(t, "gXCcrjjFX3RPyhHYgwZDmw8oe4JFpd5anko3nTY8VrmnJpe", linkertest.Alice.SS58(6))

	raw, err := json.Marshal(map[string]linker.AccountID{"a": linkertest.Bob})
	assert.Nil(t, err)
	var back map[string]linker.AccountID
	assert.Nil(t, json.Unmarshal(raw, &back))
	assert.Equal(t, linkertest.Bob, back["a"])
}

func TestStatusKind(t *testing.T) {
	cases := map[linker.StatusKind]struct {
		included bool
		rejected bool
	}{
		linker.StatusFuture:    {},
		linker.StatusReady:     {},
		linker.StatusBroadcast: {},
		linker.StatusRetracted: {},
		linker.StatusInBlock:   {included: true},
		linker.StatusFinalized: {included: true},
		linker.StatusUsurped:   {rejected: true},
		linker.StatusDropped:   {rejected: true},
		linker.StatusInvalid:   {rejected: true},
	}
	for kind, tc := range cases {
		t.Run(kind.String(), func(t *testing.T) {
			assert.Equal(t, tc.included, kind.Included())
			assert.Equal(t, tc.rejected, kind.Rejected())
		})
	}
}
