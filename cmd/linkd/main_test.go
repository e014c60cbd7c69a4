package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bifrost-finance/linker"
	"github.com/bifrost-finance/linker/app"
	"github.com/bifrost-finance/linker/config"
	"github.com/bifrost-finance/linker/linkertest"
	"github.com/bifrost-finance/linker/x/multisig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T) {
	t.Setenv("BIFROST_ENDPOINT", "ws://localhost:9944")
	t.Setenv("SIGNER_MNEMONIC", "//Bob")
	t.Setenv("SIGNER_ADDRESS", linkertest.Bob.SS58(6))
	t.Setenv("BIFROST_OTHER_SIGNATORIES", linkertest.Alice.SS58(6)+"|"+linkertest.Charlie.SS58(6))
	t.Setenv("BIFROST_MULTISIG_THRESHOLD", "2")
}

func TestMultisigAddress(t *testing.T) {
	setEnv(t)
	noEnv := filepath.Join(t.TempDir(), ".env")

	var out bytes.Buffer
	require.NoError(t, cmdMultisigAddress(nil, &out, []string{"-env", noEnv}))

	account := linkertest.SignerSet(linkertest.Alice).MultisigAccount()
	assert.Equal(t, account.SS58(6)+"\n"+account.String()+"\n", out.String())
}

func TestMultisigAddressInvalidConfig(t *testing.T) {
	setEnv(t)
	t.Setenv("BIFROST_MULTISIG_THRESHOLD", "7")
	noEnv := filepath.Join(t.TempDir(), ".env")

	var out bytes.Buffer
	require.Error(t, cmdMultisigAddress(nil, &out, []string{"-env", noEnv}))
	assert.Empty(t, out.String())
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, cmdVersion(nil, &out, nil))
	assert.Equal(t, linker.Version()+"\n", out.String())
}

func TestWriteReport(t *testing.T) {
	var out bytes.Buffer
	err := writeReport(&out, app.Report{
		Role:  config.Approver,
		Links: 2,
		Result: multisig.Result{
			State:    multisig.StateApproved,
			CallHash: linker.Hash{0x01},
			Outcome:  &linker.SubmissionOutcome{TxHash: linker.Hash{0x02}, BlockHash: linker.Hash{0x03}},
		},
	})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "role\tapprover", lines[0])
	assert.Equal(t, "state\tapproved", lines[2])
	assert.True(t, strings.HasPrefix(lines[4], "tx_hash\t0x02"))
}

func TestWriteCallHash(t *testing.T) {
	var out bytes.Buffer
	enc := linker.EncodedCall{Bytes: []byte{0x00, 0x01, 0x08, 0x68, 0x69}, Hash: linker.Hash{0xd9}}
	require.NoError(t, writeCallHash(&out, nil, enc))
	assert.Contains(t, out.String(), "call\t0x0001086869\n")
}

func TestNewLogger(t *testing.T) {
	var out bytes.Buffer
	logger, err := newLogger(&out, "error")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Error("shown")
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "shown")

	_, err = newLogger(&out, "loud")
	require.Error(t, err)
}

func TestAvailableCommands(t *testing.T) {
	assert.Equal(t, []string{"call-hash", "multisig-address", "pending", "run", "version"}, availableCmds())
}

func TestWritePending(t *testing.T) {
	entries := []multisig.PendingEntry{
		{
			CallHash: linker.Hash{0xd9},
			Pending: multisig.Pending{
				When:      linker.Timepoint{Height: 4242, Index: 2},
				Deposit:   multisig.Balance{0x00, 0x10},
				Depositor: linkertest.Alice,
				Approvals: []linker.AccountID{linkertest.Alice},
			},
		},
	}

	var out bytes.Buffer
	require.NoError(t, writePending(&out, entries, 2, 6))
	fields := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\t")
	require.Len(t, fields, 5)
	assert.Equal(t, "4242-2", fields[1])
	assert.Equal(t, "1/2", fields[2])
	assert.Equal(t, "4096", fields[3])
	assert.Equal(t, linkertest.Alice.SS58(6), fields[4])
}
