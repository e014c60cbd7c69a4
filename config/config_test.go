package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bifrost-finance/linker"
	"github.com/bifrost-finance/linker/errors"
	"github.com/bifrost-finance/linker/linkertest"
	"github.com/bifrost-finance/linker/linkertest/assert"
)

func validEnv() map[string]string {
	return map[string]string{
		"BIFROST_ENDPOINT":           "wss://bifrost-polkadot.api.onfinality.io/public-ws",
		"SIGNER_MNEMONIC":            "bottom drive obey lake curtain smoke basket hold race lonely fit walk",
		"SIGNER_ADDRESS":             linkertest.Alice.SS58(6),
		"BIFROST_OTHER_SIGNATORIES":  linkertest.Charlie.SS58(42) + "|" + linkertest.Bob.String() + "|" + linkertest.Alice.SS58(6),
		"BIFROST_MULTISIG_THRESHOLD": "2",
	}
}

func with(env map[string]string, kv ...string) map[string]string {
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			delete(env, kv[i])
		} else {
			env[kv[i]] = kv[i+1]
		}
	}
	return env
}

func TestParseDefaults(t *testing.T) {
	c, err := Parse(validEnv())
	assert.Nil(t, err)

	assert.Equal(t, linkertest.Alice, c.SignerAddress)
	assert.Equal(t, []linker.AccountID{linkertest.Charlie, linkertest.Bob, linkertest.Alice}, c.OtherSignatories)
	assert.Equal(t, uint16(2), c.Threshold)
	assert.Equal(t, Approver, c.Role)
	assert.Equal(t, uint16(6), c.SS58Prefix)
	assert.Equal(t, 10*time.Minute, c.RunTimeout)
	assert.Equal(t, uint(3), c.DialAttempts)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "file", c.Store.Backend)
	assert.Equal(t, "./1.json", c.Store.File)

	set, err := c.Signers()
	assert.Nil(t, err)
	assert.Equal(t, []linker.AccountID{linkertest.Bob, linkertest.Charlie}, set.Others)
	assert.Equal(t, linkertest.SignerSet(linkertest.Alice).MultisigAccount(), set.MultisigAccount())
}

func TestRole(t *testing.T) {
	cases := map[string]Role{
		"YES": Proposer,
		"yes": Approver,
		"NO":  Approver,
		"":    Approver,
	}
	for flag, want := range cases {
		t.Run(flag, func(t *testing.T) {
			c, err := Parse(with(validEnv(), "MAIN_NODE", flag))
			assert.Nil(t, err)
			assert.Equal(t, want, c.Role)
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]struct {
		env       map[string]string
		wantField string
		wantErr   *errors.Error
	}{
		"missing endpoint": {
			env:     with(validEnv(), "BIFROST_ENDPOINT", ""),
			wantErr: errors.ErrInvalidInput,
		},
		"unsupported endpoint scheme": {
			env:       with(validEnv(), "BIFROST_ENDPOINT", "tcp://localhost:9944"),
			wantField: "BIFROST_ENDPOINT",
			wantErr:   errors.ErrInvalidInput,
		},
		"blank mnemonic": {
			env:       with(validEnv(), "SIGNER_MNEMONIC", "   "),
			wantField: "SIGNER_MNEMONIC",
			wantErr:   errors.ErrEmpty,
		},
		"malformed signer address": {
			env:     with(validEnv(), "SIGNER_ADDRESS", "0x1234"),
			wantErr: errors.ErrInvalidInput,
		},
		"malformed co-signer": {
			env:     with(validEnv(), "BIFROST_OTHER_SIGNATORIES", linkertest.Bob.String()+"|nope"),
			wantErr: errors.ErrInvalidInput,
		},
		"zero threshold": {
			env:       with(validEnv(), "BIFROST_MULTISIG_THRESHOLD", "0"),
			wantField: "BIFROST_MULTISIG_THRESHOLD",
			wantErr:   errors.ErrInvalidInput,
		},
		"threshold above the number of signers": {
			env:       with(validEnv(), "BIFROST_MULTISIG_THRESHOLD", "4"),
			wantField: "BIFROST_OTHER_SIGNATORIES",
			wantErr:   errors.ErrInvalidInput,
		},
		"duplicated co-signer": {
			env:       with(validEnv(), "BIFROST_OTHER_SIGNATORIES", linkertest.Bob.String()+"|"+linkertest.Bob.SS58(6)),
			wantField: "BIFROST_OTHER_SIGNATORIES",
			wantErr:   errors.ErrInvalidInput,
		},
		"multisig address of another signer set": {
			env:       with(validEnv(), "BIFROST_MULTISIG_ADDRESS", linkertest.Eve.SS58(6)),
			wantField: "BIFROST_MULTISIG_ADDRESS",
			wantErr:   errors.ErrInvalidInput,
		},
		"malformed multisig address": {
			env:       with(validEnv(), "BIFROST_MULTISIG_ADDRESS", "multisig"),
			wantField: "BIFROST_MULTISIG_ADDRESS",
			wantErr:   errors.ErrMalformedAddress,
		},
		"unknown log level": {
			env:       with(validEnv(), "LOG_LEVEL", "verbose"),
			wantField: "LOG_LEVEL",
			wantErr:   errors.ErrInvalidInput,
		},
		"unknown store": {
			env:       with(validEnv(), "ACCOUNTS_STORE", "redis"),
			wantField: "ACCOUNTS_STORE",
			wantErr:   errors.ErrInvalidInput,
		},
		"s3 store without bucket": {
			env:       with(validEnv(), "ACCOUNTS_STORE", "s3"),
			wantField: "ACCOUNTS_S3_BUCKET",
			wantErr:   errors.ErrEmpty,
		},
		"negative batch limit": {
			env:       with(validEnv(), "BATCH_MAX_CALLS", "-1"),
			wantField: "BATCH_MAX_CALLS",
			wantErr:   errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := Parse(tc.env)
			if tc.wantField == "" {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.FieldError(t, err, tc.wantField, tc.wantErr)
		})
	}
}

func TestMatchingMultisigAddress(t *testing.T) {
	account := linkertest.SignerSet(linkertest.Alice).MultisigAccount()
	_, err := Parse(with(validEnv(), "BIFROST_MULTISIG_ADDRESS", account.SS58(6)))
	assert.Nil(t, err)
}

func TestFromEnvReadsDotenv(t *testing.T) {
	dir := t.TempDir()
	dotenv := filepath.Join(dir, ".env")

	var content string
	for k, v := range validEnv() {
		content += fmt.Sprintf("%s=%q\n", k, v)
	}
	content += "LOG_LEVEL=debug\nMAIN_NODE=YES\n"
	assert.Nil(t, os.WriteFile(dotenv, []byte(content), 0600))

	// The process environment takes precedence over the file.
	t.Setenv("LOG_LEVEL", "error")

	c, err := FromEnv(dotenv)
	assert.Nil(t, err)
	assert.Equal(t, "error", c.LogLevel)
	assert.Equal(t, Proposer, c.Role)
	assert.Equal(t, linkertest.Alice, c.SignerAddress)
}

func TestSecretIsNotPrinted(t *testing.T) {
	s := Secret("bottom drive obey lake")
	for _, format := range []string{"%s", "%v", "%+v", "%#v"} {
		if got := fmt.Sprintf(format, s); got != "****" {
			t.Fatalf("%s printed %q", format, got)
		}
	}
}
