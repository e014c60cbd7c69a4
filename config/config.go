/*
Package config loads the linker configuration from the environment.

The configuration is read once when the process starts and passed down as an
immutable value. No other package reads the environment.
*/
package config

import (
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/bifrost-finance/linker"
	"github.com/bifrost-finance/linker/errors"
	"github.com/caarlos0/env/v6"
	"github.com/subosito/gotenv"
	"github.com/tendermint/tendermint/libs/log"
)

// Config is the complete linker configuration.
type Config struct {
	// Endpoint is the websocket endpoint of a Bifrost node.
	Endpoint string `env:"BIFROST_ENDPOINT,required"`
	// Mnemonic is the secret of the local signer key.
	Mnemonic Secret `env:"SIGNER_MNEMONIC,required"`
	// SignerAddress is the account of the local signer.
	SignerAddress linker.AccountID `env:"SIGNER_ADDRESS,required"`
	// OtherSignatories are the co-signers of the multisig account. The
	// local signer may be listed as well.
	OtherSignatories []linker.AccountID `env:"BIFROST_OTHER_SIGNATORIES,required" envSeparator:"|"`
	Threshold        uint16             `env:"BIFROST_MULTISIG_THRESHOLD,required"`
	// MultisigAddress is checked against the account derived from the
	// signer set when set.
	MultisigAddress string `env:"BIFROST_MULTISIG_ADDRESS"`
	// Role selects whether this node proposes or approves.
	Role Role `env:"MAIN_NODE"`

	SS58Prefix    uint16        `env:"SS58_PREFIX" envDefault:"6"`
	BatchMaxCalls int           `env:"BATCH_MAX_CALLS" envDefault:"0"`
	RunTimeout    time.Duration `env:"RUN_TIMEOUT" envDefault:"10m"`
	DialAttempts  uint          `env:"DIAL_ATTEMPTS" envDefault:"3"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`

	Store Store
}

// Store configures where the account pairs are kept.
type Store struct {
	// Backend is either "file" or "s3".
	Backend string `env:"ACCOUNTS_STORE" envDefault:"file"`
	File    string `env:"ACCOUNTS_FILE" envDefault:"./1.json"`

	S3Bucket    string `env:"ACCOUNTS_S3_BUCKET"`
	S3Key       string `env:"ACCOUNTS_S3_KEY" envDefault:"accounts.json"`
	S3Region    string `env:"ACCOUNTS_S3_REGION" envDefault:"us-east-1"`
	S3Endpoint  string `env:"ACCOUNTS_S3_ENDPOINT"`
	S3AccessKey string `env:"ACCOUNTS_S3_ACCESS_KEY"`
	S3SecretKey Secret `env:"ACCOUNTS_S3_SECRET_KEY"`
}

// Secret is a string that is never printed.
type Secret string

func (Secret) String() string {
	return "****"
}

func (s Secret) GoString() string {
	return s.String()
}

// Role is the part a node plays in the multisig workflow.
type Role uint8

const (
	Approver Role = iota
	Proposer
)

// UnmarshalText reads the MAIN_NODE flag. Only "YES" makes a proposer.
func (r *Role) UnmarshalText(raw []byte) error {
	if string(raw) == "YES" {
		*r = Proposer
	} else {
		*r = Approver
	}
	return nil
}

func (r Role) String() string {
	if r == Proposer {
		return "proposer"
	}
	return "approver"
}

var parsers = map[reflect.Type]env.ParserFunc{
	reflect.TypeOf(linker.AccountID{}): func(v string) (interface{}, error) {
		return linker.ParseAccountID(strings.TrimSpace(v))
	},
}

// Parse builds the configuration from given variables.
func Parse(environ map[string]string) (Config, error) {
	var c Config
	opts := env.Options{Environment: environ}
	if err := env.ParseWithFuncs(&c, parsers, opts); err != nil {
		return c, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if err := env.Parse(&c.Store, opts); err != nil {
		return c, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return c, c.Validate()
}

// FromEnv builds the configuration from the process environment. Variables
// set in the dotenv file, when it exists, are used for those missing from the
// environment.
func FromEnv(dotenv string) (Config, error) {
	environ := make(map[string]string)
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i > 0 {
			environ[kv[:i]] = kv[i+1:]
		}
	}

	if dotenv != "" {
		if _, err := os.Stat(dotenv); err == nil {
			vars, err := gotenv.Read(dotenv)
			if err != nil {
				return Config{}, errors.Wrapf(errors.ErrInvalidInput, "read %s: %s", dotenv, err)
			}
			for k, v := range vars {
				if _, ok := environ[k]; !ok {
					environ[k] = v
				}
			}
		}
	}
	return Parse(environ)
}

// Validate returns all configuration problems found.
func (c Config) Validate() error {
	var errs error

	switch {
	case c.Endpoint == "":
		errs = errors.AppendField(errs, "BIFROST_ENDPOINT", errors.ErrEmpty)
	case !hasAnyPrefix(c.Endpoint, "ws://", "wss://", "http://", "https://"):
		errs = errors.Append(errs, errors.Field("BIFROST_ENDPOINT", errors.ErrInvalidInput, "unsupported scheme"))
	}
	if strings.TrimSpace(string(c.Mnemonic)) == "" {
		errs = errors.AppendField(errs, "SIGNER_MNEMONIC", errors.ErrEmpty)
	}
	if c.Threshold == 0 {
		errs = errors.Append(errs, errors.Field("BIFROST_MULTISIG_THRESHOLD", errors.ErrInvalidInput, "must be at least 1"))
	}
	if c.MultisigAddress != "" {
		if _, err := linker.ParseAccountID(c.MultisigAddress); err != nil {
			errs = errors.AppendField(errs, "BIFROST_MULTISIG_ADDRESS", err)
		}
	}
	if c.BatchMaxCalls < 0 {
		errs = errors.Append(errs, errors.Field("BATCH_MAX_CALLS", errors.ErrInvalidInput, "must not be negative"))
	}
	if c.RunTimeout <= 0 {
		errs = errors.Append(errs, errors.Field("RUN_TIMEOUT", errors.ErrInvalidInput, "must be positive"))
	}
	if c.DialAttempts == 0 {
		errs = errors.Append(errs, errors.Field("DIAL_ATTEMPTS", errors.ErrInvalidInput, "must be at least 1"))
	}
	if _, err := log.AllowLevel(c.LogLevel); err != nil {
		errs = errors.Append(errs, errors.Field("LOG_LEVEL", errors.ErrInvalidInput, err.Error()))
	}

	switch c.Store.Backend {
	case "file":
		if c.Store.File == "" {
			errs = errors.AppendField(errs, "ACCOUNTS_FILE", errors.ErrEmpty)
		}
	case "s3":
		if c.Store.S3Bucket == "" {
			errs = errors.AppendField(errs, "ACCOUNTS_S3_BUCKET", errors.ErrEmpty)
		}
		if c.Store.S3Key == "" {
			errs = errors.AppendField(errs, "ACCOUNTS_S3_KEY", errors.ErrEmpty)
		}
	default:
		errs = errors.Append(errs, errors.Field("ACCOUNTS_STORE", errors.ErrInvalidInput, "unknown backend %q", c.Store.Backend))
	}

	if errs != nil {
		return errs
	}
	if _, err := c.Signers(); err != nil {
		return err
	}
	return nil
}

// Signers returns the signer set of the local signer. When a multisig
// address is configured, it must match the account derived from the set.
func (c Config) Signers() (linker.SignerSet, error) {
	set, err := linker.NewSignerSet(c.SignerAddress, c.OtherSignatories, c.Threshold)
	if err != nil {
		return set, errors.Field("BIFROST_OTHER_SIGNATORIES", err, "")
	}
	if c.MultisigAddress != "" {
		want, err := linker.ParseAccountID(c.MultisigAddress)
		if err != nil {
			return set, errors.Field("BIFROST_MULTISIG_ADDRESS", err, "")
		}
		if got := set.MultisigAccount(); got != want {
			return set, errors.Field("BIFROST_MULTISIG_ADDRESS", errors.ErrInvalidInput,
				"signer set controls %s", got.SS58(c.SS58Prefix))
		}
	}
	return set, nil
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
