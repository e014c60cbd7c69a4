package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/bifrost-finance/linker/client"
	"github.com/bifrost-finance/linker/config"
	"github.com/bifrost-finance/linker/errors"
	"github.com/bifrost-finance/linker/store"
	"github.com/bifrost-finance/linker/substrate"
	"github.com/bifrost-finance/linker/x/batch"
	"github.com/bifrost-finance/linker/x/multisig"
	"github.com/tendermint/tendermint/libs/log"
)

// envFlag registers the dotenv file flag shared by all commands reading the
// configuration.
func envFlag(fl *flag.FlagSet) *string {
	return fl.String("env", ".env", "Dotenv file read for variables missing from the environment. Ignored when it does not exist.")
}

// newLogger returns a logger writing to w, filtered by given level.
func newLogger(w io.Writer, level string) (log.Logger, error) {
	allow, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	logger := log.NewTMLogger(log.NewSyncWriter(w))
	return log.NewFilter(logger, allow), nil
}

// node holds everything that talks to the chain.
type node struct {
	cfg         config.Config
	logger      log.Logger
	chain       *substrate.Client
	store       store.Store
	batcher     batch.Batcher
	coordinator *multisig.Coordinator
}

// setup connects to the chain and wires all components. The caller must
// close the returned node.
func setup(ctx context.Context, cfg config.Config) (*node, error) {
	logger, err := newLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	signers, err := cfg.Signers()
	if err != nil {
		return nil, err
	}
	s, err := store.New(ctx, cfg.Store, cfg.SS58Prefix)
	if err != nil {
		return nil, err
	}

	chain, err := substrate.Dial(ctx, substrate.DialOptions{
		Endpoint:   cfg.Endpoint,
		Attempts:   cfg.DialAttempts,
		SS58Prefix: cfg.SS58Prefix,
	}, logger.With("module", "substrate"))
	if err != nil {
		return nil, err
	}

	keys := substrate.KeySource(string(cfg.Mnemonic), cfg.SS58Prefix, cfg.SignerAddress)
	submitter := client.NewSubmitter(chain, keys, logger.With("module", "client"))
	coord, err := multisig.NewCoordinator(chain, submitter, signers, logger.With("module", "multisig"))
	if err != nil {
		chain.Close()
		return nil, err
	}

	return &node{
		cfg:         cfg,
		logger:      logger,
		chain:       chain,
		store:       s,
		batcher:     batch.NewBatcher(cfg.BatchMaxCalls),
		coordinator: coord,
	}, nil
}

func (n *node) Close() {
	n.chain.Close()
}

// loadConfig parses the flags and reads the configuration.
func loadConfig(fl *flag.FlagSet, args []string) (config.Config, error) {
	envFl := envFlag(fl)
	fl.Parse(args)
	return config.FromEnv(*envFl)
}

func usage(fl *flag.FlagSet, text string) {
	fl.Usage = func() {
		fmt.Fprintln(fl.Output(), text)
		fl.PrintDefaults()
	}
}
