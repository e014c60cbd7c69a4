package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"

	"github.com/bifrost-finance/linker"
	"github.com/bifrost-finance/linker/app"
)

func cmdRun(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	usage(fl, `
Execute a single registration pass. Depending on MAIN_NODE, either propose
the registration of all stored account pairs or approve the pending
proposal matching them.

The process exits with a non zero code when the pass fails. The account pair
store is written only after a successful proposal.
	`)
	cfg, err := loadConfig(fl, args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RunTimeout)
	defer cancel()

	n, err := setup(ctx, cfg)
	if err != nil {
		return err
	}
	defer n.Close()

	run := app.NewRun(cfg.Role, app.Deps{
		Store:       n.store,
		Coordinator: n.coordinator,
		Batcher:     n.batcher,
		Logger:      n.logger.With("module", "app"),
	})
	rep, err := run.Execute(ctx)
	if err != nil {
		return err
	}
	return writeReport(output, rep)
}

func writeReport(w io.Writer, rep app.Report) error {
	_, err := fmt.Fprintf(w, "role\t%s\nlinks\t%d\nstate\t%s\ncall_hash\t%s\n",
		rep.Role, rep.Links, rep.Result.State, rep.Result.CallHash)
	if err != nil {
		return err
	}
	if out := rep.Result.Outcome; out != nil {
		_, err = fmt.Fprintf(w, "tx_hash\t%s\nblock_hash\t%s\n", out.TxHash, out.BlockHash)
	}
	return err
}

func cmdCallHash(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	usage(fl, `
Print the encoded batch call built from the stored account pairs together
with its hash. Co-signers compare the hash before approving.
	`)
	cfg, err := loadConfig(fl, args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RunTimeout)
	defer cancel()

	n, err := setup(ctx, cfg)
	if err != nil {
		return err
	}
	defer n.Close()

	links, call, err := app.Prepare(ctx, n.store, n.batcher)
	if err != nil {
		return err
	}
	enc, err := call.Encode(n.chain)
	if err != nil {
		return err
	}
	return writeCallHash(output, links, enc)
}

func writeCallHash(w io.Writer, links []linker.AccountLink, enc linker.EncodedCall) error {
	_, err := fmt.Fprintf(w, "links\t%d\ncall\t0x%s\ncall_hash\t%s\n", len(links), hex.EncodeToString(enc.Bytes), enc.Hash)
	return err
}
