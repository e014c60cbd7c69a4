package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/bifrost-finance/linker/x/multisig"
)

func cmdMultisigAddress(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	usage(fl, `
Print the multisig account controlled by the configured signer set.
	`)
	cfg, err := loadConfig(fl, args)
	if err != nil {
		return err
	}
	signers, err := cfg.Signers()
	if err != nil {
		return err
	}
	account := signers.MultisigAccount()
	_, err = fmt.Fprintf(output, "%s\n%s\n", account.SS58(cfg.SS58Prefix), account)
	return err
}

func cmdPending(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	usage(fl, `
List the pending operations of the multisig account.
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

	entries, err := n.coordinator.Pending(ctx)
	if err != nil {
		return err
	}
	return writePending(output, entries, cfg.Threshold, cfg.SS58Prefix)
}

// writePending prints one line per pending operation: call hash, timepoint,
// approvals out of threshold, deposit and approving accounts.
func writePending(w io.Writer, entries []multisig.PendingEntry, threshold, prefix uint16) error {
	for _, e := range entries {
		approvals := make([]string, len(e.Approvals))
		for i, a := range e.Approvals {
			approvals[i] = a.SS58(prefix)
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%d/%d\t%d\t%s\n", e.CallHash, e.When, len(e.Approvals), threshold, e.Deposit.Int(), strings.Join(approvals, ",")); err != nil {
			return err
		}
	}
	return nil
}
