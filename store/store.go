/*
Package store keeps the ordered list of account pairs a registration run
works on.

The list is a JSON array of objects with a filecoinAccount and a
bifrostAccount field. Co-signers must read the same list in the same order,
otherwise they compute different batches and never agree on a content hash.

Primary accounts may be given in SS58 or as 0x prefixed hex. Saving always
writes them back in SS58 form for the configured network prefix, so a list
given in hex changes on disk after a proposer run. The order and the
external accounts are kept as read.
*/
package store

import (
	"context"
	"encoding/json"

	"github.com/bifrost-finance/linker"
	"github.com/bifrost-finance/linker/config"
	"github.com/bifrost-finance/linker/errors"
)

// Store loads and saves account pairs.
type Store interface {
	// Load returns the stored account pairs in their stored order.
	// ErrNotFound is returned when nothing was stored yet.
	Load(ctx context.Context) ([]linker.AccountLink, error)
	// Save replaces the stored account pairs. A failed save must leave the
	// previous content readable.
	Save(ctx context.Context, links []linker.AccountLink) error
}

// New returns the store selected by the configuration. Primary accounts
// are written in their SS58 form with the given network prefix.
func New(ctx context.Context, c config.Store, prefix uint16) (Store, error) {
	switch c.Backend {
	case "", "file":
		return NewFileStore(c.File, prefix), nil
	case "s3":
		return NewS3Store(ctx, S3Options{
			Region:    c.S3Region,
			Endpoint:  c.S3Endpoint,
			AccessKey: c.S3AccessKey,
			SecretKey: string(c.S3SecretKey),
			Bucket:    c.S3Bucket,
			Key:       c.S3Key,
		}, prefix)
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown store backend %q", c.Backend)
	}
}

type record struct {
	FilecoinAccount string `json:"filecoinAccount"`
	BifrostAccount  string `json:"bifrostAccount"`
}

// Unmarshal decodes the JSON account list. Every record must carry both
// accounts. External addresses are not validated here, the call builder
// reports the malformed ones together with their link.
func Unmarshal(raw []byte) ([]linker.AccountLink, error) {
	var records []record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	links := make([]linker.AccountLink, 0, len(records))
	for i, r := range records {
		if r.FilecoinAccount == "" {
			return nil, errors.Wrapf(errors.ErrEmpty, "record %d: filecoinAccount", i)
		}
		primary, err := linker.ParseAccountID(r.BifrostAccount)
		if err != nil {
			return nil, errors.Wrapf(err, "record %d: bifrostAccount", i)
		}
		links = append(links, linker.AccountLink{
			PrimaryAccount:  primary,
			ExternalAccount: linker.ExternalAddress(r.FilecoinAccount),
		})
	}
	return links, nil
}

// Marshal encodes account pairs as a JSON account list. Primary accounts are
// written in SS58 form with given prefix whatever form they were read in.
func Marshal(links []linker.AccountLink, prefix uint16) ([]byte, error) {
	records := make([]record, len(links))
	for i, l := range links {
		records[i] = record{
			FilecoinAccount: string(l.ExternalAccount),
			BifrostAccount:  l.PrimaryAccount.SS58(prefix),
		}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return raw, nil
}
