/*
Package crossinout builds calls of the CrossInOut pallet, which keeps the
mapping between Bifrost accounts and their accounts on external ledgers.
*/
package crossinout

import (
	"github.com/bifrost-finance/linker"
	"github.com/bifrost-finance/linker/errors"
	"github.com/bifrost-finance/linker/x/location"
)

const (
	Section        = "CrossInOut"
	RegisterMethod = "register_linked_account"
)

// CurrencyID identifies a Bifrost currency by its enum variant and value.
type CurrencyID struct {
	Variant uint8
	Value   uint8
}

// Variant index of CurrencyId::Token2.
const token2 = 0x08

// FILCurrency is the currency under which Filecoin accounts are linked.
var FILCurrency = CurrencyID{Variant: token2, Value: 4}

// Encode returns the SCALE encoding of the currency.
func (c CurrencyID) Encode() linker.Raw {
	return linker.Raw{c.Variant, c.Value}
}

// BuildRegisterLinkCall returns the call registering the external account of
// the link as linked to its primary account. Building the call has no side
// effects and the same link always yields the same call.
func BuildRegisterLinkCall(link linker.AccountLink) (linker.Call, error) {
	desc, err := location.ToAccountDescriptor(link.ExternalAccount)
	if err != nil {
		return linker.Call{}, errors.Wrapf(err, "link %s", link)
	}
	return linker.Call{
		Section: Section,
		Method:  RegisterMethod,
		Args: []interface{}{
			FILCurrency.Encode(),
			link.PrimaryAccount,
			desc.Encode(),
		},
	}, nil
}

// BuildRegisterLinkCalls builds one call per link, in order. The first
// malformed link aborts the whole list, since a batch that silently skips a
// link would not match the batch built by other signers.
func BuildRegisterLinkCalls(links []linker.AccountLink) ([]linker.Call, error) {
	calls := make([]linker.Call, 0, len(links))
	for i, l := range links {
		c, err := BuildRegisterLinkCall(l)
		if err != nil {
			return nil, errors.Wrapf(err, "link %d", i)
		}
		calls = append(calls, c)
	}
	return calls, nil
}
