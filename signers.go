package linker

import (
	"sort"

	"github.com/bifrost-finance/linker/errors"
	"golang.org/x/crypto/blake2b"
)

// multisigEntropy prefixes the preimage of every multisig account.
var multisigEntropy = []byte("modlpy/utilisuba")

// SignerSet is the fixed group of accounts controlling a multisig account,
// seen from one of its members.
type SignerSet struct {
	// Signer is the local account.
	Signer AccountID
	// Others are all other signatories, sorted.
	Others []AccountID
	// Threshold is the number of approvals required to execute a call.
	Threshold uint16
}

// NewSignerSet returns a signer set for the local signer. The local signer
// is removed from the co-signers list if present and the list is sorted. A
// co-signer listed twice is an error.
func NewSignerSet(signer AccountID, cosigners []AccountID, threshold uint16) (SignerSet, error) {
	others := make([]AccountID, 0, len(cosigners))
	seen := make(map[AccountID]struct{}, len(cosigners))
	for _, a := range cosigners {
		if a == signer {
			continue
		}
		if _, ok := seen[a]; ok {
			return SignerSet{}, errors.Wrapf(errors.ErrInvalidInput, "duplicated signatory %s", a)
		}
		seen[a] = struct{}{}
		others = append(others, a)
	}
	sort.Slice(others, func(i, j int) bool { return others[i].Less(others[j]) })

	s := SignerSet{
		Signer:    signer,
		Others:    others,
		Threshold: threshold,
	}
	return s, s.Validate()
}

// Validate returns an error if the signer set cannot describe a multisig
// account.
func (s SignerSet) Validate() error {
	if len(s.Others) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no other signatories")
	}
	for i, a := range s.Others {
		if a == s.Signer {
			return errors.Wrapf(errors.ErrInvalidInput, "signer %s listed as other signatory", a)
		}
		if i > 0 && !s.Others[i-1].Less(a) {
			return errors.Wrap(errors.ErrInvalidInput, "other signatories not sorted or not unique")
		}
	}
	if s.Threshold < 1 || int(s.Threshold) > len(s.Others)+1 {
		return errors.Wrapf(errors.ErrInvalidInput, "threshold %d not in [1, %d]", s.Threshold, len(s.Others)+1)
	}
	return nil
}

// All returns all signatories, including the local signer, sorted.
func (s SignerSet) All() []AccountID {
	all := make([]AccountID, 0, len(s.Others)+1)
	all = append(all, s.Others...)
	all = append(all, s.Signer)
	sort.Slice(all, func(i, j int) bool { return all[i].Less(all[j]) })
	return all
}

// Contains returns true if given account is one of the signatories.
func (s SignerSet) Contains(a AccountID) bool {
	if a == s.Signer {
		return true
	}
	for _, o := range s.Others {
		if o == a {
			return true
		}
	}
	return false
}

// MultisigAccount returns the account controlled by this signer set. Every
// member computes the same account because signatories are always hashed in
// sorted order.
func (s SignerSet) MultisigAccount() AccountID {
	all := s.All()

	preimage := make([]byte, 0, len(multisigEntropy)+5+len(all)*32+2)
	preimage = append(preimage, multisigEntropy...)
	preimage = append(preimage, Compact(uint64(len(all)))...)
	for _, a := range all {
		preimage = append(preimage, a[:]...)
	}
	preimage = append(preimage, byte(s.Threshold), byte(s.Threshold>>8))
	return blake2b.Sum256(preimage)
}
