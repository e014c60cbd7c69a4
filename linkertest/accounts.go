package linkertest

import (
	"encoding/hex"

	"github.com/bifrost-finance/linker"
)

// Development accounts of Substrate based chains. Their SS58 forms are well
// known, which makes failing tests easier to read.
var (
	Alice   = mustAccount("d43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d")
	Bob     = mustAccount("8eaf04151687736326c9fea17e25fc5287613693c912909cb226aa4794f26a48")
	Charlie = mustAccount("90b5ab205c6974c9ea841be688864633dc9ca8a357843eeacf2314649965fe22")
	Dave    = mustAccount("306721211d5404bd9da88e0204360a1a9ab8b87c66c1bc2fcdd37f3c2222cc20")
	Eve     = mustAccount("e659a7a1628cdd93febc04a4e0646ea20e9f5f0ce097d9a05290d4a9e054df4e")
)

func mustAccount(h string) linker.AccountID {
	raw, err := hex.DecodeString(h)
	if err != nil {
		panic(err)
	}
	var id linker.AccountID
	copy(id[:], raw)
	return id
}

// SignerSet returns the 2 of 3 signer set of Alice, Bob and Charlie seen from
// the given member.
func SignerSet(self linker.AccountID) linker.SignerSet {
	s, err := linker.NewSignerSet(self, []linker.AccountID{Alice, Bob, Charlie}, 2)
	if err != nil {
		panic(err)
	}
	return s
}

// Key is a signer without key material, understood by the in-memory chain.
type Key struct {
	ID linker.AccountID
}

func (k Key) AccountID() linker.AccountID {
	return k.ID
}

// KeySource returns a key source always returning the key of given account.
func KeySource(id linker.AccountID) linker.KeySource {
	return func() (linker.Signer, error) {
		return Key{ID: id}, nil
	}
}
