package substrate

import (
	"github.com/bifrost-finance/linker"
	"github.com/bifrost-finance/linker/errors"
	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
)

// Keypair is an sr25519 signing identity.
type Keypair struct {
	pair signature.KeyringPair
	id   linker.AccountID
}

var _ linker.Signer = (*Keypair)(nil)

func (k *Keypair) AccountID() linker.AccountID {
	return k.id
}

// String never reveals the key material.
func (k *Keypair) String() string {
	return "keypair " + k.id.String()
}

// KeypairFromSecret derives a keypair from a mnemonic, a hex seed or a
// derivation URI such as "//Alice".
func KeypairFromSecret(secret string, prefix uint16) (*Keypair, error) {
	pair, err := signature.KeyringPairFromSecret(secret, prefix)
	if err != nil {
		// The underlying error may quote the secret.
		return nil, errors.Wrap(errors.ErrInvalidInput, "cannot derive key from secret")
	}
	if len(pair.PublicKey) != len(linker.AccountID{}) {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "public key of %d bytes", len(pair.PublicKey))
	}
	k := &Keypair{pair: pair}
	copy(k.id[:], pair.PublicKey)
	return k, nil
}

// KeySource returns a key source deriving the keypair on every call. The
// derived account must be the expected one, so that a wrong secret never
// signs on behalf of the configured signer.
func KeySource(secret string, prefix uint16, expected linker.AccountID) linker.KeySource {
	return func() (linker.Signer, error) {
		k, err := KeypairFromSecret(secret, prefix)
		if err != nil {
			return nil, err
		}
		if k.id != expected {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "secret controls %s, not %s", k.id.SS58(prefix), expected.SS58(prefix))
		}
		return k, nil
	}
}
