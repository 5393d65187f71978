package wallet

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/stellar/go/keypair"

	"github.com/vadiminshakov/whalehub/internal/domain"
	"github.com/vadiminshakov/whalehub/internal/txbuild"
)

// SecretSeedEnv environment variable holding the seed of the secret wallet.
const SecretSeedEnv = "WHALEHUB_SECRET_SEED"

// KeypairWallet signs with an in-memory key.
type KeypairWallet struct {
	id domain.WalletID
	kp *keypair.Full
}

// NewKeypairWallet creates a wallet from a secret seed.
func NewKeypairWallet(id domain.WalletID, seed string) (*KeypairWallet, error) {
	kp, err := keypair.ParseFull(seed)
	if err != nil {
		return nil, errors.Wrap(domain.ErrNotConnected, "invalid secret seed")
	}
	return &KeypairWallet{id: id, kp: kp}, nil
}

// SecretFromEnv is the factory of the secret wallet.
func SecretFromEnv() (Wallet, error) {
	seed := os.Getenv(SecretSeedEnv)
	if seed == "" {
		return nil, errors.Wrapf(domain.ErrNotConnected, "%s is not set", SecretSeedEnv)
	}
	return NewKeypairWallet(domain.WalletSecret, seed)
}

func (w *KeypairWallet) ID() domain.WalletID {
	return w.id
}

func (w *KeypairWallet) ResolveAddress(_ context.Context) (string, error) {
	return w.kp.Address(), nil
}

func (w *KeypairWallet) Sign(_ context.Context, envelopeXDR string, opts SignOptions) (string, error) {
	if opts.Address != "" && opts.Address != w.kp.Address() {
		return "", errors.Wrapf(domain.ErrWrongSigner, "requested %s, wallet holds %s", opts.Address, w.kp.Address())
	}
	if opts.NetworkPassphrase == "" {
		return "", errors.New("network passphrase is empty")
	}
	return txbuild.SignXDR(envelopeXDR, opts.NetworkPassphrase, w.kp)
}
