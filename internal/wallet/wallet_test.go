package wallet

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/whalehub/internal/domain"
	"github.com/vadiminshakov/whalehub/internal/txbuild"
)

func composeFor(t *testing.T, address string) string {
	t.Helper()
	env, err := txbuild.NewComposer(func() time.Time { return time.Unix(1700000000, 0) }).Compose(
		domain.AccountSnapshot{Address: address, Sequence: 10},
		[]domain.Operation{domain.Payment(keypair.MustRandom().Address(), domain.Asset{}, decimal.NewFromInt(3))},
		txbuild.Options{BaseFee: 100, Timeout: 30 * time.Second, NetworkPassphrase: network.TestNetworkPassphrase},
	)
	require.NoError(t, err)
	return env.XDR
}

func TestRegistry_Open(t *testing.T) {
	kp := keypair.MustRandom()
	t.Setenv(SecretSeedEnv, kp.Seed())

	reg := NewRegistry(nil)
	reg.Register(domain.WalletSecret, SecretFromEnv)

	w, err := reg.Open(domain.WalletSecret)
	require.NoError(t, err)
	assert.Equal(t, domain.WalletSecret, w.ID())

	addr, err := w.ResolveAddress(context.Background())
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), addr)

	_, err = reg.Open(domain.WalletKeyfile)
	assert.ErrorIs(t, err, domain.ErrUnsupportedWallet)

	_, err = reg.Open("ledger-nano")
	assert.ErrorIs(t, err, domain.ErrUnsupportedWallet)
}

func TestSecretFromEnv_Missing(t *testing.T) {
	t.Setenv(SecretSeedEnv, "")
	_, err := SecretFromEnv()
	assert.ErrorIs(t, err, domain.ErrNotConnected)
}

func TestKeypairWallet_Sign(t *testing.T) {
	kp := keypair.MustRandom()
	w, err := NewKeypairWallet(domain.WalletSecret, kp.Seed())
	require.NoError(t, err)

	signed, err := w.Sign(context.Background(), composeFor(t, kp.Address()), SignOptions{
		Address:           kp.Address(),
		NetworkPassphrase: network.TestNetworkPassphrase,
	})
	require.NoError(t, err)

	decoded, err := txbuild.Decode(signed, network.TestNetworkPassphrase)
	require.NoError(t, err)
	assert.Equal(t, 1, decoded.Signatures)

	_, err = w.Sign(context.Background(), composeFor(t, kp.Address()), SignOptions{
		Address:           keypair.MustRandom().Address(),
		NetworkPassphrase: network.TestNetworkPassphrase,
	})
	assert.ErrorIs(t, err, domain.ErrWrongSigner)

	_, err = w.Sign(context.Background(), composeFor(t, keypair.MustRandom().Address()), SignOptions{
		NetworkPassphrase: network.TestNetworkPassphrase,
	})
	assert.ErrorIs(t, err, domain.ErrWrongSigner)
}

func TestKeyfile_RoundTrip(t *testing.T) {
	kp := keypair.MustRandom()
	path := filepath.Join(t.TempDir(), "wallet.json")
	require.NoError(t, WriteKeyfile(path, kp.Seed(), "correct horse"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	w, err := KeyfileFactory(path, func() (string, error) { return "correct horse", nil })()
	require.NoError(t, err)
	assert.Equal(t, domain.WalletKeyfile, w.ID())
	addr, err := w.ResolveAddress(context.Background())
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), addr)

	_, err = KeyfileFactory(path, func() (string, error) { return "wrong", nil })()
	assert.ErrorIs(t, err, domain.ErrNotConnected)

	_, err = KeyfileFactory(path, func() (string, error) { return "", huh.ErrUserAborted })()
	assert.ErrorIs(t, err, domain.ErrUserCancelled)

	_, err = KeyfileFactory(filepath.Join(t.TempDir(), "missing.json"), func() (string, error) { return "x", nil })()
	assert.ErrorIs(t, err, domain.ErrNotConnected)
}

func TestWithConfirmation(t *testing.T) {
	kp := keypair.MustRandom()
	base, err := NewKeypairWallet(domain.WalletSecret, kp.Seed())
	require.NoError(t, err)
	opts := SignOptions{Address: kp.Address(), NetworkPassphrase: network.TestNetworkPassphrase}

	tests := []struct {
		name    string
		answer  bool
		err     error
		wantErr error
	}{
		{name: "approved", answer: true},
		{name: "declined", answer: false, wantErr: domain.ErrSigningRejected},
		{name: "dismissed", err: huh.ErrUserAborted, wantErr: domain.ErrUserCancelled},
		{name: "prompt failure", err: errors.New("no tty"), wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var summary string
			w := WithConfirmation(base, func(_ context.Context, s string) (bool, error) {
				summary = s
				return tt.answer, tt.err
			})

			signed, err := w.Sign(context.Background(), composeFor(t, kp.Address()), opts)
			assert.Contains(t, summary, kp.Address())
			assert.Contains(t, summary, "payment(")

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, signed)
			case tt.err != nil:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, domain.ErrWallet)
			default:
				require.NoError(t, err)
				assert.NotEmpty(t, signed)
			}
		})
	}
}
