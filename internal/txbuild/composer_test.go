package txbuild

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/whalehub/internal/domain"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func testOptions(timeout time.Duration) Options {
	return Options{BaseFee: 100, Timeout: timeout, NetworkPassphrase: network.TestNetworkPassphrase}
}

func TestCompose_RoundTrip(t *testing.T) {
	source := keypair.MustRandom()
	issuer := keypair.MustRandom().Address()
	signer := keypair.MustRandom().Address()
	aqua := domain.NewAsset("AQUA", issuer)
	blub := domain.NewAsset("WHLAQUA", issuer)

	ops := []domain.Operation{
		domain.ChangeTrust(blub, decimal.NewFromInt(1000000000)),
		domain.Payment(signer, aqua, decimal.RequireFromString("12.5")),
		domain.Payment(signer, domain.Asset{}, decimal.RequireFromString("0.1234567")),
	}
	snapshot := domain.AccountSnapshot{Address: source.Address(), Sequence: 41}

	env, err := NewComposer(fixedClock).Compose(snapshot, ops, testOptions(180*time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(42), env.Sequence)
	assert.Equal(t, int64(300), env.Fee())
	assert.True(t, env.FeeXLM().Equal(decimal.RequireFromString("0.00003")))
	assert.Equal(t, fixedNow.Add(180*time.Second), env.ValidUntil)

	signedXDR, err := SignXDR(env.XDR, network.TestNetworkPassphrase, source)
	require.NoError(t, err)

	decoded, err := Decode(signedXDR, network.TestNetworkPassphrase)
	require.NoError(t, err)

	assert.Equal(t, source.Address(), decoded.Source)
	assert.Equal(t, env.Sequence, decoded.Sequence)
	assert.Equal(t, 1, decoded.Signatures)
	assert.Equal(t, env.Hash, decoded.Hash)
	assert.Equal(t, env.ValidUntil, decoded.ValidUntil)
	require.Len(t, decoded.Operations, len(ops))
	for i := range ops {
		assert.Truef(t, ops[i].Equal(decoded.Operations[i]), "op %d: want %s, got %s", i, ops[i], decoded.Operations[i])
	}
}

func TestCompose_Deterministic(t *testing.T) {
	source := keypair.MustRandom().Address()
	dest := keypair.MustRandom().Address()
	snapshot := domain.AccountSnapshot{Address: source, Sequence: 7}
	ops := []domain.Operation{domain.Payment(dest, domain.Asset{}, decimal.NewFromInt(1))}

	first, err := NewComposer(fixedClock).Compose(snapshot, ops, testOptions(30*time.Second))
	require.NoError(t, err)
	second, err := NewComposer(fixedClock).Compose(snapshot, ops, testOptions(30*time.Second))
	require.NoError(t, err)

	assert.Equal(t, first.XDR, second.XDR)
	assert.Equal(t, first.Hash, second.Hash)
}

func TestCompose_TruncatesAmounts(t *testing.T) {
	source := keypair.MustRandom().Address()
	dest := keypair.MustRandom().Address()
	snapshot := domain.AccountSnapshot{Address: source, Sequence: 1}
	ops := []domain.Operation{domain.Payment(dest, domain.Asset{}, decimal.RequireFromString("1.123456789"))}

	env, err := NewComposer(fixedClock).Compose(snapshot, ops, testOptions(30*time.Second))
	require.NoError(t, err)

	decoded, err := Decode(env.XDR, network.TestNetworkPassphrase)
	require.NoError(t, err)
	require.Len(t, decoded.Operations, 1)
	assert.True(t, decoded.Operations[0].Amount.Equal(decimal.RequireFromString("1.1234567")))
	assert.Equal(t, 0, decoded.Signatures)
}

func TestCompose_Rejects(t *testing.T) {
	source := keypair.MustRandom().Address()
	dest := keypair.MustRandom().Address()
	issuer := keypair.MustRandom().Address()

	tests := []struct {
		name     string
		snapshot domain.AccountSnapshot
		ops      []domain.Operation
	}{
		{
			name:     "invalid source",
			snapshot: domain.AccountSnapshot{Address: "GBAD"},
			ops:      []domain.Operation{domain.Payment(dest, domain.Asset{}, decimal.NewFromInt(1))},
		},
		{
			name:     "no operations",
			snapshot: domain.AccountSnapshot{Address: source},
		},
		{
			name:     "zero amount",
			snapshot: domain.AccountSnapshot{Address: source},
			ops:      []domain.Operation{domain.Payment(dest, domain.Asset{}, decimal.Zero)},
		},
		{
			name:     "amount below precision",
			snapshot: domain.AccountSnapshot{Address: source},
			ops:      []domain.Operation{domain.Payment(dest, domain.Asset{}, decimal.RequireFromString("0.00000001"))},
		},
		{
			name:     "invalid destination",
			snapshot: domain.AccountSnapshot{Address: source},
			ops:      []domain.Operation{domain.Payment("GNOPE", domain.Asset{}, decimal.NewFromInt(1))},
		},
		{
			name:     "invalid issuer",
			snapshot: domain.AccountSnapshot{Address: source},
			ops:      []domain.Operation{domain.Payment(dest, domain.NewAsset("AQUA", "GNOPE"), decimal.NewFromInt(1))},
		},
		{
			name:     "trust native",
			snapshot: domain.AccountSnapshot{Address: source},
			ops:      []domain.Operation{domain.ChangeTrust(domain.Asset{}, decimal.NewFromInt(1))},
		},
		{
			name:     "negative limit",
			snapshot: domain.AccountSnapshot{Address: source},
			ops:      []domain.Operation{domain.ChangeTrust(domain.NewAsset("AQUA", issuer), decimal.NewFromInt(-1))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewComposer(fixedClock).Compose(tt.snapshot, tt.ops, testOptions(30*time.Second))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrUserInput)
		})
	}
}

func TestSignXDR_WrongSigner(t *testing.T) {
	source := keypair.MustRandom().Address()
	dest := keypair.MustRandom().Address()
	env, err := NewComposer(fixedClock).Compose(
		domain.AccountSnapshot{Address: source, Sequence: 1},
		[]domain.Operation{domain.Payment(dest, domain.Asset{}, decimal.NewFromInt(1))},
		testOptions(30*time.Second),
	)
	require.NoError(t, err)

	_, err = SignXDR(env.XDR, network.TestNetworkPassphrase, keypair.MustRandom())
	assert.ErrorIs(t, err, domain.ErrWrongSigner)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0.0100000", FormatAmount(decimal.RequireFromString("0.01")))
	assert.Equal(t, "1.9999999", FormatAmount(decimal.RequireFromString("1.99999999")))
	assert.Equal(t, "500.0000000", FormatAmount(decimal.NewFromInt(500)))
}
