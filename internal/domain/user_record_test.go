package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const issuer = "GBNZILSTVQZ4R7IKQDGHYGY2QXL5QOFJYQMXPKWRRM5PAV7Y4M67AQUA"

func testRecord() UserRecord {
	aqua := NewAsset("AQUA", issuer)
	blub := NewAsset("BLUB", issuer)
	return UserRecord{
		Balances: []Balance{
			{AssetType: AssetTypeNative, Balance: decimal.NewFromInt(12)},
			{AssetType: AssetTypeCreditAlphanum4, AssetCode: "AQUA", AssetIssuer: issuer, Balance: decimal.NewFromInt(50)},
		},
		Account: &AccountRecord{
			Pools: []Pool{
				{DepositType: DepositTypeLocker, Claimed: ClaimStatusUnclaimed, AssetA: blub, AssetB: aqua, AssetBAmount: decimal.NewFromInt(10)},
				{DepositType: DepositTypeLocker, Claimed: ClaimStatusClaimed, AssetA: blub, AssetB: aqua, AssetBAmount: decimal.NewFromInt(100)},
				{DepositType: DepositTypeLocker, Claimed: ClaimStatusUnclaimed, AssetA: aqua, AssetB: blub, AssetBAmount: decimal.NewFromInt(7)},
				{DepositType: DepositTypeLiquidityProvision, Claimed: ClaimStatusUnclaimed, AssetA: aqua, AssetB: blub,
					AssetAAmount: decimal.NewFromInt(3), AssetBAmount: decimal.NewFromInt(4)},
				{DepositType: DepositTypeLiquidityProvision, Claimed: ClaimStatusUnclaimed, AssetA: aqua, AssetB: blub,
					AssetAAmount: decimal.NewFromInt(1), AssetBAmount: decimal.NewFromInt(2)},
			},
			ClaimableRecords: []ClaimableRecord{
				{Amount: decimal.RequireFromString("1.5"), Claimed: ClaimStatusUnclaimed},
				{Amount: decimal.NewFromInt(9), Claimed: ClaimStatusClaimed},
			},
		},
	}
}

func TestUserRecord_DerivedViews(t *testing.T) {
	r := testRecord()

	assert.True(t, r.Balance("AQUA").Equal(decimal.NewFromInt(50)))
	assert.True(t, r.Balance("BLUB").IsZero())
	assert.True(t, r.StakedAmount("AQUA").Equal(decimal.NewFromInt(10)))
	assert.True(t, r.ClaimableTotal().Equal(decimal.RequireFromString("1.5")))
	assert.True(t, r.PoolAndClaimBalance("AQUA").Equal(decimal.RequireFromString("11.5")))
	assert.Len(t, r.LiquidityPools(), 2)
}

func TestUserRecord_SummarizeAssets(t *testing.T) {
	summary := testRecord().SummarizeAssets()
	require.Len(t, summary, 2)

	assert.Equal(t, "AQUA", summary[0].Code)
	assert.True(t, summary[0].Amount.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, "BLUB", summary[1].Code)
	assert.True(t, summary[1].Amount.Equal(decimal.NewFromInt(6)))
}

func TestUserRecord_EmptyAccount(t *testing.T) {
	var r UserRecord
	assert.True(t, r.StakedAmount("AQUA").IsZero())
	assert.True(t, r.ClaimableTotal().IsZero())
	assert.Nil(t, r.LiquidityPools())
	assert.Empty(t, r.SummarizeAssets())
}

func TestAccountRecord_DecodesBackendPayload(t *testing.T) {
	payload := `{
		"pools": [{"depositType":"LOCKER","claimed":"UNCLAIMED","assetA":{"code":"BLUB","issuer":"X"},
			"assetB":{"code":"AQUA","issuer":"Y"},"assetAAmount":"2","assetBAmount":3.25}],
		"claimableRecords": [{"amount":"0.5","claimed":"UNCLAIMED"}]
	}`

	var rec AccountRecord
	require.NoError(t, json.Unmarshal([]byte(payload), &rec))
	require.Len(t, rec.Pools, 1)
	assert.True(t, rec.Pools[0].AssetBAmount.Equal(decimal.RequireFromString("3.25")))

	r := UserRecord{Account: &rec}
	assert.True(t, r.PoolAndClaimBalance("AQUA").Equal(decimal.RequireFromString("3.75")))
}

func TestAccountSnapshot_Trustlines(t *testing.T) {
	aqua := NewAsset("AQUA", issuer)
	blub := NewAsset("BLUB", issuer)
	snap := AccountSnapshot{Balances: []Balance{
		{AssetType: AssetTypeNative, Balance: decimal.NewFromInt(5)},
		{AssetType: AssetTypeCreditAlphanum4, AssetCode: "AQUA", AssetIssuer: issuer, Balance: decimal.NewFromInt(1)},
	}}

	assert.True(t, snap.Trusts(Asset{}))
	assert.True(t, snap.Trusts(aqua))
	assert.False(t, snap.Trusts(blub))
	assert.False(t, snap.Trusts(NewAsset("AQUA", "GOTHER")))
	assert.Equal(t, []Asset{blub}, snap.MissingTrustlines(aqua, blub))
	assert.True(t, snap.BalanceOf(Asset{}).Equal(decimal.NewFromInt(5)))
	assert.True(t, snap.BalanceOf(blub).IsZero())
}
