package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ledger asset types as reported by Horizon.
const (
	AssetTypeNative           = "native"
	AssetTypeCreditAlphanum4  = "credit_alphanum4"
	AssetTypeCreditAlphanum12 = "credit_alphanum12"
	AssetTypePoolShare        = "liquidity_pool_shares"
)

// Balance one balance line of an account.
type Balance struct {
	AssetType   string          `json:"asset_type"`
	AssetCode   string          `json:"asset_code,omitempty"`
	AssetIssuer string          `json:"asset_issuer,omitempty"`
	Balance     decimal.Decimal `json:"balance"`
	Limit       decimal.Decimal `json:"limit,omitempty"`
}

// Asset returns the asset this balance line holds.
func (b Balance) Asset() Asset {
	if b.AssetType == AssetTypeNative {
		return Asset{}
	}
	return Asset{Code: b.AssetCode, Issuer: b.AssetIssuer}
}

// AccountSnapshot point-in-time read of an account used to build exactly one transaction.
type AccountSnapshot struct {
	Address  string    `json:"address"`
	Sequence int64     `json:"sequence"`
	Balances []Balance `json:"balances"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Trusts reports whether the account holds a trust line for asset.
// The native asset is always trusted.
func (s AccountSnapshot) Trusts(asset Asset) bool {
	if asset.IsNative() {
		return true
	}
	for _, b := range s.Balances {
		if b.AssetType == AssetTypeNative || b.AssetType == AssetTypePoolShare {
			continue
		}
		if b.Asset().Equal(asset) {
			return true
		}
	}
	return false
}

// MissingTrustlines returns the assets from required that the account does not trust, in order.
func (s AccountSnapshot) MissingTrustlines(required ...Asset) []Asset {
	var missing []Asset
	for _, asset := range required {
		if !s.Trusts(asset) {
			missing = append(missing, asset)
		}
	}
	return missing
}

// BalanceOf returns the balance of asset, zero when the line is absent.
func (s AccountSnapshot) BalanceOf(asset Asset) decimal.Decimal {
	for _, b := range s.Balances {
		if asset.IsNative() && b.AssetType == AssetTypeNative {
			return b.Balance
		}
		if !asset.IsNative() && b.AssetType != AssetTypeNative && b.Asset().Equal(asset) {
			return b.Balance
		}
	}
	return decimal.Zero
}
