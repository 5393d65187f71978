package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DepositType kind of backend-side pool record.
type DepositType string

const (
	DepositTypeLocker             DepositType = "LOCKER"
	DepositTypeLiquidityProvision DepositType = "LIQUIDITY_PROVISION"
)

// ClaimStatus whether a record was already claimed.
type ClaimStatus string

const (
	ClaimStatusClaimed   ClaimStatus = "CLAIMED"
	ClaimStatusUnclaimed ClaimStatus = "UNCLAIMED"
)

// Pool a backend-side deposit record (lock or liquidity provision).
type Pool struct {
	ID           string          `json:"id,omitempty"`
	DepositType  DepositType     `json:"depositType"`
	Claimed      ClaimStatus     `json:"claimed"`
	AssetA       Asset           `json:"assetA"`
	AssetB       Asset           `json:"assetB"`
	AssetAAmount decimal.Decimal `json:"assetAAmount"`
	AssetBAmount decimal.Decimal `json:"assetBAmount"`
}

// ClaimableRecord a reward record the user can claim.
type ClaimableRecord struct {
	ID      string          `json:"id,omitempty"`
	Amount  decimal.Decimal `json:"amount"`
	Claimed ClaimStatus     `json:"claimed"`
}

// AccountRecord the backend-side aggregate for one user.
type AccountRecord struct {
	Pools            []Pool            `json:"pools"`
	ClaimableRecords []ClaimableRecord `json:"claimableRecords"`
}

// UserRecord is owned by the session and replaced wholesale on every refresh.
type UserRecord struct {
	Balances []Balance      `json:"balances"`
	Account  *AccountRecord `json:"account"`
}

// SummarizedAsset per-asset total over liquidity pools.
type SummarizedAsset struct {
	Code   string          `json:"code"`
	Issuer string          `json:"issuer"`
	Amount decimal.Decimal `json:"amount"`
}

// Balance returns the ledger balance for an asset code, zero when absent.
func (r UserRecord) Balance(code string) decimal.Decimal {
	for _, b := range r.Balances {
		if b.AssetCode == code {
			return b.Balance
		}
	}
	return decimal.Zero
}

// StakedAmount sums the unclaimed locker deposits whose second asset has the given code.
func (r UserRecord) StakedAmount(code string) decimal.Decimal {
	total := decimal.Zero
	if r.Account == nil {
		return total
	}
	for _, p := range r.Account.Pools {
		if p.Claimed != ClaimStatusUnclaimed || p.DepositType != DepositTypeLocker {
			continue
		}
		if p.AssetB.Code != code {
			continue
		}
		total = total.Add(p.AssetBAmount)
	}
	return total
}

// ClaimableTotal sums unclaimed claimable records.
func (r UserRecord) ClaimableTotal() decimal.Decimal {
	total := decimal.Zero
	if r.Account == nil {
		return total
	}
	for _, c := range r.Account.ClaimableRecords {
		if c.Claimed == ClaimStatusUnclaimed {
			total = total.Add(c.Amount)
		}
	}
	return total
}

// PoolAndClaimBalance is the staked amount of code plus the claimable total.
func (r UserRecord) PoolAndClaimBalance(code string) decimal.Decimal {
	return r.StakedAmount(code).Add(r.ClaimableTotal())
}

// LiquidityPools returns the liquidity provision records.
func (r UserRecord) LiquidityPools() []Pool {
	if r.Account == nil {
		return nil
	}
	var pools []Pool
	for _, p := range r.Account.Pools {
		if p.DepositType == DepositTypeLiquidityProvision {
			pools = append(pools, p)
		}
	}
	return pools
}

// SummarizeAssets totals both sides of all liquidity pools per asset.
// The result is sorted by asset code for stable payloads.
func (r UserRecord) SummarizeAssets() []SummarizedAsset {
	totals := make(map[Asset]decimal.Decimal)
	add := func(a Asset, amount decimal.Decimal) {
		if cur, ok := totals[a]; ok {
			totals[a] = cur.Add(amount)
			return
		}
		totals[a] = amount
	}
	for _, p := range r.LiquidityPools() {
		add(p.AssetA, p.AssetAAmount)
		add(p.AssetB, p.AssetBAmount)
	}

	summary := make([]SummarizedAsset, 0, len(totals))
	for a, amount := range totals {
		summary = append(summary, SummarizedAsset{Code: a.Code, Issuer: a.Issuer, Amount: amount})
	}
	sort.Slice(summary, func(i, j int) bool {
		if summary[i].Code == summary[j].Code {
			return summary[i].Issuer < summary[j].Issuer
		}
		return summary[i].Code < summary[j].Code
	})
	return summary
}
