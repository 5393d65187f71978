package web

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/whalehub/config"
	"github.com/vadiminshakov/whalehub/internal/domain"
	"github.com/vadiminshakov/whalehub/internal/session"
)

// Overview derives the staking figures shown next to the balances.
type Overview struct {
	Staking config.Staking
	// StakeCode code of the staked asset.
	StakeCode string
	// Wallet preselected on the connect form.
	Wallet domain.WalletID
	Now    func() time.Time
}

type stakingSummary struct {
	Staked    decimal.Decimal `json:"staked"`
	Claimable decimal.Decimal `json:"claimable"`
	// UnstakeBalance staked plus claimable, what an unstake can release.
	UnstakeBalance  decimal.Decimal `json:"unstakeBalance"`
	Epoch           int64           `json:"epoch"`
	NextEpochAt     time.Time       `json:"nextEpochAt"`
	UnbondingEndsAt time.Time       `json:"unbondingEndsAt"`
	CooldownEndsAt  time.Time       `json:"cooldownEndsAt"`
}

type sessionResponse struct {
	session.View
	DefaultWallet domain.WalletID `json:"defaultWallet"`
	Staking       stakingSummary  `json:"staking"`
}

func (o Overview) summarize(rec domain.UserRecord) stakingSummary {
	now := o.Now()
	epoch := o.Staking.EpochAt(now)
	return stakingSummary{
		Staked:          rec.StakedAmount(o.StakeCode),
		Claimable:       rec.ClaimableTotal(),
		UnstakeBalance:  rec.PoolAndClaimBalance(o.StakeCode),
		Epoch:           epoch,
		NextEpochAt:     o.Staking.EpochStart(epoch + 1),
		UnbondingEndsAt: o.Staking.UnbondingEndsAt(now),
		CooldownEndsAt:  o.Staking.CooldownEndsAt(now),
	}
}

func (o Overview) describe(v session.View) sessionResponse {
	return sessionResponse{
		View:          v,
		DefaultWallet: o.Wallet,
		Staking:       o.summarize(v.UserRecord),
	}
}
