package config

import "time"

// Staking timing rules of the staking program.
type Staking struct {
	// Epoch length of one staking epoch.
	Epoch time.Duration
	// Cooldown wait after unstaking before funds may be claimed.
	Cooldown time.Duration
	// UnbondingEpochs epochs a lock stays bonded.
	UnbondingEpochs int
	// DeployedAt start of epoch zero.
	DeployedAt time.Time
}

// EpochAt returns the epoch number containing t; times before deployment are epoch 0.
func (s Staking) EpochAt(t time.Time) int64 {
	if s.Epoch <= 0 || !t.After(s.DeployedAt) {
		return 0
	}
	return int64(t.Sub(s.DeployedAt) / s.Epoch)
}

// EpochStart returns the start time of the given epoch.
func (s Staking) EpochStart(epoch int64) time.Time {
	if epoch < 0 {
		epoch = 0
	}
	return s.DeployedAt.Add(time.Duration(epoch) * s.Epoch)
}

// UnbondingEndsAt returns when a lock made at lockedAt is released:
// the start of the epoch UnbondingEpochs after the lock epoch.
func (s Staking) UnbondingEndsAt(lockedAt time.Time) time.Time {
	return s.EpochStart(s.EpochAt(lockedAt) + int64(s.UnbondingEpochs) + 1)
}

// CooldownEndsAt returns when an unstake requested at t can be claimed.
func (s Staking) CooldownEndsAt(t time.Time) time.Time {
	return t.Add(s.Cooldown)
}

