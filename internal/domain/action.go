package domain

import "fmt"

// ActionKind identifies a user-initiated action guarded by its own pending state.
type ActionKind string

const (
	ActionLock              ActionKind = "lock"
	ActionProvideLiquidity  ActionKind = "provide_liquidity"
	ActionUnstake           ActionKind = "unstake"
	ActionWithdrawLiquidity ActionKind = "withdraw_liquidity"
	ActionRedeemReward      ActionKind = "redeem_reward"
)

// ActionKinds lists every action kind.
var ActionKinds = []ActionKind{
	ActionLock,
	ActionProvideLiquidity,
	ActionUnstake,
	ActionWithdrawLiquidity,
	ActionRedeemReward,
}

// String returns the string representation.
func (k ActionKind) String() string {
	return string(k)
}

// IsValid checks if the ActionKind value is known.
func (k ActionKind) IsValid() bool {
	for _, known := range ActionKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ActionState lifecycle of one action kind.
type ActionState int

const (
	StateIdle ActionState = iota
	StatePending
	StateSucceeded
	StateFailed
)

// String returns the string representation of the state.
func (s ActionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText lets states appear by name in JSON payloads and map keys.
func (s ActionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name written by MarshalText.
func (s *ActionState) UnmarshalText(text []byte) error {
	for _, candidate := range []ActionState{StateIdle, StatePending, StateSucceeded, StateFailed} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown action state %q", text)
}
