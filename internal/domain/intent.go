package domain

import (
	"time"

	"github.com/google/uuid"
)

// IntentStatus progress of a journaled action.
type IntentStatus string

const (
	IntentPending   IntentStatus = "pending"
	IntentSucceeded IntentStatus = "succeeded"
	IntentFailed    IntentStatus = "failed"
)

// Intent journal entry of one action run. The same ID is written once per status change.
type Intent struct {
	ID      string            `json:"id"`
	Kind    ActionKind        `json:"kind"`
	Status  IntentStatus      `json:"status"`
	Address string            `json:"address,omitempty"`
	Amounts map[string]string `json:"amounts,omitempty"`
	TxHash  string            `json:"tx_hash,omitempty"`
	Error   string            `json:"error,omitempty"`
	Time    time.Time         `json:"ts"`
}

// NewIntent starts a pending intent with a fresh id.
func NewIntent(kind ActionKind, address string, amounts map[string]string) Intent {
	return Intent{
		ID:      uuid.New().String(),
		Kind:    kind,
		Status:  IntentPending,
		Address: address,
		Amounts: amounts,
		Time:    time.Now().UTC(),
	}
}

// Succeeded returns the intent moved to succeeded.
func (i Intent) Succeeded(txHash string) Intent {
	i.Status = IntentSucceeded
	i.TxHash = txHash
	i.Error = ""
	i.Time = time.Now().UTC()
	return i
}

// Failed returns the intent moved to failed with the cause.
func (i Intent) Failed(err error) Intent {
	i.Status = IntentFailed
	if err != nil {
		i.Error = err.Error()
	}
	i.Time = time.Now().UTC()
	return i
}

// IntentRecord bundles an intent with its journal index.
type IntentRecord struct {
	Index  uint64
	Intent Intent
}
