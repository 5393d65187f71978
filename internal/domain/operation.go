package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OperationType discriminates operation descriptors.
type OperationType int

const (
	OperationChangeTrust OperationType = iota
	OperationPayment
)

// String returns the string representation of the operation type.
func (t OperationType) String() string {
	switch t {
	case OperationChangeTrust:
		return "change_trust"
	case OperationPayment:
		return "payment"
	default:
		return "unknown"
	}
}

// Operation is an immutable descriptor of a single ledger operation.
// Exactly one of the typed payloads is meaningful, selected by Type.
type Operation struct {
	Type        OperationType
	Asset       Asset
	Limit       decimal.Decimal
	Destination string
	Amount      decimal.Decimal
}

// ChangeTrust creates or updates a trust line for asset up to limit.
func ChangeTrust(asset Asset, limit decimal.Decimal) Operation {
	return Operation{Type: OperationChangeTrust, Asset: asset, Limit: limit}
}

// Payment sends amount of asset to destination.
func Payment(destination string, asset Asset, amount decimal.Decimal) Operation {
	return Operation{Type: OperationPayment, Destination: destination, Asset: asset, Amount: amount}
}

// Equal compares two descriptors by value, amounts compared numerically.
func (o Operation) Equal(other Operation) bool {
	if o.Type != other.Type || !o.Asset.Equal(other.Asset) {
		return false
	}
	switch o.Type {
	case OperationChangeTrust:
		return o.Limit.Equal(other.Limit)
	case OperationPayment:
		return o.Destination == other.Destination && o.Amount.Equal(other.Amount)
	}
	return false
}

func (o Operation) String() string {
	switch o.Type {
	case OperationChangeTrust:
		return fmt.Sprintf("change_trust(%s, limit=%s)", o.Asset, o.Limit)
	case OperationPayment:
		return fmt.Sprintf("payment(%s %s -> %s)", o.Amount, o.Asset, o.Destination)
	}
	return "unknown"
}
