package orchestrator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/whalehub/internal/domain"
	"github.com/vadiminshakov/whalehub/internal/session"
	"github.com/vadiminshakov/whalehub/internal/txbuild"
)

// Request user input of one action. Amounts are kept as typed.
type Request struct {
	Kind       domain.ActionKind `json:"kind"`
	Amount     string            `json:"amount,omitempty"`
	AquaAmount string            `json:"aquaAmount,omitempty"`
	BlubAmount string            `json:"blubAmount,omitempty"`
	Percentage string            `json:"percentage,omitempty"`
}

// UnmarshalJSON accepts amounts as JSON strings or numbers.
func (r *Request) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind       domain.ActionKind `json:"kind"`
		Amount     json.RawMessage   `json:"amount"`
		AquaAmount json.RawMessage   `json:"aquaAmount"`
		BlubAmount json.RawMessage   `json:"blubAmount"`
		Percentage json.RawMessage   `json:"percentage"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Kind = raw.Kind
	for _, field := range []struct {
		dst *string
		src json.RawMessage
	}{
		{&r.Amount, raw.Amount},
		{&r.AquaAmount, raw.AquaAmount},
		{&r.BlubAmount, raw.BlubAmount},
		{&r.Percentage, raw.Percentage},
	} {
		value, err := rawNumber(field.src)
		if err != nil {
			return err
		}
		*field.dst = value
	}
	return nil
}

func rawNumber(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", errors.Errorf("amount must be a string or a number, got %s", raw)
	}
	return n.String(), nil
}

func (r Request) draft() session.Draft {
	return session.Draft{
		Amount:     r.Amount,
		AquaAmount: r.AquaAmount,
		BlubAmount: r.BlubAmount,
		Percentage: r.Percentage,
	}
}

var hundred = decimal.NewFromInt(100)

// parseAmount returns a positive amount the ledger can carry, truncated to its precision,
// or a user input error with missing as the message for an empty value.
func parseAmount(value, missing string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Decimal{}, domain.InputError(missing)
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, domain.InputError("Please input a valid amount.")
	}
	amount = amount.Truncate(txbuild.AmountPrecision)
	if !amount.IsPositive() {
		return decimal.Decimal{}, domain.InputError("Amount must be greater than zero.")
	}
	if amount.GreaterThan(txbuild.MaxAmount) {
		return decimal.Decimal{}, domain.InputError(fmt.Sprintf("Amount must not exceed %s.", txbuild.MaxAmount))
	}
	return amount, nil
}

func parsePercentage(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Decimal{}, domain.InputError("Please input a percentage.")
	}
	pct, err := decimal.NewFromString(value)
	if err != nil || !pct.IsPositive() || pct.GreaterThan(hundred) {
		return decimal.Decimal{}, domain.InputError("Percentage must be greater than 0 and at most 100.")
	}
	return pct, nil
}
