// Package txbuild composes unsigned ledger transactions from operation descriptors
// and decodes envelopes back into descriptors.
package txbuild

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/whalehub/internal/domain"
)

// AmountPrecision number of decimal places the ledger keeps for amounts.
const AmountPrecision = 7

// MaxAmount largest amount a single operation can carry (int64 stroops).
var MaxAmount = decimal.New(math.MaxInt64, -AmountPrecision)

// Options parameters of one composed transaction.
type Options struct {
	// BaseFee fee per operation in stroops.
	BaseFee int64
	// Timeout validity window counted from the composer's clock.
	Timeout time.Duration
	// NetworkPassphrase network the envelope is built for.
	NetworkPassphrase string
}

// Envelope a built, unsigned transaction. Immutable.
type Envelope struct {
	XDR               string
	Hash              string
	Source            string
	Sequence          int64
	Operations        []domain.Operation
	BaseFee           int64
	NetworkPassphrase string
	ValidUntil        time.Time
}

// Fee total fee of the envelope in stroops.
func (e Envelope) Fee() int64 {
	return e.BaseFee * int64(len(e.Operations))
}

// FeeXLM total fee of the envelope in XLM.
func (e Envelope) FeeXLM() decimal.Decimal {
	return StroopsToXLM(e.Fee())
}

// SignedEnvelope an envelope carrying the wallet's signature. Immutable.
type SignedEnvelope struct {
	Envelope
	SignedXDR string
}

// Result outcome of a confirmed submission.
type Result struct {
	TxHash        string
	ResultMetaXDR string
	Ledger        int32
}

// FormatAmount renders amount with exactly seven decimal places, truncating toward zero.
func FormatAmount(amount decimal.Decimal) string {
	return amount.Truncate(AmountPrecision).StringFixed(AmountPrecision)
}

// StroopsToXLM converts stroops to XLM.
func StroopsToXLM(stroops int64) decimal.Decimal {
	return decimal.New(stroops, -AmountPrecision)
}
