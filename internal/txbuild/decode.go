package txbuild

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stellar/go/txnbuild"

	"github.com/vadiminshakov/whalehub/internal/domain"
)

// DecodedEnvelope descriptor view of an encoded transaction.
type DecodedEnvelope struct {
	Source     string
	Sequence   int64
	Operations []domain.Operation
	Signatures int
	BaseFee    int64
	Hash       string
	ValidUntil time.Time
}

// Decode parses a base64 envelope built for passphrase back into descriptors.
func Decode(envelopeXDR, passphrase string) (DecodedEnvelope, error) {
	tx, err := parse(envelopeXDR)
	if err != nil {
		return DecodedEnvelope{}, err
	}

	ops := make([]domain.Operation, 0, len(tx.Operations()))
	for i, op := range tx.Operations() {
		descriptor, err := fromTxOperation(op)
		if err != nil {
			return DecodedEnvelope{}, errors.Wrapf(err, "operation %d", i)
		}
		ops = append(ops, descriptor)
	}

	hash, err := tx.HashHex(passphrase)
	if err != nil {
		return DecodedEnvelope{}, errors.Wrap(err, "failed to hash transaction")
	}

	decoded := DecodedEnvelope{
		Source:     tx.SourceAccount().AccountID,
		Sequence:   tx.SequenceNumber(),
		Operations: ops,
		Signatures: len(tx.Signatures()),
		BaseFee:    tx.BaseFee(),
		Hash:       hash,
	}
	if bounds := tx.Timebounds(); bounds.MaxTime > 0 {
		decoded.ValidUntil = time.Unix(bounds.MaxTime, 0).UTC()
	}
	return decoded, nil
}

func parse(envelopeXDR string) (*txnbuild.Transaction, error) {
	generic, err := txnbuild.TransactionFromXDR(envelopeXDR)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode transaction envelope")
	}
	tx, ok := generic.Transaction()
	if !ok {
		return nil, errors.New("fee bump transactions are not supported")
	}
	return tx, nil
}

func fromTxOperation(op txnbuild.Operation) (domain.Operation, error) {
	switch o := op.(type) {
	case *txnbuild.ChangeTrust:
		limit, err := decimal.NewFromString(o.Limit)
		if err != nil {
			return domain.Operation{}, errors.Wrapf(err, "invalid trust limit %q", o.Limit)
		}
		return domain.ChangeTrust(domain.NewAsset(o.Line.GetCode(), o.Line.GetIssuer()), limit), nil

	case *txnbuild.Payment:
		amount, err := decimal.NewFromString(o.Amount)
		if err != nil {
			return domain.Operation{}, errors.Wrapf(err, "invalid payment amount %q", o.Amount)
		}
		var asset domain.Asset
		if !o.Asset.IsNative() {
			asset = domain.NewAsset(o.Asset.GetCode(), o.Asset.GetIssuer())
		}
		return domain.Payment(o.Destination, asset, amount), nil
	}

	return domain.Operation{}, errors.Errorf("unsupported operation %T", op)
}
