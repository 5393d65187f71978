package txbuild

import (
	"time"

	"github.com/pkg/errors"
	"github.com/stellar/go/strkey"
	"github.com/stellar/go/txnbuild"

	"github.com/vadiminshakov/whalehub/internal/domain"
)

// Clock returns the current time; injected so that composition is deterministic.
type Clock func() time.Time

// Composer builds unsigned envelopes. It never inserts operations on its own.
type Composer struct {
	now Clock
}

// NewComposer creates a composer. A nil clock means time.Now.
func NewComposer(clock Clock) *Composer {
	if clock == nil {
		clock = time.Now
	}
	return &Composer{now: clock}
}

// Compose builds an envelope spending snapshot.Sequence+1 with ops in the given order.
func (c *Composer) Compose(snapshot domain.AccountSnapshot, ops []domain.Operation, opts Options) (Envelope, error) {
	if !strkey.IsValidEd25519PublicKey(snapshot.Address) {
		return Envelope{}, errors.Wrapf(domain.ErrUserInput, "invalid source account %q", snapshot.Address)
	}
	if len(ops) == 0 {
		return Envelope{}, errors.Wrap(domain.ErrUserInput, "transaction has no operations")
	}
	if opts.Timeout <= 0 {
		return Envelope{}, errors.New("transaction timeout must be positive")
	}
	if opts.NetworkPassphrase == "" {
		return Envelope{}, errors.New("network passphrase is empty")
	}

	txOps := make([]txnbuild.Operation, 0, len(ops))
	for i, op := range ops {
		txOp, err := toTxOperation(op)
		if err != nil {
			return Envelope{}, errors.Wrapf(err, "operation %d", i)
		}
		txOps = append(txOps, txOp)
	}

	validUntil := c.now().Add(opts.Timeout).UTC().Truncate(time.Second)
	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &txnbuild.SimpleAccount{AccountID: snapshot.Address, Sequence: snapshot.Sequence},
		IncrementSequenceNum: true,
		Operations:           txOps,
		BaseFee:              opts.BaseFee,
		Preconditions: txnbuild.Preconditions{
			TimeBounds: txnbuild.NewTimebounds(0, validUntil.Unix()),
		},
	})
	if err != nil {
		return Envelope{}, errors.Wrap(err, "failed to build transaction")
	}

	xdr, err := tx.Base64()
	if err != nil {
		return Envelope{}, errors.Wrap(err, "failed to encode transaction")
	}
	hash, err := tx.HashHex(opts.NetworkPassphrase)
	if err != nil {
		return Envelope{}, errors.Wrap(err, "failed to hash transaction")
	}

	descriptors := make([]domain.Operation, len(ops))
	copy(descriptors, ops)

	return Envelope{
		XDR:               xdr,
		Hash:              hash,
		Source:            snapshot.Address,
		Sequence:          tx.SequenceNumber(),
		Operations:        descriptors,
		BaseFee:           opts.BaseFee,
		NetworkPassphrase: opts.NetworkPassphrase,
		ValidUntil:        validUntil,
	}, nil
}

func toTxOperation(op domain.Operation) (txnbuild.Operation, error) {
	switch op.Type {
	case domain.OperationChangeTrust:
		if op.Asset.IsNative() {
			return nil, errors.Wrap(domain.ErrUserInput, "cannot trust the native asset")
		}
		if !strkey.IsValidEd25519PublicKey(op.Asset.Issuer) {
			return nil, errors.Wrapf(domain.ErrUserInput, "invalid issuer %q", op.Asset.Issuer)
		}
		if op.Limit.IsNegative() {
			return nil, errors.Wrap(domain.ErrUserInput, "trust limit must not be negative")
		}
		line, err := txnbuild.CreditAsset{Code: op.Asset.Code, Issuer: op.Asset.Issuer}.ToChangeTrustAsset()
		if err != nil {
			return nil, errors.Wrap(err, "invalid trust line asset")
		}
		return &txnbuild.ChangeTrust{Line: line, Limit: FormatAmount(op.Limit)}, nil

	case domain.OperationPayment:
		if !strkey.IsValidEd25519PublicKey(op.Destination) {
			return nil, errors.Wrapf(domain.ErrUserInput, "invalid destination %q", op.Destination)
		}
		if !op.Amount.Truncate(AmountPrecision).IsPositive() {
			return nil, errors.Wrapf(domain.ErrUserInput, "payment amount must be positive, got %s", op.Amount)
		}
		asset, err := toTxAsset(op.Asset)
		if err != nil {
			return nil, err
		}
		return &txnbuild.Payment{Destination: op.Destination, Amount: FormatAmount(op.Amount), Asset: asset}, nil
	}

	return nil, errors.Errorf("unsupported operation type %s", op.Type)
}

func toTxAsset(a domain.Asset) (txnbuild.Asset, error) {
	if a.IsNative() {
		return txnbuild.NativeAsset{}, nil
	}
	if !strkey.IsValidEd25519PublicKey(a.Issuer) {
		return nil, errors.Wrapf(domain.ErrUserInput, "invalid issuer %q", a.Issuer)
	}
	return txnbuild.CreditAsset{Code: a.Code, Issuer: a.Issuer}, nil
}
