package ledger

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/stellar/go/clients/horizonclient"
	"go.uber.org/zap"

	"github.com/vadiminshakov/whalehub/internal/domain"
	"github.com/vadiminshakov/whalehub/internal/txbuild"
)

// Submitter sends signed envelopes to the network. No automatic retry.
type Submitter struct {
	client Horizon
	logger *zap.Logger
}

// NewSubmitter creates a submitter over client.
func NewSubmitter(client Horizon, logger *zap.Logger) *Submitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Submitter{client: client, logger: logger}
}

// SubmitXDR submits a signed base64 envelope and waits for its inclusion.
func (s *Submitter) SubmitXDR(ctx context.Context, signedXDR string) (txbuild.Result, error) {
	if err := ctx.Err(); err != nil {
		return txbuild.Result{}, errors.Wrap(domain.ErrTransport, err.Error())
	}

	tx, err := s.client.SubmitTransactionXDR(signedXDR)
	if err != nil {
		return txbuild.Result{}, classifySubmitError(err)
	}
	if !tx.Successful {
		return txbuild.Result{}, errors.Wrapf(domain.ErrSubmissionFailed, "transaction %s was not successful", tx.Hash)
	}

	s.logger.Info("transaction confirmed", zap.String("hash", tx.Hash), zap.Int32("ledger", tx.Ledger))

	return txbuild.Result{
		TxHash:        tx.Hash,
		ResultMetaXDR: tx.ResultMetaXdr,
		Ledger:        tx.Ledger,
	}, nil
}

// ResultCodes returns the ledger result codes carried by a submission error, e.g. tx_bad_seq.
func ResultCodes(err error) []string {
	var hErr *horizonclient.Error
	if !errors.As(err, &hErr) {
		return nil
	}
	rc, rcErr := hErr.ResultCodes()
	if rcErr != nil || rc == nil {
		return nil
	}
	var codes []string
	if rc.TransactionCode != "" {
		codes = append(codes, rc.TransactionCode)
	}
	if rc.InnerTransactionCode != "" {
		codes = append(codes, rc.InnerTransactionCode)
	}
	return append(codes, rc.OperationCodes...)
}

func classifySubmitError(err error) error {
	var hErr *horizonclient.Error
	if !errors.As(err, &hErr) {
		return errors.Wrap(domain.ErrTransport, err.Error())
	}
	if codes := ResultCodes(err); len(codes) > 0 {
		return errors.Wrap(domain.ErrSubmissionFailed, strings.Join(codes, ", "))
	}
	return errors.Wrapf(domain.ErrSubmissionFailed, "%s (status %d)", hErr.Problem.Title, hErr.Problem.Status)
}
