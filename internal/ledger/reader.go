// Package ledger reads account state from Horizon and submits signed envelopes.
package ledger

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/strkey"
	"go.uber.org/zap"

	"github.com/vadiminshakov/whalehub/internal/domain"
)

// Horizon is the subset of the Horizon client the ledger package needs.
type Horizon interface {
	AccountDetail(request horizonclient.AccountRequest) (horizon.Account, error)
	SubmitTransactionXDR(transactionXdr string) (horizon.Transaction, error)
}

// NewHorizonClient creates a Horizon client for url.
func NewHorizonClient(url string, timeout time.Duration) *horizonclient.Client {
	return &horizonclient.Client{
		HorizonURL: url,
		HTTP:       &http.Client{Timeout: timeout},
	}
}

// Reader loads account snapshots.
type Reader struct {
	client Horizon
	now    func() time.Time
	logger *zap.Logger
}

// NewReader creates a reader over client.
func NewReader(client Horizon, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{client: client, now: time.Now, logger: logger}
}

// LoadAccount fetches the current state of address. Never cached, never retried.
func (r *Reader) LoadAccount(ctx context.Context, address string) (domain.AccountSnapshot, error) {
	if !strkey.IsValidEd25519PublicKey(address) {
		return domain.AccountSnapshot{}, domain.InputError("Invalid account address.")
	}
	if err := ctx.Err(); err != nil {
		return domain.AccountSnapshot{}, errors.Wrap(domain.ErrNetwork, err.Error())
	}

	acc, err := r.client.AccountDetail(horizonclient.AccountRequest{AccountID: address})
	if err != nil {
		return domain.AccountSnapshot{}, classifyReadError(address, err)
	}

	seq, err := acc.GetSequenceNumber()
	if err != nil {
		return domain.AccountSnapshot{}, errors.Wrapf(domain.ErrNetwork, "invalid sequence of %s: %v", address, err)
	}

	balances := make([]domain.Balance, 0, len(acc.Balances))
	for _, b := range acc.Balances {
		balance, err := toBalance(b)
		if err != nil {
			return domain.AccountSnapshot{}, errors.Wrapf(domain.ErrNetwork, "invalid balance line of %s: %v", address, err)
		}
		balances = append(balances, balance)
	}

	r.logger.Debug("account loaded",
		zap.String("address", address),
		zap.Int64("sequence", seq),
		zap.Int("balances", len(balances)))

	return domain.AccountSnapshot{
		Address:  address,
		Sequence: seq,
		Balances: balances,
		LoadedAt: r.now().UTC(),
	}, nil
}

func toBalance(b horizon.Balance) (domain.Balance, error) {
	amount, err := decimal.NewFromString(b.Balance)
	if err != nil {
		return domain.Balance{}, err
	}
	limit := decimal.Zero
	if b.Limit != "" {
		if limit, err = decimal.NewFromString(b.Limit); err != nil {
			return domain.Balance{}, err
		}
	}
	return domain.Balance{
		AssetType:   b.Type,
		AssetCode:   b.Code,
		AssetIssuer: b.Issuer,
		Balance:     amount,
		Limit:       limit,
	}, nil
}

func classifyReadError(address string, err error) error {
	var hErr *horizonclient.Error
	if errors.As(err, &hErr) {
		if hErr.Problem.Status == http.StatusNotFound {
			return errors.Wrapf(domain.ErrAccountNotFound, "account %s", address)
		}
		return errors.Wrapf(domain.ErrNetwork, "horizon: %s (status %d)", hErr.Problem.Title, hErr.Problem.Status)
	}
	return errors.Wrapf(domain.ErrNetwork, "load account %s: %v", address, err)
}
