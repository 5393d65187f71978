package ledger

import (
	"context"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/protocols/horizon/base"
	"github.com/stellar/go/support/render/problem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/whalehub/internal/domain"
)

func TestReader_LoadAccount(t *testing.T) {
	address := keypair.MustRandom().Address()
	issuer := keypair.MustRandom().Address()

	hmock := &horizonclient.MockClient{}
	defer hmock.AssertExpectations(t)
	hmock.On("AccountDetail", horizonclient.AccountRequest{AccountID: address}).Return(horizon.Account{
		AccountID: address,
		Sequence:  123456789,
		Balances: []horizon.Balance{
			{Balance: "99.5000000", Asset: base.Asset{Type: "native"}},
			{Balance: "50.0000000", Limit: "922337203685.4775807", Asset: base.Asset{Type: "credit_alphanum4", Code: "AQUA", Issuer: issuer}},
		},
	}, nil)

	snap, err := NewReader(hmock, nil).LoadAccount(context.Background(), address)
	require.NoError(t, err)

	assert.Equal(t, address, snap.Address)
	assert.Equal(t, int64(123456789), snap.Sequence)
	require.Len(t, snap.Balances, 2)
	assert.True(t, snap.BalanceOf(domain.Asset{}).Equal(decimal.RequireFromString("99.5")))
	assert.True(t, snap.Trusts(domain.NewAsset("AQUA", issuer)))
	assert.False(t, snap.LoadedAt.IsZero())
}

func TestReader_Errors(t *testing.T) {
	address := keypair.MustRandom().Address()

	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{
			name:    "not found",
			err:     &horizonclient.Error{Problem: problem.P{Status: http.StatusNotFound, Title: "Resource Missing"}},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name:    "server problem",
			err:     &horizonclient.Error{Problem: problem.P{Status: http.StatusServiceUnavailable, Title: "Service Unavailable"}},
			wantErr: domain.ErrNetwork,
		},
		{
			name:    "transport",
			err:     errors.New("dial tcp: connection refused"),
			wantErr: domain.ErrNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hmock := &horizonclient.MockClient{}
			hmock.On("AccountDetail", horizonclient.AccountRequest{AccountID: address}).Return(horizon.Account{}, tt.err).Once()

			_, err := NewReader(hmock, nil).LoadAccount(context.Background(), address)
			assert.ErrorIs(t, err, tt.wantErr)
			hmock.AssertNumberOfCalls(t, "AccountDetail", 1)
		})
	}
}

func TestReader_InvalidAddressSkipsNetwork(t *testing.T) {
	hmock := &horizonclient.MockClient{}

	_, err := NewReader(hmock, nil).LoadAccount(context.Background(), "not-an-address")
	assert.ErrorIs(t, err, domain.ErrUserInput)
	hmock.AssertNotCalled(t, "AccountDetail")
}

func TestSubmitter_SubmitXDR(t *testing.T) {
	hmock := &horizonclient.MockClient{}
	hmock.On("SubmitTransactionXDR", "AAAA").Return(horizon.Transaction{
		Hash:          "abc123",
		Ledger:        777,
		ResultMetaXdr: "meta",
		Successful:    true,
	}, nil).Once()

	res, err := NewSubmitter(hmock, nil).SubmitXDR(context.Background(), "AAAA")
	require.NoError(t, err)
	assert.Equal(t, "abc123", res.TxHash)
	assert.Equal(t, int32(777), res.Ledger)
	assert.Equal(t, "meta", res.ResultMetaXDR)
}

func TestSubmitter_Errors(t *testing.T) {
	rejected := &horizonclient.Error{Problem: problem.P{
		Status: http.StatusBadRequest,
		Title:  "Transaction Failed",
		Extras: map[string]interface{}{
			"result_codes": map[string]interface{}{
				"transaction": "tx_failed",
				"operations":  []interface{}{"op_underfunded"},
			},
		},
	}}

	tests := []struct {
		name     string
		err      error
		wantErr  error
		contains string
	}{
		{name: "result codes", err: rejected, wantErr: domain.ErrSubmissionFailed, contains: "op_underfunded"},
		{name: "bad sequence", err: &horizonclient.Error{Problem: problem.P{
			Status: http.StatusBadRequest,
			Title:  "Transaction Failed",
			Extras: map[string]interface{}{"result_codes": map[string]interface{}{"transaction": "tx_bad_seq"}},
		}}, wantErr: domain.ErrSubmissionFailed, contains: "tx_bad_seq"},
		{name: "problem without codes", err: &horizonclient.Error{Problem: problem.P{Status: http.StatusGatewayTimeout, Title: "Timeout"}},
			wantErr: domain.ErrSubmissionFailed, contains: "Timeout"},
		{name: "unreachable", err: errors.New("no such host"), wantErr: domain.ErrTransport, contains: "no such host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hmock := &horizonclient.MockClient{}
			hmock.On("SubmitTransactionXDR", "AAAA").Return(horizon.Transaction{}, tt.err).Once()

			_, err := NewSubmitter(hmock, nil).SubmitXDR(context.Background(), "AAAA")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}

	assert.Equal(t, []string{"tx_failed", "op_underfunded"}, ResultCodes(rejected))
	assert.Nil(t, ResultCodes(errors.New("plain")))
}
