package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/whalehub/internal/domain"
)

func TestClient_Lock(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/token/lock", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"locked","hash":"abc"}`))
	}))
	defer srv.Close()

	rec, err := NewClient(srv.URL, nil).Lock(context.Background(), LockRequest{
		AssetCode:       "AQUA",
		AssetIssuer:     "GISSUER",
		Amount:          "10.0000000",
		SignedTxXDR:     "AAAA",
		SenderPublicKey: "GSENDER",
	})
	require.NoError(t, err)
	assert.Equal(t, "locked", rec.Message)
	assert.Equal(t, "abc", rec.Hash)

	assert.Equal(t, "AQUA", got["assetCode"])
	assert.Equal(t, "AAAA", got["signedTxXdr"])
	assert.Equal(t, "GSENDER", got["senderPublicKey"])
	assert.NotContains(t, got, "txHash")
}

func TestClient_PoolShareAndUnstakePayloads(t *testing.T) {
	bodies := map[string]map[string]interface{}{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		bodies[r.URL.Path] = payload
		_, _ = w.Write([]byte(`"ok"`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	share := PoolShareRequest{
		SenderPublicKey:    "GSENDER",
		UserPoolPercentage: json.Number("25"),
		SummarizedAssets:   []domain.SummarizedAsset{{Code: "AQUA", Issuer: "GI", Amount: decimal.NewFromInt(4)}},
	}

	rec, err := c.RemoveLiquidity(context.Background(), share)
	require.NoError(t, err)
	assert.JSONEq(t, `"ok"`, string(rec.Raw))

	_, err = c.RedeemReward(context.Background(), share)
	require.NoError(t, err)
	_, err = c.Unstake(context.Background(), UnstakeRequest{SenderPublicKey: "GSENDER", Amount: "500"})
	require.NoError(t, err)

	assert.Equal(t, float64(25), bodies["/token/remove-liquidity"]["userPoolPercentage"])
	assert.Len(t, bodies["/token/remove-liquidity"]["summerizedAssets"], 1)
	assert.Contains(t, bodies, "/token/redeem-reward")
	assert.Equal(t, "500", bodies["/token/unstake"]["amount"])
}

func TestClient_FetchUserRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token/user", r.URL.Path)
		assert.Equal(t, "GUSER", r.URL.Query().Get("userPublicKey"))
		_, _ = w.Write([]byte(`{"pools":[{"depositType":"LOCKER","claimed":"UNCLAIMED",
			"assetA":{"code":"WHLAQUA","issuer":"GI"},"assetB":{"code":"AQUA","issuer":"GI"},
			"assetAAmount":"0","assetBAmount":"12"}],"claimableRecords":[]}`))
	}))
	defer srv.Close()

	rec, err := NewClient(srv.URL, nil).FetchUserRecord(context.Background(), "GUSER")
	require.NoError(t, err)
	require.Len(t, rec.Pools, 1)
	assert.True(t, rec.Pools[0].AssetBAmount.Equal(decimal.NewFromInt(12)))
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		category error
		message  string
	}{
		{
			name:     "validation envelope",
			status:   http.StatusBadRequest,
			body:     `{"error":{"message":"Amount exceeds staked balance"}}`,
			category: domain.ErrServerValidation,
			message:  "Amount exceeds staked balance",
		},
		{
			name:     "html error page",
			status:   http.StatusBadGateway,
			body:     `<html>bad gateway</html>`,
			category: domain.ErrNetwork,
			message:  "An unknown error occurred",
		},
		{
			name:     "empty error message",
			status:   http.StatusInternalServerError,
			body:     `{"error":{"message":""}}`,
			category: domain.ErrNetwork,
			message:  "An unknown error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, nil).Unstake(context.Background(), UnstakeRequest{SenderPublicKey: "G", Amount: "1"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.category)
			assert.Equal(t, tt.message, domain.UserMessage(err))
		})
	}
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, nil).FetchUserRecord(context.Background(), "GUSER")
	assert.ErrorIs(t, err, domain.ErrNetwork)
}
