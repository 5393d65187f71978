// Package backend is the client of the staking REST API that records completed actions
// and aggregates per-user pool records.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/whalehub/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodySize    = 1 << 20
)

// Client talks to the backend. Requests are never retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// LockRequest payload of /token/lock.
type LockRequest struct {
	AssetCode       string `json:"assetCode"`
	AssetIssuer     string `json:"assetIssuer"`
	Amount          string `json:"amount"`
	SignedTxXDR     string `json:"signedTxXdr"`
	SenderPublicKey string `json:"senderPublicKey"`
	TxHash          string `json:"txHash,omitempty"`
}

// LiquidityAsset one side of a liquidity deposit.
type LiquidityAsset struct {
	Code   string `json:"code"`
	Issuer string `json:"issuer"`
	Amount string `json:"amount"`
}

// AddLiquidityRequest payload of /token/add-liquidity.
type AddLiquidityRequest struct {
	Asset1          LiquidityAsset `json:"asset1"`
	Asset2          LiquidityAsset `json:"asset2"`
	SignedTxXDR     string         `json:"signedTxXdr"`
	SenderPublicKey string         `json:"senderPublicKey"`
	TxHash          string         `json:"txHash,omitempty"`
}

// PoolShareRequest payload of /token/remove-liquidity and /token/redeem-reward.
type PoolShareRequest struct {
	SenderPublicKey    string                   `json:"senderPublicKey"`
	UserPoolPercentage json.Number              `json:"userPoolPercentage"`
	SummarizedAssets   []domain.SummarizedAsset `json:"summerizedAssets"`
}

// UnstakeRequest payload of /token/unstake.
type UnstakeRequest struct {
	SenderPublicKey string `json:"senderPublicKey"`
	Amount          string `json:"amount"`
}

// ServerRecord the backend's confirmation of a recorded action.
type ServerRecord struct {
	Message string          `json:"message,omitempty"`
	Hash    string          `json:"hash,omitempty"`
	Raw     json.RawMessage `json:"-"`
}

type errorEnvelope struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Lock records a signed lock transaction.
func (c *Client) Lock(ctx context.Context, req LockRequest) (ServerRecord, error) {
	return c.record(ctx, "/token/lock", req)
}

// AddLiquidity records a signed liquidity deposit.
func (c *Client) AddLiquidity(ctx context.Context, req AddLiquidityRequest) (ServerRecord, error) {
	return c.record(ctx, "/token/add-liquidity", req)
}

// RemoveLiquidity withdraws a percentage of the user's pool share.
func (c *Client) RemoveLiquidity(ctx context.Context, req PoolShareRequest) (ServerRecord, error) {
	return c.record(ctx, "/token/remove-liquidity", req)
}

// RedeemReward redeems a percentage of the user's pool rewards.
func (c *Client) RedeemReward(ctx context.Context, req PoolShareRequest) (ServerRecord, error) {
	return c.record(ctx, "/token/redeem-reward", req)
}

// Unstake requests release of staked funds. The backend validates the amount.
func (c *Client) Unstake(ctx context.Context, req UnstakeRequest) (ServerRecord, error) {
	return c.record(ctx, "/token/unstake", req)
}

// FetchUserRecord returns the backend-side aggregate of address.
func (c *Client) FetchUserRecord(ctx context.Context, address string) (domain.AccountRecord, error) {
	endpoint := c.baseURL + "/token/user?" + url.Values{"userPublicKey": {address}}.Encode()
	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.AccountRecord{}, err
	}

	var rec domain.AccountRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return domain.AccountRecord{}, domain.Failure(domain.ErrNetwork, unknownError, errors.Wrap(err, "failed to unmarshal user record"))
	}
	return rec, nil
}

const unknownError = "An unknown error occurred"

func (c *Client) record(ctx context.Context, path string, payload interface{}) (ServerRecord, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return ServerRecord{}, errors.Wrap(err, "failed to marshal request")
	}

	body, err := c.do(ctx, http.MethodPost, c.baseURL+path, jsonData)
	if err != nil {
		return ServerRecord{}, err
	}

	rec := ServerRecord{Raw: json.RawMessage(body)}
	// non-object confirmations are kept raw only
	_ = json.Unmarshal(body, &rec)

	c.logger.Info("backend recorded action", zap.String("path", path))
	return rec, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, jsonData []byte) ([]byte, error) {
	var reqBody io.Reader
	if jsonData != nil {
		reqBody = bytes.NewReader(jsonData)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create HTTP request")
	}
	if jsonData != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(domain.ErrNetwork, fmt.Sprintf("HTTP request failed: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrap(domain.ErrNetwork, fmt.Sprintf("failed to read response body: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.responseError(method, endpoint, resp.StatusCode, body)
	}
	return body, nil
}

func (c *Client) responseError(method, endpoint string, status int, body []byte) error {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil && envelope.Error.Message != "" {
		c.logger.Warn("backend rejected request",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Int("status", status),
			zap.String("message", envelope.Error.Message))
		return &domain.ValidationError{Message: envelope.Error.Message}
	}

	c.logger.Warn("backend returned unexpected response",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Int("status", status))
	return domain.Failure(domain.ErrNetwork, unknownError, errors.Errorf("backend returned status %d", status))
}
