package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/whalehub/config"
	"github.com/vadiminshakov/whalehub/internal/backend"
	"github.com/vadiminshakov/whalehub/internal/domain"
	"github.com/vadiminshakov/whalehub/internal/session"
	"github.com/vadiminshakov/whalehub/internal/txbuild"
	"github.com/vadiminshakov/whalehub/internal/wallet"
)

// Lock stakes amount of AQUA, adding the reward trust line first when it is missing.
func (o *Orchestrator) Lock(ctx context.Context, sess *session.Session, amount string) error {
	return o.Execute(ctx, sess, Request{Kind: domain.ActionLock, Amount: amount})
}

// ProvideLiquidity deposits both pool assets to the liquidity sponsor.
func (o *Orchestrator) ProvideLiquidity(ctx context.Context, sess *session.Session, aquaAmount, blubAmount string) error {
	return o.Execute(ctx, sess, Request{Kind: domain.ActionProvideLiquidity, AquaAmount: aquaAmount, BlubAmount: blubAmount})
}

// Unstake asks the backend to release amount of staked AQUA.
func (o *Orchestrator) Unstake(ctx context.Context, sess *session.Session, amount string) error {
	return o.Execute(ctx, sess, Request{Kind: domain.ActionUnstake, Amount: amount})
}

// WithdrawLiquidity withdraws percentage of the user's liquidity position.
func (o *Orchestrator) WithdrawLiquidity(ctx context.Context, sess *session.Session, percentage string) error {
	return o.Execute(ctx, sess, Request{Kind: domain.ActionWithdrawLiquidity, Percentage: percentage})
}

// RedeemReward redeems percentage of the user's liquidity rewards.
func (o *Orchestrator) RedeemReward(ctx context.Context, sess *session.Session, percentage string) error {
	return o.Execute(ctx, sess, Request{Kind: domain.ActionRedeemReward, Percentage: percentage})
}

// prepare validates req against the session without any I/O.
func (o *Orchestrator) prepare(sess *session.Session, req Request) (action, error) {
	w, ws, err := sess.Signer()
	if err != nil {
		return action{}, err
	}

	switch req.Kind {
	case domain.ActionLock:
		amount, err := parseAmount(req.Amount, "Please input amount to stake.")
		if err != nil {
			return action{}, err
		}
		if amount.LessThan(o.cfg.MinDeposit) {
			return action{}, domain.InputError(fmt.Sprintf("Minimum amount to stake is %s %s.", o.cfg.MinDeposit, o.cfg.Assets.Aqua.Code))
		}
		return action{
			kind:    req.Kind,
			amounts: map[string]string{"amount": amount.String()},
			run: func(ctx context.Context) (outcome, error) {
				return o.lock(ctx, w, ws.Address, amount)
			},
		}, nil

	case domain.ActionProvideLiquidity:
		const missing = "Please input both AQUA and BLUB amounts."
		aquaAmount, err := parseAmount(req.AquaAmount, missing)
		if err != nil {
			return action{}, err
		}
		blubAmount, err := parseAmount(req.BlubAmount, missing)
		if err != nil {
			return action{}, err
		}
		return action{
			kind:    req.Kind,
			amounts: map[string]string{"aqua": aquaAmount.String(), "blub": blubAmount.String()},
			run: func(ctx context.Context) (outcome, error) {
				return o.provideLiquidity(ctx, w, ws.Address, aquaAmount, blubAmount)
			},
		}, nil

	case domain.ActionUnstake:
		amount, err := parseAmount(req.Amount, "Please input amount to unstake.")
		if err != nil {
			return action{}, err
		}
		return action{
			kind:    req.Kind,
			amounts: map[string]string{"amount": amount.String()},
			run: func(ctx context.Context) (outcome, error) {
				return o.unstake(ctx, ws.Address, amount)
			},
		}, nil

	case domain.ActionWithdrawLiquidity, domain.ActionRedeemReward:
		pct, err := parsePercentage(req.Percentage)
		if err != nil {
			return action{}, err
		}
		assets := sess.UserRecord().SummarizeAssets()
		if len(assets) == 0 {
			return action{}, domain.InputError("You have no liquidity position.")
		}
		kind := req.Kind
		return action{
			kind:    kind,
			amounts: map[string]string{"percentage": pct.String()},
			run: func(ctx context.Context) (outcome, error) {
				return o.poolShare(ctx, kind, ws.Address, pct, assets)
			},
		}, nil
	}

	return action{}, domain.InputError(fmt.Sprintf("Unknown action %q.", req.Kind))
}

func (o *Orchestrator) lock(ctx context.Context, w wallet.Wallet, address string, amount decimal.Decimal) (outcome, error) {
	assets := o.cfg.Assets

	snapshot, err := o.reader.LoadAccount(ctx, address)
	if err != nil {
		return outcome{}, err
	}

	if missing := snapshot.MissingTrustlines(assets.Blub); len(missing) > 0 {
		if err := o.addTrustlines(ctx, w, snapshot, missing); err != nil {
			return outcome{}, err
		}
		o.notify(domain.LevelInfo, domain.ActionLock, "Trustline added successfully.")

		// the trust transaction consumed a sequence number
		if snapshot, err = o.reader.LoadAccount(ctx, address); err != nil {
			return outcome{}, err
		}
	}

	env, err := o.compose(snapshot, lockTimeout, domain.Payment(assets.StakingSigner, assets.Aqua, amount))
	if err != nil {
		return outcome{}, err
	}
	signed, txHash, err := o.signAndSubmit(ctx, w, env)
	if err != nil {
		return outcome{}, err
	}

	req := backend.LockRequest{
		AssetCode:       assets.Aqua.Code,
		AssetIssuer:     assets.Aqua.Issuer,
		Amount:          txbuild.FormatAmount(amount),
		SignedTxXDR:     signed.SignedXDR,
		SenderPublicKey: address,
	}
	if o.cfg.Submission == config.SubmitLedger {
		req.TxHash = txHash
	}
	if _, err := o.backend.Lock(ctx, req); err != nil {
		return outcome{}, errors.Wrap(err, "record lock")
	}

	return outcome{txHash: txHash, message: fmt.Sprintf("%s locked successfully.", assets.Aqua.Code)}, nil
}

// addTrustlines runs a separate trust transaction, always submitted to the ledger directly.
func (o *Orchestrator) addTrustlines(ctx context.Context, w wallet.Wallet, snapshot domain.AccountSnapshot, assets []domain.Asset) error {
	ops := make([]domain.Operation, 0, len(assets))
	for _, asset := range assets {
		ops = append(ops, domain.ChangeTrust(asset, o.cfg.Assets.TrustLimit))
	}

	env, err := o.compose(snapshot, trustTimeout, ops...)
	if err != nil {
		return trustlineFailure(err)
	}
	_, res, err := o.pipeline.Run(ctx, w, env)
	if err != nil {
		return trustlineFailure(err)
	}

	o.logger.Info("trustline added", zap.String("hash", res.TxHash), zap.Int("assets", len(assets)))
	return nil
}

func trustlineFailure(cause error) error {
	return domain.Failure(domain.ErrTrustline, "Failed to add trustline. "+domain.UserMessage(cause), cause)
}

func (o *Orchestrator) provideLiquidity(ctx context.Context, w wallet.Wallet, address string, aquaAmount, blubAmount decimal.Decimal) (outcome, error) {
	assets := o.cfg.Assets

	snapshot, err := o.reader.LoadAccount(ctx, address)
	if err != nil {
		return outcome{}, err
	}
	if _, err := o.reader.LoadAccount(ctx, assets.LPSigner); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return outcome{}, domain.Failure(domain.ErrAccountNotFound, "Liquidity sponsor account does not exist.", err)
		}
		return outcome{}, err
	}

	env, err := o.compose(snapshot, liquidityTimeout,
		domain.Payment(assets.LPSigner, assets.Aqua, aquaAmount),
		domain.Payment(assets.LPSigner, assets.Blub, blubAmount),
	)
	if err != nil {
		return outcome{}, err
	}
	signed, txHash, err := o.signAndSubmit(ctx, w, env)
	if err != nil {
		return outcome{}, err
	}

	req := backend.AddLiquidityRequest{
		Asset1: backend.LiquidityAsset{
			Code:   assets.Aqua.Code,
			Issuer: assets.Aqua.Issuer,
			Amount: txbuild.FormatAmount(aquaAmount),
		},
		Asset2: backend.LiquidityAsset{
			Code:   assets.Blub.Code,
			Issuer: assets.Blub.Issuer,
			Amount: txbuild.FormatAmount(blubAmount),
		},
		SignedTxXDR:     signed.SignedXDR,
		SenderPublicKey: address,
	}
	if o.cfg.Submission == config.SubmitLedger {
		req.TxHash = txHash
	}
	if _, err := o.backend.AddLiquidity(ctx, req); err != nil {
		return outcome{}, errors.Wrap(err, "record liquidity")
	}

	return outcome{txHash: txHash, message: "Liquidity provided successfully."}, nil
}

func (o *Orchestrator) unstake(ctx context.Context, address string, amount decimal.Decimal) (outcome, error) {
	// the staked balance is validated by the backend
	if _, err := o.backend.Unstake(ctx, backend.UnstakeRequest{
		SenderPublicKey: address,
		Amount:          amount.String(),
	}); err != nil {
		return outcome{}, errors.Wrap(err, "record unstake")
	}
	return outcome{message: fmt.Sprintf("%s unstaked successfully.", o.cfg.Assets.Aqua.Code)}, nil
}

func (o *Orchestrator) poolShare(ctx context.Context, kind domain.ActionKind, address string, pct decimal.Decimal, assets []domain.SummarizedAsset) (outcome, error) {
	req := backend.PoolShareRequest{
		SenderPublicKey:    address,
		UserPoolPercentage: json.Number(pct.String()),
		SummarizedAssets:   assets,
	}

	if kind == domain.ActionRedeemReward {
		if _, err := o.backend.RedeemReward(ctx, req); err != nil {
			return outcome{}, errors.Wrap(err, "redeem reward")
		}
		return outcome{message: "Reward redeemed successfully."}, nil
	}

	if _, err := o.backend.RemoveLiquidity(ctx, req); err != nil {
		return outcome{}, errors.Wrap(err, "remove liquidity")
	}
	return outcome{message: "Liquidity withdrawn successfully."}, nil
}

// compose builds an envelope and applies the fee guard before anything is signed.
func (o *Orchestrator) compose(snapshot domain.AccountSnapshot, timeout time.Duration, ops ...domain.Operation) (txbuild.Envelope, error) {
	env, err := o.composer.Compose(snapshot, ops, txbuild.Options{
		BaseFee:           o.cfg.BaseFee,
		Timeout:           timeout,
		NetworkPassphrase: o.cfg.NetworkPassphrase,
	})
	if err != nil {
		return txbuild.Envelope{}, err
	}

	if !o.cfg.MaxFee.IsZero() && env.FeeXLM().GreaterThan(o.cfg.MaxFee) {
		return txbuild.Envelope{}, domain.InputError(fmt.Sprintf(
			"Transaction fee %s XLM exceeds the maximum of %s XLM.", env.FeeXLM(), o.cfg.MaxFee))
	}
	return env, nil
}

// signAndSubmit signs env; in ledger mode it also submits and returns the confirmed hash.
func (o *Orchestrator) signAndSubmit(ctx context.Context, w wallet.Wallet, env txbuild.Envelope) (txbuild.SignedEnvelope, string, error) {
	signed, err := o.pipeline.Sign(ctx, w, env)
	if err != nil {
		return txbuild.SignedEnvelope{}, "", err
	}
	if o.cfg.Submission != config.SubmitLedger {
		return signed, env.Hash, nil
	}

	res, err := o.pipeline.Submit(ctx, signed)
	if err != nil {
		return txbuild.SignedEnvelope{}, "", err
	}
	return signed, res.TxHash, nil
}
