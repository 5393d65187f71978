// Package pipeline signs built envelopes with the connected wallet and submits them.
package pipeline

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/whalehub/internal/domain"
	"github.com/vadiminshakov/whalehub/internal/txbuild"
	"github.com/vadiminshakov/whalehub/internal/wallet"
)

type submitter interface {
	SubmitXDR(ctx context.Context, signedXDR string) (txbuild.Result, error)
}

// Pipeline runs serialize, sign and submit in sequence. Nothing is retried.
type Pipeline struct {
	submitter submitter
	logger    *zap.Logger
}

// New creates a pipeline submitting through s.
func New(s submitter, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{submitter: s, logger: logger}
}

// Sign asks w to sign env. The wallet may only add signatures.
func (p *Pipeline) Sign(ctx context.Context, w wallet.Wallet, env txbuild.Envelope) (txbuild.SignedEnvelope, error) {
	signedXDR, err := w.Sign(ctx, env.XDR, wallet.SignOptions{
		Address:           env.Source,
		NetworkPassphrase: env.NetworkPassphrase,
	})
	if err != nil {
		if errors.Is(err, domain.ErrWallet) {
			return txbuild.SignedEnvelope{}, errors.Wrap(err, "sign transaction")
		}
		return txbuild.SignedEnvelope{}, domain.Failure(domain.ErrWallet, "Failed to sign transaction.", err)
	}

	decoded, err := txbuild.Decode(signedXDR, env.NetworkPassphrase)
	if err != nil {
		return txbuild.SignedEnvelope{}, domain.Failure(domain.ErrWallet, "Wallet returned an invalid transaction.", err)
	}
	if decoded.Hash != env.Hash {
		return txbuild.SignedEnvelope{}, errors.Wrap(domain.ErrWrongSigner, "wallet returned a different transaction")
	}
	if decoded.Signatures == 0 {
		return txbuild.SignedEnvelope{}, errors.Wrap(domain.ErrSigningRejected, "wallet returned an unsigned transaction")
	}

	p.logger.Debug("transaction signed",
		zap.String("hash", env.Hash),
		zap.String("source", env.Source),
		zap.Int("operations", len(env.Operations)))

	return txbuild.SignedEnvelope{Envelope: env, SignedXDR: signedXDR}, nil
}

// Submit sends a signed envelope to the network.
func (p *Pipeline) Submit(ctx context.Context, signed txbuild.SignedEnvelope) (txbuild.Result, error) {
	res, err := p.submitter.SubmitXDR(ctx, signed.SignedXDR)
	if err != nil {
		p.logger.Warn("transaction submission failed", zap.String("hash", signed.Hash), zap.Error(err))
		return txbuild.Result{}, err
	}
	return res, nil
}

// Run signs and submits env.
func (p *Pipeline) Run(ctx context.Context, w wallet.Wallet, env txbuild.Envelope) (txbuild.SignedEnvelope, txbuild.Result, error) {
	signed, err := p.Sign(ctx, w, env)
	if err != nil {
		return txbuild.SignedEnvelope{}, txbuild.Result{}, err
	}
	res, err := p.Submit(ctx, signed)
	if err != nil {
		return signed, txbuild.Result{}, err
	}
	return signed, res, nil
}
