package wallet

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/pkg/errors"

	"github.com/vadiminshakov/whalehub/internal/domain"
	"github.com/vadiminshakov/whalehub/internal/txbuild"
)

// ConfirmFunc asks the user whether to sign the described transaction.
// It returns huh.ErrUserAborted when the prompt is dismissed.
type ConfirmFunc func(ctx context.Context, summary string) (bool, error)

type confirmingWallet struct {
	Wallet
	confirm ConfirmFunc
}

// WithConfirmation asks confirm before every signature of w.
func WithConfirmation(w Wallet, confirm ConfirmFunc) Wallet {
	return &confirmingWallet{Wallet: w, confirm: confirm}
}

func (w *confirmingWallet) Sign(ctx context.Context, envelopeXDR string, opts SignOptions) (string, error) {
	summary, err := Describe(envelopeXDR, opts.NetworkPassphrase)
	if err != nil {
		return "", err
	}

	ok, err := w.confirm(ctx, summary)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled) {
			return "", domain.ErrUserCancelled
		}
		return "", errors.Wrap(err, "signing confirmation failed")
	}
	if !ok {
		return "", domain.ErrSigningRejected
	}

	return w.Wallet.Sign(ctx, envelopeXDR, opts)
}

// Describe renders a human-readable summary of an envelope.
func Describe(envelopeXDR, passphrase string) (string, error) {
	decoded, err := txbuild.Decode(envelopeXDR, passphrase)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Source: %s\n", decoded.Source)
	fmt.Fprintf(&b, "Sequence: %d\n", decoded.Sequence)
	fmt.Fprintf(&b, "Fee: %s XLM\n", txbuild.StroopsToXLM(decoded.BaseFee*int64(len(decoded.Operations))))
	if !decoded.ValidUntil.IsZero() {
		fmt.Fprintf(&b, "Valid until: %s\n", decoded.ValidUntil.Format("2006-01-02 15:04:05 MST"))
	}
	for i, op := range decoded.Operations {
		fmt.Fprintf(&b, "%d. %s\n", i+1, op)
	}
	return b.String(), nil
}

// HuhConfirm prompts on the terminal.
func HuhConfirm(ctx context.Context, summary string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Sign transaction?").
				Description(summary).
				Affirmative("Sign").
				Negative("Reject").
				Value(&ok),
		),
	).RunWithContext(ctx)
	return ok, err
}
