package txbuild

import (
	"github.com/pkg/errors"
	"github.com/stellar/go/keypair"

	"github.com/vadiminshakov/whalehub/internal/domain"
)

// SignXDR adds a signature of kp for passphrase to the base64 envelope.
func SignXDR(envelopeXDR, passphrase string, kp *keypair.Full) (string, error) {
	tx, err := parse(envelopeXDR)
	if err != nil {
		return "", err
	}
	if tx.SourceAccount().AccountID != kp.Address() {
		return "", errors.Wrapf(domain.ErrWrongSigner, "envelope source %s differs from signer %s", tx.SourceAccount().AccountID, kp.Address())
	}

	signed, err := tx.Sign(passphrase, kp)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign transaction")
	}
	out, err := signed.Base64()
	if err != nil {
		return "", errors.Wrap(err, "failed to encode signed transaction")
	}
	return out, nil
}
