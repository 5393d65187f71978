package domain

// WalletID identifies a supported wallet integration.
type WalletID string

const (
	// WalletSecret signs with a secret seed taken from the environment.
	WalletSecret WalletID = "secret"
	// WalletKeyfile signs with a seed stored in a passphrase-encrypted file.
	WalletKeyfile WalletID = "keyfile"
)

// WalletIDs lists supported wallet integrations.
var WalletIDs = []WalletID{WalletSecret, WalletKeyfile}

// IsValid checks if the WalletID value is supported.
func (w WalletID) IsValid() bool {
	return w == WalletSecret || w == WalletKeyfile
}

// String returns the string representation.
func (w WalletID) String() string {
	return string(w)
}

// WalletSession the connected wallet; Address is immutable while connected.
type WalletSession struct {
	WalletID WalletID `json:"walletId"`
	Address  string   `json:"address"`
}
