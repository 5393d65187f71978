// Package domain defines core data structures shared by the staking client.
package domain

import "fmt"

// NativeAssetCode is the display code of the ledger's native asset.
const NativeAssetCode = "XLM"

// Asset issued asset on the ledger. The zero value is the native asset.
type Asset struct {
	// Code asset code, e.g. AQUA.
	Code string `json:"code"`
	// Issuer issuing account public key.
	Issuer string `json:"issuer"`
}

// NewAsset creates a credit asset.
func NewAsset(code, issuer string) Asset {
	return Asset{Code: code, Issuer: issuer}
}

// IsNative reports whether the asset is the native asset.
func (a Asset) IsNative() bool {
	return a.Code == "" && a.Issuer == ""
}

// String returns the CODE:ISSUER representation.
func (a Asset) String() string {
	if a.IsNative() {
		return NativeAssetCode
	}
	return fmt.Sprintf("%s:%s", a.Code, a.Issuer)
}

// Equal compares code and issuer.
func (a Asset) Equal(other Asset) bool {
	return a.Code == other.Code && a.Issuer == other.Issuer
}
