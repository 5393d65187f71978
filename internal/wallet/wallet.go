// Package wallet hides the supported signing integrations behind one interface.
package wallet

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/vadiminshakov/whalehub/internal/domain"
)

// SignOptions identifies who signs and for which network.
type SignOptions struct {
	Address           string
	NetworkPassphrase string
}

// Wallet is a signing integration.
type Wallet interface {
	// ID returns the integration identifier.
	ID() domain.WalletID
	// ResolveAddress returns the public key the wallet signs for.
	ResolveAddress(ctx context.Context) (string, error)
	// Sign returns the base64 envelope with the wallet's signature appended.
	Sign(ctx context.Context, envelopeXDR string, opts SignOptions) (string, error)
}

// Factory opens a wallet integration.
type Factory func() (Wallet, error)

// Registry maps wallet ids to their factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[domain.WalletID]Factory
	confirm   ConfirmFunc
}

// NewRegistry creates an empty registry. A non-nil confirm wraps every opened wallet
// with an interactive signing confirmation.
func NewRegistry(confirm ConfirmFunc) *Registry {
	return &Registry{
		factories: make(map[domain.WalletID]Factory),
		confirm:   confirm,
	}
}

// Register adds or replaces the factory of id.
func (r *Registry) Register(id domain.WalletID, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[id] = factory
}

// Open creates the wallet registered under id.
func (r *Registry) Open(id domain.WalletID) (Wallet, error) {
	if !id.IsValid() {
		return nil, errors.Wrapf(domain.ErrUnsupportedWallet, "wallet %q", id)
	}

	r.mu.RLock()
	factory, ok := r.factories[id]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(domain.ErrUnsupportedWallet, "wallet %q is not configured", id)
	}

	w, err := factory()
	if err != nil {
		return nil, errors.Wrapf(err, "open %s wallet", id)
	}
	if r.confirm != nil {
		w = WithConfirmation(w, r.confirm)
	}
	return w, nil
}
