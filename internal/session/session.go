// Package session holds the state every action handler reads and reconciles:
// the connected wallet, the user record, drafts and the action tracker.
package session

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/vadiminshakov/whalehub/internal/actions"
	"github.com/vadiminshakov/whalehub/internal/domain"
	"github.com/vadiminshakov/whalehub/internal/wallet"
)

// Draft amounts typed by the user for one action, kept verbatim until the action succeeds.
type Draft struct {
	Amount     string `json:"amount,omitempty"`
	AquaAmount string `json:"aquaAmount,omitempty"`
	BlubAmount string `json:"blubAmount,omitempty"`
	Percentage string `json:"percentage,omitempty"`
}

// IsZero reports whether nothing was typed.
func (d Draft) IsZero() bool {
	return d == Draft{}
}

// View read-only copy of the session.
type View struct {
	Version    uint64                                   `json:"version"`
	Connected  bool                                     `json:"connected"`
	Wallet     *domain.WalletSession                    `json:"wallet,omitempty"`
	UserRecord domain.UserRecord                        `json:"userRecord"`
	Drafts     map[domain.ActionKind]Draft              `json:"drafts"`
	Actions    map[domain.ActionKind]domain.ActionState `json:"actions"`
}

// Session is the explicitly owned state of one user. Every mutation bumps the version.
type Session struct {
	mu       sync.RWMutex
	version  uint64
	wallet   *domain.WalletSession
	signer   wallet.Wallet
	record   domain.UserRecord
	drafts   map[domain.ActionKind]Draft
	tracker  *actions.Tracker
	onChange []func(View)
}

// New creates a disconnected session. A nil tracker gets a fresh one.
func New(tracker *actions.Tracker) *Session {
	if tracker == nil {
		tracker = actions.NewTracker()
	}
	return &Session{
		drafts:  make(map[domain.ActionKind]Draft),
		tracker: tracker,
	}
}

// Tracker returns the action tracker of the session.
func (s *Session) Tracker() *actions.Tracker {
	return s.tracker
}

// OnChange registers fn to receive the view after every mutation.
func (s *Session) OnChange(fn func(View)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// Connect attaches a wallet. The address stays fixed until Logout.
func (s *Session) Connect(ws domain.WalletSession, w wallet.Wallet) error {
	s.mu.Lock()
	if s.wallet != nil {
		current := s.wallet.Address
		s.mu.Unlock()
		return errors.Wrapf(domain.ErrAlreadyConnected, "connected as %s", current)
	}
	s.wallet = &ws
	s.signer = w
	s.record = domain.UserRecord{}
	s.mutated()
	return nil
}

// Logout drops the wallet, the user record and every draft.
func (s *Session) Logout() {
	s.mu.Lock()
	s.wallet = nil
	s.signer = nil
	s.record = domain.UserRecord{}
	s.drafts = make(map[domain.ActionKind]Draft)
	s.mutated()
}

// Signer returns the connected wallet and its session.
func (s *Session) Signer() (wallet.Wallet, domain.WalletSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.wallet == nil || s.signer == nil {
		return nil, domain.WalletSession{}, domain.ErrNotConnected
	}
	return s.signer, *s.wallet, nil
}

// Address returns the connected address.
func (s *Session) Address() (string, error) {
	_, ws, err := s.Signer()
	return ws.Address, err
}

// SetUserRecord replaces the user record wholesale.
func (s *Session) SetUserRecord(rec domain.UserRecord) {
	s.mu.Lock()
	s.record = rec
	s.mutated()
}

// UserRecord returns the current user record.
func (s *Session) UserRecord() domain.UserRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record
}

// SetDraft stores what the user typed for kind.
func (s *Session) SetDraft(kind domain.ActionKind, d Draft) {
	s.mu.Lock()
	if d.IsZero() {
		delete(s.drafts, kind)
	} else {
		s.drafts[kind] = d
	}
	s.mutated()
}

// Draft returns the draft of kind.
func (s *Session) Draft(kind domain.ActionKind) Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.drafts[kind]
}

// ClearDraft removes the draft of kind.
func (s *Session) ClearDraft(kind domain.ActionKind) {
	s.SetDraft(kind, Draft{})
}

// Drafts returns a copy of all drafts.
func (s *Session) Drafts() map[domain.ActionKind]Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyDrafts(s.drafts)
}

// RestoreDrafts replaces all drafts, used when loading persisted state.
func (s *Session) RestoreDrafts(drafts map[domain.ActionKind]Draft) {
	s.mu.Lock()
	s.drafts = copyDrafts(drafts)
	s.mutated()
}

// Version returns the mutation counter.
func (s *Session) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// View returns a consistent copy of the session.
func (s *Session) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	v := View{
		Version:    s.version,
		Connected:  s.wallet != nil,
		UserRecord: s.record,
		Drafts:     copyDrafts(s.drafts),
		Actions:    s.tracker.Snapshot(),
	}
	if s.wallet != nil {
		ws := *s.wallet
		v.Wallet = &ws
	}
	return v
}

// mutated bumps the version, releases the write lock and notifies observers.
func (s *Session) mutated() {
	s.version++
	view := s.viewLocked()
	observers := append(([]func(View))(nil), s.onChange...)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(view)
	}
}

func copyDrafts(in map[domain.ActionKind]Draft) map[domain.ActionKind]Draft {
	out := make(map[domain.ActionKind]Draft, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
