package sessionstate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/vadiminshakov/whalehub/internal/domain"
	"github.com/vadiminshakov/whalehub/internal/session"
)

const defaultStateDir = "./wal/session"

// Store persists the session per network so restarts keep the wallet choice and drafts.
type Store struct {
	path string
}

// NewStore creates a session state store under dir for the given scope (usually the network).
func NewStore(dir, scope string) (*Store, error) {
	if dir == "" {
		dir = defaultStateDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create session state dir")
	}

	name := sanitizeScope(scope)
	if name == "" {
		name = "session"
	}

	return &Store{path: filepath.Join(dir, fmt.Sprintf("%s.json", name))}, nil
}

// State represents all persisted session data. The user record is not kept:
// it is reloaded from the ledger and the backend after reconnecting.
type State struct {
	Wallet  *domain.WalletSession               `json:"wallet,omitempty"`
	Drafts  map[domain.ActionKind]session.Draft `json:"drafts,omitempty"`
	SavedAt time.Time                           `json:"saved_at"`
}

// FromView extracts the persisted part of a session view.
func FromView(v session.View) State {
	return State{
		Wallet:  v.Wallet,
		Drafts:  v.Drafts,
		SavedAt: time.Now().UTC(),
	}
}

// Load reads session state from disk. A missing file yields nil.
func (s *Store) Load() (*State, error) {
	if s == nil || s.path == "" {
		return nil, nil
	}

	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "read session state")
	}

	if len(payload) == 0 {
		return nil, nil
	}

	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, errors.Wrap(err, "decode session state")
	}

	return &state, nil
}

// Save writes session state to disk atomically via temp file.
func (s *Store) Save(state State) error {
	if s == nil || s.path == "" {
		return nil
	}

	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode session state")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return errors.Wrap(err, "write session state temp file")
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "persist session state")
	}

	return nil
}

func sanitizeScope(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return ""
	}

	var b strings.Builder

	prevUnderscore := false

	for _, r := range value {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)

			prevUnderscore = false

			continue
		}

		if !prevUnderscore {
			b.WriteByte('_')

			prevUnderscore = true
		}
	}

	return strings.Trim(b.String(), "_")
}
