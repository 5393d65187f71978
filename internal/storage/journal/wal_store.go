package journal

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"github.com/vadiminshakov/whalehub/internal/domain"
)

const (
	DefaultDir   = "./wal/journal"
	segmentLimit = 100
	maxSegments  = 10

	intentKeyPrefix       = "intent_"
	notificationKeyPrefix = "notification_"
)

// WALStore journals action intents and notifications in one WAL, in write order.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore opens (or creates) the journal under dir.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = DefaultDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "journal_",
		SegmentThreshold: segmentLimit,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init journal WAL")
	}

	return &WALStore{wal: wal}, nil
}

// SaveIntent appends an intent status change.
func (s *WALStore) SaveIntent(intent domain.Intent) error {
	if intent.ID == "" {
		return fmt.Errorf("intent id is required")
	}
	if !intent.Kind.IsValid() {
		return fmt.Errorf("unknown intent kind %q", intent.Kind)
	}
	return s.append(intentKeyPrefix+string(intent.Kind), intent)
}

// SaveNotification appends a notification.
func (s *WALStore) SaveNotification(n domain.Notification) error {
	if n.ID == "" {
		return fmt.Errorf("notification id is required")
	}
	return s.append(notificationKeyPrefix+string(n.Level), n)
}

// IntentsAfter returns intent entries written after index.
func (s *WALStore) IntentsAfter(index uint64) ([]domain.IntentRecord, error) {
	var records []domain.IntentRecord
	err := s.scan(index, intentKeyPrefix, func(idx uint64, payload []byte) error {
		var intent domain.Intent
		if err := json.Unmarshal(payload, &intent); err != nil {
			return errors.Wrap(err, "decode intent")
		}
		records = append(records, domain.IntentRecord{Index: idx, Intent: intent})
		return nil
	})
	return records, err
}

// NotificationsAfter returns notifications written after index.
func (s *WALStore) NotificationsAfter(index uint64) ([]domain.NotificationRecord, error) {
	var records []domain.NotificationRecord
	err := s.scan(index, notificationKeyPrefix, func(idx uint64, payload []byte) error {
		var n domain.Notification
		if err := json.Unmarshal(payload, &n); err != nil {
			return errors.Wrap(err, "decode notification")
		}
		records = append(records, domain.NotificationRecord{Index: idx, Notification: n})
		return nil
	})
	return records, err
}

// UnfinishedIntents returns intents whose latest entry is still pending,
// e.g. runs interrupted by a restart. Ordered by journal index.
func (s *WALStore) UnfinishedIntents() ([]domain.IntentRecord, error) {
	all, err := s.IntentsAfter(0)
	if err != nil {
		return nil, err
	}

	latest := make(map[string]domain.IntentRecord, len(all))
	for _, rec := range all {
		latest[rec.Intent.ID] = rec
	}

	var pending []domain.IntentRecord
	for _, rec := range latest {
		if rec.Intent.Status == domain.IntentPending {
			pending = append(pending, rec)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].Index < pending[j].Index })
	return pending, nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("journal is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}

func (s *WALStore) append(key string, v interface{}) error {
	if s == nil || s.wal == nil {
		return errors.New("journal is not initialized")
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "marshal %s", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Write(s.wal.CurrentIndex()+1, key, payload)
}

func (s *WALStore) scan(index uint64, prefix string, fn func(idx uint64, payload []byte) error) error {
	if s == nil || s.wal == nil {
		return errors.New("journal is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	for idx := index + 1; idx <= current; idx++ {
		key, payload, ok := s.wal.Get(idx)
		if !ok || !strings.HasPrefix(key, prefix) {
			continue
		}
		if err := fn(idx, payload); err != nil {
			return err
		}
	}
	return nil
}
