// Package notify delivers one-shot user notifications: journaled once, then fanned out
// to live subscribers (the SSE stream and the console).
package notify

import (
	"sync"

	"go.uber.org/zap"

	"github.com/vadiminshakov/whalehub/internal/domain"
)

type notificationJournal interface {
	SaveNotification(n domain.Notification) error
}

// Hub fans out notifications to all subscribers via buffered channels.
type Hub struct {
	mu      sync.RWMutex
	subs    map[chan domain.Notification]struct{}
	buffer  int
	journal notificationJournal
	logger  *zap.Logger
}

// NewHub creates a hub with the given per-subscriber buffer. journal may be nil.
func NewHub(buffer int, journal notificationJournal, logger *zap.Logger) *Hub {
	if buffer < 1 {
		buffer = 64
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		subs:    make(map[chan domain.Notification]struct{}),
		buffer:  buffer,
		journal: journal,
		logger:  logger,
	}
}

// Notify creates and publishes a notification.
func (h *Hub) Notify(level domain.NotificationLevel, action domain.ActionKind, message string) domain.Notification {
	n := domain.NewNotification(level, action, message)
	h.Publish(n)
	return n
}

// Publish journals n and sends it to all subscribers, dropping if a reader is slow.
func (h *Hub) Publish(n domain.Notification) {
	if h.journal != nil {
		if err := h.journal.SaveNotification(n); err != nil {
			h.logger.Error("failed to journal notification", zap.String("id", n.ID), zap.Error(err))
		}
	}

	h.logger.Info("notification",
		zap.String("level", string(n.Level)),
		zap.String("action", string(n.Action)),
		zap.String("message", n.Message))

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- n:
		default:
			// drop slow consumer
		}
	}
}

// Subscribe returns a channel that receives notifications until Unsubscribe is called.
func (h *Hub) Subscribe() chan domain.Notification {
	ch := make(chan domain.Notification, h.buffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes the channel and closes it.
func (h *Hub) Unsubscribe(ch chan domain.Notification) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}
