package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationLevel severity shown to the user.
type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelInfo    NotificationLevel = "info"
	LevelWarning NotificationLevel = "warning"
	LevelError   NotificationLevel = "error"
)

// Notification is a one-shot user-facing message.
type Notification struct {
	ID      string            `json:"id"`
	Time    time.Time         `json:"ts"`
	Level   NotificationLevel `json:"level"`
	Action  ActionKind        `json:"action,omitempty"`
	Message string            `json:"message"`
}

// NewNotification creates a notification with a fresh id.
func NewNotification(level NotificationLevel, action ActionKind, message string) Notification {
	return Notification{
		ID:      uuid.New().String(),
		Time:    time.Now().UTC(),
		Level:   level,
		Action:  action,
		Message: message,
	}
}

// NotificationRecord bundles a notification with its journal index.
type NotificationRecord struct {
	Index        uint64
	Notification Notification
}
