package models

import "time"

// NotificationType classifies human-readable push notifications.
type NotificationType string

const (
	NotificationBooking      NotificationType = "booking"
	NotificationCancellation NotificationType = "cancellation"
	NotificationInfo         NotificationType = "info"
)

// NotificationTimeLayout matches the timestamp format dashboards display.
const NotificationTimeLayout = "2006-01-02 15:04:05"

// Notification is pushed alongside state updates after a mutation.
type Notification struct {
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	Timestamp string           `json:"timestamp"`
}

// NewNotification stamps a notification with the given clock reading.
func NewNotification(kind NotificationType, message string, at time.Time) Notification {
	return Notification{Type: kind, Message: message, Timestamp: at.Format(NotificationTimeLayout)}
}
