package domain

import "time"

// NotificationChannel represents the delivery channel for a notification
type NotificationChannel string

const (
	NotificationChannelInApp NotificationChannel = "in_app"
	NotificationChannelEmail NotificationChannel = "email"
	NotificationChannelSMS   NotificationChannel = "sms"
)

// Notification represents a user-facing notification record
type Notification struct {
	ID        string              `json:"id"`
	Recipient string              `json:"recipient"`
	Subject   string              `json:"subject"`
	Message   string              `json:"message"`
	Channel   NotificationChannel `json:"channel"`
	Read      bool                `json:"read"`
	CreatedAt time.Time           `json:"created_at"`
}

// NewNotification creates an unread notification
func NewNotification(recipient, subject, message string, channel NotificationChannel) *Notification {
	return &Notification{
		ID:        NewID("notif"),
		Recipient: recipient,
		Subject:   subject,
		Message:   message,
		Channel:   channel,
		CreatedAt: time.Now(),
	}
}
