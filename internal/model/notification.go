package model

import "time"

// Notification types emitted by the engine's lifecycle events.
const (
	NotificationRequest = "request"
	NotificationAccept  = "accept"
	NotificationDecline = "decline"
	NotificationMessage = "message"
)

// Notification is a durable record shown to its recipient until marked
// read. Read/unread is the only lifecycle after creation; the system never
// deletes them.
type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	RequestID   *string   `json:"request_id,omitempty"`
	SessionID   *string   `json:"session_id,omitempty"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}
