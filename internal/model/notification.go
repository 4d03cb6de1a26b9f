package model

import "time"

// Notification is a message delivered to a user, either sent directly by
// another user or produced by the reservation event consumer when a
// reservation changes state.
type Notification struct {
	ID         uint64    // notifications.id
	SenderID   uint64    // notifications.sender_id
	ReceiverID uint64    // notifications.receiver_id
	Message    string    // notifications.message
	IsRead     bool      // notifications.is_read
	CreatedAt  time.Time // notifications.created_at
}
