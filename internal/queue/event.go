// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into notifications.
package queue

// Reservation event actions.
const (
	ActionCreated       = "created"
	ActionStatusChanged = "status_changed"
)

// ReservationEvent is published whenever a reservation is created or moves
// to a new status. It contains enough information for downstream consumers
// to compose a notification without querying the primary database.
type ReservationEvent struct {
	Action        string `json:"action"`
	ReservationID uint64 `json:"reservation_id"`
	PropertyID    uint64 `json:"property_id"`
	PropertyTitle string `json:"property_title"`
	TenantID      uint64 `json:"tenant_id"`
	OwnerID       uint64 `json:"owner_id"`
	Status        string `json:"status"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	SenderID      uint64 `json:"sender_id"`
	ReceiverID    uint64 `json:"receiver_id"`
	OccurredAt    string `json:"occurred_at"`
}
