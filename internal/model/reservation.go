package model

import "time"

// Reservation statuses.  The values are stored verbatim in the
// reservations.status column, so they must not be renamed.
//
// Lifecycle: a reservation is always created as Pending.  From Pending it
// moves to Approved, Denied, Canceled or Expired; an Approved reservation
// eventually ends as Terminated or Completed.  Denied, Expired and
// Canceled are terminal for booking purposes but do not open the
// reservation for comments.
const (
	StatusPending    = "Pending"
	StatusDenied     = "Denied"
	StatusExpired    = "Expired"
	StatusApproved   = "Approved"
	StatusCanceled   = "Canceled"
	StatusTerminated = "Terminated"
	StatusCompleted  = "Completed"
)

// DateLayout is the wire and storage format for reservation dates.  Ranges
// are whole days; the time component is always midnight UTC.
const DateLayout = "2006-01-02"

// Reservation records a tenant's booking request for a property over an
// inclusive date range.  TenantID is always taken from the authenticated
// principal, never from a client payload.
type Reservation struct {
	ID         uint64    // reservations.id
	TenantID   uint64    // reservations.tenant_id
	PropertyID uint64    // reservations.property_id
	Status     string    // reservations.status
	StartDate  time.Time // reservations.start_date (DATE)
	EndDate    time.Time // reservations.end_date (DATE)
	CreatedAt  time.Time // reservations.created_at
	UpdatedAt  time.Time // reservations.updated_at
}

// ValidStatus reports whether s is one of the known reservation statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusDenied, StatusExpired, StatusApproved,
		StatusCanceled, StatusTerminated, StatusCompleted:
		return true
	}
	return false
}

// ActiveStatus reports whether a reservation in status s blocks other
// reservations.  Only Pending and Approved reservations participate in
// conflict checks.
func ActiveStatus(s string) bool {
	return s == StatusPending || s == StatusApproved
}

// TerminalStatus reports whether a reservation in status s has closed.
// Comments may only be created against closed reservations.
func TerminalStatus(s string) bool {
	return s == StatusTerminated || s == StatusCompleted
}

// Overlaps reports whether the inclusive day ranges [s1,e1] and [s2,e2]
// intersect.  Ranges that touch on the same day count as overlapping;
// adjacency with at least a one-day gap does not.  Callers must pass
// well-formed ranges (start <= end).
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return !(e1.Before(s2) || s1.After(e2))
}
