package model

import "time"

// Rating bounds for rated comments.
const (
	RatingMin = 1
	RatingMax = 5
)

// Comment is one entry in a reservation's comment thread.  The thread is a
// flat arena of rows linked by ParentID: exactly one comment per
// reservation has a nil ParentID (the root), and every other comment
// points at a parent belonging to the same reservation.  A comment may
// optionally carry a 1-5 rating which feeds the property's aggregate
// rating.  PropertyID is denormalized from the reservation for rating
// aggregation and is server-assigned, never client-supplied.
type Comment struct {
	ID            uint64    // comments.id
	UserID        uint64    // comments.user_id
	ReservationID uint64    // comments.reservation_id
	PropertyID    uint64    // comments.property_id
	Content       string    // comments.content
	ParentID      *uint64   // comments.parent_comment_id (nullable)
	Rating        *int      // comments.rating (nullable)
	CreatedAt     time.Time // comments.created_at
	UpdatedAt     time.Time // comments.updated_at
}

// ValidRating reports whether r is an allowed star rating.
func ValidRating(r int) bool {
	return r >= RatingMin && r <= RatingMax
}
