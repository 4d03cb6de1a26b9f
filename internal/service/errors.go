// Package service enforces the reservation lifecycle and comment thread
// rules on top of the storage layer.
package service

import "errors"

// Rule violations raised by the services.  Storage-level failures
// (not-found, conflicts, thread shape) surface as the repository package's
// sentinels instead.
var (
	// ErrInvalidStatus is returned when a reservation is created with a
	// status other than Pending, or updated to an unknown status.
	ErrInvalidStatus = errors.New("invalid reservation status")

	// ErrInvalidState is returned when a comment targets a reservation
	// that has not closed yet.
	ErrInvalidState = errors.New("reservation is not closed")

	// ErrInvalidRange is returned when a reservation's end date precedes
	// its start date.
	ErrInvalidRange = errors.New("end date precedes start date")

	// ErrInvalidRating is returned when a comment rating falls outside
	// the allowed range.
	ErrInvalidRating = errors.New("rating out of range")

	// ErrEmptyContent is returned when a comment has no body.
	ErrEmptyContent = errors.New("comment content is empty")
)
