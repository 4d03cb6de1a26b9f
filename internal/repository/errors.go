// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between failure scenarios with
// errors.Is and translate them into HTTP semantics at the boundary.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own (another tenant's reservation, another
// author's comment, another receiver's notification). Handlers translate
// this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrPropertyNotFound is returned when a referenced property does not
// exist, both from property lookups and from reservation writes that
// lock the property row first.
var ErrPropertyNotFound = errors.New("property not found")

// ErrReservationNotFound is returned when a reservation id does not
// resolve to a row.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrCommentNotFound is returned when a comment id does not resolve to a
// row.
var ErrCommentNotFound = errors.New("comment not found")

// ErrNotificationNotFound is returned when a notification id does not
// resolve to a row.
var ErrNotificationNotFound = errors.New("notification not found")

// ErrReservationConflict is returned when a reservation create or update
// would overlap an existing Pending or Approved reservation on the same
// property. Handlers translate this into an HTTP 409 response.
var ErrReservationConflict = errors.New("conflicting reservation for this property")

// ErrDuplicateRoot is returned when a root comment (no parent) is created
// for a reservation that already has one. Each reservation's thread has
// exactly one root.
var ErrDuplicateRoot = errors.New("a root comment already exists for this reservation")

// ErrThreadMismatch is returned when a comment names a parent that does
// not exist or that belongs to a different reservation.
var ErrThreadMismatch = errors.New("parent comment is not for the same reservation")
