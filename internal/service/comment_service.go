package service

import (
	"context"
	"strings"

	"github.com/iliyamo/property-rental/internal/model"
	"github.com/iliyamo/property-rental/internal/repository"
)

// CommentStore is the persistence surface of the comment thread.  Create
// runs as one transaction under the property row lock: it validates the
// thread shape (repository.ErrDuplicateRoot, repository.ErrThreadMismatch)
// and recomputes the property's aggregate rating before committing.
// Update and Delete recompute the rating the same way.
type CommentStore interface {
	Create(ctx context.Context, c *model.Comment) error
	Update(ctx context.Context, c *model.Comment) error
	Delete(ctx context.Context, id, propertyID uint64) error
	GetByID(ctx context.Context, id uint64) (*model.Comment, error)
	ListByReservation(ctx context.Context, reservationID uint64) ([]model.Comment, error)
	ListByProperty(ctx context.Context, propertyID uint64) ([]model.Comment, error)
}

// ReservationLookup resolves reservations for comment validation.
type ReservationLookup interface {
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
}

// CommentService validates comment threads: a reservation accepts comments
// only once it has closed (Terminated or Completed), holds exactly one
// root, and never mixes threads across reservations.
type CommentService struct {
	store        CommentStore
	reservations ReservationLookup
	properties   PropertyDirectory
}

// NewCommentService wires a CommentService.
func NewCommentService(store CommentStore, reservations ReservationLookup, properties PropertyDirectory) *CommentService {
	return &CommentService{store: store, reservations: reservations, properties: properties}
}

// Create adds a comment to reservationID's thread on behalf of userID.
// Only the tenant and the property owner may post, and only after the
// reservation has closed.  A nil parentID starts the thread; the store
// rejects a second root and any parent from another reservation.
func (s *CommentService) Create(ctx context.Context, userID, reservationID uint64, content string, parentID *uint64, rating *int) (*model.Comment, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	owner, err := s.properties.OwnerOf(ctx, res.PropertyID)
	if err != nil {
		return nil, err
	}
	if userID != res.TenantID && userID != owner {
		return nil, repository.ErrForbidden
	}
	if !model.TerminalStatus(res.Status) {
		return nil, ErrInvalidState
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if rating != nil && !model.ValidRating(*rating) {
		return nil, ErrInvalidRating
	}

	c := &model.Comment{
		UserID:        userID,
		ReservationID: reservationID,
		PropertyID:    res.PropertyID,
		Content:       content,
		ParentID:      parentID,
		Rating:        rating,
	}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update rewrites a comment's content and, when given, its rating.  An
// absent rating keeps the stored one so partial updates cannot silently
// drop a rating and move the property aggregate.  Only the author may
// edit; the thread position (reservation, parent) is immutable.
func (s *CommentService) Update(ctx context.Context, actorID, id uint64, content string, rating *int) (*model.Comment, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != actorID {
		return nil, repository.ErrForbidden
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if rating != nil {
		if !model.ValidRating(*rating) {
			return nil, ErrInvalidRating
		}
		c.Rating = rating
	}

	c.Content = content
	if err := s.store.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a comment.  Only the author may delete.
func (s *CommentService) Delete(ctx context.Context, actorID, id uint64) error {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.UserID != actorID {
		return repository.ErrForbidden
	}
	return s.store.Delete(ctx, id, c.PropertyID)
}

// Get returns a single comment.
func (s *CommentService) Get(ctx context.Context, id uint64) (*model.Comment, error) {
	return s.store.GetByID(ctx, id)
}

// ListByReservation returns a reservation's thread in creation order.
func (s *CommentService) ListByReservation(ctx context.Context, reservationID uint64) ([]model.Comment, error) {
	if _, err := s.reservations.GetByID(ctx, reservationID); err != nil {
		return nil, err
	}
	return s.store.ListByReservation(ctx, reservationID)
}

// ListByProperty returns every comment posted against a property.
func (s *CommentService) ListByProperty(ctx context.Context, propertyID uint64) ([]model.Comment, error) {
	return s.store.ListByProperty(ctx, propertyID)
}
