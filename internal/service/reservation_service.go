package service

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/property-rental/internal/model"
	"github.com/iliyamo/property-rental/internal/queue"
	"github.com/iliyamo/property-rental/internal/repository"
)

// PropertyDirectory is the subset of the property store the reservation
// and comment services need for authorization and event payloads.
type PropertyDirectory interface {
	OwnerOf(ctx context.Context, id uint64) (uint64, error)
	GetByID(ctx context.Context, id uint64) (*model.Property, error)
}

// ReservationStore is the persistence surface of the reservation engine.
// Create and Update are whole transactions: they lock the property row,
// run the conflict check and write atomically, returning
// repository.ErrReservationConflict when the dates collide with another
// pending or approved reservation.
type ReservationStore interface {
	Create(ctx context.Context, res *model.Reservation) error
	Update(ctx context.Context, res *model.Reservation) error
	Delete(ctx context.Context, id uint64) error
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	ListByProperty(ctx context.Context, propertyID uint64) ([]model.Reservation, error)
	ListByTenant(ctx context.Context, tenantID uint64) ([]model.Reservation, error)
}

// EventPublisher pushes a reservation event to the broker.  Publishing is
// best effort: the services log failures and carry on.
type EventPublisher func(ctx context.Context, ev queue.ReservationEvent) error

// ReservationService owns the reservation lifecycle: creation is always
// Pending, date ranges must be well formed, and every state change is
// mediated by tenant/owner authorization.
type ReservationService struct {
	store      ReservationStore
	properties PropertyDirectory
	publish    EventPublisher
}

// NewReservationService wires a ReservationService.  publish may be nil
// when no broker is configured.
func NewReservationService(store ReservationStore, properties PropertyDirectory, publish EventPublisher) *ReservationService {
	return &ReservationService{store: store, properties: properties, publish: publish}
}

// Create books propertyID for tenantID over the inclusive range
// [start,end].  A requested status other than Pending (or empty) is
// rejected with ErrInvalidStatus: reservations always enter the lifecycle
// as Pending.  The property owner is notified of the new request.
func (s *ReservationService) Create(ctx context.Context, tenantID, propertyID uint64, start, end time.Time, status string) (*model.Reservation, error) {
	if status != "" && status != model.StatusPending {
		return nil, ErrInvalidStatus
	}
	if end.Before(start) {
		return nil, ErrInvalidRange
	}
	owner, err := s.properties.OwnerOf(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	res := &model.Reservation{
		TenantID:   tenantID,
		PropertyID: propertyID,
		Status:     model.StatusPending,
		StartDate:  start,
		EndDate:    end,
	}
	if err := s.store.Create(ctx, res); err != nil {
		return nil, err
	}

	s.notify(ctx, queue.ActionCreated, res, owner, tenantID, owner)
	return res, nil
}

// ReservationUpdate carries the mutable reservation fields.  Tenant and
// property are fixed at creation; only dates and status move.
type ReservationUpdate struct {
	Status    string
	StartDate time.Time
	EndDate   time.Time
}

// Update applies upd to reservation id on behalf of actorID.  Both the
// tenant and the property owner may update; anyone else gets
// repository.ErrForbidden.  The date conflict check re-runs whenever the
// result stays active.  When the status changes, the other party is
// notified.
func (s *ReservationService) Update(ctx context.Context, actorID, id uint64, upd ReservationUpdate) (*model.Reservation, error) {
	res, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owner, err := s.properties.OwnerOf(ctx, res.PropertyID)
	if err != nil {
		return nil, err
	}
	if actorID != res.TenantID && actorID != owner {
		return nil, repository.ErrForbidden
	}
	if !model.ValidStatus(upd.Status) {
		return nil, ErrInvalidStatus
	}
	if upd.EndDate.Before(upd.StartDate) {
		return nil, ErrInvalidRange
	}

	prevStatus := res.Status
	res.Status = upd.Status
	res.StartDate = upd.StartDate
	res.EndDate = upd.EndDate
	if err := s.store.Update(ctx, res); err != nil {
		return nil, err
	}

	if res.Status != prevStatus {
		// Notify whichever party did not make the change.
		receiver := res.TenantID
		if actorID == res.TenantID {
			receiver = owner
		}
		s.notify(ctx, queue.ActionStatusChanged, res, owner, actorID, receiver)
	}
	return res, nil
}

// Delete removes reservation id.  Only the tenant who made the request
// may delete it; the property owner uses a status change (Denied,
// Terminated) instead.
func (s *ReservationService) Delete(ctx context.Context, actorID, id uint64) error {
	res, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if res.TenantID != actorID {
		return repository.ErrForbidden
	}
	return s.store.Delete(ctx, id)
}

// Get returns reservation id for the tenant or the property owner.
func (s *ReservationService) Get(ctx context.Context, actorID, id uint64) (*model.Reservation, error) {
	res, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owner, err := s.properties.OwnerOf(ctx, res.PropertyID)
	if err != nil {
		return nil, err
	}
	if actorID != res.TenantID && actorID != owner {
		return nil, repository.ErrForbidden
	}
	return res, nil
}

// ListByProperty returns a property's reservations for its owner.
func (s *ReservationService) ListByProperty(ctx context.Context, actorID, propertyID uint64) ([]model.Reservation, error) {
	owner, err := s.properties.OwnerOf(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if actorID != owner {
		return nil, repository.ErrForbidden
	}
	return s.store.ListByProperty(ctx, propertyID)
}

// ListMine returns the reservations tenantID has made, newest first.
func (s *ReservationService) ListMine(ctx context.Context, tenantID uint64) ([]model.Reservation, error) {
	return s.store.ListByTenant(ctx, tenantID)
}

func (s *ReservationService) notify(ctx context.Context, action string, res *model.Reservation, owner, sender, receiver uint64) {
	if s.publish == nil {
		return
	}
	title := ""
	if p, err := s.properties.GetByID(ctx, res.PropertyID); err == nil {
		title = p.Title
	}
	ev := queue.ReservationEvent{
		Action:        action,
		ReservationID: res.ID,
		PropertyID:    res.PropertyID,
		PropertyTitle: title,
		TenantID:      res.TenantID,
		OwnerID:       owner,
		Status:        res.Status,
		StartDate:     res.StartDate.Format(model.DateLayout),
		EndDate:       res.EndDate.Format(model.DateLayout),
		SenderID:      sender,
		ReceiverID:    receiver,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.publish(ctx, ev); err != nil {
		log.Printf("reservation-events: publish %s for reservation %d failed: %v", action, res.ID, err)
	}
}
