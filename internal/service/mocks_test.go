package service

import (
	"context"
	"time"

	"github.com/iliyamo/property-rental/internal/model"
	"github.com/iliyamo/property-rental/internal/queue"
	"github.com/iliyamo/property-rental/internal/repository"
)

// In-memory stands-ins for the SQL stores.  They enforce the same rules
// the transactional repositories do (conflict detection over active
// reservations, single root per thread, rating recompute) so the services
// can be exercised end to end without a database.

type fakeProperties struct {
	owners  map[uint64]uint64
	titles  map[uint64]string
	ratings map[uint64]float64
}

func newFakeProperties() *fakeProperties {
	return &fakeProperties{
		owners:  make(map[uint64]uint64),
		titles:  make(map[uint64]string),
		ratings: make(map[uint64]float64),
	}
}

func (f *fakeProperties) add(id, owner uint64, title string) {
	f.owners[id] = owner
	f.titles[id] = title
}

func (f *fakeProperties) OwnerOf(_ context.Context, id uint64) (uint64, error) {
	owner, ok := f.owners[id]
	if !ok {
		return 0, repository.ErrPropertyNotFound
	}
	return owner, nil
}

func (f *fakeProperties) GetByID(_ context.Context, id uint64) (*model.Property, error) {
	owner, ok := f.owners[id]
	if !ok {
		return nil, repository.ErrPropertyNotFound
	}
	return &model.Property{
		ID:      id,
		OwnerID: owner,
		Title:   f.titles[id],
		Rating:  f.ratings[id],
	}, nil
}

type fakeReservationStore struct {
	nextID uint64
	rows   map[uint64]*model.Reservation
}

func newFakeReservationStore() *fakeReservationStore {
	return &fakeReservationStore{rows: make(map[uint64]*model.Reservation)}
}

func (f *fakeReservationStore) hasConflict(propertyID uint64, start, end time.Time, excludeID uint64) bool {
	for _, row := range f.rows {
		if row.ID == excludeID || row.PropertyID != propertyID {
			continue
		}
		if model.ActiveStatus(row.Status) && model.Overlaps(row.StartDate, row.EndDate, start, end) {
			return true
		}
	}
	return false
}

func (f *fakeReservationStore) Create(_ context.Context, res *model.Reservation) error {
	if f.hasConflict(res.PropertyID, res.StartDate, res.EndDate, 0) {
		return repository.ErrReservationConflict
	}
	f.nextID++
	res.ID = f.nextID
	cp := *res
	f.rows[res.ID] = &cp
	return nil
}

func (f *fakeReservationStore) Update(_ context.Context, res *model.Reservation) error {
	if _, ok := f.rows[res.ID]; !ok {
		return repository.ErrReservationNotFound
	}
	if f.hasConflict(res.PropertyID, res.StartDate, res.EndDate, res.ID) {
		return repository.ErrReservationConflict
	}
	cp := *res
	f.rows[res.ID] = &cp
	return nil
}

func (f *fakeReservationStore) Delete(_ context.Context, id uint64) error {
	if _, ok := f.rows[id]; !ok {
		return repository.ErrReservationNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeReservationStore) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	cp := *row
	return &cp, nil
}

func (f *fakeReservationStore) ListByProperty(_ context.Context, propertyID uint64) ([]model.Reservation, error) {
	out := make([]model.Reservation, 0)
	for _, row := range f.rows {
		if row.PropertyID == propertyID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *fakeReservationStore) ListByTenant(_ context.Context, tenantID uint64) ([]model.Reservation, error) {
	out := make([]model.Reservation, 0)
	for _, row := range f.rows {
		if row.TenantID == tenantID {
			out = append(out, *row)
		}
	}
	return out, nil
}

type fakeCommentStore struct {
	nextID uint64
	rows   map[uint64]*model.Comment
	props  *fakeProperties
}

func newFakeCommentStore(props *fakeProperties) *fakeCommentStore {
	return &fakeCommentStore{rows: make(map[uint64]*model.Comment), props: props}
}

func (f *fakeCommentStore) recompute(propertyID uint64) {
	ratings := make([]int, 0)
	for _, row := range f.rows {
		if row.PropertyID == propertyID && row.Rating != nil {
			ratings = append(ratings, *row.Rating)
		}
	}
	f.props.ratings[propertyID] = model.MeanRating(ratings)
}

func (f *fakeCommentStore) Create(_ context.Context, c *model.Comment) error {
	if c.ParentID != nil {
		parent, ok := f.rows[*c.ParentID]
		if !ok || parent.ReservationID != c.ReservationID {
			return repository.ErrThreadMismatch
		}
	} else {
		for _, row := range f.rows {
			if row.ReservationID == c.ReservationID && row.ParentID == nil {
				return repository.ErrDuplicateRoot
			}
		}
	}
	f.nextID++
	c.ID = f.nextID
	cp := *c
	f.rows[c.ID] = &cp
	f.recompute(c.PropertyID)
	return nil
}

func (f *fakeCommentStore) Update(_ context.Context, c *model.Comment) error {
	row, ok := f.rows[c.ID]
	if !ok {
		return repository.ErrCommentNotFound
	}
	row.Content = c.Content
	row.Rating = c.Rating
	f.recompute(row.PropertyID)
	return nil
}

func (f *fakeCommentStore) Delete(_ context.Context, id, propertyID uint64) error {
	if _, ok := f.rows[id]; !ok {
		return repository.ErrCommentNotFound
	}
	delete(f.rows, id)
	f.recompute(propertyID)
	return nil
}

func (f *fakeCommentStore) GetByID(_ context.Context, id uint64) (*model.Comment, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrCommentNotFound
	}
	cp := *row
	return &cp, nil
}

func (f *fakeCommentStore) ListByReservation(_ context.Context, reservationID uint64) ([]model.Comment, error) {
	out := make([]model.Comment, 0)
	for _, row := range f.rows {
		if row.ReservationID == reservationID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *fakeCommentStore) ListByProperty(_ context.Context, propertyID uint64) ([]model.Comment, error) {
	out := make([]model.Comment, 0)
	for _, row := range f.rows {
		if row.PropertyID == propertyID {
			out = append(out, *row)
		}
	}
	return out, nil
}

type eventLog struct {
	events []queue.ReservationEvent
}

func (l *eventLog) publish(_ context.Context, ev queue.ReservationEvent) error {
	l.events = append(l.events, ev)
	return nil
}

func day(t string) time.Time {
	d, err := time.Parse(model.DateLayout, t)
	if err != nil {
		panic(err)
	}
	return d
}
