package service

import (
	"context"
	"errors"
	"testing"

	"github.com/iliyamo/property-rental/internal/model"
	"github.com/iliyamo/property-rental/internal/queue"
	"github.com/iliyamo/property-rental/internal/repository"
)

const (
	ownerID    = 1
	tenantID   = 2
	strangerID = 3
	propertyID = 10
)

func newReservationFixture() (*ReservationService, *fakeReservationStore, *eventLog) {
	props := newFakeProperties()
	props.add(propertyID, ownerID, "Lakeside Cabin")
	store := newFakeReservationStore()
	events := &eventLog{}
	return NewReservationService(store, props, events.publish), store, events
}

func TestCreate_AlwaysPending(t *testing.T) {
	svc, _, _ := newReservationFixture()

	res, err := svc.Create(context.Background(), tenantID, propertyID, day("2026-09-01"), day("2026-09-05"), "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if res.Status != model.StatusPending {
		t.Errorf("Expected status Pending, got %s", res.Status)
	}
	if res.ID == 0 {
		t.Error("Expected assigned id, got 0")
	}
	if res.TenantID != tenantID {
		t.Errorf("Expected tenant %d, got %d", tenantID, res.TenantID)
	}
}

func TestCreate_RejectsNonPendingStatus(t *testing.T) {
	svc, store, _ := newReservationFixture()

	for _, status := range []string{model.StatusApproved, model.StatusCompleted, "Bogus"} {
		_, err := svc.Create(context.Background(), tenantID, propertyID, day("2026-09-01"), day("2026-09-05"), status)
		if !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("status %q: expected ErrInvalidStatus, got %v", status, err)
		}
	}
	if len(store.rows) != 0 {
		t.Errorf("Expected no stored reservations, got %d", len(store.rows))
	}
}

func TestCreate_RejectsBackwardRange(t *testing.T) {
	svc, _, _ := newReservationFixture()

	_, err := svc.Create(context.Background(), tenantID, propertyID, day("2026-09-05"), day("2026-09-01"), "")
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Expected ErrInvalidRange, got %v", err)
	}
}

func TestCreate_UnknownProperty(t *testing.T) {
	svc, _, _ := newReservationFixture()

	_, err := svc.Create(context.Background(), tenantID, 999, day("2026-09-01"), day("2026-09-05"), "")
	if !errors.Is(err, repository.ErrPropertyNotFound) {
		t.Errorf("Expected ErrPropertyNotFound, got %v", err)
	}
}

func TestCreate_ConflictWithActiveReservation(t *testing.T) {
	svc, _, _ := newReservationFixture()

	if _, err := svc.Create(context.Background(), tenantID, propertyID, day("2026-09-10"), day("2026-09-15"), ""); err != nil {
		t.Fatalf("seed reservation failed: %v", err)
	}

	cases := []struct {
		name       string
		start, end string
		conflict   bool
	}{
		{"identical range", "2026-09-10", "2026-09-15", true},
		{"contained", "2026-09-11", "2026-09-12", true},
		{"containing", "2026-09-08", "2026-09-20", true},
		{"overlaps tail", "2026-09-14", "2026-09-18", true},
		{"touches last day", "2026-09-15", "2026-09-20", true},
		{"touches first day", "2026-09-05", "2026-09-10", true},
		{"day after", "2026-09-16", "2026-09-20", false},
		{"day before", "2026-09-05", "2026-09-09", false},
	}
	for _, tc := range cases {
		_, err := svc.Create(context.Background(), strangerID, propertyID, day(tc.start), day(tc.end), "")
		if tc.conflict && !errors.Is(err, repository.ErrReservationConflict) {
			t.Errorf("%s: expected ErrReservationConflict, got %v", tc.name, err)
		}
		if !tc.conflict && err != nil {
			t.Errorf("%s: expected success, got %v", tc.name, err)
		}
	}
}

func TestCreate_NoConflictWithInactiveStatuses(t *testing.T) {
	svc, store, _ := newReservationFixture()

	for _, status := range []string{model.StatusDenied, model.StatusExpired, model.StatusCanceled, model.StatusTerminated, model.StatusCompleted} {
		store.rows = map[uint64]*model.Reservation{
			1: {ID: 1, TenantID: strangerID, PropertyID: propertyID, Status: status,
				StartDate: day("2026-09-10"), EndDate: day("2026-09-15")},
		}
		_, err := svc.Create(context.Background(), tenantID, propertyID, day("2026-09-10"), day("2026-09-15"), "")
		if err != nil {
			t.Errorf("status %s: expected success, got %v", status, err)
		}
	}
}

func TestCreate_NotifiesOwner(t *testing.T) {
	svc, _, events := newReservationFixture()

	res, err := svc.Create(context.Background(), tenantID, propertyID, day("2026-09-01"), day("2026-09-05"), "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(events.events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events.events))
	}
	ev := events.events[0]
	if ev.Action != queue.ActionCreated {
		t.Errorf("Expected action %s, got %s", queue.ActionCreated, ev.Action)
	}
	if ev.ReceiverID != ownerID || ev.SenderID != tenantID {
		t.Errorf("Expected event from %d to %d, got from %d to %d", tenantID, ownerID, ev.SenderID, ev.ReceiverID)
	}
	if ev.ReservationID != res.ID {
		t.Errorf("Expected reservation %d, got %d", res.ID, ev.ReservationID)
	}
	if ev.PropertyTitle != "Lakeside Cabin" {
		t.Errorf("Expected property title in event, got %q", ev.PropertyTitle)
	}
}

func TestUpdate_OwnerApproves(t *testing.T) {
	svc, _, events := newReservationFixture()

	res, _ := svc.Create(context.Background(), tenantID, propertyID, day("2026-09-01"), day("2026-09-05"), "")

	got, err := svc.Update(context.Background(), ownerID, res.ID, ReservationUpdate{
		Status: model.StatusApproved, StartDate: res.StartDate, EndDate: res.EndDate,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.Status != model.StatusApproved {
		t.Errorf("Expected status Approved, got %s", got.Status)
	}

	// Creation event plus the status change event for the tenant.
	if len(events.events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events.events))
	}
	ev := events.events[1]
	if ev.Action != queue.ActionStatusChanged {
		t.Errorf("Expected action %s, got %s", queue.ActionStatusChanged, ev.Action)
	}
	if ev.ReceiverID != tenantID {
		t.Errorf("Expected tenant %d notified, got %d", tenantID, ev.ReceiverID)
	}
	if ev.Status != model.StatusApproved {
		t.Errorf("Expected event status Approved, got %s", ev.Status)
	}
}

func TestUpdate_TenantCancelNotifiesOwner(t *testing.T) {
	svc, _, events := newReservationFixture()

	res, _ := svc.Create(context.Background(), tenantID, propertyID, day("2026-09-01"), day("2026-09-05"), "")

	_, err := svc.Update(context.Background(), tenantID, res.ID, ReservationUpdate{
		Status: model.StatusCanceled, StartDate: res.StartDate, EndDate: res.EndDate,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	ev := events.events[len(events.events)-1]
	if ev.ReceiverID != ownerID {
		t.Errorf("Expected owner %d notified, got %d", ownerID, ev.ReceiverID)
	}
}

func TestUpdate_StrangerForbidden(t *testing.T) {
	svc, _, _ := newReservationFixture()

	res, _ := svc.Create(context.Background(), tenantID, propertyID, day("2026-09-01"), day("2026-09-05"), "")

	_, err := svc.Update(context.Background(), strangerID, res.ID, ReservationUpdate{
		Status: model.StatusCanceled, StartDate: res.StartDate, EndDate: res.EndDate,
	})
	if !errors.Is(err, repository.ErrForbidden) {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
}

func TestUpdate_UnknownStatus(t *testing.T) {
	svc, _, _ := newReservationFixture()

	res, _ := svc.Create(context.Background(), tenantID, propertyID, day("2026-09-01"), day("2026-09-05"), "")

	_, err := svc.Update(context.Background(), tenantID, res.ID, ReservationUpdate{
		Status: "OnHold", StartDate: res.StartDate, EndDate: res.EndDate,
	})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("Expected ErrInvalidStatus, got %v", err)
	}
}

func TestUpdate_RechecksConflict(t *testing.T) {
	svc, _, _ := newReservationFixture()

	first, _ := svc.Create(context.Background(), tenantID, propertyID, day("2026-09-01"), day("2026-09-05"), "")
	second, _ := svc.Create(context.Background(), strangerID, propertyID, day("2026-09-10"), day("2026-09-15"), "")

	// Moving the second reservation onto the first must collide.
	_, err := svc.Update(context.Background(), strangerID, second.ID, ReservationUpdate{
		Status: model.StatusPending, StartDate: day("2026-09-03"), EndDate: day("2026-09-08"),
	})
	if !errors.Is(err, repository.ErrReservationConflict) {
		t.Errorf("Expected ErrReservationConflict, got %v", err)
	}

	// A reservation never conflicts with itself.
	_, err = svc.Update(context.Background(), tenantID, first.ID, ReservationUpdate{
		Status: model.StatusPending, StartDate: day("2026-09-02"), EndDate: day("2026-09-06"),
	})
	if err != nil {
		t.Errorf("Expected self-overlapping update to succeed, got %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _, _ := newReservationFixture()

	_, err := svc.Update(context.Background(), tenantID, 999, ReservationUpdate{
		Status: model.StatusPending, StartDate: day("2026-09-01"), EndDate: day("2026-09-05"),
	})
	if !errors.Is(err, repository.ErrReservationNotFound) {
		t.Errorf("Expected ErrReservationNotFound, got %v", err)
	}
}

func TestDelete_TenantOnly(t *testing.T) {
	svc, store, _ := newReservationFixture()

	res, _ := svc.Create(context.Background(), tenantID, propertyID, day("2026-09-01"), day("2026-09-05"), "")

	if err := svc.Delete(context.Background(), ownerID, res.ID); !errors.Is(err, repository.ErrForbidden) {
		t.Errorf("owner delete: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), tenantID, res.ID); err != nil {
		t.Errorf("tenant delete: expected no error, got %v", err)
	}
	if len(store.rows) != 0 {
		t.Errorf("Expected reservation removed, %d rows remain", len(store.rows))
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc, _, _ := newReservationFixture()

	if err := svc.Delete(context.Background(), tenantID, 999); !errors.Is(err, repository.ErrReservationNotFound) {
		t.Errorf("Expected ErrReservationNotFound, got %v", err)
	}
}

func TestListByProperty_OwnerOnly(t *testing.T) {
	svc, _, _ := newReservationFixture()

	svc.Create(context.Background(), tenantID, propertyID, day("2026-09-01"), day("2026-09-05"), "")

	if _, err := svc.ListByProperty(context.Background(), tenantID, propertyID); !errors.Is(err, repository.ErrForbidden) {
		t.Errorf("Expected ErrForbidden for non-owner, got %v", err)
	}
	list, err := svc.ListByProperty(context.Background(), ownerID, propertyID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(list) != 1 {
		t.Errorf("Expected 1 reservation, got %d", len(list))
	}
}

func TestListMine_EmptyIsNotAnError(t *testing.T) {
	svc, _, _ := newReservationFixture()

	list, err := svc.ListMine(context.Background(), tenantID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("Expected empty slice, got %v", list)
	}
}
