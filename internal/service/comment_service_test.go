package service

import (
	"context"
	"errors"
	"testing"

	"github.com/iliyamo/property-rental/internal/model"
	"github.com/iliyamo/property-rental/internal/repository"
)

func intp(v int) *int      { return &v }
func idp(v uint64) *uint64 { return &v }

// newCommentFixture seeds one completed reservation for tenantID on
// propertyID and returns the comment service plus its backing stores.
func newCommentFixture() (*CommentService, *fakeCommentStore, *fakeProperties, *fakeReservationStore) {
	props := newFakeProperties()
	props.add(propertyID, ownerID, "Lakeside Cabin")
	reservations := newFakeReservationStore()
	reservations.rows[1] = &model.Reservation{
		ID: 1, TenantID: tenantID, PropertyID: propertyID, Status: model.StatusCompleted,
		StartDate: day("2026-06-01"), EndDate: day("2026-06-05"),
	}
	reservations.nextID = 1
	store := newFakeCommentStore(props)
	return NewCommentService(store, reservations, props), store, props, reservations
}

func TestCommentCreate_RequiresClosedReservation(t *testing.T) {
	svc, _, _, reservations := newCommentFixture()

	for _, status := range []string{model.StatusPending, model.StatusApproved, model.StatusDenied, model.StatusExpired, model.StatusCanceled} {
		reservations.rows[1].Status = status
		_, err := svc.Create(context.Background(), tenantID, 1, "great stay", nil, nil)
		if !errors.Is(err, ErrInvalidState) {
			t.Errorf("status %s: expected ErrInvalidState, got %v", status, err)
		}
	}

	for _, status := range []string{model.StatusTerminated, model.StatusCompleted} {
		svc, _, _, reservations := newCommentFixture()
		reservations.rows[1].Status = status
		_, err := svc.Create(context.Background(), tenantID, 1, "great stay", nil, nil)
		if err != nil {
			t.Errorf("status %s: expected success, got %v", status, err)
		}
	}
}

func TestCommentCreate_SingleRootPerReservation(t *testing.T) {
	svc, _, _, _ := newCommentFixture()

	root, err := svc.Create(context.Background(), tenantID, 1, "great stay", nil, nil)
	if err != nil {
		t.Fatalf("root: expected no error, got %v", err)
	}

	_, err = svc.Create(context.Background(), ownerID, 1, "second root", nil, nil)
	if !errors.Is(err, repository.ErrDuplicateRoot) {
		t.Errorf("Expected ErrDuplicateRoot, got %v", err)
	}

	// Replying to the existing root is fine.
	reply, err := svc.Create(context.Background(), ownerID, 1, "thanks for visiting", idp(root.ID), nil)
	if err != nil {
		t.Fatalf("reply: expected no error, got %v", err)
	}
	if reply.ParentID == nil || *reply.ParentID != root.ID {
		t.Errorf("Expected parent %d, got %v", root.ID, reply.ParentID)
	}
}

func TestCommentCreate_ThreadMismatch(t *testing.T) {
	svc, _, _, reservations := newCommentFixture()

	// A second closed reservation on the same property.
	reservations.rows[2] = &model.Reservation{
		ID: 2, TenantID: tenantID, PropertyID: propertyID, Status: model.StatusCompleted,
		StartDate: day("2026-07-01"), EndDate: day("2026-07-05"),
	}

	root, err := svc.Create(context.Background(), tenantID, 1, "great stay", nil, nil)
	if err != nil {
		t.Fatalf("root: expected no error, got %v", err)
	}

	// Parent from reservation 1, comment targeting reservation 2.
	_, err = svc.Create(context.Background(), tenantID, 2, "cross thread", idp(root.ID), nil)
	if !errors.Is(err, repository.ErrThreadMismatch) {
		t.Errorf("Expected ErrThreadMismatch, got %v", err)
	}

	// Unknown parent behaves the same.
	_, err = svc.Create(context.Background(), tenantID, 2, "ghost parent", idp(999), nil)
	if !errors.Is(err, repository.ErrThreadMismatch) {
		t.Errorf("unknown parent: expected ErrThreadMismatch, got %v", err)
	}
}

func TestCommentCreate_StrangerForbidden(t *testing.T) {
	svc, store, _, _ := newCommentFixture()

	// The reservation is Completed, the content and rating are valid and no
	// thread rule is violated; only the author check stands in the way.
	_, err := svc.Create(context.Background(), strangerID, 1, "drive-by review", nil, intp(1))
	if !errors.Is(err, repository.ErrForbidden) {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
	if len(store.rows) != 0 {
		t.Errorf("Expected nothing persisted, %d rows", len(store.rows))
	}
}

func TestCommentCreate_ReservationNotFound(t *testing.T) {
	svc, _, _, _ := newCommentFixture()

	_, err := svc.Create(context.Background(), tenantID, 999, "lost", nil, nil)
	if !errors.Is(err, repository.ErrReservationNotFound) {
		t.Errorf("Expected ErrReservationNotFound, got %v", err)
	}
}

func TestCommentCreate_Validation(t *testing.T) {
	svc, _, _, _ := newCommentFixture()

	if _, err := svc.Create(context.Background(), tenantID, 1, "   ", nil, nil); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("blank content: expected ErrEmptyContent, got %v", err)
	}
	for _, r := range []int{0, 6, -1} {
		if _, err := svc.Create(context.Background(), tenantID, 1, "ok", nil, intp(r)); !errors.Is(err, ErrInvalidRating) {
			t.Errorf("rating %d: expected ErrInvalidRating, got %v", r, err)
		}
	}
}

func TestRatingAggregation(t *testing.T) {
	svc, _, props, _ := newCommentFixture()

	// No rated comments yet: explicit zero, not absent.
	if got := props.ratings[propertyID]; got != 0 {
		t.Fatalf("Expected rating 0 before comments, got %v", got)
	}

	root, err := svc.Create(context.Background(), tenantID, 1, "great stay", nil, intp(4))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := props.ratings[propertyID]; got != 4.0 {
		t.Errorf("Expected rating 4.0 after single rating, got %v", got)
	}

	// An unrated reply does not move the aggregate.
	reply, err := svc.Create(context.Background(), ownerID, 1, "thanks", idp(root.ID), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := props.ratings[propertyID]; got != 4.0 {
		t.Errorf("Expected rating unchanged at 4.0, got %v", got)
	}

	// A second rating averages with one decimal of precision.
	if _, err := svc.Create(context.Background(), tenantID, 1, "more thoughts", idp(root.ID), intp(5)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := props.ratings[propertyID]; got != 4.5 {
		t.Errorf("Expected rating 4.5, got %v", got)
	}

	// Deleting the last rated comments drops the aggregate back to zero.
	for _, id := range []uint64{root.ID, reply.ID, reply.ID + 1} {
		_ = svc.Delete(context.Background(), tenantID, id)
		_ = svc.Delete(context.Background(), ownerID, id)
	}
	if got := props.ratings[propertyID]; got != 0 {
		t.Errorf("Expected rating 0 after removing ratings, got %v", got)
	}
}

func TestCommentUpdate_AuthorOnly(t *testing.T) {
	svc, _, props, _ := newCommentFixture()

	root, _ := svc.Create(context.Background(), tenantID, 1, "great stay", nil, intp(4))

	if _, err := svc.Update(context.Background(), ownerID, root.ID, "edited", nil); !errors.Is(err, repository.ErrForbidden) {
		t.Errorf("non-author: expected ErrForbidden, got %v", err)
	}

	got, err := svc.Update(context.Background(), tenantID, root.ID, "edited", intp(2))
	if err != nil {
		t.Fatalf("author: expected no error, got %v", err)
	}
	if got.Content != "edited" {
		t.Errorf("Expected content %q, got %q", "edited", got.Content)
	}
	if props.ratings[propertyID] != 2.0 {
		t.Errorf("Expected rating recomputed to 2.0, got %v", props.ratings[propertyID])
	}
}

func TestCommentUpdate_OmittedRatingKept(t *testing.T) {
	svc, _, props, _ := newCommentFixture()

	root, err := svc.Create(context.Background(), tenantID, 1, "great stay", nil, intp(4))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Editing only the content must not clear the stored rating.
	got, err := svc.Update(context.Background(), tenantID, root.ID, "great stay, would return", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.Rating == nil || *got.Rating != 4 {
		t.Errorf("Expected rating kept at 4, got %v", got.Rating)
	}
	if props.ratings[propertyID] != 4.0 {
		t.Errorf("Expected aggregate unchanged at 4.0, got %v", props.ratings[propertyID])
	}
}

func TestCommentDelete_AuthorOnly(t *testing.T) {
	svc, store, _, _ := newCommentFixture()

	root, _ := svc.Create(context.Background(), tenantID, 1, "great stay", nil, nil)

	if err := svc.Delete(context.Background(), ownerID, root.ID); !errors.Is(err, repository.ErrForbidden) {
		t.Errorf("non-author: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), tenantID, root.ID); err != nil {
		t.Errorf("author: expected no error, got %v", err)
	}
	if len(store.rows) != 0 {
		t.Errorf("Expected comment removed, %d rows remain", len(store.rows))
	}
}

func TestListByReservation_UnknownReservation(t *testing.T) {
	svc, _, _, _ := newCommentFixture()

	_, err := svc.ListByReservation(context.Background(), 999)
	if !errors.Is(err, repository.ErrReservationNotFound) {
		t.Errorf("Expected ErrReservationNotFound, got %v", err)
	}
}
